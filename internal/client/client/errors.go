package client

import "errors"

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("username, phone or email already registered")
	ErrInvalidInput  = errors.New("invalid input")
	ErrTooManyTries  = errors.New("too many attempts, try again later")
	ErrNotFound      = errors.New("not found")
)
