// Package session persists the CLI login session (access token and the
// account it belongs to) in the local SQLite database.
package session

import "context"

const (
	KeyAccessToken = "access_token"
	KeyUsername    = "username"
)

// Repository is a small key/value store. Get returns "" for absent keys.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
