// Package client contains client-side building blocks for gophsignup.
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register, Login, Verify, ResendVerificationCode and Me.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the access token via an interceptor, applies a
//     per-call timeout and maps gRPC status codes to sentinel errors.
//  3. Session database bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite file and applying embedded goose migrations.
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrAlreadyExists,
// ErrInvalidInput, ErrTooManyTries, ErrNotFound.
package client
