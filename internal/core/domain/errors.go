package domain

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when a client is used before a
// successful login.
var ErrNotAuthenticated = errors.New("not authenticated: login required")

// AuthError wraps a login, refresh or OAuth token exchange failure.
type AuthError struct {
	Op  string // "login", "refresh", "oauth"
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth %s failed: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError builds an AuthError for the given operation.
func NewAuthError(op string, err error) *AuthError {
	return &AuthError{Op: op, Err: err}
}

// IsAuthError reports whether err is (or wraps) an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
