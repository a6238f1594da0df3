package auth

import "github.com/pkg/errors"

var (
	ErrMissingToken         = errors.New("missing bearer token")
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	ErrEmptyPassword        = errors.New("empty password")
	ErrPasswordMismatch     = errors.New("password mismatch")
)
