package token

import "errors"

// Public, stable errors for callers.
var (
	// ErrInvalidCredentials covers bad signatures and structurally broken tokens.
	ErrInvalidCredentials = errors.New("could not validate credentials")
	ErrTokenExpired       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")

	ErrConfig = errors.New("token config invalid")
)
