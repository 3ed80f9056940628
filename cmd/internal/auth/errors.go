package auth

import (
	"fmt"

	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
	"github.com/arathikrishnaam/dueDash/cmd/security/token"
)

var (
	// ErrUsernameTaken is returned by Signup; it also matches apperr.ErrConflict.
	ErrUsernameTaken = fmt.Errorf("%w: username already registered", apperr.ErrConflict)

	ErrInvalidCredentials = token.ErrInvalidCredentials
)
