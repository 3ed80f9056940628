package api

import (
	"errors"
	"net/http"

	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
	"github.com/arathikrishnaam/dueDash/cmd/internal/auth"
	"github.com/arathikrishnaam/dueDash/cmd/security/token"
)

// writeAppError is the single mapping from error kinds to responses. The auth
// guard reports through it as well.
func (h *Handler) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve apperr.ValidationError
		nf apperr.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		msg := ve.Reason
		if ve.Field != "" {
			msg = ve.Field + " " + ve.Reason
		}
		writeError(w, http.StatusBadRequest, "validation_error", msg, ve.Field)
	case errors.Is(err, apperr.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request", "")
	case errors.Is(err, auth.ErrUsernameTaken), apperr.IsConflict(err):
		writeError(w, http.StatusConflict, "username_taken", "Username already registered", "username")
	case errors.Is(err, token.ErrTokenExpired):
		unauthorized(w, "token_expired", "Token has expired")
	case errors.Is(err, token.ErrInvalidTokenType):
		unauthorized(w, "invalid_token_type", "Invalid token type")
	case errors.Is(err, token.ErrInvalidClaims):
		unauthorized(w, "invalid_claims", "Invalid token claims")
	case errors.Is(err, token.ErrInvalidCredentials):
		unauthorized(w, "invalid_credentials", invalidCredentialsMessage)
	case errors.As(err, &nf) && nf.Resource == "user":
		// The token's user vanished between the guard and the write.
		unauthorized(w, "invalid_credentials", invalidCredentialsMessage)
	case apperr.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", "Todo not found", "")
	case apperr.IsUnavailable(err):
		h.log.Warn("api.store.unavailable", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "database unavailable", "")
	default:
		h.log.Error("api.request.fail", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error", "")
	}
}

const invalidCredentialsMessage = "Could not validate credentials"

func unauthorized(w http.ResponseWriter, code, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, code, msg, "")
}
