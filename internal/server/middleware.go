package server

import (
	"context"
	"errors"
	"net/http"

	"authflow/internal/auth"
	"authflow/internal/i18n"
)

type ctxKey string

const accountIDContextKey ctxKey = "account_id"

// Request Gate messages.
const (
	msgNoToken      = "Authentication required: No token provided"
	msgInvalidToken = "Invalid token"
	msgTokenExpired = "Token expired"
	msgGateInternal = "Internal server error during authentication"
)

// requireAuth is the Request Gate. It accepts any validly signed, unexpired
// token from the session cookie; there is no revocation list.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.SessionToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, msgNoToken)
			return
		}

		accountID, err := s.Tokens.Verify(token)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrTokenExpired):
			writeError(w, http.StatusUnauthorized, msgTokenExpired)
			return
		case errors.Is(err, auth.ErrInvalidToken):
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		default:
			s.Logger.ErrorContext(r.Context(), "token verification failed", "error", err)
			writeError(w, http.StatusInternalServerError, msgGateInternal)
			return
		}

		ctx := context.WithValue(r.Context(), accountIDContextKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withRequestInfo attaches client address, user agent and locale for audit
// records and email localisation.
func (s *Server) withRequestInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.WithRequestInfo(r.Context(), auth.RequestInfo{
			IP:        clientIP(r, s.trustedProxies),
			UserAgent: r.UserAgent(),
			Locale:    i18n.LocaleFromRequest(r),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accountIDFromContext(ctx context.Context) string {
	if val, ok := ctx.Value(accountIDContextKey).(string); ok {
		return val
	}
	return ""
}
