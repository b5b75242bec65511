package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/webvibe/supportdesk/internal/services/session"
	"github.com/webvibe/supportdesk/pkg/httpext"
)

type contextKey string

const (
	sessionKey contextKey = "session"
)

// WithSession resolves or starts the caller's session and stores it in the
// request context. There is no sign-in; the cookie only ties requests together.
func WithSession(sessionService *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userSession, err := sessionService.GetOrCreate(w, r)
			if err != nil {
				log.Error().
					Err(err).
					Str("path", r.URL.Path).
					Msg("Failed to resolve session")
				httpext.JsonError(w, http.StatusInternalServerError, httpext.CodeInternal, "Session unavailable")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, userSession)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession retrieves the session stored by WithSession, or nil.
func GetSession(r *http.Request) *session.UserSession {
	if userSession, ok := r.Context().Value(sessionKey).(*session.UserSession); ok {
		return userSession
	}
	return nil
}
