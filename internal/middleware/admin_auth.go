package middleware

import (
	"log/slog"
	"net/http"

	"github.com/womencount/womencount/internal/auth"
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "admin_session"

// AdminAuthConfig holds configuration for the admin auth middleware.
type AdminAuthConfig struct {
	Logger        *slog.Logger
	SessionSecret string
}

// AdminAuth returns a middleware that authenticates the admin console.
// A missing session cookie is 401; an invalid or expired token is 403.
func AdminAuth(cfg AdminAuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing session token")
				return
			}

			claims, err := auth.VerifySessionToken(cfg.SessionSecret, cookie.Value)
			if err != nil {
				cfg.Logger.Warn("admin authentication failed",
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Invalid session token")
				return
			}

			ctx := auth.ContextWithAdmin(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
