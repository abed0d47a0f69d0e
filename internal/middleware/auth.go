package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/womencount/womencount/internal/auth"
)

// APIKeyHeader is the header carrying the API key.
const APIKeyHeader = "X-API-Key"

// KeyValidator checks whether a token belongs to an active API key.
type KeyValidator interface {
	Validate(ctx context.Context, token string) (bool, error)
}

// AuthConfig holds configuration for the API key auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Keys   KeyValidator
}

// APIKeyAuth returns a middleware that authenticates API requests.
// A missing key is 401, an invalid or inactive key is 403. A store
// failure during validation is 500: authorization is never guessed.
func APIKeyAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extractAPIKey(r)
			if key == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_key"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing API key")
				return
			}

			valid, err := cfg.Keys.Validate(r.Context(), key)
			if err != nil {
				cfg.Logger.Error("store error during auth",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusInternalServerError, "STORE_UNAVAILABLE", "Could not validate API key")
				return
			}

			if !valid {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_key"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Invalid or inactive API key")
				return
			}

			ctx := auth.ContextWithAPIKeyHash(r.Context(), auth.QuickHash(key))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractAPIKey extracts the API key from the request.
// Supports both "X-API-Key: <key>" and "Authorization: Bearer <key>".
func extractAPIKey(r *http.Request) string {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return key
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"` + code + `"}`))
}
