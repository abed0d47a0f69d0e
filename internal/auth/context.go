package auth

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	adminContextKey  contextKey = "admin_session"
	apiKeyContextKey contextKey = "api_key_hash"
)

// ContextWithAdmin adds verified admin session claims to the context.
func ContextWithAdmin(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, adminContextKey, claims)
}

// AdminFromContext retrieves admin session claims from the context.
// Returns nil if the request was not admin-authenticated.
func AdminFromContext(ctx context.Context) *SessionClaims {
	claims, ok := ctx.Value(adminContextKey).(*SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// ContextWithAPIKeyHash records the hash of the validated API key.
// The rate limiter uses it as a stable per-key identifier.
func ContextWithAPIKeyHash(ctx context.Context, keyHash string) context.Context {
	return context.WithValue(ctx, apiKeyContextKey, keyHash)
}

// APIKeyHashFromContext retrieves the validated key hash.
// Returns empty string if the request was not key-authenticated.
func APIKeyHashFromContext(ctx context.Context) string {
	hash, ok := ctx.Value(apiKeyContextKey).(string)
	if !ok {
		return ""
	}
	return hash
}
