package handle

import (
	"context"

	"user-auth/internal/auth-service/core/service"
)

type claimsKey struct{}

// WithClaims attaches the authenticated caller to the request context.
func WithClaims(ctx context.Context, claims *service.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the caller's token claims, if the request was authenticated.
func ClaimsFromContext(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*service.Claims)
	return claims, ok
}

// actorArgs names the caller in audit log lines.
func actorArgs(ctx context.Context) []any {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims == nil {
		return []any{"actor", "anonymous"}
	}
	return []any{"actor_id", claims.UserId, "actor", claims.Username}
}
