package middleware

import (
	"net/http"
	"strings"

	"user-auth/internal/auth-service/adapters/driver/myhttp/handle"
	"user-auth/internal/auth-service/core/myerrors"
	"user-auth/internal/auth-service/core/ports/driver"
)

type AuthMiddleware struct {
	authService driver.IAuthService
	required    bool
}

// NewAuthMiddleware returns a pass-through middleware when required is false.
func NewAuthMiddleware(authService driver.IAuthService, required bool) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		required:    required,
	}
}

func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	if !am.required {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			handle.WriteError(w, myerrors.ErrMissingToken)
			return
		}

		claims, err := am.authService.Authenticate(r.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			handle.WriteError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(handle.WithClaims(r.Context(), claims)))
	})
}
