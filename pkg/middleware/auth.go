package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/bookstore/pkg/auth"
	"github.com/shashiranjanraj/bookstore/pkg/logger"
	"github.com/shashiranjanraj/bookstore/pkg/response"
)

type identityKey struct{}

type identity struct {
	userID uint
	role   string
}

// TokenVerifier is satisfied by *auth.Issuer.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// attaches the caller's identity to the request context.
func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				response.Unauthorized(w)
				return
			}

			claims, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				logger.WithCtx(r.Context()).Debug("rejected token", "error", err)
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := WithIdentity(r.Context(), claims.UserID, claims.Role)
			if log := logger.WithCtx(ctx); log != nil {
				ctx = logger.InjectLogger(ctx, log.With("user_id", claims.UserID))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity stores an authenticated user in ctx.
func WithIdentity(ctx context.Context, userID uint, role string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity{userID: userID, role: role})
}

// UserID returns the authenticated user stored in ctx.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(identityKey{}).(identity)
	if !ok {
		return 0, false
	}
	return id.userID, true
}

func UserIDFromCtx(r *http.Request) (uint, bool) {
	return UserID(r.Context())
}

func RoleFromCtx(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(identityKey{}).(identity)
	if !ok {
		return "", false
	}
	return id.role, true
}
