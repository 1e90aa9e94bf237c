package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	authapp "github.com/aradsms/contactbook/internal/auth_service/app"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	AuthenticatedUserContextKey = ContextKey("authenticatedUser")
)

// AuthenticatedUser holds information about the authenticated user.
type AuthenticatedUser struct {
	ID       int64
	Username string
}

// TokenValidator is satisfied by *authapp.AuthService.
type TokenValidator interface {
	ValidateToken(token string) (*authapp.Claims, error)
}

// UserFromContext returns the user stored by AuthMiddleware.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	u, ok := ctx.Value(AuthenticatedUserContextKey).(AuthenticatedUser)
	return u, ok
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header.
func AuthMiddleware(validator TokenValidator, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(r.Context(), "Authorization header missing")
				unauthorized(w, "Authorization header required")
				return
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				logger.WarnContext(r.Context(), "Invalid Authorization header format")
				unauthorized(w, "Invalid Authorization header format")
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "Token validation failed", "error", err)
				unauthorized(w, "Invalid or expired token")
				return
			}

			authUser := AuthenticatedUser{ID: claims.UserID, Username: claims.Subject}
			ctx := context.WithValue(r.Context(), AuthenticatedUserContextKey, authUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
