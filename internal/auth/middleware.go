package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/talentbridge/api/internal/models"
	pkghttp "github.com/talentbridge/api/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing the authenticated user in context
	UserContextKey contextKey = "user"
)

// UserFetcher loads the user attached to the request context. The projection
// must not include the password hash.
type UserFetcher interface {
	GetByIDPublic(ctx context.Context, id string) (*models.User, error)
}

// RequireUser validates the session cookie and injects the current user into
// the request context. The user is reloaded from the database on every
// request, so revoked flags and changed emails take effect immediately even
// though the token itself is stateless.
func RequireUser(tm *TokenManager, users UserFetcher) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := GetSessionCookie(r)
			if err != nil || tokenString == "" {
				pkghttp.WriteUnauthorized(w, "Authentication required")
				return
			}

			claims, err := tm.ValidateSessionToken(tokenString)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Invalid or expired session")
				return
			}

			user, err := users.GetByIDPublic(r.Context(), claims.UserID)
			if err != nil {
				// A token for a deleted user is as good as no token
				if errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteUnauthorized(w, "Invalid or expired session")
					return
				}
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			if !user.IsVerified {
				pkghttp.WriteUnauthorized(w, "Authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin enforces admin access. Must be used after RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r)
		if user == nil {
			pkghttp.WriteUnauthorized(w, "Authentication required")
			return
		}

		if !user.IsVerified || !user.IsAdmin {
			pkghttp.WriteForbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSuperAdmin enforces super-admin access by comparing the current
// user's email against the configured address. RequireUser reloads the user
// per request, so changing either side of the comparison revokes access
// without touching tokens. Must be used after RequireUser.
func RequireSuperAdmin(superAdminEmail string) func(next http.Handler) http.Handler {
	superAdminEmail = strings.ToLower(strings.TrimSpace(superAdminEmail))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r)
			if user == nil {
				pkghttp.WriteUnauthorized(w, "Authentication required")
				return
			}

			if superAdminEmail == "" || !strings.EqualFold(user.Email, superAdminEmail) {
				pkghttp.WriteForbidden(w, "Super admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
