package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bearister/auth-service/internal/api/types"
	"github.com/bearister/auth-service/internal/models"
	appErr "github.com/bearister/auth-service/pkg/errors"
)

type userKeyType string

const UserKey userKeyType = "user"

// Authenticator resolves a bearer access token to an existing account.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// Auth requires a valid Bearer access token and stores the resolved user in
// the request context.
func Auth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				unauthorized(w)
				return
			}
			tokenStr := strings.TrimSpace(ah[len("Bearer "):])
			if tokenStr == "" {
				unauthorized(w)
				return
			}
			user, err := a.Authenticate(r.Context(), tokenStr)
			if err != nil {
				types.WriteError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user, or nil outside Auth.
func CurrentUser(ctx context.Context) *models.User {
	if u, ok := ctx.Value(UserKey).(*models.User); ok {
		return u
	}
	return nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	types.WriteJSON(w, http.StatusUnauthorized, types.ErrorResponse{Detail: "Could not validate credentials", Code: string(appErr.CodeUnauthorized)})
}
