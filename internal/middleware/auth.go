package middleware

import (
	"context"
	"errors"
	"net/http"

	"TODOAPP_BACK-END/internal/auth"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/models"
	"TODOAPP_BACK-END/internal/utils"
)

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

// Authenticator resolves a raw token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth reads the token from header and lets the request through only
// when the authenticator accepts it. The user and the raw token are then
// available through UserFromContext and TokenFromContext.
func RequireAuth(gate Authenticator, header string, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(header)

			user, err := gate.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrLookupFailed) {
					log.Error(r.Context(), "auth lookup failed", "error", err)
				} else {
					log.Debug(r.Context(), "request rejected", "error", err)
				}
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "unauthorised")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// TokenFromContext returns the raw token attached by RequireAuth.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok && t != ""
}
