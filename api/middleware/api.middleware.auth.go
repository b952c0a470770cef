// FilePath: api/middleware/api.middleware.auth.go
package middleware

import (
	"context"
	"net/http"

	"github.com/agrimesh/irrihub/internal/errors"
)

// UserIDHeader carries the authenticated account id. The gateway in front
// of this service terminates the user session and injects the header;
// requests reaching us without it are unauthenticated.
const UserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

type GatewayAuth struct{}

func NewGatewayAuth() *GatewayAuth {
	return &GatewayAuth{}
}

// Authenticate requires the gateway identity header and stores the user id
// in the request context.
func (a *GatewayAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			handleError(w, errors.NewAuthError("missing user identity", nil))
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user id from the request context, or ""
// when the request skipped authentication.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*errors.APIError); ok {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
