// Package middleware holds the HTTP middleware: bearer token
// authentication and request tracing.
package middleware

import (
	"net/http"
	"strings"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/service/auth"
)

// Authenticator validates bearer tokens and stamps the user ID onto the
// request context.
type Authenticator struct {
	jwt auth.JWTService
}

// NewAuthenticator creates an Authenticator backed by the given JWT
// service.
func NewAuthenticator(jwt auth.JWTService) *Authenticator {
	return &Authenticator{jwt: jwt}
}

// Middleware rejects requests without a valid access token with 401 and
// otherwise passes them through with the user ID in the context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		userID, err := a.jwt.ValidateAccessToken(r.Context(), token)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "could not validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), userID)))
	})
}
