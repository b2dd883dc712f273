package httpx

import (
	"net/http"
	"strings"

	"bookshelf/internal/identity"
)

const (
	MsgTokenMissing = "Authorization failed: token not found."
	MsgTokenInvalid = "Authorization failed: invalid token."
)

// BearerToken returns the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}

// AuthMiddleware admits requests whose bearer token resolves to a user and
// attaches that user to the request context.
func AuthMiddleware(resolver identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				Error(w, http.StatusUnauthorized, MsgTokenMissing, nil)
				return
			}

			u, err := resolver.GetUser(r.Context(), token)
			if err != nil || u.ID == "" {
				Error(w, http.StatusUnauthorized, MsgTokenInvalid, nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), u)))
		})
	}
}
