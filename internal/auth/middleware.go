// HTTP Basic authentication against the user store.
package auth

import (
	"context"
	"fmt"
	"net/http"
)

// Realm is sent in the WWW-Authenticate challenge.
const Realm = "TRDB"

type userContextKey struct{}

// IntoContext returns a copy of ctx carrying u.
func IntoContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// FromContext returns the authenticated user, if any.
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userContextKey{}).(User)
	return u, ok
}

// NewMiddleware returns a middleware requiring valid credentials. A nil
// store disables authentication and the middleware passes requests through.
func NewMiddleware(store *Store) func(http.Handler) http.Handler {
	if store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	challenge := fmt.Sprintf(`Basic realm=%q, charset="UTF-8"`, Realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			u, ok := store.Verify(name, password)
			if !ok {
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(IntoContext(r.Context(), u)))
		})
	}
}
