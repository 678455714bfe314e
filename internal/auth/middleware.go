package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mercatus-io/storefront/internal/domain/user"
)

type identityKey struct{}

// IdentityFromContext extracts the verified caller identity stored by the
// Require middleware.
func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(user.Identity)
	return id, ok
}

// Require returns a middleware that rejects requests without a valid
// bearer token. The Authorization header may carry the raw token or a
// "Bearer <token>" value; both forms are accepted for compatibility with
// existing clients.
func Require(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			raw = strings.TrimPrefix(raw, "Bearer ")
			if raw == "" {
				unauthenticated(w)
				return
			}

			identity, err := tokens.Verify(raw)
			if err != nil {
				unauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns a middleware allowing only the listed roles past.
// It must run after Require.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				unauthenticated(w)
				return
			}
			if _, ok := allowed[identity.Role]; !ok {
				writeJSON(w, http.StatusForbidden, map[string]string{
					"error": "You are not allowed to make this request.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthenticated(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthenticated"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
