package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	userdomain "subtrack-go/internal/domain/user"
)

// Identity is the caller as claimed via headers. There is no verification
// behind either value.
type Identity struct {
	UserID string
	Role   userdomain.Role
}

type contextKey int

const identityKey contextKey = iota

// WithIdentity reads X-Role and X-User-Id into the request context. Absent
// or unrecognized roles fall back to "user".
func WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := Identity{
			UserID: strings.TrimSpace(r.Header.Get("X-User-Id")),
			Role:   userdomain.ParseRole(r.Header.Get("X-Role")),
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func IdentityFromContext(ctx context.Context) Identity {
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok {
		return Identity{Role: userdomain.RoleUser}
	}
	return identity
}

// RequireRoles gates a route on the claimed role. An empty list passes
// everyone; admin always passes.
func RequireRoles(roles ...userdomain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if len(roles) == 0 || identity.Role == userdomain.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			names := make([]string, 0, len(roles))
			for _, role := range roles {
				names = append(names, string(role))
			}
			writeForbidden(w, names, string(identity.Role))
		})
	}
}

func writeForbidden(w http.ResponseWriter, required []string, actual string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code": "forbidden",
			"message": "Diese Aktion erfordert eine der folgenden Rollen: " +
				strings.Join(required, ", ") + ". Ihre aktuelle Rolle ist: " + actual,
		},
	})
}
