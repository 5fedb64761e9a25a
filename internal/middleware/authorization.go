package middleware

import (
	"net/http"

	"helpdesk/internal/auth"
	"helpdesk/internal/utils"
)

// RequireRoles allows the request only if the session's role is in roles.
// It must run after Authenticate.
func RequireRoles(roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := append([]auth.Role(nil), roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := auth.FromContext(r.Context())
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !auth.InSet(s.Role, allowed...) {
				utils.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCapability gates a route on the roles holding c.
func RequireCapability(c auth.Capability) func(http.Handler) http.Handler {
	return RequireRoles(auth.RolesWith(c)...)
}
