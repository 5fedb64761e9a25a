package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpdesk/internal/auth"
	"helpdesk/internal/utils"
)

// RequireSelfOrRoles allows if {id} is the caller or the caller has one of roles.
func RequireSelfOrRoles(roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := append([]auth.Role(nil), roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := auth.FromContext(r.Context())
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if auth.InSet(s.Role, allowed...) || chi.URLParam(r, "id") == s.UserID {
				next.ServeHTTP(w, r)
				return
			}
			utils.Error(w, http.StatusForbidden, "forbidden")
		})
	}
}
