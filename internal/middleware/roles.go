package middleware

import (
	"net/http"

	"appnity/internal/apperr"
	"appnity/internal/models"
	"appnity/internal/reqctx"
	helpers "appnity/internal/utils/helpers"
)

const forbiddenMsg = "You do not have permission to perform this action."

// AnyRole пропускает пользователей с одной из ролей. Админ проходит всегда.
// Ставится ПОСЛЕ JWTAuth, чтобы роль уже была в контексте.
func AnyRole(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(allowedRoles)+1)
	for _, r := range allowedRoles {
		roleSet[r] = struct{}{}
	}
	roleSet[models.RoleAdmin] = struct{}{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := reqctx.GetRole(r.Context())
			if !ok {
				helpers.WriteError(w, r, apperr.Unauthorized("Authentication credentials were not provided."))
				return
			}
			if _, found := roleSet[role]; !found {
				helpers.WriteError(w, r, apperr.Forbidden(forbiddenMsg))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff: admin или editor.
func RequireStaff(next http.Handler) http.Handler {
	return AnyRole(models.RoleEditor)(next)
}
