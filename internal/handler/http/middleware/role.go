package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
	"github.com/turnilab/turni-backend-go/internal/handler/http/response"
)

// RequireFounder requires the founder role
func RequireFounder(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrFounderAccessRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrFounderAccessRequired)
			return
		}

		if role != string(user.RoleFounder) {
			response.HandleError(w, user.ErrFounderAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireManager requires the admin or founder role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		role := user.Role(roleStr)
		if role != user.RoleAdmin && role != user.RoleFounder {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
