package middleware

import (
	"context"
	"fmt"
	"net/http"

	"paysuite/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}

// RequirePermission gates a route on one permission of the caller's role.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Authorize(w, r, store, permission) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authorize checks permission for the authenticated caller. On denial it
// writes the error envelope, naming the missing permission, and returns false.
func Authorize(w http.ResponseWriter, r *http.Request, store PermissionStore, permission string) bool {
	requestID := GetRequestID(r.Context())
	user, ok := GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return false
	}

	allowed, err := store.HasPermission(r.Context(), user.Role, permission)
	switch {
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", requestID)
		return false
	case !allowed:
		api.Fail(w, http.StatusForbidden, "forbidden", fmt.Sprintf("role %s lacks permission %s", user.Role, permission), requestID)
		return false
	}
	return true
}
