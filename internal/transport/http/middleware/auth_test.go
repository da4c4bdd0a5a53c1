package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paysuite/internal/domain/auth"
	"paysuite/internal/transport/http/api"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", EmployeeID: "e1", Role: auth.RoleHR}, time.Hour)
	require.NoError(t, err)

	called := false
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := GetUser(r.Context())
		require.True(t, ok)
		assert.Equal(t, auth.UserContext{UserID: "u1", EmployeeID: "e1", Role: auth.RoleHR}, user)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestAuthMiddlewareIgnoresBadTokens(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := GetUser(r.Context())
		assert.False(t, ok)
	}))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

type brokenPerms struct{}

func (brokenPerms) HasPermission(context.Context, string, string) (bool, error) {
	return false, errors.New("boom")
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	cases := []struct {
		name    string
		user    *auth.UserContext
		store   PermissionStore
		want    int
		code    string
		message string
	}{
		{"anonymous", nil, auth.RoleTable{}, http.StatusUnauthorized, "unauthorized", "authentication required"},
		{"forbidden", &auth.UserContext{Role: auth.RoleEmployee}, auth.RoleTable{}, http.StatusForbidden, "forbidden", "role Employee lacks permission payroll.run"},
		{"allowed", &auth.UserContext{Role: auth.RoleHR}, auth.RoleTable{}, http.StatusNoContent, "", ""},
		{"store error", &auth.UserContext{Role: auth.RoleHR}, brokenPerms{}, http.StatusInternalServerError, "permission_error", "permission check failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.user != nil {
				req = req.WithContext(WithUser(req.Context(), *tc.user))
			}
			rec := httptest.NewRecorder()
			RequirePermission(auth.PermPayrollRun, tc.store)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
			if tc.code != "" {
				var env api.Envelope
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
				assert.False(t, env.Success)
				assert.Equal(t, tc.code, env.Error.Code)
				assert.Equal(t, tc.message, env.Error.Message)
			}
		})
	}
}
