package sprinthandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paysuite/internal/domain/auth"
	"paysuite/internal/domain/sprint"
	"paysuite/internal/transport/http/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func serve(t *testing.T, path string, authenticated bool) (int, envelope) {
	t.Helper()
	h := NewHandler(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), auth.RoleTable{})
	h.Now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authenticated {
		req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: auth.RoleEmployee}))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestListSprints(t *testing.T) {
	code, env := serve(t, "/sprints?count=3&anchor=2026-02-04", true)
	require.Equal(t, http.StatusOK, code)
	var windows []sprint.Window
	require.NoError(t, json.Unmarshal(env.Data, &windows))
	require.Len(t, windows, 3)
	assert.Equal(t, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), windows[0].Start)

	code, env = serve(t, "/sprints", true)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &windows))
	assert.Len(t, windows, defaultCount)

	code, env = serve(t, "/sprints?count=abc&anchor=bad", true)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation_error", env.Error.Code)

	code, _ = serve(t, "/sprints", false)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCurrentSprint(t *testing.T) {
	code, env := serve(t, "/sprints/current", true)
	require.Equal(t, http.StatusOK, code)
	var w sprint.Window
	require.NoError(t, json.Unmarshal(env.Data, &w))
	assert.Equal(t, 42, w.Number)

	code, env = serve(t, "/sprints/current?anchor=2027-01-04", true)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "no_current_sprint", env.Error.Code)
}
