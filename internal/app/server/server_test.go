package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paysuite/internal/domain/auth"
	"paysuite/internal/domain/payroll"
	"paysuite/internal/platform/config"
	"paysuite/internal/platform/metrics"
)

type emptyStore struct{}

func (emptyStore) GetEmployee(context.Context, string) (payroll.EmployeePayrollData, error) {
	return payroll.EmployeePayrollData{}, payroll.ErrEmployeeNotFound
}
func (emptyStore) ListActiveEmployees(context.Context) ([]payroll.EmployeePayrollData, error) {
	return nil, nil
}
func (emptyStore) UpsertPayslip(context.Context, string, string, payroll.Breakdown) (payroll.PayslipRecord, error) {
	return payroll.PayslipRecord{}, nil
}
func (emptyStore) ListPayslips(context.Context, string) ([]payroll.PayslipRecord, error) {
	return nil, nil
}
func (emptyStore) GetPayslip(context.Context, string, string) (payroll.PayslipRecord, error) {
	return payroll.PayslipRecord{}, payroll.ErrPayslipNotFound
}
func (emptyStore) ListRegister(context.Context, string) ([]payroll.RegisterRow, error) {
	return nil, nil
}

type staticLogin struct{ token string }

func (s staticLogin) Login(context.Context, string, string) (auth.Session, error) {
	return auth.Session{AccessToken: s.token, Role: auth.RoleHR}, nil
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "router-secret",
		AccessTokenTTL: time.Hour,
		MaxBodyBytes:   1 << 20,
		SprintAnchor:   "2026-01-05",
	}
}

func TestRouterEndToEnd(t *testing.T) {
	cfg := testConfig()
	collector := metrics.New()
	tok, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{UserID: "u1", Role: auth.RoleHR}, time.Hour)
	require.NoError(t, err)

	svc := payroll.NewService(emptyStore{}, nil, nil, nil).UseMetrics(collector)
	router := NewRouter(cfg, zap.NewNop(), collector, Deps{Payroll: svc, Auth: staticLogin{token: tok}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"hr@example.com","password":"x"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/preview", strings.NewReader(`{"annualSalary":600000}`))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sprints/current", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data map[string]float64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, float64(4), env.Data["requestsTotal"])
	assert.Equal(t, float64(1), env.Data["payrollComputationsTotal"])
}

func TestReadyz(t *testing.T) {
	down := NewRouter(testConfig(), zap.NewNop(), nil, Deps{Ready: func(context.Context) error { return errors.New("down") }})
	rec := httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	up := NewRouter(testConfig(), zap.NewNop(), nil, Deps{Ready: func(context.Context) error { return nil }})
	rec = httptest.NewRecorder()
	up.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	up.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewWithDatabase(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	cfg := testConfig()
	cfg.DatabaseURL = dsn
	cfg.MigrationsDir = "../../../migrations"
	cfg.RunMigrations = true
	cfg.MetricsEnabled = true

	app, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
