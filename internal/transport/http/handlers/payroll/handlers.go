package payrollhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paysuite/internal/domain/auth"
	"paysuite/internal/domain/payroll"
	"paysuite/internal/transport/http/api"
	"paysuite/internal/transport/http/middleware"
	"paysuite/internal/transport/http/shared"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Service interface {
	Regime() payroll.Regime
	Preview(annualSalary decimal.Decimal) (payroll.Breakdown, error)
	EmployeeBreakdown(ctx context.Context, employeeID string) (payroll.Employee, payroll.Breakdown, error)
	RunMonth(ctx context.Context, period string) (payroll.RunSummary, error)
	ListPayslips(ctx context.Context, employeeID string) ([]payroll.PayslipRecord, error)
	PayslipPDF(ctx context.Context, employeeID, period string) ([]byte, error)
	RegisterXLSX(ctx context.Context, period string) ([]byte, error)
}

type Handler struct {
	Service  Service
	Perms    middleware.PermissionStore
	Logger   *zap.Logger
	// RunLimit guards payroll runs; nil disables it.
	RunLimit func(http.Handler) http.Handler
}

func NewHandler(service Service, perms middleware.PermissionStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Service: service, Perms: perms, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRegime, h.Perms)).Get("/regime", h.handleRegime)
		r.With(middleware.RequirePermission(auth.PermPayrollPreview, h.Perms)).Post("/preview", h.handlePreview)
		r.With(middleware.RequirePermission(auth.PermPayrollRun, h.Perms), h.runLimit()).Post("/runs", h.handleRunMonth)
		r.With(middleware.RequirePermission(auth.PermPayrollExport, h.Perms)).Get("/register/{file}", h.handleRegister)
		r.Route("/employees/{employeeID}", func(r chi.Router) {
			r.Use(middleware.RequirePermission(auth.PermPayrollSelf, h.Perms))
			r.Get("/breakdown", h.handleEmployeeBreakdown)
			r.Get("/payslips", h.handleListPayslips)
			r.Get("/payslips/{period}/pdf", h.handlePayslipPDF)
		})
	})
}

func (h *Handler) runLimit() func(http.Handler) http.Handler {
	if h.RunLimit != nil {
		return h.RunLimit
	}
	return func(next http.Handler) http.Handler { return next }
}

type previewRequest struct {
	AnnualSalary *decimal.Decimal `json:"annualSalary"`
}

type runRequest struct {
	Period string `json:"period"`
}

type employeeBreakdownResponse struct {
	Employee  payroll.Employee  `json:"employee"`
	Breakdown payroll.Breakdown `json:"breakdown"`
}

func (h *Handler) handleRegime(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Regime(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var payload previewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Amount("annualSalary", payload.AnnualSalary)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	breakdown, err := h.Service.Preview(*payload.AnnualSalary)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, breakdown, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeeBreakdown(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employeeAccess(w, r)
	if !ok {
		return
	}
	employee, breakdown, err := h.Service.EmployeeBreakdown(r.Context(), employeeID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, employeeBreakdownResponse{Employee: employee, Breakdown: breakdown}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunMonth(w http.ResponseWriter, r *http.Request) {
	var payload runRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Period("period", payload.Period)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	summary, err := h.Service.RunMonth(r.Context(), strings.TrimSpace(payload.Period))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPayslips(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employeeAccess(w, r)
	if !ok {
		return
	}
	records, err := h.Service.ListPayslips(r.Context(), employeeID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslipPDF(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.employeeAccess(w, r)
	if !ok {
		return
	}
	period := chi.URLParam(r, "period")
	pdf, err := h.Service.PayslipPDF(r.Context(), employeeID, period)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Attachment(w, contentTypePDF, "payslip-"+employeeID+"-"+period+".pdf", pdf)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	period, ok := strings.CutSuffix(file, ".xlsx")
	if !ok {
		api.Fail(w, http.StatusNotFound, "not_found", "register is only available as .xlsx", middleware.GetRequestID(r.Context()))
		return
	}
	data, err := h.Service.RegisterXLSX(r.Context(), period)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Attachment(w, contentTypeXLSX, "payroll-register-"+period+".xlsx", data)
}

// employeeAccess allows payroll-wide readers and the employee themself.
func (h *Handler) employeeAccess(w http.ResponseWriter, r *http.Request) (string, bool) {
	employeeID := chi.URLParam(r, "employeeID")
	if user, ok := middleware.GetUser(r.Context()); ok && user.EmployeeID != "" && user.EmployeeID == employeeID {
		return employeeID, true
	}
	if !middleware.Authorize(w, r, h.Perms, auth.PermPayrollReadAll) {
		return "", false
	}
	return employeeID, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrInvalidSalary):
		api.Fail(w, http.StatusBadRequest, "invalid_salary", err.Error(), requestID)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be formatted YYYY-MM", requestID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	case errors.Is(err, payroll.ErrPayslipNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestID)
	case errors.Is(err, payroll.ErrSalaryMissing):
		api.Fail(w, http.StatusConflict, "salary_missing", "employee has no salary on record", requestID)
	default:
		h.Logger.Error("payroll request failed", zap.String("path", r.URL.Path), zap.String("requestId", requestID), zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "payroll request failed", requestID)
	}
}
