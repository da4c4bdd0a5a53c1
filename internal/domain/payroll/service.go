package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paysuite/internal/requestctx"
)

// SalaryOpener decrypts a sealed annual salary.
type SalaryOpener interface {
	OpenAmount(sealed []byte) (decimal.Decimal, error)
}

// PayslipCache stores rendered payslip PDFs. Misses return ok=false and a nil error.
type PayslipCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Metrics interface {
	RecordComputation()
	RecordPayslip(cached bool)
}

type Service struct {
	store    StoreAPI
	calc     *Calculator
	salaries SalaryOpener
	logger   *zap.Logger
	cache    PayslipCache
	cacheTTL time.Duration
	metrics  Metrics
	company  string
	now      func() time.Time
}

func NewService(store StoreAPI, calc *Calculator, salaries SalaryOpener, logger *zap.Logger) *Service {
	if calc == nil {
		calc = defaultCalculator
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		calc:     calc,
		salaries: salaries,
		logger:   logger,
		company:  "Company",
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) UseCache(cache PayslipCache, ttl time.Duration) *Service {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

func (s *Service) UseMetrics(metrics Metrics) *Service {
	s.metrics = metrics
	return s
}

func (s *Service) UseCompanyName(name string) *Service {
	if name != "" {
		s.company = name
	}
	return s
}

func (s *Service) Regime() Regime {
	return s.calc.Regime()
}

// Preview computes a breakdown for an arbitrary salary without touching storage.
func (s *Service) Preview(annualSalary decimal.Decimal) (Breakdown, error) {
	b, err := s.calc.Compute(annualSalary)
	if err != nil {
		return Breakdown{}, err
	}
	s.recordComputation()
	return b, nil
}

func (s *Service) EmployeeBreakdown(ctx context.Context, employeeID string) (Employee, Breakdown, error) {
	data, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, Breakdown{}, err
	}
	salary, err := s.salaryOf(data)
	if err != nil {
		return Employee{}, Breakdown{}, err
	}
	b, err := s.Preview(salary)
	if err != nil {
		return Employee{}, Breakdown{}, err
	}
	return data.Employee, b, nil
}

func (s *Service) salaryOf(data EmployeePayrollData) (decimal.Decimal, error) {
	if data.SalaryPlain != nil {
		return *data.SalaryPlain, nil
	}
	if len(data.SalaryEnc) == 0 {
		return decimal.Zero, ErrSalaryMissing
	}
	if s.salaries == nil {
		return decimal.Zero, errors.New("salary is encrypted but no data encryption key is configured")
	}
	salary, err := s.salaries.OpenAmount(data.SalaryEnc)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decrypt salary: %w", err)
	}
	return salary, nil
}

// RunMonth computes and stores one payslip per active employee. Re-running a
// period overwrites its payslips. Employees that cannot be computed are
// reported in Skipped instead of failing the run.
func (s *Service) RunMonth(ctx context.Context, period string) (RunSummary, error) {
	period, err := NormalizePeriod(period)
	if err != nil {
		return RunSummary{}, err
	}
	employees, err := s.store.ListActiveEmployees(ctx)
	if err != nil {
		return RunSummary{}, fmt.Errorf("list employees: %w", err)
	}

	summary := RunSummary{Period: period, Skipped: []SkippedEmployee{}}
	for _, data := range employees {
		salary, err := s.salaryOf(data)
		if err != nil {
			reason := SkipReasonDecryptFailed
			if errors.Is(err, ErrSalaryMissing) {
				reason = SkipReasonSalaryMissing
			}
			s.logger.Warn("payroll run skipped employee", zap.String("employeeId", data.ID), zap.String("period", period), requestctx.Field(ctx), zap.Error(err))
			summary.Skipped = append(summary.Skipped, SkippedEmployee{EmployeeID: data.ID, Reason: reason})
			continue
		}
		b, err := s.Preview(salary)
		if err != nil {
			summary.Skipped = append(summary.Skipped, SkippedEmployee{EmployeeID: data.ID, Reason: SkipReasonInvalidSalary})
			continue
		}
		if _, err := s.store.UpsertPayslip(ctx, data.ID, period, b); err != nil {
			return RunSummary{}, fmt.Errorf("store payslip for %s: %w", data.ID, err)
		}
		s.invalidate(ctx, data.ID, period)

		summary.Processed++
		summary.TotalGross += b.GrossSalary
		summary.TotalDeductions += b.TotalDeductions
		summary.TotalNet += b.NetSalary
	}

	s.logger.Info("payroll run completed",
		zap.String("period", period),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Int64("totalNet", summary.TotalNet),
		requestctx.Field(ctx))
	return summary, nil
}

func (s *Service) ListPayslips(ctx context.Context, employeeID string) ([]PayslipRecord, error) {
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	records, err := s.store.ListPayslips(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []PayslipRecord{}
	}
	return records, nil
}

// PayslipPDF renders the payslip of one employee for one period. A stored
// payslip from a payroll run wins; otherwise the current salary is used.
// Only PDFs of stored payslips are cached, so salary changes show up at once
// on periods that have not been run.
func (s *Service) PayslipPDF(ctx context.Context, employeeID, period string) ([]byte, error) {
	period, err := NormalizePeriod(period)
	if err != nil {
		return nil, err
	}
	key := payslipCacheKey(employeeID, period)
	if cached, ok := s.cacheGet(ctx, key); ok {
		s.recordPayslip(true)
		return cached, nil
	}

	data, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	var b Breakdown
	stored := false
	record, err := s.store.GetPayslip(ctx, employeeID, period)
	switch {
	case err == nil:
		b = record.Breakdown
		stored = true
	case errors.Is(err, ErrPayslipNotFound):
		salary, err := s.salaryOf(data)
		if err != nil {
			return nil, err
		}
		if b, err = s.Preview(salary); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	pdf, err := RenderPayslip(PayslipDocument{
		Company:     s.company,
		Employee:    data.Employee,
		Period:      period,
		Breakdown:   b,
		GeneratedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	s.recordPayslip(false)
	if stored {
		s.cacheSet(ctx, key, pdf)
	}
	return pdf, nil
}

func (s *Service) RegisterXLSX(ctx context.Context, period string) ([]byte, error) {
	period, err := NormalizePeriod(period)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListRegister(ctx, period)
	if err != nil {
		return nil, err
	}
	return RenderRegister(period, rows)
}

func payslipCacheKey(employeeID, period string) string {
	return "payslip:" + employeeID + ":" + period
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	value, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("payslip cache get failed", zap.String("key", key), requestctx.Field(ctx), zap.Error(err))
		return nil, false
	}
	return value, ok
}

func (s *Service) cacheSet(ctx context.Context, key string, value []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("payslip cache set failed", zap.String("key", key), requestctx.Field(ctx), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, employeeID, period string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, payslipCacheKey(employeeID, period)); err != nil {
		s.logger.Warn("payslip cache delete failed", zap.String("employeeId", employeeID), zap.Error(err))
	}
}

func (s *Service) recordComputation() {
	if s.metrics != nil {
		s.metrics.RecordComputation()
	}
}

func (s *Service) recordPayslip(cached bool) {
	if s.metrics != nil {
		s.metrics.RecordPayslip(cached)
	}
}
