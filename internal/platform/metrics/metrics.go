package metrics

import (
	"sync/atomic"
	"time"
)

// Collector counts requests and payroll activity. A nil *Collector is a
// valid no-op.
type Collector struct {
	totalRequests    uint64
	errorRequests    uint64
	totalDurationMs  uint64
	computations     uint64
	payslipsRendered uint64
	payslipCacheHits uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordComputation() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.computations, 1)
}

func (c *Collector) RecordPayslip(cached bool) {
	if c == nil {
		return
	}
	if cached {
		atomic.AddUint64(&c.payslipCacheHits, 1)
		return
	}
	atomic.AddUint64(&c.payslipsRendered, 1)
}

func (c *Collector) Snapshot() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":            total,
		"errorsTotal":              errs,
		"avgDurationMs":            avg,
		"totalDurationMs":          totalMs,
		"payrollComputationsTotal": atomic.LoadUint64(&c.computations),
		"payslipsRenderedTotal":    atomic.LoadUint64(&c.payslipsRendered),
		"payslipCacheHitsTotal":    atomic.LoadUint64(&c.payslipCacheHits),
	}
}
