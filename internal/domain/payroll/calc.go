package payroll

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	half   = decimal.New(5, -1)
	twelve = decimal.NewFromInt(12)

	// maxMonthly leaves headroom so summed components and TDS stay in int64.
	maxMonthly = decimal.NewFromInt(math.MaxInt64 / 4)

	defaultCalculator = NewCalculator(DefaultRegime())
)

// round rounds half toward positive infinity, so 157.5 -> 158 and -2.5 -> -2.
func round(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

type Option func(*Calculator)

// WithStrictInput makes Compute reject negative annual salaries with
// ErrInvalidSalary instead of computing them.
func WithStrictInput() Option {
	return func(c *Calculator) {
		c.strict = true
	}
}

// Calculator turns an annual CTC into a monthly statutory breakdown under a
// fixed Regime. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	regime Regime
	strict bool
}

func NewCalculator(regime Regime, opts ...Option) *Calculator {
	c := &Calculator{regime: regime}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Regime returns a copy of the bound regime.
func (c *Calculator) Regime() Regime {
	out := c.regime
	out.ProfessionalTax = append([]Band(nil), c.regime.ProfessionalTax...)
	out.TDS = append([]Slab(nil), c.regime.TDS...)
	return out
}

func (c *Calculator) Strict() bool {
	return c.strict
}

// PF is the employee provident fund share, capped at the statutory wage ceiling.
func (c *Calculator) PF(basicSalary int64) int64 {
	base := basicSalary
	if base > c.regime.PF.WageCeiling {
		base = c.regime.PF.WageCeiling
	}
	return round(decimal.NewFromInt(base).Mul(c.regime.PF.Rate))
}

// ESI is a hard cutoff: above the threshold the employee is out of the scheme.
func (c *Calculator) ESI(grossSalary int64) int64 {
	if grossSalary > c.regime.ESI.GrossThreshold {
		return 0
	}
	return round(decimal.NewFromInt(grossSalary).Mul(c.regime.ESI.Rate))
}

func (c *Calculator) ProfessionalTax(grossSalary int64) int64 {
	var amount int64
	for _, band := range c.regime.ProfessionalTax {
		if grossSalary > band.Above {
			amount = band.Amount
		}
	}
	return amount
}

// AnnualTax applies the slab schedule to a yearly income.
func (c *Calculator) AnnualTax(annualIncome decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	for _, slab := range c.regime.TDS {
		from := decimal.NewFromInt(slab.From)
		if !annualIncome.GreaterThan(from) {
			break
		}
		tax = decimal.NewFromInt(slab.Base).Add(annualIncome.Sub(from).Mul(slab.Rate))
	}
	return tax
}

// TDS is the monthly share of the annual tax liability.
func (c *Calculator) TDS(annualIncome decimal.Decimal) int64 {
	return round(c.AnnualTax(annualIncome).Div(twelve))
}

// Compute builds the full breakdown. Each earning is rounded on its own
// before summing, so GrossSalary can drift a unit or two from MonthlySalary.
// TDS is taken on the annual input, not on GrossSalary*12.
func (c *Calculator) Compute(annualSalary decimal.Decimal) (Breakdown, error) {
	if c.strict && annualSalary.IsNegative() {
		return Breakdown{}, ErrInvalidSalary
	}
	if annualSalary.Abs().Div(twelve).GreaterThan(maxMonthly) {
		return Breakdown{}, fmt.Errorf("%w: monthly salary above %s", ErrInvalidSalary, maxMonthly.String())
	}

	split := c.regime.Split
	monthly := round(annualSalary.Div(twelve))
	m := decimal.NewFromInt(monthly)

	b := Breakdown{
		AnnualSalary:     annualSalary,
		MonthlySalary:    monthly,
		BasicSalary:      round(m.Mul(split.Basic)),
		HRA:              round(m.Mul(split.HRA)),
		SpecialAllowance: round(m.Mul(split.Special)),
		OtherAllowances:  round(m.Mul(split.Other)),
	}
	b.GrossSalary = b.BasicSalary + b.HRA + b.SpecialAllowance + b.OtherAllowances

	b.PF = c.PF(b.BasicSalary)
	b.ESI = c.ESI(b.GrossSalary)
	b.ProfessionalTax = c.ProfessionalTax(b.GrossSalary)
	b.TDS = c.TDS(annualSalary)

	b.TotalDeductions = b.PF + b.ESI + b.ProfessionalTax + b.TDS
	b.NetSalary = b.GrossSalary - b.TotalDeductions
	return b, nil
}

// ComputeFloat accepts a float salary; NaN and infinities are always rejected.
func (c *Calculator) ComputeFloat(annualSalary float64) (Breakdown, error) {
	if math.IsNaN(annualSalary) || math.IsInf(annualSalary, 0) {
		return Breakdown{}, ErrInvalidSalary
	}
	return c.Compute(decimal.NewFromFloat(annualSalary))
}

func ComputePF(basicSalary int64) int64 {
	return defaultCalculator.PF(basicSalary)
}

func ComputeESI(grossSalary int64) int64 {
	return defaultCalculator.ESI(grossSalary)
}

func ComputeProfessionalTax(grossSalary int64) int64 {
	return defaultCalculator.ProfessionalTax(grossSalary)
}

func ComputeTDS(annualIncome decimal.Decimal) int64 {
	return defaultCalculator.TDS(annualIncome)
}

// ComputePayroll uses the default regime without the strict sign check.
// Salaries too large for whole-rupee int64 fields yield a zero Breakdown.
func ComputePayroll(annualSalary decimal.Decimal) Breakdown {
	b, _ := defaultCalculator.Compute(annualSalary)
	return b
}

func ComputePayrollFloat(annualSalary float64) (Breakdown, error) {
	return defaultCalculator.ComputeFloat(annualSalary)
}
