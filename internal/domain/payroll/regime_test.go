package payroll

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegimeIsValid(t *testing.T) {
	require.NoError(t, DefaultRegime().Validate())
}

func TestLoadRegimeMissingFileFallsBackToDefault(t *testing.T) {
	regime, err := LoadRegime(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRegime().Jurisdiction, regime.Jurisdiction)

	regime, err = LoadRegime("")
	require.NoError(t, err)
	assert.Len(t, regime.TDS, 6)
}

func TestLoadRegimeOverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regime.yaml")
	content := `
jurisdiction: IN-KA
taxYear: FY2026-27
professionalTax:
  - above: 24999
    amount: 200
esi:
  rate: "0.0075"
  grossThreshold: 25000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	regime, err := LoadRegime(path)
	require.NoError(t, err)
	assert.Equal(t, "IN-KA", regime.Jurisdiction)
	assert.Equal(t, "FY2026-27", regime.TaxYear)
	assert.Equal(t, int64(25000), regime.ESI.GrossThreshold)
	assert.Len(t, regime.ProfessionalTax, 1)
	assert.True(t, regime.PF.Rate.Equal(decimal.RequireFromString("0.12")))

	calc := NewCalculator(regime)
	assert.Equal(t, int64(0), calc.ProfessionalTax(20000))
	assert.Equal(t, int64(200), calc.ProfessionalTax(25000))
	assert.Equal(t, int64(173), calc.ESI(23000))
}

func TestLoadRegimeRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regime.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tds: []\n"), 0o600))
	_, err := LoadRegime(path)
	require.ErrorIs(t, err, ErrInvalidRegime)

	require.NoError(t, os.WriteFile(path, []byte("jurisdiction: [\n"), 0o600))
	_, err = LoadRegime(path)
	require.Error(t, err)
}

func TestRegimeValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *Regime)
	}{
		{"no jurisdiction", func(r *Regime) { r.Jurisdiction = "" }},
		{"split over 100%", func(r *Regime) { r.Split.Other = decimal.RequireFromString("0.2") }},
		{"negative split", func(r *Regime) {
			r.Split.Basic = decimal.RequireFromString("0.8")
			r.Split.Other = decimal.RequireFromString("-0.2")
		}},
		{"zero pf ceiling", func(r *Regime) { r.PF.WageCeiling = 0 }},
		{"negative esi rate", func(r *Regime) { r.ESI.Rate = decimal.RequireFromString("-0.01") }},
		{"bands out of order", func(r *Regime) { r.ProfessionalTax[1].Above = 7000 }},
		{"slabs out of order", func(r *Regime) { r.TDS[2].From = 100 }},
		{"rate above one", func(r *Regime) { r.TDS[5].Rate = decimal.RequireFromString("1.5") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			regime := DefaultRegime()
			tc.mutate(&regime)
			require.ErrorIs(t, regime.Validate(), ErrInvalidRegime)
		})
	}
}

func TestRegimeYAMLRoundTrip(t *testing.T) {
	data, err := DefaultRegime().YAML()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "regime.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := LoadRegime(path)
	require.NoError(t, err)
	calc := NewCalculator(loaded)
	assert.Equal(t, ComputePayroll(decimal.NewFromInt(1800030)), mustCompute(t, calc, 1800030))
}

func mustCompute(t *testing.T, calc *Calculator, annual int64) Breakdown {
	t.Helper()
	b, err := calc.Compute(decimal.NewFromInt(annual))
	require.NoError(t, err)
	return b
}
