package payroll

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Regime holds every jurisdiction-specific constant the calculator applies.
// A tax-year change is a new Regime value, usually loaded from YAML.
type Regime struct {
	Jurisdiction    string         `yaml:"jurisdiction" json:"jurisdiction"`
	TaxYear         string         `yaml:"taxYear" json:"taxYear"`
	Split           ComponentSplit `yaml:"split" json:"split"`
	PF              PFRule         `yaml:"pf" json:"pf"`
	ESI             ESIRule        `yaml:"esi" json:"esi"`
	ProfessionalTax []Band         `yaml:"professionalTax" json:"professionalTax"`
	TDS             []Slab         `yaml:"tds" json:"tds"`
}

// ComponentSplit is the share of the monthly salary given to each earning.
type ComponentSplit struct {
	Basic   decimal.Decimal `yaml:"basic" json:"basic"`
	HRA     decimal.Decimal `yaml:"hra" json:"hra"`
	Special decimal.Decimal `yaml:"special" json:"special"`
	Other   decimal.Decimal `yaml:"other" json:"other"`
}

type PFRule struct {
	Rate        decimal.Decimal `yaml:"rate" json:"rate"`
	WageCeiling int64           `yaml:"wageCeiling" json:"wageCeiling"`
}

type ESIRule struct {
	Rate           decimal.Decimal `yaml:"rate" json:"rate"`
	GrossThreshold int64           `yaml:"grossThreshold" json:"grossThreshold"`
}

// Band charges Amount when monthly gross is strictly above Above.
type Band struct {
	Above  int64 `yaml:"above" json:"above"`
	Amount int64 `yaml:"amount" json:"amount"`
}

// Slab taxes annual income above From at Rate, on top of Base, the fixed
// amount owed for all lower slabs.
type Slab struct {
	From int64           `yaml:"from" json:"from"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
	Base int64           `yaml:"base" json:"base"`
}

// DefaultRegime is Maharashtra professional tax with the new-regime income
// tax slabs for FY 2025-26.
func DefaultRegime() Regime {
	return Regime{
		Jurisdiction: "IN-MH",
		TaxYear:      "FY2025-26",
		Split: ComponentSplit{
			Basic:   decimal.RequireFromString("0.50"),
			HRA:     decimal.RequireFromString("0.20"),
			Special: decimal.RequireFromString("0.20"),
			Other:   decimal.RequireFromString("0.10"),
		},
		PF: PFRule{
			Rate:        decimal.RequireFromString("0.12"),
			WageCeiling: 15000,
		},
		ESI: ESIRule{
			Rate:           decimal.RequireFromString("0.0075"),
			GrossThreshold: 21000,
		},
		ProfessionalTax: []Band{
			{Above: 7500, Amount: 175},
			{Above: 10000, Amount: 200},
		},
		TDS: []Slab{
			{From: 0, Rate: decimal.Zero, Base: 0},
			{From: 300000, Rate: decimal.RequireFromString("0.05"), Base: 0},
			{From: 700000, Rate: decimal.RequireFromString("0.10"), Base: 20000},
			{From: 1000000, Rate: decimal.RequireFromString("0.15"), Base: 50000},
			{From: 1200000, Rate: decimal.RequireFromString("0.20"), Base: 80000},
			{From: 1500000, Rate: decimal.RequireFromString("0.30"), Base: 140000},
		},
	}
}

// LoadRegime reads a regime from a YAML file. Keys missing from the file keep
// their default value; a missing file yields DefaultRegime.
func LoadRegime(path string) (Regime, error) {
	regime := DefaultRegime()
	if strings.TrimSpace(path) == "" {
		return regime, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return regime, nil
		}
		return Regime{}, fmt.Errorf("read regime: %w", err)
	}
	if err := yaml.Unmarshal(data, &regime); err != nil {
		return Regime{}, fmt.Errorf("parse regime: %w", err)
	}
	if err := regime.Validate(); err != nil {
		return Regime{}, err
	}
	return regime, nil
}

// YAML renders the regime in the shape LoadRegime reads.
func (r Regime) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

func (r Regime) Validate() error {
	if strings.TrimSpace(r.Jurisdiction) == "" {
		return fmt.Errorf("%w: jurisdiction is required", ErrInvalidRegime)
	}

	parts := []decimal.Decimal{r.Split.Basic, r.Split.HRA, r.Split.Special, r.Split.Other}
	total := decimal.Zero
	for _, part := range parts {
		if part.IsNegative() {
			return fmt.Errorf("%w: component split must not be negative", ErrInvalidRegime)
		}
		total = total.Add(part)
	}
	if !total.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: component split sums to %s, want 1", ErrInvalidRegime, total.String())
	}

	if r.PF.Rate.IsNegative() || r.PF.WageCeiling <= 0 {
		return fmt.Errorf("%w: pf rate must be non-negative and wage ceiling positive", ErrInvalidRegime)
	}
	if r.ESI.Rate.IsNegative() || r.ESI.GrossThreshold < 0 {
		return fmt.Errorf("%w: esi rate and threshold must be non-negative", ErrInvalidRegime)
	}

	for i, band := range r.ProfessionalTax {
		if band.Amount < 0 {
			return fmt.Errorf("%w: professional tax band %d has a negative amount", ErrInvalidRegime, i)
		}
		if i > 0 && band.Above <= r.ProfessionalTax[i-1].Above {
			return fmt.Errorf("%w: professional tax bands must be strictly ascending", ErrInvalidRegime)
		}
	}

	if len(r.TDS) == 0 {
		return fmt.Errorf("%w: at least one tds slab is required", ErrInvalidRegime)
	}
	one := decimal.NewFromInt(1)
	for i, slab := range r.TDS {
		if slab.Rate.IsNegative() || slab.Rate.GreaterThan(one) {
			return fmt.Errorf("%w: tds slab %d rate must be within [0, 1]", ErrInvalidRegime, i)
		}
		if slab.Base < 0 || slab.From < 0 {
			return fmt.Errorf("%w: tds slab %d must not be negative", ErrInvalidRegime, i)
		}
		if i > 0 && slab.From <= r.TDS[i-1].From {
			return fmt.Errorf("%w: tds slabs must be strictly ascending", ErrInvalidRegime)
		}
	}
	return nil
}
