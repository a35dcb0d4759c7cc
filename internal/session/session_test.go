package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/turbine-invest/pkg/maintenance"
	"github.com/iwvelando/turbine-invest/pkg/units"
	"go.uber.org/multierr"
)

func validParameters() Parameters {
	p := DefaultParameters()
	p.UnitPrice = units.MonetaryAmount{Amount: 8000, Unit: units.TenThousandCNY}
	p.Power = Power{Condition: "base load", Value: 50, Unit: units.MW}
	p.HeatRate = HeatRate{Value: 9500, Unit: units.KJPerKWh}
	p.FuelLowerHeatingValue = 35000
	p.GasPrice = units.MonetaryAmount{Amount: 2.5, Unit: units.Yuan}
	p.ElectricityPrice = units.MonetaryAmount{Amount: 0.65, Unit: units.Yuan}
	p.Overhaul = Overhaul{Cost: units.MonetaryAmount{Amount: 2000, Unit: units.TenThousandCNY}, PeriodHours: 24000}
	return p
}

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()
	if p.DisplayUnit != units.Yuan || p.BaseCurrency != units.CNY {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if len(p.Labor.Roles) != 6 {
		t.Fatalf("expected 6 default labor roles, got %d", len(p.Labor.Roles))
	}
	if p.CombinedCycleUplift != 1.10 {
		t.Fatalf("expected default uplift 1.10, got %v", p.CombinedCycleUplift)
	}
	// The physical inputs start empty and must be supplied.
	if err := p.Validate(); err == nil {
		t.Fatal("expected default parameters to fail validation on the heating value")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *Parameters)
		expectErr string
	}{
		{"Valid", func(p *Parameters) {}, ""},
		{"Zero heating value", func(p *Parameters) { p.FuelLowerHeatingValue = 0 }, "fuel lower heating value"},
		{"Zero unit count", func(p *Parameters) { p.UnitCount = 0 }, "unit count"},
		{"Overhaul period below one hour", func(p *Parameters) { p.Overhaul.PeriodHours = 0.5 }, "overhaul period"},
		{"Negative gas price", func(p *Parameters) { p.GasPrice.Amount = -1 }, "gas price"},
		{"Unknown display unit", func(p *Parameters) { p.DisplayUnit = "EUR" }, "display unit"},
		{"Unknown currency mode", func(p *Parameters) { p.CurrencyMode = "exact" }, "currency mode"},
		{"Unknown application", func(p *Parameters) { p.Application = "ship" }, "application"},
		{"Unknown heat rate unit", func(p *Parameters) { p.HeatRate.Unit = "kj/mwh" }, "heat rate"},
		{"Negative headcount", func(p *Parameters) { p.Labor.Roles[0].Headcount = -1 }, "headcount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParameters()
			tt.mutate(&p)
			err := p.Validate()
			if tt.expectErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.expectErr) {
				t.Fatalf("Validate() error = %v, expected mention of %q", err, tt.expectErr)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	p := validParameters()
	p.FuelLowerHeatingValue = 0
	p.UnitCount = 0
	p.DisplayUnit = "EUR"

	err := p.Validate()
	if got := len(multierr.Errors(err)); got != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", got, err)
	}
	if !errors.Is(err, units.ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit among errors, got %v", err)
	}
}

func TestWarnings(t *testing.T) {
	p := validParameters()
	items := maintenance.DefaultList().Items()
	if w := p.Warnings(items); len(w) != 0 {
		t.Fatalf("expected no warnings, got %v", w)
	}

	p.ElectricityPrice.Unit = units.Dollar
	p.CombinedCycle = true
	p.Overhaul.PeriodHours = 4000
	w := p.Warnings(items)
	if len(w) != 3 {
		t.Fatalf("expected 3 warnings, got %v", w)
	}
	if !strings.Contains(w[0], "mixed currencies") {
		t.Errorf("expected mixed currency warning first, got %q", w[0])
	}
	if !strings.Contains(w[2], "110%") {
		t.Errorf("expected combined-cycle warning to state 110%%, got %q", w[2])
	}

	p.CurrencyMode = CurrencyModeNormalized
	if w := p.Warnings(items); len(w) != 2 {
		t.Fatalf("expected normalized mode to drop the currency warning, got %v", w)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, err := Default(units.ExchangeRate{USDToCNY: 7})
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if s.Maintenance().Len() != 2 {
		t.Fatalf("expected default maintenance list, got %d items", s.Maintenance().Len())
	}

	if err := s.SetParameters(validParameters()); err != nil {
		t.Fatalf("SetParameters() error = %v", err)
	}
	bad := validParameters()
	bad.GasPrice.Unit = "EUR"
	if err := s.SetParameters(bad); !errors.Is(err, units.ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
	if s.Parameters().GasPrice.Unit != units.Yuan {
		t.Fatal("rejected parameters must not be applied")
	}

	if err := s.SetExchangeRate(units.ExchangeRate{USDToCNY: 0}); !errors.Is(err, units.ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
	if err := s.SetExchangeRate(units.ExchangeRate{USDToCNY: 7.2}); err != nil {
		t.Fatalf("SetExchangeRate() error = %v", err)
	}
	if s.ExchangeRate().USDToCNY != 7.2 {
		t.Fatalf("expected rate 7.2, got %v", s.ExchangeRate().USDToCNY)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s, err := New(validParameters(), units.ExchangeRate{USDToCNY: 7}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	snap := s.Snapshot()

	s.Maintenance().Append()
	name := "changed"
	s.Maintenance().Update(0, maintenance.Patch{Name: &name})
	p := s.Parameters()
	p.Labor.Roles[0].Headcount = 99

	if len(snap.Maintenance) != 2 || snap.Maintenance[0].Name != "routine maintenance" {
		t.Fatalf("snapshot maintenance changed: %+v", snap.Maintenance)
	}
	if snap.Parameters.Labor.Roles[0].Headcount != 0 {
		t.Fatal("snapshot labor roles must not alias session state")
	}
	if s.Parameters().Labor.Roles[0].Headcount != 0 {
		t.Fatal("Parameters() must return a copy")
	}
}

func TestNewRejectsInvalidRate(t *testing.T) {
	if _, err := New(validParameters(), units.ExchangeRate{}, nil); !errors.Is(err, units.ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}

func TestSetParametersResolvesAliases(t *testing.T) {
	s, err := Default(units.ExchangeRate{USDToCNY: 7})
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	p := validParameters()
	p.DisplayUnit = "万元"
	p.UnitPrice.Unit = "百万美元"
	p.Labor.Unit = "人民币元"
	p.GasPrice.Unit = "cny"
	if err := s.SetParameters(p); err != nil {
		t.Fatalf("SetParameters() error = %v", err)
	}

	got := s.Parameters()
	if got.DisplayUnit != units.TenThousandCNY || got.UnitPrice.Unit != units.MillionUSD ||
		got.Labor.Unit != units.Yuan || got.GasPrice.Unit != units.Yuan {
		t.Fatalf("aliases not resolved: %+v", got)
	}
}

func TestSetParametersReportsFirstInvalidUnit(t *testing.T) {
	s, err := Default(units.ExchangeRate{USDToCNY: 7})
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	p := validParameters()
	p.DisplayUnit = "EUR"
	p.GasPrice.Unit = "GBP"
	p.ABInspection.Unit = "JPY"

	for i := 0; i < 20; i++ {
		err := s.SetParameters(p)
		if !errors.Is(err, units.ErrInvalidUnit) {
			t.Fatalf("expected ErrInvalidUnit, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "display unit:") {
			t.Fatalf("expected the display unit to be reported first, got %q", err)
		}
	}
}

func TestNewCopiesMaintenanceList(t *testing.T) {
	list := maintenance.DefaultList()
	s, err := New(validParameters(), units.ExchangeRate{USDToCNY: 7}, list)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	list.Append()
	if s.Maintenance().Len() != 2 {
		t.Fatalf("session list follows the caller's list: %d items", s.Maintenance().Len())
	}
	s.Maintenance().Append()
	if list.Len() != 3 || s.Maintenance().Len() != 3 {
		t.Fatalf("unexpected lengths: caller %d, session %d", list.Len(), s.Maintenance().Len())
	}
}
