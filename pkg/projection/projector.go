package projection

import (
	"fmt"

	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

// Converter converts a base amount in one currency to a display unit.
type Converter interface {
	FromBase(baseAmount float64, baseCurrency units.Currency, target units.Unit) (float64, error)
}

// Projector runs the yearly recurrence and converts its results for display.
type Projector struct {
	conv        Converter
	displayUnit units.Unit
	currencies  Currencies
}

// NewProjector returns a Projector rendering into displayUnit with the given
// per-column currency assumption.
func NewProjector(conv Converter, displayUnit units.Unit, currencies Currencies) (*Projector, error) {
	if conv == nil {
		return nil, fmt.Errorf("projector requires a converter")
	}
	if !displayUnit.Valid() {
		return nil, fmt.Errorf("display unit: %w: %q", units.ErrInvalidUnit, displayUnit)
	}
	return &Projector{conv: conv, displayUnit: displayUnit, currencies: currencies}, nil
}

// period holds one year of the recurrence in base amounts.
type period struct {
	capex, opex, fuel, revenue, cashFlow, cumulative float64
}

// Project computes the constants.ProjectionPeriods-row table for in.
func (p *Projector) Project(in Inputs) (*Table, error) {
	derived, err := Derive(in)
	if err != nil {
		return nil, err
	}

	uplift := in.CombinedCycleUplift
	if uplift == 0 {
		uplift = constants.DefaultCombinedCycleUplift
	}

	fuel := derived.GasConsumptionNm3PerHour * in.FuelPriceBase * constants.OperatingHoursPerYear
	revenue := derived.TotalGenerationGWh * in.ElectricityPriceBase * constants.KWhPerGWh
	if in.CombinedCycle {
		revenue *= uplift
	}
	recurring := in.TotalLaborCostBase + in.TotalMaintenanceCostBase + in.ABInspectionCostBase

	table := &Table{
		Derived:     derived,
		DisplayUnit: p.displayUnit,
		Currencies:  p.currencies,
		Rows:        make([]Row, 0, constants.ProjectionPeriods),
	}
	if table.TotalUnitPrice, err = p.display(in.TotalUnitPriceBase, p.currencies.Capex); err != nil {
		return nil, err
	}

	var cumulative float64
	for year := 1; year <= constants.ProjectionPeriods; year++ {
		b := period{fuel: fuel, revenue: revenue, opex: recurring}
		if year == 1 {
			b.capex = in.TotalUnitPriceBase
		}
		if year%derived.OverhaulIntervalYears == 0 {
			b.opex += in.OverhaulCostBase
		}
		b.cashFlow = b.revenue - (b.opex + b.fuel)
		cumulative += b.cashFlow
		b.cumulative = cumulative

		row, err := p.row(year, b, derived.TotalGenerationGWh)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", year, err)
		}
		table.Rows = append(table.Rows, row)
	}

	if table.AverageAnnualProfit, err = p.display(cumulative/constants.ProjectionPeriods, p.currencies.Profit); err != nil {
		return nil, err
	}
	return table, nil
}

func (p *Projector) row(year int, b period, generation float64) (Row, error) {
	row := Row{Period: year, GenerationGWh: generation}
	conversions := []struct {
		dst      *float64
		amount   float64
		currency units.Currency
	}{
		{&row.Capex, b.capex, p.currencies.Capex},
		{&row.Opex, b.opex, p.currencies.Opex},
		{&row.FuelCost, b.fuel, p.currencies.Fuel},
		{&row.Revenue, b.revenue, p.currencies.Revenue},
		{&row.CashFlow, b.cashFlow, p.currencies.Profit},
		{&row.CumulativeProfit, b.cumulative, p.currencies.Profit},
	}
	for _, c := range conversions {
		v, err := p.display(c.amount, c.currency)
		if err != nil {
			return Row{}, err
		}
		*c.dst = v
	}
	row.OperatingCost = row.Opex + row.FuelCost
	return row, nil
}

func (p *Projector) display(amount float64, currency units.Currency) (float64, error) {
	return p.conv.FromBase(amount, currency, p.displayUnit)
}
