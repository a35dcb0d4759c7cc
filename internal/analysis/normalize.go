package analysis

import (
	"github.com/iwvelando/turbine-invest/internal/session"
	"github.com/iwvelando/turbine-invest/pkg/projection"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

// normalizer converts session inputs to x1 amounts. In assumed mode each
// amount keeps its own currency; in normalized mode every amount is moved to
// the base currency before it is aggregated.
type normalizer struct {
	conv   *units.Converter
	params session.Parameters
}

func (n *normalizer) normalized() bool {
	return n.params.CurrencyMode == session.CurrencyModeNormalized
}

// base returns the x1 amount of m, in the base currency when normalizing.
func (n *normalizer) base(m units.MonetaryAmount) (float64, error) {
	amount, err := m.ToBase()
	if err != nil {
		return 0, err
	}
	if !n.normalized() {
		return amount, nil
	}
	currency, err := m.Currency()
	if err != nil {
		return 0, err
	}
	return n.conv.Convert(amount, currency, n.params.BaseCurrency)
}

// currency returns the currency an aggregate of amounts in u is attributed to.
func (n *normalizer) currency(u units.Unit) units.Currency {
	if n.normalized() {
		return n.params.BaseCurrency
	}
	c, _ := units.CurrencyOf(u)
	return c
}

func (n *normalizer) currencies() projection.Currencies {
	if n.normalized() {
		return projection.Uniform(n.params.BaseCurrency)
	}
	return projection.Currencies{
		Capex:   n.currency(n.params.UnitPrice.Unit),
		Opex:    n.currency(n.params.Labor.Unit),
		Fuel:    n.currency(n.params.GasPrice.Unit),
		Revenue: n.currency(n.params.ElectricityPrice.Unit),
		Profit:  n.params.BaseCurrency,
	}
}

func (n *normalizer) laborTotal() (float64, error) {
	total := 0.0
	for _, role := range n.params.Labor.Roles {
		salary, err := n.base(units.MonetaryAmount{Amount: role.AnnualSalary, Unit: n.params.Labor.Unit})
		if err != nil {
			return 0, err
		}
		total += salary * float64(role.Headcount)
	}
	return total, nil
}

func (n *normalizer) maintenanceTotal(snap session.Snapshot) (float64, error) {
	total := 0.0
	for _, item := range snap.Maintenance {
		cost, err := n.base(item.Cost)
		if err != nil {
			return 0, err
		}
		total += cost
	}
	return total, nil
}

func (n *normalizer) inputs(snap session.Snapshot) (projection.Inputs, error) {
	p := n.params
	in := projection.Inputs{
		UnitCount:           p.UnitCount,
		FuelLHVKJPerNm3:     p.FuelLowerHeatingValue,
		OverhaulPeriodHours: p.Overhaul.PeriodHours,
		CombinedCycle:       p.CombinedCycle,
		CombinedCycleUplift: p.CombinedCycleUplift,
	}

	var err error
	if in.PowerPerUnitKW, err = units.PowerToKW(p.Power.Value, p.Power.Unit); err != nil {
		return in, err
	}
	if in.HeatRateKJPerKWh, err = units.HeatRateToKJPerKWh(p.HeatRate.Value, p.HeatRate.Unit); err != nil {
		return in, err
	}

	unitPrice, err := n.base(p.UnitPrice)
	if err != nil {
		return in, err
	}
	in.TotalUnitPriceBase = unitPrice * float64(p.UnitCount)

	for _, field := range []struct {
		dst    *float64
		amount units.MonetaryAmount
	}{
		{&in.FuelPriceBase, p.GasPrice},
		{&in.ElectricityPriceBase, p.ElectricityPrice},
		{&in.OverhaulCostBase, p.Overhaul.Cost},
		{&in.ABInspectionCostBase, p.ABInspection},
	} {
		if *field.dst, err = n.base(field.amount); err != nil {
			return in, err
		}
	}

	if in.TotalLaborCostBase, err = n.laborTotal(); err != nil {
		return in, err
	}
	if in.TotalMaintenanceCostBase, err = n.maintenanceTotal(snap); err != nil {
		return in, err
	}
	return in, nil
}

func (n *normalizer) laborSummary() (LaborSummary, error) {
	p := n.params
	summary := LaborSummary{SalaryUnit: p.Labor.Unit, Lines: make([]LaborLine, 0, len(p.Labor.Roles))}
	currency, err := units.CurrencyOf(p.Labor.Unit)
	if err != nil {
		return summary, err
	}

	for _, role := range p.Labor.Roles {
		salary, err := units.ToBase(role.AnnualSalary, p.Labor.Unit)
		if err != nil {
			return summary, err
		}
		total, err := n.conv.FromBase(salary*float64(role.Headcount), currency, p.DisplayUnit)
		if err != nil {
			return summary, err
		}
		summary.Lines = append(summary.Lines, LaborLine{
			Role:         role.Role,
			AnnualSalary: role.AnnualSalary,
			Headcount:    role.Headcount,
			Total:        total,
		})
	}

	total, err := n.laborTotal()
	if err != nil {
		return summary, err
	}
	summary.Total, err = n.conv.FromBase(total, n.currency(p.Labor.Unit), p.DisplayUnit)
	return summary, err
}

func (n *normalizer) maintenanceSummary(snap session.Snapshot) (MaintenanceSummary, error) {
	p := n.params
	summary := MaintenanceSummary{Lines: make([]MaintenanceLine, 0, len(snap.Maintenance))}

	for _, item := range snap.Maintenance {
		converted, err := n.conv.ToUnit(item.Cost, p.DisplayUnit)
		if err != nil {
			return summary, err
		}
		summary.Lines = append(summary.Lines, MaintenanceLine{
			Name:      item.Name,
			Cost:      item.Cost.Amount,
			Unit:      item.Cost.Unit,
			Converted: converted,
		})
	}

	total, err := n.maintenanceTotal(snap)
	if err != nil {
		return summary, err
	}
	// The maintenance total is attributed to the base currency in both modes.
	summary.Total, err = n.conv.FromBase(total, p.BaseCurrency, p.DisplayUnit)
	return summary, err
}
