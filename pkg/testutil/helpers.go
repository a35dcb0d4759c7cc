// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/turbine-invest/internal/session"
	"github.com/iwvelando/turbine-invest/pkg/projection"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

// SampleRate is the exchange rate used by SampleSession.
var SampleRate = units.ExchangeRate{USDToCNY: 7}

// SampleParameters returns a complete parameter set for two 50 MW units
// priced entirely in CNY and displayed in units of 10,000 CNY.
func SampleParameters() session.Parameters {
	p := session.DefaultParameters()
	p.DisplayUnit = units.TenThousandCNY
	p.UnitPrice = units.MonetaryAmount{Amount: 8000, Unit: units.TenThousandCNY}
	p.UnitCount = 2
	p.Power = session.Power{Condition: "base load", Value: 50, Unit: units.MW}
	p.HeatRate = session.HeatRate{Value: 9500, Unit: units.KJPerKWh}
	p.FuelLowerHeatingValue = 35000
	p.GasPrice = units.MonetaryAmount{Amount: 2.5, Unit: units.Yuan}
	p.ElectricityPrice = units.MonetaryAmount{Amount: 0.65, Unit: units.Yuan}
	for i := range p.Labor.Roles {
		p.Labor.Roles[i].AnnualSalary = 200000
		p.Labor.Roles[i].Headcount = 2
	}
	p.Overhaul = session.Overhaul{
		Cost:        units.MonetaryAmount{Amount: 2000, Unit: units.TenThousandCNY},
		PeriodHours: 24000,
	}
	p.ABInspection = units.MonetaryAmount{Amount: 50, Unit: units.TenThousandCNY}
	return p
}

// SampleSession returns a session built from SampleParameters, SampleRate and
// the default maintenance list.
func SampleSession() (*session.Session, error) {
	return session.New(SampleParameters(), SampleRate, nil)
}

// FindRow finds the projection row for a period.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(table *projection.Table, period int) *projection.Row {
	if table == nil {
		return nil
	}
	for i := range table.Rows {
		if table.Rows[i].Period == period {
			return &table.Rows[i]
		}
	}
	return nil
}
