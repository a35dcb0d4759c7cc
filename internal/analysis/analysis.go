// Package analysis turns a session snapshot into a complete investment
// analysis: it normalizes every input with the unit converter, aggregates the
// labor and maintenance costs and runs the cash-flow projection.
package analysis

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/turbine-invest/internal/session"
	"github.com/iwvelando/turbine-invest/pkg/projection"
	"github.com/iwvelando/turbine-invest/pkg/units"
	"github.com/iwvelando/turbine-invest/pkg/validation"
	"go.uber.org/zap"
)

// ErrNoMaintenanceItems is returned when the snapshot has an empty
// maintenance list.
var ErrNoMaintenanceItems = errors.New("at least one maintenance item is required")

// ErrOutOfRange is returned when inputs no longer fit a float64 once they are
// converted to base amounts, aggregated or projected.
var ErrOutOfRange = errors.New("value out of range")

// LaborLine is one row of the labor breakdown.
type LaborLine struct {
	Role         string  `json:"role"`
	AnnualSalary float64 `json:"annualSalary"`
	Headcount    int     `json:"headcount"`
	Total        float64 `json:"total"`
}

// LaborSummary is the labor breakdown in the display unit.
type LaborSummary struct {
	SalaryUnit units.Unit  `json:"salaryUnit"`
	Lines      []LaborLine `json:"lines"`
	Total      float64     `json:"total"`
}

// MaintenanceLine is one row of the maintenance breakdown.
type MaintenanceLine struct {
	Name      string     `json:"name"`
	Cost      float64    `json:"cost"`
	Unit      units.Unit `json:"unit"`
	Converted float64    `json:"converted"`
}

// MaintenanceSummary is the maintenance breakdown in the display unit.
type MaintenanceSummary struct {
	Lines []MaintenanceLine `json:"lines"`
	Total float64           `json:"total"`
}

// Result is the outcome of one analysis pass.
type Result struct {
	RunID        string             `json:"runId"`
	Parameters   session.Parameters `json:"parameters"`
	ExchangeRate units.ExchangeRate `json:"exchangeRate"`
	Projection   *projection.Table  `json:"projection"`
	Labor        LaborSummary       `json:"labor"`
	Maintenance  MaintenanceSummary `json:"maintenance"`
	Warnings     []string           `json:"warnings,omitempty"`
}

// Run computes the analysis for snap.
func Run(logger *zap.Logger, snap session.Snapshot) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()

	params := snap.Parameters
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if len(snap.Maintenance) == 0 {
		return nil, ErrNoMaintenanceItems
	}

	conv, err := units.NewConverter(snap.ExchangeRate)
	if err != nil {
		return nil, err
	}

	n := &normalizer{conv: conv, params: params}
	inputs, err := n.inputs(snap)
	if err != nil {
		return nil, err
	}
	if err := checkInputs(inputs); err != nil {
		return nil, err
	}

	projector, err := projection.NewProjector(conv, params.DisplayUnit, n.currencies())
	if err != nil {
		return nil, err
	}
	table, err := projector.Project(inputs)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}

	result := &Result{
		RunID:        runID,
		Parameters:   params,
		ExchangeRate: conv.Rate(),
		Projection:   table,
		Warnings:     params.Warnings(snap.Maintenance),
	}
	if result.Labor, err = n.laborSummary(); err != nil {
		return nil, err
	}
	if result.Maintenance, err = n.maintenanceSummary(snap); err != nil {
		return nil, err
	}
	if err := checkResult(result); err != nil {
		return nil, err
	}

	if params.CombinedCycle {
		logger.Warn("combined-cycle revenue uses an estimated uplift",
			zap.String("op", "analysis.Run"),
			zap.String("run", runID),
			zap.Float64("uplift", params.CombinedCycleUplift),
		)
	}
	logger.Info("analysis computed",
		zap.String("op", "analysis.Run"),
		zap.String("run", runID),
		zap.String("displayUnit", string(params.DisplayUnit)),
		zap.String("currencyMode", string(params.CurrencyMode)),
		zap.Int("maintenanceItems", len(snap.Maintenance)),
		zap.Float64("averageAnnualProfit", table.AverageAnnualProfit),
	)
	return result, nil
}

type namedValue struct {
	name  string
	value float64
}

func firstNonFinite(values []namedValue) error {
	for _, v := range values {
		if err := validation.Finite(v.name, v.value); err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfRange, err)
		}
	}
	return nil
}

func checkInputs(in projection.Inputs) error {
	return firstNonFinite([]namedValue{
		{"unit price total", in.TotalUnitPriceBase},
		{"gas price", in.FuelPriceBase},
		{"electricity price", in.ElectricityPriceBase},
		{"labor total", in.TotalLaborCostBase},
		{"maintenance total", in.TotalMaintenanceCostBase},
		{"A/B inspection cost", in.ABInspectionCostBase},
		{"overhaul cost", in.OverhaulCostBase},
		{"power", in.PowerPerUnitKW},
		{"heat rate", in.HeatRateKJPerKWh},
	})
}

func checkResult(r *Result) error {
	t := r.Projection
	values := []namedValue{
		{"total generation", t.TotalGenerationGWh},
		{"gas consumption", t.GasConsumptionNm3PerHour},
		{"total unit price", t.TotalUnitPrice},
		{"average annual profit", t.AverageAnnualProfit},
		{"labor total", r.Labor.Total},
		{"maintenance total", r.Maintenance.Total},
	}
	for _, row := range t.Rows {
		values = append(values,
			namedValue{fmt.Sprintf("year %d capex", row.Period), row.Capex},
			namedValue{fmt.Sprintf("year %d opex", row.Period), row.Opex},
			namedValue{fmt.Sprintf("year %d fuel cost", row.Period), row.FuelCost},
			namedValue{fmt.Sprintf("year %d operating cost", row.Period), row.OperatingCost},
			namedValue{fmt.Sprintf("year %d revenue", row.Period), row.Revenue},
			namedValue{fmt.Sprintf("year %d cash flow", row.Period), row.CashFlow},
			namedValue{fmt.Sprintf("year %d cumulative profit", row.Period), row.CumulativeProfit},
		)
	}
	for _, line := range r.Labor.Lines {
		values = append(values, namedValue{line.Role + " total", line.Total})
	}
	for _, line := range r.Maintenance.Lines {
		values = append(values, namedValue{line.Name + " converted", line.Converted})
	}
	return firstNonFinite(values)
}
