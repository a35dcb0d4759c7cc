// Package report assembles an analysis result into the tables and metrics
// shown to the user and writes them as a spreadsheet workbook.
package report

import (
	"fmt"
	"strconv"

	"github.com/iwvelando/turbine-invest/internal/analysis"
	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

// Sheet names of the workbook.
const (
	SheetAnnual      = "Annual Analysis"
	SheetLabor       = "Labor Costs"
	SheetMaintenance = "Maintenance Costs"
	SheetSummary     = "Summary"
)

// Report is the assembled output of one analysis.
type Report struct {
	RunID       string     `json:"runId"`
	DisplayUnit units.Unit `json:"displayUnit"`
	Annual      Table      `json:"annual"`
	Labor       Table      `json:"labor"`
	Maintenance Table      `json:"maintenance"`
	Metrics     []Metric   `json:"metrics"`
	Warnings    []string   `json:"warnings,omitempty"`
}

// Tables returns the three breakdown tables in workbook order.
func (r *Report) Tables() []Table {
	return []Table{r.Annual, r.Labor, r.Maintenance}
}

// Metric returns the metric with the given label.
func (r *Report) Metric(label string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Label == label {
			return m, true
		}
	}
	return Metric{}, false
}

// Metric labels.
const (
	MetricGeneration       = "Total generation"
	MetricGasConsumption   = "Gas consumption"
	MetricTotalUnitPrice   = "Total unit price"
	MetricOverhaulInterval = "Overhaul interval"
	MetricAverageProfit    = "Average annual profit"
	MetricGasPrice         = "Gas price"
	MetricElectricityPrice = "Electricity price"
	MetricApplication      = "Application"
	MetricCondition        = "Operating condition"
	MetricCombinedCycle    = "Combined cycle"
	MetricExchangeRate     = "Exchange rate"
)

// Assemble builds the report for result.
func Assemble(result *analysis.Result) (*Report, error) {
	if result == nil || result.Projection == nil {
		return nil, fmt.Errorf("report requires a computed analysis")
	}
	display := result.Parameters.DisplayUnit

	rep := &Report{
		RunID:       result.RunID,
		DisplayUnit: display,
		Annual:      annualTable(result),
		Labor:       laborTable(result),
		Maintenance: maintenanceTable(result),
		Warnings:    result.Warnings,
	}

	metrics, err := metrics(result)
	if err != nil {
		return nil, err
	}
	rep.Metrics = metrics
	return rep, nil
}

func money(v float64) Cell {
	return Number(v, constants.MoneyPlaces)
}

func withUnit(header string, u units.Unit) string {
	return fmt.Sprintf("%s (%s)", header, u)
}

func annualTable(result *analysis.Result) Table {
	u := result.Parameters.DisplayUnit
	t := Table{
		Name:  SheetAnnual,
		Title: "Annual economic analysis",
		Headers: []string{
			"Year",
			withUnit("Total Investment", u),
			withUnit("O&M Cost", u),
			withUnit("Fuel Cost", u),
			"Generation (GWh)",
			withUnit("Annual Operating Cost", u),
			withUnit("Annual Revenue", u),
			withUnit("Annual Cash Flow", u),
			withUnit("Cumulative Profit", u),
		},
	}
	for _, row := range result.Projection.Rows {
		t.Rows = append(t.Rows, []Cell{
			Number(float64(row.Period), 0),
			money(row.Capex),
			money(row.Opex),
			money(row.FuelCost),
			money(row.GenerationGWh),
			money(row.OperatingCost),
			money(row.Revenue),
			money(row.CashFlow),
			money(row.CumulativeProfit),
		})
	}
	return t
}

func laborTable(result *analysis.Result) Table {
	u := result.Parameters.DisplayUnit
	t := Table{
		Name:    SheetLabor,
		Title:   "Labor cost breakdown",
		Headers: []string{"Role", withUnit("Annual Salary", result.Labor.SalaryUnit), "Headcount", withUnit("Total", u), "Unit"},
	}
	for _, line := range result.Labor.Lines {
		t.Rows = append(t.Rows, []Cell{
			Text(line.Role),
			money(line.AnnualSalary),
			Number(float64(line.Headcount), 0),
			money(line.Total),
			Text(string(u)),
		})
	}
	t.Rows = append(t.Rows, []Cell{Text("Total"), Text(Placeholder), Text(Placeholder), money(result.Labor.Total), Text(string(u))})
	return t
}

func maintenanceTable(result *analysis.Result) Table {
	u := result.Parameters.DisplayUnit
	t := Table{
		Name:    SheetMaintenance,
		Title:   "Maintenance cost breakdown",
		Headers: []string{"Item", "Original Cost", "Original Unit", withUnit("Cost", u), "Converted Unit"},
	}
	for _, line := range result.Maintenance.Lines {
		t.Rows = append(t.Rows, []Cell{
			Text(line.Name),
			money(line.Cost),
			Text(string(line.Unit)),
			money(line.Converted),
			Text(string(u)),
		})
	}
	t.Rows = append(t.Rows, []Cell{Text("Total"), Text(Placeholder), Text(Placeholder), money(result.Maintenance.Total), Text(string(u))})
	return t
}

func metrics(result *analysis.Result) ([]Metric, error) {
	p := result.Parameters
	table := result.Projection
	u := string(p.DisplayUnit)

	conv, err := units.NewConverter(result.ExchangeRate)
	if err != nil {
		return nil, err
	}
	gasPrice, err := conv.ToUnit(p.GasPrice, p.DisplayUnit)
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}
	electricityPrice, err := conv.ToUnit(p.ElectricityPrice, p.DisplayUnit)
	if err != nil {
		return nil, fmt.Errorf("electricity price: %w", err)
	}

	return []Metric{
		{Label: MetricGeneration, Value: money(table.TotalGenerationGWh), Unit: "GWh"},
		{Label: MetricGasConsumption, Value: money(table.GasConsumptionNm3PerHour), Unit: "Nm³/h"},
		{Label: MetricTotalUnitPrice, Value: money(table.TotalUnitPrice), Unit: u},
		{Label: MetricOverhaulInterval, Value: Number(float64(table.OverhaulIntervalYears), 0), Unit: "years"},
		{Label: MetricAverageProfit, Value: money(table.AverageAnnualProfit), Unit: u},
		{Label: MetricGasPrice, Value: Number(gasPrice, constants.UnitPricePlaces), Unit: u + "/Nm³"},
		{Label: MetricElectricityPrice, Value: Number(electricityPrice, constants.UnitPricePlaces), Unit: u + "/kWh"},
		{Label: MetricApplication, Value: Text(string(p.Application))},
		{Label: MetricCondition, Value: Text(p.Power.Condition)},
		{Label: MetricCombinedCycle, Value: Text(strconv.FormatBool(p.CombinedCycle))},
		{Label: MetricExchangeRate, Value: Number(result.ExchangeRate.USDToCNY, constants.UnitPricePlaces), Unit: "CNY/USD"},
	}, nil
}

// SummaryTable renders the metrics as a table.
func (r *Report) SummaryTable() Table {
	t := Table{Name: SheetSummary, Title: "Key metrics", Headers: []string{"Metric", "Value", "Unit"}}
	for _, m := range r.Metrics {
		t.Rows = append(t.Rows, []Cell{Text(m.Label), m.Value, Text(m.Unit)})
	}
	return t
}
