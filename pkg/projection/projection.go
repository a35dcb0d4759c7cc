// Package projection computes the fixed-horizon yearly cash-flow table of a
// gas-turbine investment from normalized inputs.
package projection

import (
	"errors"
	"fmt"

	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/mathutil"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

// ErrDivisionByZero is returned when the fuel lower heating value is zero.
var ErrDivisionByZero = errors.New("division by zero")

// Inputs are the scalar inputs of a projection. Monetary fields are x1
// amounts (see units.ToBase) in the currency named by Currencies.
type Inputs struct {
	PowerPerUnitKW           float64
	UnitCount                int
	HeatRateKJPerKWh         float64
	FuelLHVKJPerNm3          float64
	FuelPriceBase            float64 // per Nm3
	ElectricityPriceBase     float64 // per kWh
	TotalUnitPriceBase       float64
	TotalLaborCostBase       float64
	TotalMaintenanceCostBase float64
	ABInspectionCostBase     float64
	OverhaulCostBase         float64
	OverhaulPeriodHours      float64
	CombinedCycle            bool
	// CombinedCycleUplift multiplies revenue in combined cycle mode; zero
	// selects constants.DefaultCombinedCycleUplift.
	CombinedCycleUplift float64
}

// Currencies names the currency assumed for each displayed column when
// converting from base amounts to the display unit.
type Currencies struct {
	Capex   units.Currency `json:"capex"`
	Opex    units.Currency `json:"opex"`
	Fuel    units.Currency `json:"fuel"`
	Revenue units.Currency `json:"revenue"`
	Profit  units.Currency `json:"profit"`
}

// Uniform returns a Currencies with every column in c.
func Uniform(c units.Currency) Currencies {
	return Currencies{Capex: c, Opex: c, Fuel: c, Revenue: c, Profit: c}
}

// Derived holds the values computed once per projection.
type Derived struct {
	TotalGenerationGWh       float64 `json:"totalGenerationGwh"`
	GasConsumptionNm3PerHour float64 `json:"gasConsumptionNm3PerHour"`
	OverhaulIntervalYears    int     `json:"overhaulIntervalYears"`
}

// Row is one yearly period. Monetary fields are in the display unit.
type Row struct {
	Period           int     `json:"period"`
	Capex            float64 `json:"capex"`
	Opex             float64 `json:"opex"`
	FuelCost         float64 `json:"fuelCost"`
	GenerationGWh    float64 `json:"generationGwh"`
	OperatingCost    float64 `json:"operatingCost"`
	Revenue          float64 `json:"revenue"`
	CashFlow         float64 `json:"cashFlow"`
	CumulativeProfit float64 `json:"cumulativeProfit"`
}

// Table is a complete projection.
type Table struct {
	Derived
	DisplayUnit         units.Unit `json:"displayUnit"`
	Currencies          Currencies `json:"currencies"`
	TotalUnitPrice      float64    `json:"totalUnitPrice"`
	AverageAnnualProfit float64    `json:"averageAnnualProfit"`
	Rows                []Row      `json:"rows"`
}

// Derive computes the per-projection constants.
func Derive(in Inputs) (Derived, error) {
	if in.FuelLHVKJPerNm3 == 0 {
		return Derived{}, fmt.Errorf("gas consumption: fuel lower heating value is zero: %w", ErrDivisionByZero)
	}
	count := float64(in.UnitCount)
	return Derived{
		TotalGenerationGWh:       count * in.PowerPerUnitKW * constants.OperatingHoursPerYear / 1_000_000,
		GasConsumptionNm3PerHour: in.HeatRateKJPerKWh * in.PowerPerUnitKW * count / in.FuelLHVKJPerNm3,
		OverhaulIntervalYears:    OverhaulInterval(in.OverhaulPeriodHours),
	}, nil
}

// OverhaulInterval returns the number of years between overhauls, never less
// than one.
func OverhaulInterval(periodHours float64) int {
	return mathutil.FloorDiv(periodHours, constants.OperatingHoursPerYear, 1)
}
