// Package session holds the state of the single active analysis session: the
// scalar parameters, the exchange rate and the editable maintenance list.
package session

import (
	"fmt"

	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/maintenance"
	"github.com/iwvelando/turbine-invest/pkg/units"
	"github.com/iwvelando/turbine-invest/pkg/validation"
	"go.uber.org/multierr"
)

// CurrencyMode selects how aggregated figures are attributed to a currency.
type CurrencyMode string

const (
	// CurrencyModeAssumed converts aggregates assuming the currency of one
	// contributing input (opex: labor, fuel: gas price, revenue: electricity
	// price) and BaseCurrency for cash flow, cumulative profit and the
	// maintenance total. Sub-amounts in other currencies are summed unconverted.
	CurrencyModeAssumed CurrencyMode = "assumed"

	// CurrencyModeNormalized converts every input to BaseCurrency before it is
	// aggregated.
	CurrencyModeNormalized CurrencyMode = "normalized"
)

// Application is the informational plant type.
type Application string

// Supported applications.
const (
	ApplicationPowerPlant  Application = "power-plant"
	ApplicationMobilePower Application = "mobile-power"
	ApplicationCompressor  Application = "compressor"
	ApplicationOther       Application = "other"
)

// Valid reports whether a is an enumerated application.
func (a Application) Valid() bool {
	switch a {
	case ApplicationPowerPlant, ApplicationMobilePower, ApplicationCompressor, ApplicationOther:
		return true
	}
	return false
}

// Power is the rated output of one unit under a named operating condition.
type Power struct {
	Condition string          `json:"condition" yaml:"condition"`
	Value     float64         `json:"value" yaml:"value"`
	Unit      units.PowerUnit `json:"unit" yaml:"unit"`
}

// HeatRate is the turbine heat rate.
type HeatRate struct {
	Value float64            `json:"value" yaml:"value"`
	Unit  units.HeatRateUnit `json:"unit" yaml:"unit"`
}

// LaborRole is one staffed role.
type LaborRole struct {
	Role         string  `json:"role" yaml:"role"`
	AnnualSalary float64 `json:"annualSalary" yaml:"annualSalary"`
	Headcount    int     `json:"headcount" yaml:"headcount"`
}

// Labor lists the staffed roles; all salaries share Unit.
type Labor struct {
	Unit  units.Unit  `json:"unit" yaml:"unit"`
	Roles []LaborRole `json:"roles" yaml:"roles"`
}

// Overhaul is the cost of one major overhaul and the operating hours between
// overhauls.
type Overhaul struct {
	Cost        units.MonetaryAmount `json:"cost" yaml:"cost"`
	PeriodHours float64              `json:"periodHours" yaml:"periodHours"`
}

// Parameters are the scalar inputs of an analysis.
type Parameters struct {
	DisplayUnit           units.Unit           `json:"displayUnit" yaml:"displayUnit"`
	BaseCurrency          units.Currency       `json:"baseCurrency" yaml:"baseCurrency"`
	CurrencyMode          CurrencyMode         `json:"currencyMode" yaml:"currencyMode"`
	Application           Application          `json:"application" yaml:"application"`
	CombinedCycle         bool                 `json:"combinedCycle" yaml:"combinedCycle"`
	CombinedCycleUplift   float64              `json:"combinedCycleUplift" yaml:"combinedCycleUplift"`
	UnitPrice             units.MonetaryAmount `json:"unitPrice" yaml:"unitPrice"`
	UnitCount             int                  `json:"unitCount" yaml:"unitCount"`
	Power                 Power                `json:"power" yaml:"power"`
	HeatRate              HeatRate             `json:"heatRate" yaml:"heatRate"`
	FuelLowerHeatingValue float64              `json:"fuelLowerHeatingValue" yaml:"fuelLowerHeatingValue"` // kJ/Nm3
	GasPrice              units.MonetaryAmount `json:"gasPrice" yaml:"gasPrice"`                           // per Nm3
	ElectricityPrice      units.MonetaryAmount `json:"electricityPrice" yaml:"electricityPrice"`           // per kWh
	Labor                 Labor                `json:"labor" yaml:"labor"`
	Overhaul              Overhaul             `json:"overhaul" yaml:"overhaul"`
	ABInspection          units.MonetaryAmount `json:"abInspection" yaml:"abInspection"` // per year
}

// DefaultLaborRoles returns the staffed roles offered to a new session.
func DefaultLaborRoles() []LaborRole {
	return []LaborRole{
		{Role: "instrument engineer"},
		{Role: "electrical engineer"},
		{Role: "gas turbine operator"},
		{Role: "mechanical engineer"},
		{Role: "plant operations assistant"},
		{Role: "safety engineer"},
	}
}

// DefaultParameters returns the parameters of a new session. The physical
// inputs are zero and must be filled in before an analysis can run.
func DefaultParameters() Parameters {
	return Parameters{
		DisplayUnit:         units.Yuan,
		BaseCurrency:        units.CNY,
		CurrencyMode:        CurrencyModeAssumed,
		Application:         ApplicationPowerPlant,
		CombinedCycleUplift: constants.DefaultCombinedCycleUplift,
		UnitPrice:           units.MonetaryAmount{Unit: units.Yuan},
		UnitCount:           1,
		Power:               Power{Condition: constants.DefaultCondition, Unit: units.KW},
		HeatRate:            HeatRate{Unit: units.KJPerKWh},
		GasPrice:            units.MonetaryAmount{Unit: units.Yuan},
		ElectricityPrice:    units.MonetaryAmount{Unit: units.Yuan},
		Labor:               Labor{Unit: units.Yuan, Roles: DefaultLaborRoles()},
		Overhaul:            Overhaul{Cost: units.MonetaryAmount{Unit: units.Yuan}, PeriodHours: 1},
		ABInspection:        units.MonetaryAmount{Unit: units.Yuan},
	}
}

// Normalize fills in the optional fields left empty.
func (p *Parameters) Normalize() {
	if p.BaseCurrency == "" {
		p.BaseCurrency = units.CNY
	}
	if p.CurrencyMode == "" {
		p.CurrencyMode = CurrencyModeAssumed
	}
	if p.Application == "" {
		p.Application = ApplicationPowerPlant
	}
	if p.CombinedCycleUplift == 0 {
		p.CombinedCycleUplift = constants.DefaultCombinedCycleUplift
	}
	if p.Power.Condition == "" {
		p.Power.Condition = constants.DefaultCondition
	}
}

type unitField struct {
	name string
	unit *units.Unit
}

// monetaryUnits lists the monetary unit fields in a fixed order.
func (p *Parameters) monetaryUnits() []unitField {
	return []unitField{
		{"display unit", &p.DisplayUnit},
		{"unit price", &p.UnitPrice.Unit},
		{"gas price", &p.GasPrice.Unit},
		{"electricity price", &p.ElectricityPrice.Unit},
		{"labor", &p.Labor.Unit},
		{"overhaul cost", &p.Overhaul.Cost.Unit},
		{"A/B inspection cost", &p.ABInspection.Unit},
	}
}

// ResolveUnits replaces unit aliases (e.g., 万元) with their unit keys. The
// first unknown unit, in field order, is reported.
func (p *Parameters) ResolveUnits() error {
	for _, f := range p.monetaryUnits() {
		resolved, err := units.ParseUnit(string(*f.unit))
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.unit = resolved
	}
	return nil
}

// Validate returns every violated input constraint.
func (p Parameters) Validate() error {
	var err error
	if !p.DisplayUnit.Valid() {
		err = multierr.Append(err, fmt.Errorf("display unit: %w: %q", units.ErrInvalidUnit, p.DisplayUnit))
	}
	if p.BaseCurrency != units.CNY && p.BaseCurrency != units.USD {
		err = multierr.Append(err, fmt.Errorf("base currency: %w: %q", units.ErrInvalidUnit, p.BaseCurrency))
	}
	if p.CurrencyMode != CurrencyModeAssumed && p.CurrencyMode != CurrencyModeNormalized {
		err = multierr.Append(err, fmt.Errorf("currency mode must be %s or %s, got %q",
			CurrencyModeAssumed, CurrencyModeNormalized, p.CurrencyMode))
	}
	if !p.Application.Valid() {
		err = multierr.Append(err, fmt.Errorf("unknown application %q", p.Application))
	}
	if !p.Power.Unit.Valid() {
		err = multierr.Append(err, fmt.Errorf("power: %w: %q", units.ErrInvalidUnit, p.Power.Unit))
	}
	if !p.HeatRate.Unit.Valid() {
		err = multierr.Append(err, fmt.Errorf("heat rate: %w: %q", units.ErrInvalidUnit, p.HeatRate.Unit))
	}
	if !p.Labor.Unit.Valid() {
		err = multierr.Append(err, fmt.Errorf("labor: %w: %q", units.ErrInvalidUnit, p.Labor.Unit))
	}

	err = multierr.Combine(err,
		validation.Positive("combined cycle uplift", p.CombinedCycleUplift),
		validation.Amount("unit price", p.UnitPrice),
		validation.AtLeast("unit count", float64(p.UnitCount), 1),
		validation.NonNegative("power", p.Power.Value),
		validation.NonNegative("heat rate", p.HeatRate.Value),
		validation.Positive("fuel lower heating value", p.FuelLowerHeatingValue),
		validation.Amount("gas price", p.GasPrice),
		validation.Amount("electricity price", p.ElectricityPrice),
		validation.Amount("overhaul cost", p.Overhaul.Cost),
		validation.AtLeast("overhaul period", p.Overhaul.PeriodHours, 1),
		validation.Amount("A/B inspection cost", p.ABInspection),
	)

	for _, role := range p.Labor.Roles {
		err = multierr.Combine(err,
			validation.NonNegative(fmt.Sprintf("%s annual salary", role.Role), role.AnnualSalary),
			validation.NonNegative(fmt.Sprintf("%s headcount", role.Role), float64(role.Headcount)),
		)
	}
	return err
}

// Warnings reports conditions that do not prevent an analysis but deserve
// attention.
func (p Parameters) Warnings(items []maintenance.Item) []string {
	var warnings []string

	if p.CurrencyMode != CurrencyModeNormalized {
		uses := []validation.CurrencyUse{
			{Input: "unit price", Currency: currencyOrEmpty(p.UnitPrice.Unit)},
			{Input: "gas price", Currency: currencyOrEmpty(p.GasPrice.Unit)},
			{Input: "electricity price", Currency: currencyOrEmpty(p.ElectricityPrice.Unit)},
			{Input: "labor", Currency: currencyOrEmpty(p.Labor.Unit)},
			{Input: "overhaul cost", Currency: currencyOrEmpty(p.Overhaul.Cost.Unit)},
			{Input: "A/B inspection cost", Currency: currencyOrEmpty(p.ABInspection.Unit)},
		}
		for _, item := range items {
			uses = append(uses, validation.CurrencyUse{
				Input:    fmt.Sprintf("maintenance item %q", item.Name),
				Currency: currencyOrEmpty(item.Cost.Unit),
			})
		}
		warnings = append(warnings, validation.ValidateCurrencyMix(uses, p.BaseCurrency)...)
	}

	warnings = append(warnings, validation.ValidateOverhaulPeriod(p.Overhaul.PeriodHours)...)

	if p.CombinedCycle {
		warnings = append(warnings, fmt.Sprintf(
			"combined-cycle revenue is estimated as %.0f%% of simple-cycle revenue", p.CombinedCycleUplift*100))
	}
	if p.Power.Value == 0 {
		warnings = append(warnings, "power is zero; the projection has no generation or revenue")
	}
	return warnings
}

func currencyOrEmpty(u units.Unit) units.Currency {
	c, _ := units.CurrencyOf(u)
	return c
}
