// Package validation provides parameter validation utilities.
package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/units"
)

// Finite checks that a numeric value is neither NaN nor infinite.
func Finite(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s must be a finite number, got %v", name, value)
	}
	return nil
}

// NonNegative checks that a numeric input is finite and not below zero.
func NonNegative(name string, value float64) error {
	if err := Finite(name, value); err != nil {
		return err
	}
	if value < 0 {
		return fmt.Errorf("%s must not be negative, got %v", name, value)
	}
	return nil
}

// Positive checks that a numeric input is finite and above zero.
func Positive(name string, value float64) error {
	if err := NonNegative(name, value); err != nil {
		return err
	}
	if value == 0 {
		return fmt.Errorf("%s must be greater than zero", name)
	}
	return nil
}

// AtLeast checks that a numeric input is finite and not below minimum.
func AtLeast(name string, value, minimum float64) error {
	if err := NonNegative(name, value); err != nil {
		return err
	}
	if value < minimum {
		return fmt.Errorf("%s must be at least %v, got %v", name, minimum, value)
	}
	return nil
}

// Amount checks a monetary input: known unit and non-negative amount.
func Amount(name string, amount units.MonetaryAmount) error {
	if !amount.Unit.Valid() {
		return fmt.Errorf("%s: %w: %q", name, units.ErrInvalidUnit, amount.Unit)
	}
	return NonNegative(name, amount.Amount)
}

// CurrencyUse names the currency an input is priced in.
type CurrencyUse struct {
	Input    string
	Currency units.Currency
}

// ValidateCurrencyMix returns a warning when inputs are priced in more than
// one currency and aggregates are converted under a single assumed currency.
func ValidateCurrencyMix(uses []CurrencyUse, assumed units.Currency) []string {
	byCurrency := make(map[units.Currency][]string)
	for _, use := range uses {
		byCurrency[use.Currency] = append(byCurrency[use.Currency], use.Input)
	}
	if len(byCurrency) < 2 {
		return nil
	}

	currencies := make([]string, 0, len(byCurrency))
	for c := range byCurrency {
		currencies = append(currencies, string(c))
	}
	sort.Strings(currencies)

	parts := make([]string, 0, len(currencies))
	for _, c := range currencies {
		parts = append(parts, fmt.Sprintf("%s (%s)", c, strings.Join(byCurrency[units.Currency(c)], ", ")))
	}
	return []string{fmt.Sprintf(
		"inputs are priced in mixed currencies: %s; aggregated cash flow and maintenance totals are converted assuming %s",
		strings.Join(parts, "; "), assumed)}
}

// ValidateOverhaulPeriod warns when the overhaul period is shorter than one
// operating year, in which case the overhaul cost is applied every year.
func ValidateOverhaulPeriod(periodHours float64) []string {
	if periodHours < constants.OperatingHoursPerYear {
		return []string{fmt.Sprintf(
			"overhaul period of %.0f h is shorter than one operating year (%d h); overhaul cost is applied every year",
			periodHours, constants.OperatingHoursPerYear)}
	}
	return nil
}
