// Package units converts monetary amounts between currency/magnitude units and
// normalizes the physical units (heat rate, power) accepted as inputs.
package units

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidUnit is returned when a unit key is not one of the enumerated units.
var ErrInvalidUnit = errors.New("invalid unit")

// Currency identifies the currency part of a monetary unit.
type Currency string

// Supported currencies.
const (
	CNY Currency = "CNY"
	USD Currency = "USD"
)

// Unit is a monetary unit: a currency combined with a magnitude.
type Unit string

// Supported monetary units.
const (
	Yuan           Unit = "CNY"
	TenThousandCNY Unit = "CNY_10K"
	MillionCNY     Unit = "CNY_1M"
	Dollar         Unit = "USD"
	TenThousandUSD Unit = "USD_10K"
	MillionUSD     Unit = "USD_1M"
)

type unitInfo struct {
	currency  Currency
	magnitude float64
}

var unitTable = map[Unit]unitInfo{
	Yuan:           {CNY, 1},
	TenThousandCNY: {CNY, 10_000},
	MillionCNY:     {CNY, 1_000_000},
	Dollar:         {USD, 1},
	TenThousandUSD: {USD, 10_000},
	MillionUSD:     {USD, 1_000_000},
}

// Labels used by the spreadsheet-era input forms.
var unitAliases = map[string]Unit{
	"人民币元": Yuan,
	"万元":   TenThousandCNY,
	"百万元":  MillionCNY,
	"美元":   Dollar,
	"万美元":  TenThousandUSD,
	"百万美元": MillionUSD,
}

// MonetaryAmount is a value expressed in a monetary unit.
type MonetaryAmount struct {
	Amount float64 `json:"amount" yaml:"amount"`
	Unit   Unit    `json:"unit" yaml:"unit"`
}

// Units returns every supported monetary unit in a stable order.
func Units() []Unit {
	out := make([]Unit, 0, len(unitTable))
	for u := range unitTable {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := unitTable[out[i]], unitTable[out[j]]
		if a.currency != b.currency {
			return a.currency < b.currency
		}
		return a.magnitude < b.magnitude
	})
	return out
}

// Valid reports whether u is an enumerated unit.
func (u Unit) Valid() bool {
	_, ok := unitTable[u]
	return ok
}

// ParseUnit resolves a unit key or one of its aliases.
func ParseUnit(label string) (Unit, error) {
	trimmed := strings.TrimSpace(label)
	if u := Unit(strings.ToUpper(trimmed)); u.Valid() {
		return u, nil
	}
	if u, ok := unitAliases[trimmed]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUnit, label)
}

// CurrencyOf returns the currency of a monetary unit.
func CurrencyOf(u Unit) (Currency, error) {
	info, ok := unitTable[u]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, u)
	}
	return info.currency, nil
}

// MagnitudeOf returns the multiplier of a monetary unit.
func MagnitudeOf(u Unit) (float64, error) {
	info, ok := unitTable[u]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, u)
	}
	return info.magnitude, nil
}

// ToBase scales an amount to the x1 magnitude of its own currency. It never
// crosses currencies.
func ToBase(amount float64, u Unit) (float64, error) {
	magnitude, err := MagnitudeOf(u)
	if err != nil {
		return 0, err
	}
	return amount * magnitude, nil
}

// ToBase is a convenience for MonetaryAmount.
func (m MonetaryAmount) ToBase() (float64, error) {
	return ToBase(m.Amount, m.Unit)
}

// Currency returns the currency of the amount's unit.
func (m MonetaryAmount) Currency() (Currency, error) {
	return CurrencyOf(m.Unit)
}
