package units

import (
	"errors"
	"fmt"
)

// ErrInvalidRate is returned for a non-positive exchange rate.
var ErrInvalidRate = errors.New("exchange rate must be positive")

// ExchangeRate holds the number of CNY per 1 USD.
type ExchangeRate struct {
	USDToCNY float64 `json:"usdToCny" yaml:"usdToCny"`
}

// Validate checks that the rate can be used for conversions.
func (r ExchangeRate) Validate() error {
	if !(r.USDToCNY > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, r.USDToCNY)
	}
	return nil
}

// Converter applies one exchange rate to every cross-currency conversion.
type Converter struct {
	rate ExchangeRate
}

// NewConverter returns a Converter for the given rate.
func NewConverter(rate ExchangeRate) (*Converter, error) {
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	return &Converter{rate: rate}, nil
}

// Rate returns the rate the converter applies.
func (c *Converter) Rate() ExchangeRate {
	return c.rate
}

// Convert moves a x1 amount from one currency to another.
func (c *Converter) Convert(amount float64, from, to Currency) (float64, error) {
	if from != CNY && from != USD {
		return 0, fmt.Errorf("%w: currency %q", ErrInvalidUnit, from)
	}
	if to != CNY && to != USD {
		return 0, fmt.Errorf("%w: currency %q", ErrInvalidUnit, to)
	}
	switch {
	case from == to:
		return amount, nil
	case from == USD && to == CNY:
		return amount * c.rate.USDToCNY, nil
	default:
		return amount / c.rate.USDToCNY, nil
	}
}

// FromBase converts a x1 amount in baseCurrency to the target display unit:
// currency first, then magnitude.
func (c *Converter) FromBase(baseAmount float64, baseCurrency Currency, target Unit) (float64, error) {
	info, ok := unitTable[target]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, target)
	}
	amount, err := c.Convert(baseAmount, baseCurrency, info.currency)
	if err != nil {
		return 0, err
	}
	return amount / info.magnitude, nil
}

// ToUnit converts an amount from its own unit to another unit.
func (c *Converter) ToUnit(m MonetaryAmount, target Unit) (float64, error) {
	base, err := m.ToBase()
	if err != nil {
		return 0, err
	}
	currency, err := m.Currency()
	if err != nil {
		return 0, err
	}
	return c.FromBase(base, currency, target)
}
