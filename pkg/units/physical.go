package units

import "fmt"

// HeatRateUnit is a heat-rate input unit.
type HeatRateUnit string

// Supported heat-rate units.
const (
	KJPerKWh   HeatRateUnit = "kj/kwh"
	KcalPerKWh HeatRateUnit = "kcal/kwh"
	BTUPerKWh  HeatRateUnit = "btu/kwh"
)

var heatRateTable = map[HeatRateUnit]float64{
	KJPerKWh:   1,
	KcalPerKWh: 4.1868,
	BTUPerKWh:  1.05506,
}

// PowerUnit is a power input unit.
type PowerUnit string

// Supported power units.
const (
	KW PowerUnit = "kW"
	MW PowerUnit = "MW"
)

var powerTable = map[PowerUnit]float64{
	KW: 1,
	MW: 1000,
}

// HeatRateToKJPerKWh normalizes a heat rate to kJ/kWh.
func HeatRateToKJPerKWh(value float64, u HeatRateUnit) (float64, error) {
	factor, ok := heatRateTable[u]
	if !ok {
		return 0, fmt.Errorf("%w: heat rate unit %q", ErrInvalidUnit, u)
	}
	return value * factor, nil
}

// PowerToKW normalizes a power value to kW.
func PowerToKW(value float64, u PowerUnit) (float64, error) {
	factor, ok := powerTable[u]
	if !ok {
		return 0, fmt.Errorf("%w: power unit %q", ErrInvalidUnit, u)
	}
	return value * factor, nil
}

// Valid reports whether u is an enumerated heat-rate unit.
func (u HeatRateUnit) Valid() bool {
	_, ok := heatRateTable[u]
	return ok
}

// Valid reports whether u is an enumerated power unit.
func (u PowerUnit) Valid() bool {
	_, ok := powerTable[u]
	return ok
}
