package report

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Placeholder fills non-monetary columns of total rows.
const Placeholder = "-"

// Cell is one table value. Numeric cells carry the number of decimal places
// they are displayed and exported with.
type Cell struct {
	Text    string  `json:"text,omitempty"`
	Value   float64 `json:"value"`
	Places  int     `json:"places"`
	Numeric bool    `json:"numeric"`
}

// Text returns a text cell.
func Text(s string) Cell {
	return Cell{Text: s}
}

// Number returns a numeric cell rounded half away from zero to places.
func Number(v float64, places int) Cell {
	return Cell{Value: Round(v, places), Places: places, Numeric: true}
}

// Round rounds v to places decimals. NaN and infinities are returned as is.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(int32(places)).InexactFloat64()
}

// String renders the cell with its fixed number of decimals.
func (c Cell) String() string {
	if !c.Numeric {
		return c.Text
	}
	if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
		return strconv.FormatFloat(c.Value, 'f', -1, 64)
	}
	return decimal.NewFromFloat(c.Value).StringFixed(int32(c.Places))
}

// Table is one tabular artifact of the report, exported as one sheet.
type Table struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Headers []string `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}

// Metric is one headline figure.
type Metric struct {
	Label string `json:"label"`
	Value Cell   `json:"value"`
	Unit  string `json:"unit,omitempty"`
}
