// Package format renders numbers for human-readable output.
package format

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Grouped returns value with the given number of decimals and thousands
// separators (e.g., "-1,234.56").
func Grouped(value float64, places int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	if places < 0 {
		places = 0
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf(fmt.Sprintf("%%.%df", places), value)
}

// Amount returns value with separators followed by its unit label, if any
// (e.g., "16,000.00 CNY_10K").
func Amount(value float64, places int, unit string) string {
	s := Grouped(value, places)
	if unit == "" {
		return s
	}
	return s + " " + unit
}
