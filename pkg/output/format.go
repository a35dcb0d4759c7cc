// Package output provides utilities for formatting and displaying analysis
// reports.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iwvelando/turbine-invest/internal/report"
	"github.com/iwvelando/turbine-invest/pkg/format"
)

// PrettyFormat writes a human-readable rather than machine-readable
// rendering of rep.
func PrettyFormat(w io.Writer, rep *report.Report) error {
	fmt.Fprintf(w, "--- Results for run %s ---\n", rep.RunID)
	for _, m := range rep.Metrics {
		value := m.Value.Text
		if m.Value.Numeric {
			value = format.Amount(m.Value.Value, m.Value.Places, m.Unit)
		} else if m.Unit != "" {
			value += " " + m.Unit
		}
		fmt.Fprintf(w, "%s: %s\n", m.Label, value)
	}
	for _, warning := range rep.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}

	for _, table := range rep.Tables() {
		fmt.Fprintf(w, "\n--- %s ---\n", table.Title)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		writeRow(tw, table.Headers)
		for _, row := range table.Rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = prettyCell(c)
			}
			writeRow(tw, cells)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, cells []string) {
	for _, c := range cells {
		fmt.Fprintf(w, "%s\t", c)
	}
	fmt.Fprintln(w)
}

func prettyCell(c report.Cell) string {
	if !c.Numeric {
		return c.Text
	}
	return format.Grouped(c.Value, c.Places)
}

// CsvFormat writes rep in comma-separated value format, one block per table
// separated by an empty line. Numbers carry no thousands separators.
func CsvFormat(w io.Writer, rep *report.Report) error {
	tables := append(rep.Tables(), rep.SummaryTable())
	for i, table := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(append([]string{"table"}, table.Headers...)); err != nil {
			return err
		}
		for _, row := range table.Rows {
			record := make([]string, 0, len(row)+1)
			record = append(record, table.Name)
			for _, c := range row {
				record = append(record, c.String())
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}
	return nil
}

// CsvString returns the CSV rendering of rep.
func CsvString(rep *report.Report) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, rep); err != nil {
		return "", err
	}
	return buf.String(), nil
}
