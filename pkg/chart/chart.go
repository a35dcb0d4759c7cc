// Package chart draws the yearly trend chart of a projection.
package chart

import (
	"fmt"
	"image/color"
	"io"

	"github.com/iwvelando/turbine-invest/pkg/projection"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default image size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Series is one plotted line.
type Series struct {
	Name  string
	Color color.Color
	Value func(projection.Row) float64
}

// TrendSeries are the lines of the trend chart.
var TrendSeries = []Series{
	{Name: "Revenue", Color: color.RGBA{R: 0, G: 128, B: 255, A: 255}, Value: func(r projection.Row) float64 { return r.Revenue }},
	{Name: "Operating cost", Color: color.RGBA{R: 255, G: 128, B: 0, A: 255}, Value: func(r projection.Row) float64 { return r.OperatingCost }},
	{Name: "Cash flow", Color: color.RGBA{R: 0, G: 160, B: 80, A: 255}, Value: func(r projection.Row) float64 { return r.CashFlow }},
	{Name: "Cumulative profit", Color: color.RGBA{R: 200, G: 0, B: 0, A: 255}, Value: func(r projection.Row) float64 { return r.CumulativeProfit }},
}

// Points returns the per-year points of s.
func (s Series) Points(table *projection.Table) plotter.XYs {
	pts := make(plotter.XYs, len(table.Rows))
	for i, row := range table.Rows {
		pts[i].X = float64(row.Period)
		pts[i].Y = s.Value(row)
	}
	return pts
}

// New builds the trend plot of table.
func New(table *projection.Table) (*plot.Plot, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, fmt.Errorf("chart requires a projection with rows")
	}

	p := plot.New()
	p.Title.Text = "Economic indicators by year"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = fmt.Sprintf("Amount (%s)", table.DisplayUnit)
	p.Add(plotter.NewGrid())

	for _, s := range TrendSeries {
		line, err := plotter.NewLine(s.Points(table))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s line: %w", s.Name, err)
		}
		line.Color = s.Color
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true
	return p, nil
}

// WritePNG renders the trend chart of table as a PNG image.
func WritePNG(w io.Writer, table *projection.Table) error {
	p, err := New(table)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// SavePNG writes the trend chart of table to path.
func SavePNG(path string, table *projection.Table) error {
	p, err := New(table)
	if err != nil {
		return err
	}
	return p.Save(DefaultWidth, DefaultHeight, path)
}
