package chart

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/turbine-invest/pkg/projection"
)

func sampleTable() *projection.Table {
	table := &projection.Table{DisplayUnit: "CNY_10K"}
	cumulative := 0.0
	for year := 1; year <= 12; year++ {
		cash := 100.0 * float64(year)
		cumulative += cash
		table.Rows = append(table.Rows, projection.Row{
			Period:           year,
			Revenue:          1000,
			OperatingCost:    1000 - cash,
			CashFlow:         cash,
			CumulativeProfit: cumulative,
		})
	}
	return table
}

func TestSeriesPoints(t *testing.T) {
	table := sampleTable()
	pts := TrendSeries[3].Points(table)
	if len(pts) != 12 {
		t.Fatalf("expected 12 points, got %d", len(pts))
	}
	if pts[0].X != 1 || pts[11].X != 12 {
		t.Errorf("unexpected x range %v..%v", pts[0].X, pts[11].X)
	}
	if pts[11].Y != 7800 {
		t.Errorf("final cumulative profit = %v, expected 7800", pts[11].Y)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, sampleTable()); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Error("expected a non-empty image")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.png")
	if err := SavePNG(path, sampleTable()); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty file")
	}
}

func TestNewRequiresRows(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected an error for a nil table")
	}
	if _, err := New(&projection.Table{}); err == nil {
		t.Error("expected an error for an empty table")
	}
}
