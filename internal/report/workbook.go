package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteWorkbook writes the report as an xlsx workbook with one sheet per
// table followed by the summary sheet.
func (r *Report) WriteWorkbook(w io.Writer) error {
	f, err := r.workbook()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path.
func (r *Report) SaveWorkbook(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook %s: %w", path, err)
	}
	if err := r.WriteWorkbook(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (r *Report) workbook() (*excelize.File, error) {
	f := excelize.NewFile()
	sheets := append(r.Tables(), r.SummaryTable())

	styles, err := newStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, table := range sheets {
		if i == 0 {
			err = f.SetSheetName("Sheet1", table.Name)
		} else {
			_, err = f.NewSheet(table.Name)
		}
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", table.Name, err)
		}
		if err := writeTable(f, table, styles); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to fill sheet %s: %w", table.Name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// styles caches one number-format style per decimal count.
type styles struct {
	file   *excelize.File
	header int
	number map[int]int
}

func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	return &styles{file: f, header: header, number: make(map[int]int)}, nil
}

func (s *styles) forPlaces(places int) (int, error) {
	if id, ok := s.number[places]; ok {
		return id, nil
	}
	format := "#,##0"
	if places > 0 {
		format += "." + strings.Repeat("0", places)
	}
	id, err := s.file.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return 0, err
	}
	s.number[places] = id
	return id, nil
}

func writeTable(f *excelize.File, table Table, s *styles) error {
	for col, header := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(table.Name, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(table.Name, cell, cell, s.header); err != nil {
			return err
		}
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(table.Name, colName, colName, float64(max(12, len(header)+2))); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		for col, c := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if !c.Numeric {
				if err := f.SetCellValue(table.Name, cell, c.Text); err != nil {
					return err
				}
				continue
			}
			if err := f.SetCellValue(table.Name, cell, c.Value); err != nil {
				return err
			}
			style, err := s.forPlaces(c.Places)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(table.Name, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}
