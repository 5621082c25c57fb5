package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	headerFill   = "#D3D3D3"
	numberFormat = "#,##0.00"
)

// column describes one spreadsheet column
type column struct {
	Header  string
	Width   float64
	Numeric bool
}

// sheet is a header plus data rows ready to be written
type sheet struct {
	Name    string
	Columns []column
	Rows    [][]any
}

// render writes the sheet into a new workbook. The default Sheet1 is removed.
func (s *sheet) render() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(s.Name); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(s.Name)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	customFormat := numberFormat
	numberStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &customFormat})
	if err != nil {
		return nil, fmt.Errorf("failed to create number style: %w", err)
	}

	for i, col := range s.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		cell := name + "1"
		if err := f.SetCellValue(s.Name, cell, col.Header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(s.Name, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(s.Name, name, name, col.Width); err != nil {
			return nil, err
		}
		if col.Numeric && len(s.Rows) > 0 {
			last := fmt.Sprintf("%s%d", name, len(s.Rows)+1)
			if err := f.SetCellStyle(s.Name, name+"2", last, numberStyle); err != nil {
				return nil, err
			}
		}
	}

	for r, row := range s.Rows {
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(s.Name, start, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	if err := f.SetPanes(s.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(s.Columns))
	if err != nil {
		return nil, err
	}
	if err := f.AutoFilter(s.Name, fmt.Sprintf("A1:%s%d", lastCol, len(s.Rows)+1), nil); err != nil {
		return nil, fmt.Errorf("failed to set autofilter: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// quantity converts a decimal into a numeric cell value
func quantity(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
