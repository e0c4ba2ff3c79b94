package render

import (
	"bytes"
	"strings"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	BackendExcelize = "excelize"
	BackendCSV      = "csv"
)

// renderXlsx builds a workbook from extracted sheets, or a single-column
// sheet from plain text when the source had no tabular structure.
func renderXlsx(doc *model.Intermediate) (data []byte, backend string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("recovered: %v", r)
		}
	}()

	book := excelize.NewFile()
	defer book.Close()

	sheets := doc.Sheets
	if len(sheets) == 0 {
		sheets = textSheet(plainText(doc))
	}

	for i, sheet := range sheets {
		name := sheet.Name
		if name == "" {
			name = "Sheet1"
		}

		if i == 0 {
			if err := book.SetSheetName("Sheet1", name); err != nil {
				return nil, "", errors.WithStack(err)
			}
		} else {
			if _, err := book.NewSheet(name); err != nil {
				return nil, "", errors.WithStack(err)
			}
		}

		for rowIdx, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			if err != nil {
				return nil, "", errors.WithStack(err)
			}

			values := make([]interface{}, len(row))
			for i, v := range row {
				values[i] = v
			}

			if err := book.SetSheetRow(name, cell, &values); err != nil {
				return nil, "", errors.WithStack(err)
			}
		}
	}

	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		return nil, "", errors.WithStack(err)
	}

	return buf.Bytes(), BackendExcelize, nil
}

func textSheet(text string) []model.Sheet {
	lines := strings.Split(text, "\n")

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []string{line})
	}

	return []model.Sheet{{Name: "Sheet1", Rows: rows}}
}

// renderCSV flattens all sheets into one comma-separated stream. Every cell
// is quoted, with embedded quotes doubled.
func renderCSV(doc *model.Intermediate) ([]byte, string, error) {
	sheets := doc.Sheets
	if len(sheets) == 0 {
		sheets = textSheet(plainText(doc))
	}

	var b strings.Builder

	for _, sheet := range sheets {
		for _, row := range sheet.Rows {
			for i, cell := range row {
				if i > 0 {
					b.WriteString(",")
				}
				b.WriteString(`"`)
				b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
				b.WriteString(`"`)
			}
			b.WriteString("\n")
		}
	}

	return []byte(b.String()), BackendCSV, nil
}
