package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bornholm/transmute/internal/core/model"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const xlsxPlaceholder = "Spreadsheet detected\n\n" +
	"The workbook could not be read. The file was processed and is available for download."

// extractXlsx reads the workbook into a sheet/rows/cells structure. The
// tabular intermediate is serialized per target downstream; Text carries a
// tab-joined rendition so text-only backends always have content.
func (e *Extractor) extractXlsx(ctx context.Context, data []byte) *model.Intermediate {
	sheets, err := readWorkbook(data)
	if err != nil || len(sheets) == 0 {
		slog.DebugContext(ctx, "workbook extraction degraded to placeholder",
			slog.Any("error", errors.WithStack(err)),
		)
		return &model.Intermediate{Text: xlsxPlaceholder}
	}

	return &model.Intermediate{
		Text:   sheetsText(sheets),
		Sheets: sheets,
	}
}

func readWorkbook(data []byte) (sheets []model.Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("recovered: %v", r)
		}
	}()

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer workbook.Close()

	for _, name := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(name)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		sheets = append(sheets, model.Sheet{Name: name, Rows: rows})
	}

	return sheets, nil
}

func sheetsText(sheets []model.Sheet) string {
	var b strings.Builder

	for i, sheet := range sheets {
		fmt.Fprintf(&b, "=== Sheet %d ===\n", i+1)
		for _, row := range sheet.Rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}
