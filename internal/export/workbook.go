package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alanyoungcy/polysheet/internal/domain"
)

// Sheet and column labels. The data sheet headers are in Russian, matching
// the workbook layout the exporter has always produced.
const (
	DataSheet = "Polymarket"
	MetaSheet = "Meta"

	colTitle   = "Название рынка"
	colOptionA = "Параметр A"
	colOptionB = "Параметр B"

	metaColKey       = "Ключ"
	metaColValue     = "Значение"
	metaKeySource    = "Источник"
	metaKeyGenerated = "Сгенерировано"

	// SourceName identifies where the data came from, recorded on the
	// metadata sheet.
	SourceName = "gamma-api.polymarket.com"

	// metaTimeLayout formats the generation timestamp, e.g.
	// "2026-08-29 14:05 UTC".
	metaTimeLayout = "2006-01-02 15:04 UTC"
)

// WriteWorkbook sorts rows by title and writes the two-sheet workbook to
// path in a single save. It returns a *domain.WriteError when rows is empty
// or when the file cannot be written; no partial output is ever left behind
// on failure.
func WriteWorkbook(rows []domain.ExportRow, path string, generatedAt time.Time) error {
	if len(rows) == 0 {
		return &domain.WriteError{Path: path, Err: domain.ErrNoRows}
	}

	// Sort a copy so the caller's slice keeps its fetch order. Stable keeps
	// equal titles in input order.
	sorted := make([]domain.ExportRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Title < sorted[j].Title
	})

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DataSheet); err != nil {
		return &domain.WriteError{Path: path, Err: fmt.Errorf("rename data sheet: %w", err)}
	}
	if err := setRow(f, DataSheet, 1, colTitle, colOptionA, colOptionB); err != nil {
		return &domain.WriteError{Path: path, Err: err}
	}
	for i, row := range sorted {
		if err := setRow(f, DataSheet, i+2, row.Title, row.OptionA, row.OptionB); err != nil {
			return &domain.WriteError{Path: path, Err: err}
		}
	}

	if _, err := f.NewSheet(MetaSheet); err != nil {
		return &domain.WriteError{Path: path, Err: fmt.Errorf("create meta sheet: %w", err)}
	}
	meta := [][2]string{
		{metaColKey, metaColValue},
		{metaKeySource, SourceName},
		{metaKeyGenerated, generatedAt.UTC().Format(metaTimeLayout)},
	}
	for i, row := range meta {
		if err := setRow(f, MetaSheet, i+1, row[0], row[1]); err != nil {
			return &domain.WriteError{Path: path, Err: err}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &domain.WriteError{Path: path, Err: err}
	}
	return nil
}

// setRow writes the given cell values into row n (1-based) starting at
// column A.
func setRow(f *excelize.File, sheet string, n int, cells ...string) error {
	addr, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("row %d address: %w", n, err)
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, addr, &values); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}
