package export

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alanyoungcy/polysheet/internal/domain"
)

func TestWriteWorkbook_EmptyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	err := WriteWorkbook(nil, path, time.Now())
	var writeErr *domain.WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("got %T (%v), want *domain.WriteError", err, err)
	}
	if !errors.Is(err, domain.ErrNoRows) {
		t.Errorf("error should wrap ErrNoRows, got %v", err)
	}
	if _, statErr := excelize.OpenFile(path); statErr == nil {
		t.Error("no output file should exist after an empty-rows failure")
	}
}

func TestWriteWorkbook_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.xlsx")
	rows := []domain.ExportRow{{Title: "a", OptionA: "Yes", OptionB: "No"}}

	err := WriteWorkbook(rows, path, time.Now())
	var writeErr *domain.WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("got %T (%v), want *domain.WriteError", err, err)
	}
}

func TestWriteWorkbook_SheetsAndSorting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	rows := []domain.ExportRow{
		{Title: "zebra", OptionA: "Yes", OptionB: "No"},
		{Title: "apple", OptionA: "Up", OptionB: "Down"},
		{Title: "mango", OptionA: "Red", OptionB: "Blue"},
	}
	generatedAt := time.Date(2026, 8, 29, 14, 5, 59, 0, time.UTC)

	if err := WriteWorkbook(rows, path, generatedAt); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Polymarket" || sheets[1] != "Meta" {
		t.Fatalf("sheets = %v, want [Polymarket Meta]", sheets)
	}

	data, err := f.GetRows("Polymarket")
	if err != nil {
		t.Fatalf("read data sheet: %v", err)
	}
	want := [][]string{
		{"Название рынка", "Параметр A", "Параметр B"},
		{"apple", "Up", "Down"},
		{"mango", "Red", "Blue"},
		{"zebra", "Yes", "No"},
	}
	if len(data) != len(want) {
		t.Fatalf("data sheet has %d rows, want %d", len(data), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if data[i][j] != want[i][j] {
				t.Errorf("cell [%d][%d] = %q, want %q", i, j, data[i][j], want[i][j])
			}
		}
	}

	meta, err := f.GetRows("Meta")
	if err != nil {
		t.Fatalf("read meta sheet: %v", err)
	}
	wantMeta := [][]string{
		{"Ключ", "Значение"},
		{"Источник", "gamma-api.polymarket.com"},
		{"Сгенерировано", "2026-08-29 14:05 UTC"},
	}
	if len(meta) != len(wantMeta) {
		t.Fatalf("meta sheet has %d rows, want %d", len(meta), len(wantMeta))
	}
	for i := range wantMeta {
		for j := range wantMeta[i] {
			if meta[i][j] != wantMeta[i][j] {
				t.Errorf("meta cell [%d][%d] = %q, want %q", i, j, meta[i][j], wantMeta[i][j])
			}
		}
	}
}

func TestWriteWorkbook_StableOnEqualTitles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	rows := []domain.ExportRow{
		{Title: "same", OptionA: "first", OptionB: "No"},
		{Title: "aaa", OptionA: "Yes", OptionB: "No"},
		{Title: "same", OptionA: "second", OptionB: "No"},
	}

	if err := WriteWorkbook(rows, path, time.Now()); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	data, err := f.GetRows("Polymarket")
	if err != nil {
		t.Fatalf("read data sheet: %v", err)
	}
	// Header, then aaa, then the two "same" rows in input order.
	if data[2][1] != "first" || data[3][1] != "second" {
		t.Errorf("equal titles reordered: rows %q then %q", data[2][1], data[3][1])
	}

	// Caller slice untouched.
	if rows[0].Title != "same" || rows[1].Title != "aaa" {
		t.Error("input slice was mutated by sorting")
	}
}
