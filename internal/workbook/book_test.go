package workbook

import (
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"commerce_notifier/platform/apperr"

	"github.com/xuri/excelize/v2"
)

func TestAppendReadEditDelete(t *testing.T) {
	book := Open(filepath.Join(t.TempDir(), "files", "data.xlsx"), ProductsSheet)

	for _, row := range [][]string{
		{"Sac", "5000", "https://shop/sac", "https://img/sac.jpg"},
		{"Montre", "23500", "https://shop/montre", "https://img/montre.jpg"},
		{"Pagne", "8000", "https://shop/pagne", "https://img/pagne.jpg"},
	} {
		if err := book.AppendRow(row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if n, err := book.RowCount(); err != nil || n != 3 {
		t.Fatalf("expected 3 rows, got %d (%v)", n, err)
	}

	row, err := book.ReadRow(2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Join(row, "|") != "Montre|23500|https://shop/montre|https://img/montre.jpg" {
		t.Fatalf("unexpected row %v", row)
	}

	if err := book.EditRow(2, []string{"Montre Casio", "21000"}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	row, _ = book.ReadRow(2)
	if row[0] != "Montre Casio" || row[1] != "21000" || row[2] != "https://shop/montre" {
		t.Fatalf("unexpected edited row %v", row)
	}

	if err := book.DeleteRow(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	row, _ = book.ReadRow(1)
	if row[0] != "Montre Casio" {
		t.Fatalf("rows must shift up after delete, got %v", row)
	}
	if _, err := book.ReadRow(3); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRandomRow(t *testing.T) {
	book := Open(filepath.Join(t.TempDir(), "data.xlsx"), ProductsSheet).WithRand(rand.New(rand.NewPCG(1, 2)))

	if _, err := book.RandomRow(); !apperr.Is(err, apperr.KindNoData) {
		t.Fatalf("expected no data on a missing file, got %v", err)
	}

	_ = book.AppendRow([]string{"Sac"})
	_ = book.AppendRow([]string{"Montre"})

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		row, err := book.RandomRow()
		if err != nil {
			t.Fatalf("random row: %v", err)
		}
		seen[row[0]] = true
	}
	if !seen["Sac"] || !seen["Montre"] {
		t.Fatalf("expected both rows to be drawn, got %v", seen)
	}
}

func TestSheetsShareOneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	products := Open(path, ProductsSheet)
	prospection := Open(path, ProspectionSheet)

	if err := products.AppendRow([]string{"Sac", "5000"}); err != nil {
		t.Fatalf("append product: %v", err)
	}
	if err := prospection.AppendRow([]string{"fr", "en", "img"}); err != nil {
		t.Fatalf("append prospection: %v", err)
	}

	if n, _ := products.RowCount(); n != 1 {
		t.Fatalf("expected one product row, got %d", n)
	}
	if n, _ := prospection.RowCount(); n != 1 {
		t.Fatalf("expected one prospection row, got %d", n)
	}
}

func TestWriteHeaderStylesFirstRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "valid.xlsx")
	book := Open(path, ProductsSheet)

	if err := book.WriteHeader([]string{"Owner", "Phone", "Status"}, FillValid); err != nil {
		t.Fatalf("header: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	styleID, err := f.GetCellStyle(ProductsSheet, "C1")
	if err != nil {
		t.Fatalf("cell style: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Fatalf("expected bold header")
	}
	if len(style.Fill.Color) == 0 || !strings.HasSuffix(strings.ToUpper(style.Fill.Color[0]), FillValid) {
		t.Fatalf("unexpected fill %v", style.Fill.Color)
	}
}

func TestBatchWrites(t *testing.T) {
	book := Open(filepath.Join(t.TempDir(), "batch.xlsx"), ProductsSheet)

	if err := book.AppendRows([][]string{{"Awa", "+237699512438"}, {"Paul", "+237677000000"}}); err != nil {
		t.Fatalf("append rows: %v", err)
	}
	if err := book.EditRows(map[int][]string{2: {"Paul", "+237677000000", "Invalid"}}); err != nil {
		t.Fatalf("edit rows: %v", err)
	}

	rows, err := book.ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(rows) != 2 || strings.Join(rows[1], "|") != "Paul|+237677000000|Invalid" {
		t.Fatalf("unexpected rows %v", rows)
	}

	if err := book.EditRows(map[int][]string{7: {"x"}}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
