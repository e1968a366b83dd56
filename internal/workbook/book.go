// Package workbook reads and writes rows of a local .xlsx workbook.
package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"

	"commerce_notifier/platform/apperr"

	"github.com/xuri/excelize/v2"
)

// Sheet names used by the notifier.
const (
	ProductsSheet    = "Sheet1"
	ProspectionSheet = "Prospection"
)

// Header fills used when splitting verified workbooks.
const (
	FillValid   = "00AF50"
	FillInvalid = "FE0000"
)

// Book is one sheet of a workbook file. Rows are 1-indexed. The file is
// opened for every operation so external edits are picked up.
type Book struct {
	path  string
	sheet string
	mu    sync.Mutex
	rnd   *rand.Rand
}

// Open returns a Book for a sheet of the file at path. The file and sheet
// are created on first write.
func Open(path, sheet string) *Book {
	if sheet == "" {
		sheet = ProductsSheet
	}
	return &Book{path: path, sheet: sheet, rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// WithRand replaces the random source used by RandomRow.
func (b *Book) WithRand(rnd *rand.Rand) *Book {
	b.rnd = rnd
	return b
}

func (b *Book) Path() string { return b.path }

// AppendRow writes values after the last populated row.
func (b *Book) AppendRow(values []string) error {
	return b.update(func(f *excelize.File, rows [][]string) error {
		return setRow(f, b.sheet, len(rows)+1, values)
	})
}

// AppendRows writes several rows in one save.
func (b *Book) AppendRows(values [][]string) error {
	if len(values) == 0 {
		return nil
	}
	return b.update(func(f *excelize.File, rows [][]string) error {
		for i, row := range values {
			if err := setRow(f, b.sheet, len(rows)+1+i, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadRow returns the cells of a row.
func (b *Book) ReadRow(index int) ([]string, error) {
	rows, err := b.ReadAll()
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(rows) {
		return nil, apperr.NotFound(fmt.Sprintf("row %d not found", index)).WithOp("workbook.ReadRow")
	}
	return rows[index-1], nil
}

// EditRow overwrites a row. Cells beyond len(values) are left as they are.
func (b *Book) EditRow(index int, values []string) error {
	return b.update(func(f *excelize.File, rows [][]string) error {
		if index < 1 || index > len(rows) {
			return apperr.NotFound(fmt.Sprintf("row %d not found", index)).WithOp("workbook.EditRow")
		}
		return setRow(f, b.sheet, index, values)
	})
}

// EditRows overwrites several rows, keyed by row index, in one save.
func (b *Book) EditRows(edits map[int][]string) error {
	if len(edits) == 0 {
		return nil
	}
	return b.update(func(f *excelize.File, rows [][]string) error {
		for index, values := range edits {
			if index < 1 || index > len(rows) {
				return apperr.NotFound(fmt.Sprintf("row %d not found", index)).WithOp("workbook.EditRows")
			}
			if err := setRow(f, b.sheet, index, values); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetCell writes a single cell, addressed like "C4".
func (b *Book) SetCell(cell, value string) error {
	return b.update(func(f *excelize.File, _ [][]string) error {
		return f.SetCellValue(b.sheet, cell, value)
	})
}

// DeleteRow removes a row and shifts the following rows up.
func (b *Book) DeleteRow(index int) error {
	return b.update(func(f *excelize.File, rows [][]string) error {
		if index < 1 || index > len(rows) {
			return apperr.NotFound(fmt.Sprintf("row %d not found", index)).WithOp("workbook.DeleteRow")
		}
		return f.RemoveRow(b.sheet, index)
	})
}

// RowCount is the number of populated rows.
func (b *Book) RowCount() (int, error) {
	rows, err := b.ReadAll()
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// RandomRow returns a uniformly chosen row. An empty sheet is a NoData error.
func (b *Book) RandomRow() ([]string, error) {
	rows, err := b.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NoData("workbook has no rows").WithOp("workbook.RandomRow")
	}

	b.mu.Lock()
	i := b.rnd.IntN(len(rows))
	b.mu.Unlock()
	return rows[i], nil
}

// ReadAll returns every populated row. A missing file or sheet reads as empty.
func (b *Book) ReadAll() ([][]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := excelize.OpenFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", b.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return readRows(f, b.sheet)
}

// WriteHeader writes values into row 1 in bold, centered, on the given fill.
func (b *Book) WriteHeader(values []string, fill string) error {
	return b.update(func(f *excelize.File, _ [][]string) error {
		if err := setRow(f, b.sheet, 1, values); err != nil {
			return err
		}
		style, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(max(len(values), 1), 1)
		if err != nil {
			return err
		}
		return f.SetCellStyle(b.sheet, "A1", last, style)
	})
}

func (b *Book) update(fn func(f *excelize.File, rows [][]string) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := b.openOrCreate()
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := readRows(f, b.sheet)
	if err != nil {
		return err
	}
	if err := fn(f, rows); err != nil {
		return err
	}

	if dir := filepath.Dir(b.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create workbook dir: %w", err)
		}
	}
	if err := f.SaveAs(b.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", b.path, err)
	}
	return nil
}

func (b *Book) openOrCreate() (*excelize.File, error) {
	f, err := excelize.OpenFile(b.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f = excelize.NewFile()
	case err != nil:
		return nil, fmt.Errorf("open workbook %s: %w", b.path, err)
	}

	idx, err := f.GetSheetIndex(b.sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if idx == -1 {
		if _, err := f.NewSheet(b.sheet); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

func readRows(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	if idx == -1 {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
