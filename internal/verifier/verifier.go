// Package verifier checks a workbook of phone numbers against WhatsApp.
package verifier

import (
	"context"
	"errors"
	"strings"

	"commerce_notifier/internal/workbook"
	"commerce_notifier/platform/logger"
	"commerce_notifier/platform/phone"

	"golang.org/x/sync/errgroup"
)

// Row status values written to column C.
const (
	StatusValid   = "Valid"
	StatusInvalid = "Invalid"
)

var splitHeaders = []string{"Owner", "Phone", "Status"}

// Checker reports whether a number is registered on WhatsApp.
type Checker interface {
	Exists(ctx context.Context, phoneNumber string) (bool, error)
}

// Source is the workbook being verified. Row 1 is a header.
type Source interface {
	ReadAll() ([][]string, error)
	EditRows(edits map[int][]string) error
}

// Target receives split rows.
type Target interface {
	WriteHeader(values []string, fill string) error
	AppendRows(rows [][]string) error
}

// Summary counts what a pass did with each data row.
type Summary struct {
	Rows    int `json:"rows"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type Verifier struct {
	checker     Checker
	normalizer  phone.Normalizer
	concurrency int
	log         *logger.Logger
}

func New(checker Checker, normalizer phone.Normalizer, log *logger.Logger) *Verifier {
	if log == nil {
		log = logger.Discard()
	}
	return &Verifier{checker: checker, normalizer: normalizer, concurrency: 4, log: log}
}

// WithConcurrency bounds the number of in-flight gateway checks.
func (v *Verifier) WithConcurrency(n int) *Verifier {
	v.concurrency = max(1, n)
	return v
}

type entry struct {
	index  int
	owner  string
	phone  string
	status string
}

// Verify writes Valid or Invalid into column C of every unmarked data row.
// Rows whose check fails stay unmarked so a rerun picks them up.
func (v *Verifier) Verify(ctx context.Context, src Source) (Summary, error) {
	entries, err := readEntries(src)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Rows: len(entries)}
	var pending []entry
	for _, e := range entries {
		if e.status != "" {
			summary.Skipped++
			continue
		}
		pending = append(pending, e)
	}

	checked, err := v.check(ctx, pending)
	if err != nil {
		return summary, err
	}

	edits := make(map[int][]string, len(checked))
	for _, e := range checked {
		switch e.status {
		case StatusValid:
			summary.Valid++
		case StatusInvalid:
			summary.Invalid++
		default:
			summary.Failed++
			continue
		}
		edits[e.index] = []string{e.owner, e.phone, e.status}
	}

	if err := src.EditRows(edits); err != nil {
		return summary, err
	}
	return summary, nil
}

// Split copies data rows into valid and invalid targets, checking rows
// that carry no status yet. Rows whose check fails are left out.
func (v *Verifier) Split(ctx context.Context, src Source, valid, invalid Target) (Summary, error) {
	entries, err := readEntries(src)
	if err != nil {
		return Summary{}, err
	}

	if err := valid.WriteHeader(splitHeaders, workbook.FillValid); err != nil {
		return Summary{}, err
	}
	if err := invalid.WriteHeader(splitHeaders, workbook.FillInvalid); err != nil {
		return Summary{}, err
	}

	var unknown []entry
	for _, e := range entries {
		if e.status == "" {
			unknown = append(unknown, e)
		}
	}
	checked, err := v.check(ctx, unknown)
	if err != nil {
		return Summary{}, err
	}
	byIndex := make(map[int]string, len(checked))
	for _, e := range checked {
		byIndex[e.index] = e.status
	}

	summary := Summary{Rows: len(entries)}
	var validRows, invalidRows [][]string
	for _, e := range entries {
		status := e.status
		if status == "" {
			status = byIndex[e.index]
		}
		row := []string{e.owner, e.phone, status}
		switch status {
		case StatusValid:
			summary.Valid++
			validRows = append(validRows, row)
		case StatusInvalid:
			summary.Invalid++
			invalidRows = append(invalidRows, row)
		default:
			summary.Failed++
		}
	}

	return summary, errors.Join(valid.AppendRows(validRows), invalid.AppendRows(invalidRows))
}

// check resolves the status of each entry. A failed lookup leaves the
// status empty. Only context cancellation aborts the pass.
func (v *Verifier) check(ctx context.Context, entries []entry) ([]entry, error) {
	out := make([]entry, len(entries))
	copy(out, entries)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)
	for i := range out {
		g.Go(func() error {
			number := v.normalizer.Normalize(out[i].phone)
			exists, err := v.checker.Exists(gctx, number)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				v.log.Warn("number check failed", "row", out[i].index, "phone", number, "error", err)
				return nil
			}
			out[i].status = StatusInvalid
			if exists {
				out[i].status = StatusValid
			}
			v.log.Debug("number checked", "row", out[i].index, "phone", number, "status", out[i].status)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func readEntries(src Source) ([]entry, error) {
	rows, err := src.ReadAll()
	if err != nil {
		return nil, err
	}

	var entries []entry
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		e := entry{index: i + 1}
		if len(row) > 0 {
			e.owner = row[0]
		}
		if len(row) > 1 {
			e.phone = strings.ReplaceAll(row[1], " ", "")
		}
		if e.phone == "" {
			continue
		}
		if len(row) > 2 {
			e.status = canonicalStatus(row[2])
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func canonicalStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "valid":
		return StatusValid
	case "invalid":
		return StatusInvalid
	default:
		return ""
	}
}
