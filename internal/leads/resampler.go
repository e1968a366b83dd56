// Package leads re-engages historical leads stored in the lead sheet.
package leads

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"commerce_notifier/internal/metrics"
	"commerce_notifier/platform/apperr"
	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"
)

// ContactDateLayout is the format of the last-contacted column.
const ContactDateLayout = "01/02/2006"

// contactedColumn holds the last-contacted date of a lead row.
const contactedColumn = "D"

// Store is the remote lead sheet.
type Store interface {
	RowCount(ctx context.Context) (int, error)
	ReadRow(ctx context.Context, row int) ([]string, error)
	UpdateCell(ctx context.Context, cell, value string) error
}

// Lead is one row of the lead sheet: first name, last name, phone and the
// date the lead was last prospected.
type Lead struct {
	Row           int
	FirstName     string
	LastName      string
	Phone         string
	LastContacted *time.Time
}

func parseLead(row int, cells []string) Lead {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	lead := Lead{Row: row, FirstName: cell(0), LastName: cell(1), Phone: cell(2)}
	if t, ok := parseContactDate(cell(3)); ok {
		lead.LastContacted = &t
	}
	return lead
}

func hasDigits(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
}

// parseContactDate reads an m/d/Y date, ignoring stray quotes left by
// spreadsheet text formatting.
func parseContactDate(raw string) (time.Time, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "'", ""))
	if cleaned == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ContactDateLayout, cleaned, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Resampler draws random recent leads and keeps those not contacted within
// the staleness window.
type Resampler struct {
	store     Store
	count     int
	window    int
	staleDays int
	now       func() time.Time
	rnd       *rand.Rand
	log       *logger.Logger
}

func NewResampler(store Store, cfg config.ProspectingConfig, log *logger.Logger) *Resampler {
	if log == nil {
		log = logger.Discard()
	}
	return &Resampler{
		store:     store,
		count:     cfg.GetProspectSampleCount(),
		window:    cfg.GetProspectWindowRows(),
		staleDays: cfg.GetProspectStalenessDays(),
		now:       time.Now,
		rnd:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:       log,
	}
}

// WithClock replaces the time source.
func (r *Resampler) WithClock(now func() time.Time) *Resampler {
	r.now = now
	return r
}

// WithRand replaces the random source.
func (r *Resampler) WithRand(rnd *rand.Rand) *Resampler {
	r.rnd = rnd
	return r
}

// Eligible reports whether a lead may be contacted at now. Leads without a
// readable date are always eligible.
func (r *Resampler) Eligible(lead Lead, now time.Time) bool {
	if lead.LastContacted == nil {
		return true
	}
	cutoff := now.UTC().AddDate(0, 0, -r.staleDays)
	cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
	return !lead.LastContacted.After(cutoffDay)
}

// Sample draws up to the configured number of rows among the last window
// rows of the sheet, marks every eligible lead as contacted today and
// returns them. A row is drawn at most once per call.
func (r *Resampler) Sample(ctx context.Context) ([]Lead, error) {
	total, err := r.store.RowCount(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, apperr.NoData("lead sheet is empty").WithOp("leads.Sample")
	}

	now := r.now()
	today := now.UTC().Format(ContactDateLayout)

	var sampled []Lead
	for _, row := range r.drawRows(total) {
		cells, err := r.store.ReadRow(ctx, row)
		if err != nil {
			r.log.StoreError("read lead row", err)
			continue
		}
		if len(cells) == 0 {
			metrics.RecordLeadSampled(metrics.LeadEmpty)
			continue
		}

		lead := parseLead(row, cells)
		if !hasDigits(lead.Phone) {
			// A header row or a lead without a number; never mark it.
			metrics.RecordLeadSampled(metrics.LeadEmpty)
			r.log.Debug("lead row has no phone", "row", row)
			continue
		}
		if !r.Eligible(lead, now) {
			metrics.RecordLeadSampled(metrics.LeadFresh)
			r.log.Debug("lead contacted recently", "row", row)
			continue
		}

		if err := r.store.UpdateCell(ctx, fmt.Sprintf("%s%d", contactedColumn, row), today); err != nil {
			r.log.StoreError("mark lead contacted", err)
			continue
		}
		contacted := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
		lead.LastContacted = &contacted

		metrics.RecordLeadSampled(metrics.LeadContacted)
		sampled = append(sampled, lead)
	}

	r.log.Info("leads resampled", "rows", total, "selected", len(sampled))
	return sampled, nil
}

// drawRows picks distinct rows in [max(1, total-window), total].
func (r *Resampler) drawRows(total int) []int {
	lo := max(1, total-r.window)
	span := total - lo + 1
	count := max(0, min(r.count, span))

	seen := make(map[int]bool, count)
	rows := make([]int, 0, count)
	for len(rows) < count {
		row := lo + r.rnd.IntN(span)
		if seen[row] {
			continue
		}
		seen[row] = true
		rows = append(rows, row)
	}
	return rows
}
