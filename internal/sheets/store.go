// Package sheets stores leads in a Google spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"commerce_notifier/platform/apperr"
	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	valueInputOption = "USER_ENTERED"
	// countColumns is the span read to count populated lead rows.
	countColumns = "A:C"
	firstColumn  = "A"
	lastColumn   = "D"
)

// Store reads and writes rows of one sheet. Rows are 1-indexed.
type Store struct {
	svc           *gsheets.Service
	spreadsheetID string
	sheet         string
	log           *logger.Logger
}

// New connects with the configured service-account credentials.
func New(ctx context.Context, cfg config.SheetsConfig, log *logger.Logger) (*Store, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(cfg.GetGoogleCredentialsFile()),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg.GetGoogleSpreadsheetID(), cfg.GetGoogleSheetName(), log), nil
}

func NewWithService(svc *gsheets.Service, spreadsheetID, sheet string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet, log: log}
}

// Append adds a row after the last populated one.
func (s *Store) Append(ctx context.Context, values []string) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{toCells(values)}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.rangeOf(firstColumn), vr).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return wrap("sheets.Append", err)
	}
	s.log.Debug("sheet row appended", "sheet", s.sheet)
	return nil
}

// UpdateCell overwrites a single cell, addressed like "D12".
func (s *Store) UpdateCell(ctx context.Context, cell, value string) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, s.rangeOf(cell), vr).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return wrap("sheets.UpdateCell", err)
	}
	return nil
}

// ReadRow returns columns A through D of a row. Trailing empty cells are
// omitted by the API, so the slice may be shorter than four.
func (s *Store) ReadRow(ctx context.Context, row int) ([]string, error) {
	if row < 1 {
		return nil, apperr.BadRequest(fmt.Sprintf("row %d out of range", row)).WithOp("sheets.ReadRow")
	}
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.rangeOf(fmt.Sprintf("%s%d:%s%d", firstColumn, row, lastColumn, row))).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrap("sheets.ReadRow", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return fromCells(resp.Values[0]), nil
}

// RowCount is the index of the last populated row in columns A to C.
func (s *Store) RowCount(ctx context.Context) (int, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.rangeOf(countColumns)).
		Context(ctx).
		Do()
	if err != nil {
		return 0, wrap("sheets.RowCount", err)
	}
	return len(resp.Values), nil
}

func (s *Store) rangeOf(a1 string) string {
	if s.sheet == "" {
		return a1
	}
	return s.sheet + "!" + a1
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func fromCells(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprint(c)
	}
	return out
}

// wrap classifies API failures: 4xx responses are permanent, everything
// else may be retried.
func wrap(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code >= http.StatusBadRequest && gerr.Code < http.StatusInternalServerError && gerr.Code != http.StatusTooManyRequests {
		return apperr.Wrap(apperr.KindBadRequest, "sheets request rejected", err).WithOp(op)
	}
	return apperr.Unavailable("sheets request failed", err).WithOp(op)
}
