package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"commerce_notifier/platform/apperr"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

type fakeSheetsAPI struct {
	rows    [][]string
	updates map[string]string
	status  int
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"boom"}}`, f.status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		var body gsheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		row := make([]string, len(body.Values[0]))
		for i, v := range body.Values[0] {
			row[i] = v.(string)
		}
		f.rows = append(f.rows, row)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut:
		var body gsheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		rng := path[strings.LastIndex(path, "/")+1:]
		f.updates[rng] = body.Values[0][0].(string)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodGet && strings.HasSuffix(path, "!A:C"):
		_ = json.NewEncoder(w).Encode(map[string]any{"values": f.rows})
	case r.Method == http.MethodGet:
		// Single-row reads always hit the second row.
		_ = json.NewEncoder(w).Encode(map[string]any{"values": [][]string{f.rows[1]}})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestStore(t *testing.T, api *fakeSheetsAPI) *Store {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := gsheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewWithService(svc, "sheet-id", "Sheet1", nil)
}

func TestAppendAndCount(t *testing.T) {
	api := &fakeSheetsAPI{updates: map[string]string{}}
	store := newTestStore(t, api)
	ctx := context.Background()

	for _, row := range [][]string{{"Paul", "Biya", "+237699512438"}, {"Awa", "", "+237677000001"}} {
		if err := store.Append(ctx, row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	n, err := store.RowCount(ctx)
	if err != nil {
		t.Fatalf("row count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}

	row, err := store.ReadRow(ctx, 2)
	if err != nil {
		t.Fatalf("read row: %v", err)
	}
	if strings.Join(row, "|") != "Awa||+237677000001" {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestUpdateCell(t *testing.T) {
	api := &fakeSheetsAPI{updates: map[string]string{}}
	store := newTestStore(t, api)

	if err := store.UpdateCell(context.Background(), "D7", "05/04/2026"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if api.updates["Sheet1!D7"] != "05/04/2026" {
		t.Fatalf("unexpected updates %v", api.updates)
	}
}

func TestReadRowRejectsNonPositiveIndex(t *testing.T) {
	store := newTestStore(t, &fakeSheetsAPI{updates: map[string]string{}})
	if _, err := store.ReadRow(context.Background(), 0); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestServerErrorIsRetryable(t *testing.T) {
	store := newTestStore(t, &fakeSheetsAPI{status: http.StatusInternalServerError})
	_, err := store.RowCount(context.Background())
	if !apperr.Retryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}
