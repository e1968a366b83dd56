package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestSplitProductNames(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "single", in: "Sac", want: []string{"Sac"}},
		{name: "pair", in: "Sac & Montre", want: []string{"Sac", "Montre"}},
		{name: "many", in: "Sac, Montre, Pagne & Chaussures", want: []string{"Sac", "Montre", "Pagne", "Chaussures"}},
		{name: "empty", in: "", want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitProductNames(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitProductNames(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestImageLinks(t *testing.T) {
	html := `<table>
<tr><td><img src="a.jpg"></td><td>Sac</td></tr>
<tr><td><img src="b.jpg" alt="x"></td><td>Montre</td></tr>
</table>`

	got := ImageLinks(html)
	if !reflect.DeepEqual(got, []string{"a.jpg", "b.jpg"}) {
		t.Fatalf("unexpected links %v", got)
	}
	if links := ImageLinks("   "); links != nil {
		t.Fatalf("expected no links for blank markup, got %v", links)
	}
}

func TestCheckoutScraperReadsBillingPhone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<form>
<input type="text" name="billing_first_name" value="Awa">
<input type="tel" name="billing_phone" value="699512438">
</form>`))
	}))
	defer srv.Close()

	got, err := NewCheckoutScraper(srv.Client()).BillingPhone(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "699512438" {
		t.Fatalf("unexpected phone %q", got)
	}
}

func TestCheckoutScraperMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<form><input name="billing_email" value="a@b.c"></form>`))
	}))
	defer srv.Close()

	if _, err := NewCheckoutScraper(srv.Client()).BillingPhone(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for missing billing_phone input")
	}
}

func TestCheckoutScraperHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewCheckoutScraper(srv.Client()).BillingPhone(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 404 page")
	}
}
