package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFindProductMatchesNameIgnoringCase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ck" || pass != "cs" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/wp-json/wc/v3/products" || r.URL.Query().Get("search") != "montre casio" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`[
			{"name":"Montre Casio Pro","price":"30000","permalink":"https://shop/pro"},
			{"name":"Montre Casio","price":"23500","permalink":"https://shop/casio","images":[{"src":"https://img/casio.jpg"}]}
		]`))
	}))
	defer srv.Close()

	client := NewClientWithHTTP(srv.URL+"/", "ck", "cs", srv.Client(), nil)
	product, ok, err := client.FindProduct(context.Background(), "montre casio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a match")
	}
	if product.Link != "https://shop/casio" || product.Price.String() != "23500" || product.Image != "https://img/casio.jpg" {
		t.Fatalf("unexpected product %+v", product)
	}
}

func TestFindProductNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"Sac","price":"5000","permalink":"https://shop/sac"}]`))
	}))
	defer srv.Close()

	_, ok, err := NewClientWithHTTP(srv.URL, "ck", "cs", srv.Client(), nil).FindProduct(context.Background(), "Montre")
	if err != nil || ok {
		t.Fatalf("expected no match, got ok=%v err=%v", ok, err)
	}
}

func TestNilClientFindsNothing(t *testing.T) {
	var client *Client
	if _, ok, err := client.FindProduct(context.Background(), "Montre"); ok || err != nil {
		t.Fatalf("nil client must report no match, got ok=%v err=%v", ok, err)
	}
}

func TestListByCategoryFollowsPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("category") != "17" {
			t.Errorf("unexpected category %q", r.URL.Query().Get("category"))
		}
		count := perPage
		if r.URL.Query().Get("page") == "2" {
			count = 3
		}
		items := make([]string, count)
		for i := range items {
			items[i] = fmt.Sprintf(`{"name":"P%d","price":"%d","permalink":"https://shop/p%d","images":[{"src":"https://img/%d.jpg"}]}`, i, 1000+i, i, i)
		}
		_, _ = w.Write([]byte("[" + strings.Join(items, ",") + "]"))
	}))
	defer srv.Close()

	products, err := NewClientWithHTTP(srv.URL, "ck", "cs", srv.Client(), nil).ListByCategory(context.Background(), 17)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != perPage+3 {
		t.Fatalf("expected %d products, got %d", perPage+3, len(products))
	}
	row := products[1].Row()
	if row[0] != "P1" || row[1] != "1001" || row[2] != "https://shop/p1" || row[3] != "https://img/1.jpg" {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestListServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewClientWithHTTP(srv.URL, "ck", "cs", srv.Client(), nil).ListByCategory(context.Background(), 1); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFindProductMatchesDecodedName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"Sac &amp; Pochette","price":"9000","permalink":"https://shop/sac-pochette"}]`))
	}))
	defer srv.Close()

	product, ok, err := NewClientWithHTTP(srv.URL, "ck", "cs", srv.Client(), nil).FindProduct(context.Background(), "Sac & Pochette")
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if product.Name != "Sac & Pochette" {
		t.Fatalf("unexpected name %q", product.Name)
	}
}
