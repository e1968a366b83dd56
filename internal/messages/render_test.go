package messages

import (
	"strings"
	"testing"

	"commerce_notifier/platform/apperr"
)

func TestFormatList(t *testing.T) {
	cases := []struct {
		name  string
		items []string
		want  string
	}{
		{name: "empty", items: nil, want: ""},
		{name: "single", items: []string{"Phone"}, want: "Phone"},
		{name: "three", items: []string{"A", "BB", "C"}, want: "A\n-\nBB\n--\nC"},
		{name: "multibyte", items: []string{"Café", "Thé"}, want: "Café\n----\nThé"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatList(tc.items); got != tc.want {
				t.Fatalf("FormatList(%q) = %q, want %q", tc.items, got, tc.want)
			}
		})
	}
}

func TestRenderReplacesPlaceholders(t *testing.T) {
	r := NewRenderer(NewCatalog(Template{Name: "t", Locale: LocaleFR, Body: "Hi [name]"}))

	msg, err := r.Render("t", Vars{"name": "Paul"})
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	if msg.Body != "Hi Paul" {
		t.Fatalf("unexpected body: %q", msg.Body)
	}
	if msg.Locale != LocaleFR {
		t.Fatalf("unexpected locale: %q", msg.Locale)
	}
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	r := NewRenderer(NewCatalog(Template{Name: "t", Body: "Hi [name], see [link]"}))

	got, err := r.RenderText("t", Vars{"name": "Paul"})
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	if got != "Hi Paul, see [link]" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestRenderFlattensLists(t *testing.T) {
	r := NewRenderer(NewCatalog(Template{Name: "t", Body: "[a]|[b]|[c]"}))

	got, err := r.RenderText("t", Vars{
		"a": []string{"x", "y", "z"},
		"b": []string{"only"},
		"c": []string{},
	})
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	if got != "x / y / z|only|" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestRenderReplacesEveryOccurrence(t *testing.T) {
	got := ReplacePlaceholders("[n] and [n]", Vars{"n": 3})
	if got != "3 and 3" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := NewRenderer(NewCatalog())
	_, err := r.Render("missing", nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDefaultCatalogHasEveryTemplate(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	names := []string{
		AdminOrder, CustomerOrder, AdminCart, CustomerCart,
		FrCartProspection, EnCartProspection,
		FrNewOrderProspection, EnNewOrderProspection,
		FrProspection, EnProspection, InvalidPayloadAlert,
	}
	for _, name := range names {
		tmpl, err := catalog.Load(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if strings.TrimSpace(tmpl.Body) == "" {
			t.Fatalf("template %s has an empty body", name)
		}
	}

	en, _ := catalog.Load(EnProspection)
	if en.Locale != LocaleEN {
		t.Fatalf("expected english locale for %s, got %q", EnProspection, en.Locale)
	}
}

func TestMessageWithImagesDropsBlanks(t *testing.T) {
	msg := Message{Body: "x"}.WithImages("", "https://img/1.jpg", " ")
	if len(msg.Images) != 1 || msg.Images[0] != "https://img/1.jpg" {
		t.Fatalf("unexpected images: %q", msg.Images)
	}
}
