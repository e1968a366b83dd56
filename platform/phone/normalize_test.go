package phone

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "already e164", raw: "+237699512438", want: "+237699512438"},
		{name: "e164 with separators", raw: "+237 (699) 51-24-38", want: "+237699512438"},
		{name: "local mobile", raw: "699512438", want: "+237699512438"},
		{name: "local mobile with spaces", raw: "6 99 51 24 38", want: "+237699512438"},
		{name: "leading zero falls back", raw: "0699512438", want: "+237699512438"},
		{name: "double zero prefix", raw: "0023799512438", want: "+23799512438"},
		{name: "bare international", raw: "33612345678", want: "+33612345678"},
		{name: "empty input", raw: "", want: "+237"},
		{name: "only separators", raw: " ( ) - ", want: "+237"},
		{name: "letters fall back", raw: "abc", want: "+237abc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.raw); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeDoubleZeroResultIsNotRevalidated(t *testing.T) {
	got := Normalize("00012345")
	if got != "+012345" {
		t.Fatalf("expected +012345, got %q", got)
	}
	if IsE164(got) {
		t.Fatalf("expected %q to fail E.164 validation", got)
	}
}

func TestNormalizerUsesConfiguredCountryCode(t *testing.T) {
	n := NewNormalizer("+33")
	if got := n.Normalize("612345678"); got != "+33612345678" {
		t.Fatalf("unexpected normalized number: %q", got)
	}
	if got := NewNormalizer("").Normalize("699512438"); got != "+237699512438" {
		t.Fatalf("expected default country code, got %q", got)
	}
}

func TestNormalizeKeepsE164Inputs(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("e164 inputs are returned unchanged", prop.ForAll(
		func(country, subscriber string) bool {
			number := "+" + country + subscriber
			return Normalize(number) == number
		},
		gen.RegexMatch(`[1-9]{1,3}`),
		gen.RegexMatch(`[0-9]{4,14}`),
	))

	properties.TestingRun(t)
}

func TestSanitizeProspect(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "+237 699 51 24 38", want: "+237699512438"},
		{raw: "699512438", want: "+237699512438"},
		{raw: "0699512438", want: "+2370699512438"},
		{raw: "+33 6 12 34 56 78", want: "+237+33612345678"},
	}

	for _, tc := range cases {
		if got := SanitizeProspect(tc.raw); got != tc.want {
			t.Fatalf("SanitizeProspect(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSanitizeProspectDivergesFromNormalize(t *testing.T) {
	raw := "0699512438"
	if SanitizeProspect(raw) == Normalize(raw) {
		t.Fatalf("expected the prospecting normalizer to keep the leading zero")
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("not a number"); got != "not a number" {
		t.Fatalf("expected unparseable input unchanged, got %q", got)
	}
	if got := Display("+237699512438"); got == "" || got == "+237699512438" {
		t.Fatalf("expected international formatting, got %q", got)
	}
}
