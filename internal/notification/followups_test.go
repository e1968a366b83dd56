package notification

import (
	"testing"
	"time"
)

func TestParseOffset(t *testing.T) {
	base := time.Date(2026, 1, 31, 22, 45, 0, 0, time.UTC)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: "+1 day", want: time.Date(2026, 2, 1, 22, 45, 0, 0, time.UTC)},
		{raw: "+3 days", want: time.Date(2026, 2, 3, 22, 45, 0, 0, time.UTC)},
		{raw: "2 hours", want: time.Date(2026, 2, 1, 0, 45, 0, 0, time.UTC)},
		{raw: "-30 minutes", want: time.Date(2026, 1, 31, 22, 15, 0, 0, time.UTC)},
		{raw: "+1 week", want: time.Date(2026, 2, 7, 22, 45, 0, 0, time.UTC)},
		{raw: "now", want: base},
		{raw: "tomorrow", want: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			o, err := ParseOffset(tt.raw)
			if err != nil {
				t.Fatalf("ParseOffset(%q): %v", tt.raw, err)
			}
			if got := o.Apply(base); !got.Equal(tt.want) {
				t.Fatalf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseOffsetRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "soon", "+1 fortnight", "day"} {
		if _, err := ParseOffset(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestBuildPlanUsesConfiguredZone(t *testing.T) {
	followUps, err := NewFollowUps(followUpConfig{offsets: []string{"+1 day", "+2 days"}}, NewMessenger(newFakeGateway(), nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	followUps.WithClock(func() time.Time { return fixedNow })

	plan := followUps.BuildPlan("Rappel", customerPhone)
	if len(plan.Entries) != 2 || plan.Recipient != customerPhone {
		t.Fatalf("unexpected plan %+v", plan)
	}

	first := plan.Entries[0].At
	if first.Location().String() != "WIB" {
		t.Fatalf("expected plan in configured zone, got %s", first.Location())
	}
	// 10:15:30 UTC is 17:15 WIB; seconds are dropped.
	if got := first.Format("2006-01-02 15:04:05"); got != "2026-05-05 17:15:00" {
		t.Fatalf("unexpected first entry %s", got)
	}
	if !plan.Entries[1].At.After(first) {
		t.Fatalf("timestamps must increase with offsets")
	}
	if times := plan.Times(); len(times) != 2 || !times[0].Equal(first) {
		t.Fatalf("unexpected times %v", times)
	}
}

func TestBuildPlanDuplicateOffsetsCollapse(t *testing.T) {
	followUps, err := NewFollowUps(followUpConfig{offsets: []string{"+1 day", "+1 day"}}, NewMessenger(newFakeGateway(), nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plan := followUps.WithClock(func() time.Time { return fixedNow }).BuildPlan("Rappel", customerPhone)
	if !plan.Entries[0].At.Equal(plan.Entries[1].At) {
		t.Fatalf("duplicate offsets must resolve to the same minute")
	}
}

func TestNewFollowUpsRejectsInvalidOffset(t *testing.T) {
	if _, err := NewFollowUps(followUpConfig{offsets: []string{"+1 day", "later"}}, nil, nil); err == nil {
		t.Fatalf("expected error for invalid offset")
	}
}
