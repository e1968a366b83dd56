package notification

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"commerce_notifier/platform/config"
	"commerce_notifier/platform/logger"
)

var offsetPattern = regexp.MustCompile(`(?i)^([+-]?)\s*(\d+)\s*(minute|min|hour|day|week|month)s?$`)

// Offset is a relative time such as "+1 day" or "-2 hours".
type Offset struct {
	raw    string
	amount int
	unit   string
}

// ParseOffset accepts "[+|-]N unit[s]" with unit one of minute, hour, day,
// week or month, plus the keywords "now" and "tomorrow".
func ParseOffset(raw string) (Offset, error) {
	text := strings.ToLower(strings.TrimSpace(raw))
	switch text {
	case "now":
		return Offset{raw: raw, unit: "now"}, nil
	case "tomorrow":
		return Offset{raw: raw, unit: "tomorrow"}, nil
	}

	m := offsetPattern.FindStringSubmatch(text)
	if m == nil {
		return Offset{}, fmt.Errorf("invalid follow-up offset %q", raw)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Offset{}, fmt.Errorf("invalid follow-up offset %q: %w", raw, err)
	}
	if m[1] == "-" {
		n = -n
	}
	unit := m[3]
	if unit == "min" {
		unit = "minute"
	}
	return Offset{raw: raw, amount: n, unit: unit}, nil
}

// Apply shifts t by the offset. Days, weeks and months move the calendar
// date and keep the wall clock.
func (o Offset) Apply(t time.Time) time.Time {
	switch o.unit {
	case "minute":
		return t.Add(time.Duration(o.amount) * time.Minute)
	case "hour":
		return t.Add(time.Duration(o.amount) * time.Hour)
	case "day":
		return t.AddDate(0, 0, o.amount)
	case "week":
		return t.AddDate(0, 0, 7*o.amount)
	case "month":
		return t.AddDate(0, o.amount, 0)
	case "tomorrow":
		y, mo, d := t.Date()
		return time.Date(y, mo, d+1, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

func (o Offset) String() string { return o.raw }

// FollowUp is one delayed send.
type FollowUp struct {
	At      time.Time
	Message string
}

// FollowUpPlan lists the reminders for a recipient in offset order.
type FollowUpPlan struct {
	Recipient string
	Entries   []FollowUp
}

// Times returns the send times of the plan.
func (p FollowUpPlan) Times() []time.Time {
	out := make([]time.Time, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.At
	}
	return out
}

// FollowUps builds and schedules abandoned-cart reminder plans.
type FollowUps struct {
	offsets   []Offset
	loc       *time.Location
	now       func() time.Time
	messenger *Messenger
	log       *logger.Logger
}

// NewFollowUps parses the configured offsets. Times are computed in the
// configured location whatever the recipient's own timezone.
func NewFollowUps(cfg config.FollowUpConfig, messenger *Messenger, log *logger.Logger) (*FollowUps, error) {
	offsets := make([]Offset, 0, len(cfg.GetFollowUpOffsets()))
	for _, raw := range cfg.GetFollowUpOffsets() {
		o, err := ParseOffset(raw)
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, o)
	}

	loc := cfg.GetFollowUpLocation()
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Discard()
	}

	return &FollowUps{
		offsets:   offsets,
		loc:       loc,
		now:       time.Now,
		messenger: messenger,
		log:       log,
	}, nil
}

// WithClock replaces the time source.
func (f *FollowUps) WithClock(now func() time.Time) *FollowUps {
	f.now = now
	return f
}

// BuildPlan resolves every offset against the same reference instant, at
// minute granularity.
func (f *FollowUps) BuildPlan(message, recipient string) FollowUpPlan {
	base := f.now().In(f.loc).Truncate(time.Minute)

	plan := FollowUpPlan{Recipient: recipient, Entries: make([]FollowUp, 0, len(f.offsets))}
	for _, o := range f.offsets {
		plan.Entries = append(plan.Entries, FollowUp{At: o.Apply(base), Message: message})
	}
	return plan
}

// Schedule issues one scheduled send per entry and returns how many the
// gateway accepted. Rejections are only logged.
func (f *FollowUps) Schedule(ctx context.Context, plan FollowUpPlan) int {
	accepted := 0
	for _, e := range plan.Entries {
		accepted += f.messenger.Schedule(ctx, plan.Recipient, e.Message, e.At)
	}
	if accepted < len(plan.Entries) {
		f.log.Warn("follow-ups partially scheduled", "recipient", plan.Recipient, "accepted", accepted, "planned", len(plan.Entries))
	}
	return accepted
}
