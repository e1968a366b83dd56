package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"commerce_notifier/internal/messages"
)

func TestSendCaptionsOnlyTheLastImage(t *testing.T) {
	gw := newFakeGateway()
	msg := messages.Message{Body: "Nouveautés"}.WithImages("a.jpg", "", "b.jpg", "c.jpg")

	if err := NewMessenger(gw, nil).Send(context.Background(), msg, customerPhone); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gw.sent) != 3 {
		t.Fatalf("expected three image requests, got %d", len(gw.sent))
	}
	for i, m := range gw.sent {
		wantCaption := ""
		if i == 2 {
			wantCaption = "Nouveautés"
		}
		if m.kind != "image" || m.body != wantCaption {
			t.Fatalf("request %d: unexpected %+v", i, m)
		}
	}
	if gw.sent[2].image != "c.jpg" {
		t.Fatalf("captioned image must be the last one, got %q", gw.sent[2].image)
	}
}

func TestSendContinuesAfterRecipientFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.failFor["+237600000001"] = errors.New("rejected")

	err := NewMessenger(gw, nil).Send(context.Background(), messages.Message{Body: "Hi"}, "+237600000001", " ", "+237600000002")
	if err == nil {
		t.Fatalf("expected joined failure")
	}
	if len(gw.sent) != 2 {
		t.Fatalf("expected both recipients attempted, got %d", len(gw.sent))
	}
	if gw.sent[1].to != "+237600000002" {
		t.Fatalf("second recipient not attempted: %+v", gw.sent)
	}
}

type failingScheduler struct {
	fakeGateway
}

func (f *failingScheduler) ScheduleSend(context.Context, string, string, time.Time) error {
	return errors.New("scheduler down")
}

func TestScheduleSwallowsFailures(t *testing.T) {
	gw := &failingScheduler{}
	at := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	if got := NewMessenger(gw, nil).Schedule(context.Background(), customerPhone, "Rappel", at, at.Add(time.Hour)); got != 0 {
		t.Fatalf("expected no accepted schedules, got %d", got)
	}
}
