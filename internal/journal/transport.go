package journal

import (
	"context"
	"time"

	"commerce_notifier/platform/logger"

	"github.com/google/uuid"
)

type eventKindKey struct{}

// WithEventKind tags ctx so deliveries made under it are journaled with kind.
func WithEventKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, eventKindKey{}, kind)
}

func eventKind(ctx context.Context) string {
	kind, _ := ctx.Value(eventKindKey{}).(string)
	return kind
}

// Transport is the gateway surface being journaled.
type Transport interface {
	SendText(ctx context.Context, to, body string) error
	SendImage(ctx context.Context, to, imageURL, caption string) error
	ScheduleSend(ctx context.Context, to, body string, at time.Time) error
}

// Writer stores deliveries.
type Writer interface {
	Insert(ctx context.Context, d Delivery) (uuid.UUID, error)
}

// JournaledTransport records the outcome of every request it forwards.
// A failed journal write is logged and never fails the send.
type JournaledTransport struct {
	next   Transport
	writer Writer
	log    *logger.Logger
}

func NewJournaledTransport(next Transport, writer Writer, log *logger.Logger) *JournaledTransport {
	if log == nil {
		log = logger.Discard()
	}
	return &JournaledTransport{next: next, writer: writer, log: log}
}

func (t *JournaledTransport) SendText(ctx context.Context, to, body string) error {
	err := t.next.SendText(ctx, to, body)
	t.write(ctx, Delivery{Channel: ChannelText, Recipient: to, Body: body}, StatusSent, err)
	return err
}

func (t *JournaledTransport) SendImage(ctx context.Context, to, imageURL, caption string) error {
	err := t.next.SendImage(ctx, to, imageURL, caption)
	t.write(ctx, Delivery{Channel: ChannelImage, Recipient: to, Body: caption, ImageURL: &imageURL}, StatusSent, err)
	return err
}

func (t *JournaledTransport) ScheduleSend(ctx context.Context, to, body string, at time.Time) error {
	err := t.next.ScheduleSend(ctx, to, body, at)
	t.write(ctx, Delivery{Channel: ChannelSchedule, Recipient: to, Body: body, ScheduledFor: &at}, StatusScheduled, err)
	return err
}

func (t *JournaledTransport) write(ctx context.Context, d Delivery, ok Status, sendErr error) {
	d.EventKind = eventKind(ctx)
	d.Status = ok
	if sendErr != nil {
		msg := sendErr.Error()
		d.Status = StatusFailed
		d.LastError = &msg
	}
	if _, err := t.writer.Insert(ctx, d); err != nil {
		t.log.StoreError("journal delivery", err)
	}
}
