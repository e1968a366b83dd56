// Package notification turns classified events into outbound WhatsApp messages.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"commerce_notifier/internal/messages"
	"commerce_notifier/internal/metrics"
	"commerce_notifier/platform/apperr"
	"commerce_notifier/platform/logger"
)

// Transport issues single-recipient gateway requests.
type Transport interface {
	SendText(ctx context.Context, to, body string) error
	SendImage(ctx context.Context, to, imageURL, caption string) error
	ScheduleSend(ctx context.Context, to, body string, at time.Time) error
}

// RecipientChecker confirms a number can receive WhatsApp messages.
type RecipientChecker interface {
	Exists(ctx context.Context, phoneNumber string) (bool, error)
}

// Messenger fans messages out to recipients over a Transport.
type Messenger struct {
	transport Transport
	log       *logger.Logger
}

func NewMessenger(transport Transport, log *logger.Logger) *Messenger {
	if log == nil {
		log = logger.Discard()
	}
	return &Messenger{transport: transport, log: log}
}

// Send delivers msg to every recipient, one after the other. A failing
// recipient does not stop the others; all failures come back joined.
func (m *Messenger) Send(ctx context.Context, msg messages.Message, recipients ...string) error {
	var errs []error
	for _, to := range recipients {
		to = strings.TrimSpace(to)
		if to == "" {
			continue
		}
		if err := m.sendOne(ctx, to, msg); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}

// sendOne sends a text, or the image set with the caption on the last image only.
func (m *Messenger) sendOne(ctx context.Context, to string, msg messages.Message) error {
	if len(msg.Images) == 0 {
		return m.track(metrics.TypeText, to, m.transport.SendText(ctx, to, msg.Body))
	}

	last := len(msg.Images) - 1
	for i, image := range msg.Images {
		caption := ""
		if i == last {
			caption = msg.Body
		}
		if err := m.track(metrics.TypeImage, to, m.transport.SendImage(ctx, to, image, caption)); err != nil {
			return err
		}
	}
	return nil
}

// Schedule asks the gateway to send body to one recipient at each time.
// Failures are logged and never returned. It reports how many were accepted.
func (m *Messenger) Schedule(ctx context.Context, to, body string, at ...time.Time) int {
	accepted := 0
	for _, when := range at {
		if err := m.track(metrics.TypeScheduled, to, m.transport.ScheduleSend(ctx, to, body, when)); err != nil {
			continue
		}
		accepted++
	}
	return accepted
}

func (m *Messenger) track(requestType, to string, err error) error {
	if err == nil {
		metrics.RecordMessageSent(requestType)
		return nil
	}
	metrics.RecordMessageFailed(requestType, apperr.Retryable(err))
	m.log.DeliveryFailed(requestType, to, err)
	return err
}
