// Package intake turns storefront payloads into notifications.
package intake

import (
	"context"

	"commerce_notifier/internal/journal"
	"commerce_notifier/internal/metrics"
	"commerce_notifier/internal/notification"
	"commerce_notifier/internal/orders"
	"commerce_notifier/platform/logger"
)

type Classifier interface {
	Classify(ctx context.Context, payload orders.Payload) orders.Event
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event orders.Event) (notification.DispatchResult, error)
}

// Service classifies a payload and dispatches the resulting event.
type Service struct {
	classifier Classifier
	dispatcher Dispatcher
	log        *logger.Logger
}

func New(classifier Classifier, dispatcher Dispatcher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{classifier: classifier, dispatcher: dispatcher, log: log}
}

// Handle is the single entry point for a decoded payload. Send failures are
// returned after every recipient was attempted; the event is never retried here.
func (s *Service) Handle(ctx context.Context, payload orders.Payload) (notification.DispatchResult, error) {
	return s.dispatch(ctx, s.classifier.Classify(ctx, payload))
}

// Reject handles a body that could not be decoded at all. It becomes an
// Invalid event so the developer contact is still alerted.
func (s *Service) Reject(ctx context.Context, cause error) (notification.DispatchResult, error) {
	s.log.EventClassified(string(orders.KindInvalid), cause)
	return s.dispatch(ctx, orders.Invalid{Cause: cause})
}

func (s *Service) dispatch(ctx context.Context, event orders.Event) (notification.DispatchResult, error) {
	kind := string(event.Kind())
	metrics.RecordEventClassified(kind)

	result, err := s.dispatcher.Dispatch(journal.WithEventKind(ctx, kind), event)
	if err != nil {
		s.log.Warn("dispatch incomplete", "kind", kind, "error", err)
	}
	return result, err
}
