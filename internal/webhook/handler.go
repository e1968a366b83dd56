package webhook

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"commerce_notifier/internal/metrics"
	"commerce_notifier/internal/notification"
	"commerce_notifier/internal/orders"
	"commerce_notifier/platform/httpkit"
	"commerce_notifier/platform/logger"

	"github.com/gin-gonic/gin"
)

// Intake handles one decoded payload, or reports a body that would not decode.
type Intake interface {
	Handle(ctx context.Context, payload orders.Payload) (notification.DispatchResult, error)
	Reject(ctx context.Context, cause error) (notification.DispatchResult, error)
}

// Response is returned to the storefront for every accepted delivery.
type Response struct {
	Kind               string `json:"kind,omitempty"`
	Deliverable        bool   `json:"deliverable"`
	CustomerNotified   bool   `json:"customerNotified"`
	FollowUpsScheduled int    `json:"followUpsScheduled"`
	Duplicate          bool   `json:"duplicate,omitempty"`
	Incomplete         bool   `json:"incomplete,omitempty"`
	Message            string `json:"message"`
}

type Handler struct {
	intake  Intake
	deduper Deduper
	log     *logger.Logger
}

// NewHandler creates a handler. deduper may be nil.
func NewHandler(intake Intake, deduper Deduper, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{intake: intake, deduper: deduper, log: log}
}

// HandleStorefront processes a storefront webhook delivery.
// POST /api/v1/webhook/woocommerce
func (h *Handler) HandleStorefront(c *gin.Context) {
	body, _ := c.Get(bodyKey)
	raw, _ := body.([]byte)

	payload, err := decode(c.ContentType(), raw)
	if err != nil {
		metrics.RecordWebhookRequest(metrics.WebhookRejected)
		if _, alertErr := h.intake.Reject(c.Request.Context(), err); alertErr != nil {
			_ = c.Error(alertErr)
		}
		httpkit.Error(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	if isPing(payload) {
		metrics.RecordWebhookRequest(metrics.WebhookPing)
		httpkit.OK(c, Response{Message: "pong"})
		return
	}

	ctx := c.Request.Context()
	if h.deduper != nil {
		fresh, err := h.deduper.FirstSeen(ctx, deliveryKey(payload, raw))
		if err != nil {
			h.log.Warn("webhook dedupe unavailable", "error", err)
		} else if !fresh {
			metrics.RecordWebhookRequest(metrics.WebhookDuplicate)
			httpkit.OK(c, Response{Duplicate: true, Message: "already handled"})
			return
		}
	}

	result, err := h.intake.Handle(ctx, payload)
	metrics.RecordWebhookRequest(metrics.WebhookAccepted)

	resp := Response{
		Kind:               string(result.Kind),
		Deliverable:        result.Deliverable,
		CustomerNotified:   result.CustomerNotified,
		FollowUpsScheduled: result.FollowUpsScheduled,
		Message:            "handled",
	}
	// The storefront retries non-2xx deliveries, which would notify staff twice.
	if err != nil {
		_ = c.Error(err)
		resp.Incomplete = true
		resp.Message = "handled with delivery failures"
	}
	httpkit.OK(c, resp)
}

func decode(contentType string, raw []byte) (orders.Payload, error) {
	if contentType == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, err
		}
		payload := make(orders.Payload, len(values))
		for key, vals := range values {
			if len(vals) > 0 {
				payload[key] = vals[0]
			}
		}
		return payload, nil
	}
	return orders.DecodePayload(bytes.NewReader(raw))
}

// isPing reports the storefront's hook activation request, which carries
// nothing but the webhook id.
func isPing(payload orders.Payload) bool {
	if len(payload) != 1 || !payload.Has("webhook_id") {
		return false
	}
	return strings.TrimSpace(payload.OptString("webhook_id")) != ""
}
