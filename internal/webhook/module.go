// Package webhook receives storefront deliveries over HTTP.
package webhook

import (
	apphttp "commerce_notifier/internal/http"
	"commerce_notifier/internal/metrics"
	"commerce_notifier/platform/httpkit"
	"commerce_notifier/platform/logger"

	"golang.org/x/time/rate"
)

// Module is the webhook module implementing http.Module.
type Module struct {
	handler *Handler
	secret  string
	limiter *httpkit.IPRateLimiter
}

// NewModule wires the webhook handler. deduper may be nil.
func NewModule(intake Intake, deduper Deduper, secret string, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(intake, deduper, log),
		secret:  secret,
		limiter: httpkit.NewIPRateLimiter(rate.Limit(5), 20, log),
	}
}

func (m *Module) Name() string {
	return "webhook"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/webhook")
	throttle := m.limiter.RateLimit(func() {
		metrics.RecordWebhookRequest(metrics.WebhookThrottled)
	})
	group.POST("/woocommerce", throttle, SignatureMiddleware(m.secret), m.handler.HandleStorefront)
}
