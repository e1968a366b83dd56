package journal

import (
	"context"
	"net/http"
	"strconv"
	"time"

	apphttp "commerce_notifier/internal/http"
	"commerce_notifier/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Lister reads recent deliveries.
type Lister interface {
	Recent(ctx context.Context, limit int) ([]Delivery, error)
}

// DeliveryResponse is the JSON view of a Delivery.
type DeliveryResponse struct {
	ID           string  `json:"id"`
	EventKind    string  `json:"eventKind"`
	Channel      string  `json:"channel"`
	Recipient    string  `json:"recipient"`
	Body         string  `json:"body"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	ScheduledFor *string `json:"scheduledFor,omitempty"`
	Status       string  `json:"status"`
	LastError    *string `json:"lastError,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

// Module exposes the delivery journal to operators holding the admin token.
type Module struct {
	lister Lister
	token  string
}

func NewModule(lister Lister, adminToken string) *Module {
	return &Module{lister: lister, token: adminToken}
}

func (m *Module) Name() string {
	return "journal"
}

// RegisterRoutes mounts nothing when no admin token is configured.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if m.token == "" {
		return
	}
	ctx.V1.GET("/deliveries", httpkit.BearerToken(m.token), m.handleList)
}

// GET /api/v1/deliveries?limit=50
func (m *Module) handleList(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid limit", nil)
		return
	}

	deliveries, err := m.lister.Recent(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}

	result := make([]DeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		result[i] = toResponse(d)
	}
	httpkit.OK(c, result)
}

func toResponse(d Delivery) DeliveryResponse {
	resp := DeliveryResponse{
		ID:        d.ID.String(),
		EventKind: d.EventKind,
		Channel:   string(d.Channel),
		Recipient: d.Recipient,
		Body:      d.Body,
		ImageURL:  d.ImageURL,
		Status:    string(d.Status),
		LastError: d.LastError,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
	if d.ScheduledFor != nil {
		at := d.ScheduledFor.Format(time.RFC3339)
		resp.ScheduledFor = &at
	}
	return resp
}
