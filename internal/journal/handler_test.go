package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apphttp "commerce_notifier/internal/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type staticLister struct {
	deliveries []Delivery
	limit      int
}

func (s *staticLister) Recent(_ context.Context, limit int) ([]Delivery, error) {
	s.limit = limit
	return s.deliveries, nil
}

func newEngine(m *Module) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	m.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1")})
	return engine
}

func TestListDeliveriesRequiresToken(t *testing.T) {
	engine := newEngine(NewModule(&staticLister{}, "secret"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/deliveries", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestListDeliveries(t *testing.T) {
	at := time.Date(2026, 5, 6, 9, 0, 0, 0, time.UTC)
	lister := &staticLister{deliveries: []Delivery{{
		ID:           uuid.New(),
		EventKind:    "abandoned_cart",
		Channel:      ChannelSchedule,
		Recipient:    "+237699512438",
		Body:         "Rappel",
		ScheduledFor: &at,
		Status:       StatusScheduled,
		CreatedAt:    at.Add(-24 * time.Hour),
	}}}
	engine := newEngine(NewModule(lister, "secret"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/deliveries?limit=10", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if lister.limit != 10 {
		t.Fatalf("expected limit 10, got %d", lister.limit)
	}

	var got []DeliveryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ScheduledFor == nil || *got[0].ScheduledFor != "2026-05-06T09:00:00Z" {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestRoutesDisabledWithoutToken(t *testing.T) {
	engine := newEngine(NewModule(&staticLister{}, ""))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/deliveries", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
