package webhook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"commerce_notifier/internal/orders"

	"github.com/redis/go-redis/v9"
)

const (
	dedupeTTL    = 24 * time.Hour
	dedupePrefix = "notifier:webhook:"
)

// Deduper remembers deliveries already handled.
type Deduper interface {
	// FirstSeen marks key and reports whether it was new.
	FirstSeen(ctx context.Context, key string) (bool, error)
}

// RedisDeduper keeps one expiring key per delivery.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: dedupeTTL}
}

func (d *RedisDeduper) FirstSeen(ctx context.Context, key string) (bool, error) {
	if d == nil || d.client == nil {
		return true, nil
	}
	return d.client.SetNX(ctx, dedupePrefix+key, time.Now().UTC().Format(time.RFC3339), d.ttl).Result()
}

// deliveryKey identifies a delivery by order id and status, falling back to
// the body digest for payloads without an id such as abandoned carts.
func deliveryKey(payload orders.Payload, body []byte) string {
	status := payload.OptString("status")
	if status == "" {
		status = payload.OptString("order_status")
	}
	if id := payload.OptString("id"); id != "" {
		return "order:" + id + ":" + status
	}
	sum := sha256.Sum256(body)
	return "body:" + hex.EncodeToString(sum[:])
}
