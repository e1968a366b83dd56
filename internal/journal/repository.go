// Package journal keeps a log of every outbound gateway request.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Status string

const (
	StatusSent      Status = "sent"
	StatusScheduled Status = "scheduled"
	StatusFailed    Status = "failed"

	errRepoNotConfigured = "journal repository not configured"
)

// Channel names the gateway request type of a delivery.
type Channel string

const (
	ChannelText     Channel = "text"
	ChannelImage    Channel = "image"
	ChannelSchedule Channel = "schedule"
)

// Delivery is one journaled gateway request.
type Delivery struct {
	ID           uuid.UUID
	EventKind    string
	Channel      Channel
	Recipient    string
	Body         string
	ImageURL     *string
	ScheduledFor *time.Time
	Status       Status
	LastError    *string
	CreatedAt    time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, d Delivery) (uuid.UUID, error) {
	if r == nil || r.pool == nil {
		return uuid.Nil, errors.New(errRepoNotConfigured)
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.EventKind == "" {
		d.EventKind = "unknown"
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO notification_deliveries (id, event_kind, channel, recipient, body, image_url, scheduled_for, status, last_error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.EventKind, string(d.Channel), d.Recipient, d.Body, d.ImageURL, d.ScheduledFor, string(d.Status), d.LastError,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return d.ID, nil
}

// Recent returns the latest deliveries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Delivery, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New(errRepoNotConfigured)
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, event_kind, channel, recipient, body, image_url, scheduled_for, status, last_error, created_at
		 FROM notification_deliveries
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Delivery
	for rows.Next() {
		var d Delivery
		var channel, status string
		if err := rows.Scan(&d.ID, &d.EventKind, &channel, &d.Recipient, &d.Body, &d.ImageURL, &d.ScheduledFor, &status, &d.LastError, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Channel = Channel(channel)
		d.Status = Status(status)
		results = append(results, d)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return results, nil
}
