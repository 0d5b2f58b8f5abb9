package domain

import (
	"context"
	"time"

	"mobilvask/internal/models"
)

// BackupLog is the append-only local audit trail of submission attempts.
// Appends are best-effort: callers log failures and move on.
type BackupLog interface {
	Append(ctx context.Context, record models.BookingRecord) error
}

// Notifier delivers a booking notification through the external channel.
type Notifier interface {
	Send(ctx context.Context, payload models.NotificationPayload) error
}

// SecondaryNotifier pushes a copy of the booking through an auxiliary
// channel. It never reports errors to the caller.
type SecondaryNotifier interface {
	Notify(ctx context.Context, record models.BookingRecord)
}

// EventPublisher emits in-process domain events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimiter tracks request counts per client key within a window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// BookingService drives one submission attempt end-to-end.
type BookingService interface {
	Submit(ctx context.Context, req models.BookingRequest) (string, error)
	Services() []string
}
