package domain

import (
	"context"
	"time"
)

// NotificationService defines the interface for notification services
type NotificationService interface {
	// SendSuccess sends a success notification with sync statistics
	SendSuccess(ctx context.Context, stats Statistics) error

	// SendError sends an error notification with error details
	SendError(ctx context.Context, err error) error
}

// Statistics holds the outcome of a cache sync
type Statistics struct {
	Pages       int
	Fetched     int
	Stored      int
	Failed      int
	CachedTotal int
	NSFW        int
	LastPage    int
	Duration    time.Duration
	StartedAt   time.Time
	FinishedAt  time.Time
}
