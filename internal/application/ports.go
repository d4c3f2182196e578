package application

import (
	"context"
	"io"

	"github.com/Nestaway-Rentals/service-rental/internal/common/kafka"
	"github.com/google/uuid"
)

// EventPublisher publishes CloudEvents. *kafka.Producer implements it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error
}

// ListingCache is a cache-aside store for listing detail.
type ListingCache interface {
	Get(ctx context.Context, id uuid.UUID, dst any) (bool, error)
	Set(ctx context.Context, id uuid.UUID, v any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageUploader stores listing images and returns their public URL.
type ImageUploader interface {
	Enabled() bool
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}
