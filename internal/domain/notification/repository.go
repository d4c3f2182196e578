package notification

import (
	"context"

	"github.com/google/uuid"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Save(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	// FindByRecipientID lists unread first, then newest first.
	FindByRecipientID(ctx context.Context, recipientID uuid.UUID, page, limit int) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, n *Notification) error
}
