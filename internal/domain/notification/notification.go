package notification

import (
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/google/uuid"
)

// Notification is an in-app message about a booking.
type Notification struct {
	id          uuid.UUID
	recipientID uuid.UUID
	bookingID   uuid.UUID
	kind        string
	message     string
	readAt      *time.Time
	createdAt   time.Time
}

// NewNotification creates an unread notification.
func NewNotification(recipientID, bookingID uuid.UUID, kind, message string) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, domain.NewValidationError("recipient ID is required")
	}
	if kind == "" || message == "" {
		return nil, domain.NewValidationError("notification kind and message are required")
	}
	return &Notification{
		id:          uuid.New(),
		recipientID: recipientID,
		bookingID:   bookingID,
		kind:        kind,
		message:     message,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Notification from persistence.
func Reconstruct(id, recipientID, bookingID uuid.UUID, kind, message string, readAt *time.Time, createdAt time.Time) *Notification {
	return &Notification{
		id:          id,
		recipientID: recipientID,
		bookingID:   bookingID,
		kind:        kind,
		message:     message,
		readAt:      readAt,
		createdAt:   createdAt,
	}
}

// Getters.
func (n *Notification) ID() uuid.UUID          { return n.id }
func (n *Notification) RecipientID() uuid.UUID { return n.recipientID }
func (n *Notification) BookingID() uuid.UUID   { return n.bookingID }
func (n *Notification) Kind() string           { return n.kind }
func (n *Notification) Message() string        { return n.message }
func (n *Notification) ReadAt() *time.Time     { return n.readAt }
func (n *Notification) CreatedAt() time.Time   { return n.createdAt }
func (n *Notification) IsRead() bool           { return n.readAt != nil }

// MarkRead records the read time once; later calls keep the first time.
func (n *Notification) MarkRead(at time.Time) {
	if n.readAt != nil {
		return
	}
	at = at.UTC()
	n.readAt = &at
}
