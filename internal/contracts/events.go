// Package contracts holds the Kafka topics, CloudEvent types and payloads
// exchanged by the rental service and its consumers.
package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
)

// Event types published on TopicBookingEvents.
const (
	BookingRequested = "booking.requested"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
)

// EventSource is the CloudEvent source of events published by this service.
const EventSource = "service-rental"

// BookingRequestedEvent is published when a guest creates a booking.
type BookingRequestedEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	ListingID    uuid.UUID `json:"listing_id"`
	ListingTitle string    `json:"listing_title"`
	GuestID      uuid.UUID `json:"guest_id"`
	HostID       uuid.UUID `json:"host_id"`
	CheckInDate  string    `json:"check_in_date"`
	CheckOutDate string    `json:"check_out_date"`
	GuestCount   int       `json:"guest_count"`
	Nights       int       `json:"nights"`
	TotalPrice   float64   `json:"total_price"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is published when a host confirms or completes a booking.
type BookingStatusChangedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	ListingID      uuid.UUID `json:"listing_id"`
	GuestID        uuid.UUID `json:"guest_id"`
	HostID         uuid.UUID `json:"host_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
	CheckInDate    string    `json:"check_in_date"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when either party cancels a booking.
type BookingCancelledEvent struct {
	BookingID        uuid.UUID `json:"booking_id"`
	ListingID        uuid.UUID `json:"listing_id"`
	GuestID          uuid.UUID `json:"guest_id"`
	HostID           uuid.UUID `json:"host_id"`
	CancelledBy      uuid.UUID `json:"cancelled_by"`
	Reason           string    `json:"reason"`
	DaysUntilCheckIn int       `json:"days_until_check_in"`
	OccurredAt       time.Time `json:"occurred_at"`
}
