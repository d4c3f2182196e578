package booking

import (
	"context"

	"github.com/google/uuid"
)

// ListingSummary is the slice of a listing needed to authorize booking actions.
type ListingSummary struct {
	ID     uuid.UUID
	HostID uuid.UUID
	Title  string
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// Create inserts a new booking.
	Create(ctx context.Context, booking *Booking) error

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindWithListing retrieves a booking joined with its listing.
	FindWithListing(ctx context.Context, id uuid.UUID) (*Booking, ListingSummary, error)

	// FindByGuestID retrieves bookings made by a guest with pagination.
	FindByGuestID(ctx context.Context, guestID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByHostID retrieves bookings on listings owned by a host with pagination.
	FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// CountByStatusForHost returns booking counts grouped by status for a host's listings.
	CountByStatusForHost(ctx context.Context, hostID uuid.UUID) (map[string]int64, error)

	// UpdateStatus sets the status unconditionally.
	UpdateStatus(ctx context.Context, id uuid.UUID, status BookingStatus) error

	// Cancel sets the status to cancelled and stores the reason.
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
}
