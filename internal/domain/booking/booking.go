package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/google/uuid"
)

// DateLayout is the wire and storage format of check-in and check-out dates.
const DateLayout = "2006-01-02"

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id        uuid.UUID
	listingID uuid.UUID
	guestID   uuid.UUID
	status    BookingStatus

	checkInDate  time.Time
	checkOutDate time.Time
	guestCount   int
	nights       int
	totalPrice   float64

	specialRequests    string
	cancellationReason string

	createdAt time.Time
	updatedAt time.Time
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewFieldValidationError(map[string]string{
			field: fmt.Sprintf("%q is not a valid calendar date", value),
		})
	}
	return t, nil
}

// NewBooking creates a new Booking aggregate with status=pending. Check-out
// ordering and nights consistency are deliberately not checked.
func NewBooking(
	guestID uuid.UUID,
	listingID uuid.UUID,
	checkInDate time.Time,
	checkOutDate time.Time,
	guestCount int,
	nights int,
	totalPrice float64,
	specialRequests string,
) (*Booking, error) {
	if guestID == uuid.Nil {
		return nil, domain.NewValidationError("guest ID is required")
	}
	if listingID == uuid.Nil {
		return nil, domain.NewValidationError("listing ID is required")
	}
	if guestCount < 1 {
		return nil, domain.NewValidationError("guest count must be at least 1")
	}
	if nights < 1 {
		return nil, domain.NewValidationError("nights must be at least 1")
	}
	if totalPrice <= 0 {
		return nil, domain.NewValidationError("total price must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		listingID:       listingID,
		guestID:         guestID,
		status:          StatusPending,
		checkInDate:     checkInDate.UTC(),
		checkOutDate:    checkOutDate.UTC(),
		guestCount:      guestCount,
		nights:          nights,
		totalPrice:      totalPrice,
		specialRequests: strings.TrimSpace(specialRequests),
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	listingID uuid.UUID,
	guestID uuid.UUID,
	status BookingStatus,
	checkInDate time.Time,
	checkOutDate time.Time,
	guestCount int,
	nights int,
	totalPrice float64,
	specialRequests string,
	cancellationReason string,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                 id,
		listingID:          listingID,
		guestID:            guestID,
		status:             status,
		checkInDate:        checkInDate,
		checkOutDate:       checkOutDate,
		guestCount:         guestCount,
		nights:             nights,
		totalPrice:         totalPrice,
		specialRequests:    specialRequests,
		cancellationReason: cancellationReason,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// ListingID returns the booked listing's ID.
func (b *Booking) ListingID() uuid.UUID { return b.listingID }

// GuestID returns the guest who owns the booking.
func (b *Booking) GuestID() uuid.UUID { return b.guestID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

func (b *Booking) CheckInDate() time.Time  { return b.checkInDate }
func (b *Booking) CheckOutDate() time.Time { return b.checkOutDate }
func (b *Booking) GuestCount() int         { return b.guestCount }
func (b *Booking) Nights() int             { return b.nights }
func (b *Booking) TotalPrice() float64     { return b.totalPrice }

// SpecialRequests returns the guest's free-text requests.
func (b *Booking) SpecialRequests() string { return b.specialRequests }

// CancellationReason returns the stored cancellation reason, if any.
func (b *Booking) CancellationReason() string { return b.cancellationReason }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsGuest reports whether userID owns this booking.
func (b *Booking) IsGuest(userID uuid.UUID) bool { return b.guestID == userID }

// --- Behavior ---

// SetStatusByHost applies a host-requested status. Any of confirmed, cancelled
// or completed is accepted regardless of the current status.
func (b *Booking) SetStatusByHost(target BookingStatus) error {
	if !target.IsHostSettable() {
		return domain.NewFieldValidationError(map[string]string{
			"status": fmt.Sprintf("must be one of confirmed, cancelled, completed; got %q", target),
		})
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// CancelByGuest transitions a pending or confirmed booking to cancelled.
func (b *Booking) CancelByGuest(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultGuestCancelReason
	}
	b.status = StatusCancelled
	b.cancellationReason = reason
	b.updatedAt = time.Now().UTC()
	return nil
}
