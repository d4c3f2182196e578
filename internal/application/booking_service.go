package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/Nestaway-Rentals/service-rental/internal/common/kafka"
	"github.com/Nestaway-Rentals/service-rental/internal/common/session"
	"github.com/Nestaway-Rentals/service-rental/internal/contracts"
	bookingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/booking"
	listingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/listing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNotAuthorizedUpdate = "You are not authorized to update this booking"
	msgNotAuthorizedCancel = "You are not authorized to cancel this booking"
	msgNotAuthorizedView   = "You are not authorized to view this booking"
)

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                 uuid.UUID `json:"id"`
	ListingID          uuid.UUID `json:"listing_id"`
	GuestID            uuid.UUID `json:"guest_id"`
	CheckInDate        string    `json:"check_in_date"`
	CheckOutDate       string    `json:"check_out_date"`
	GuestCount         int       `json:"guest_count"`
	Nights             int       `json:"nights"`
	TotalPrice         float64   `json:"total_price"`
	SpecialRequests    string    `json:"special_requests,omitempty"`
	Status             string    `json:"status"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CancelBookingResult is returned by a guest cancellation.
type CancelBookingResult struct {
	Booking          BookingDTO `json:"booking"`
	DaysUntilCheckIn int        `json:"days_until_check_in"`
}

// BookingStatsDTO holds booking counts for the host dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	listings  listingDomain.ListingRepository
	validator *BookingValidator
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	listings listingDomain.ListingRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		listings:  listings,
		validator: NewBookingValidator(),
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateBooking validates form and creates a pending booking owned by the caller.
func (s *BookingService) CreateBooking(ctx context.Context, form BookingForm) (*BookingDTO, error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := s.validator.Validate(form)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.FindByID(ctx, payload.ListingID)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(
		actor.UserID,
		listing.ID(),
		payload.CheckIn,
		payload.CheckOut,
		payload.GuestCount,
		payload.Nights,
		payload.TotalPrice,
		payload.SpecialRequests,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("listing_id", listing.ID().String()),
		zap.String("guest_id", actor.UserID.String()),
	)

	s.publishEvent(ctx, contracts.BookingRequested, bk.ID().String(), contracts.BookingRequestedEvent{
		BookingID:    bk.ID(),
		ListingID:    listing.ID(),
		ListingTitle: listing.Title(),
		GuestID:      bk.GuestID(),
		HostID:       listing.HostID(),
		CheckInDate:  bk.CheckInDate().Format(bookingDomain.DateLayout),
		CheckOutDate: bk.CheckOutDate().Format(bookingDomain.DateLayout),
		GuestCount:   bk.GuestCount(),
		Nights:       bk.Nights(),
		TotalPrice:   bk.TotalPrice(),
		OccurredAt:   s.now(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking returns a booking visible to its guest or the listing's host.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	bk, listing, err := s.repo.FindWithListing(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsGuest(actor.UserID) && listing.HostID != actor.UserID {
		return nil, domain.NewForbiddenError(msgNotAuthorizedView)
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ListMyBookings returns the caller's bookings as a guest.
func (s *BookingService) ListMyBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	bookings, total, err := s.repo.FindByGuestID(ctx, actor.UserID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ListHostBookings returns bookings on the caller's listings.
func (s *BookingService) ListHostBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	bookings, total, err := s.repo.FindByHostID(ctx, actor.UserID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ConfirmBooking is the host shortcut for UpdateStatus(confirmed).
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.UpdateStatus(ctx, bookingID, string(bookingDomain.StatusConfirmed))
}

// UpdateStatus lets the listing's host set confirmed, cancelled or completed.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, rawStatus string) (*BookingDTO, error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	target, err := bookingDomain.ParseBookingStatus(rawStatus)
	if err != nil {
		return nil, domain.NewFieldValidationError(map[string]string{
			"status": fmt.Sprintf("invalid booking status: %q", rawStatus),
		})
	}

	bk, listing, err := s.repo.FindWithListing(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if listing.HostID != actor.UserID {
		s.logger.Warn("booking status update rejected",
			zap.String("booking_id", bookingID.String()),
			zap.String("actor_id", actor.UserID.String()),
		)
		return nil, domain.NewForbiddenError(msgNotAuthorizedUpdate)
	}

	previous := bk.Status()
	if err := bk.SetStatusByHost(target); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, bk.ID(), bk.Status()); err != nil {
		return nil, err
	}

	s.logger.Info("booking status updated",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", previous.String()),
		zap.String("to", target.String()),
		zap.Bool("terminal", target.IsTerminal()),
	)

	if previous != target {
		s.publishStatusChange(ctx, bk, listing, previous, actor.UserID)
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking lets the booking's guest cancel a pending or confirmed booking.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*CancelBookingResult, error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	bk, listing, err := s.repo.FindWithListing(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsGuest(actor.UserID) {
		return nil, domain.NewForbiddenError(msgNotAuthorizedCancel)
	}

	days := bookingDomain.DaysUntilCheckIn(bk.CheckInDate(), s.now())
	s.logger.Info("guest cancellation requested",
		zap.String("booking_id", bk.ID().String()),
		zap.Int("days_until_check_in", days),
	)

	if err := bk.CancelByGuest(reason); err != nil {
		return nil, err
	}

	if err := s.repo.Cancel(ctx, bk.ID(), bk.CancellationReason()); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, contracts.BookingCancelled, bk.ID().String(), contracts.BookingCancelledEvent{
		BookingID:        bk.ID(),
		ListingID:        bk.ListingID(),
		GuestID:          bk.GuestID(),
		HostID:           listing.HostID,
		CancelledBy:      actor.UserID,
		Reason:           bk.CancellationReason(),
		DaysUntilCheckIn: days,
		OccurredAt:       s.now(),
	})

	return &CancelBookingResult{Booking: toBookingDTO(bk), DaysUntilCheckIn: days}, nil
}

// GetHostStats returns booking counts by status for the caller's listings.
func (s *BookingService) GetHostStats(ctx context.Context) (*BookingStatsDTO, error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatusForHost(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:                 bk.ID(),
		ListingID:          bk.ListingID(),
		GuestID:            bk.GuestID(),
		CheckInDate:        bk.CheckInDate().Format(bookingDomain.DateLayout),
		CheckOutDate:       bk.CheckOutDate().Format(bookingDomain.DateLayout),
		GuestCount:         bk.GuestCount(),
		Nights:             bk.Nights(),
		TotalPrice:         bk.TotalPrice(),
		SpecialRequests:    bk.SpecialRequests(),
		Status:             string(bk.Status()),
		CancellationReason: bk.CancellationReason(),
		CreatedAt:          bk.CreatedAt(),
		UpdatedAt:          bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) publishStatusChange(
	ctx context.Context,
	bk *bookingDomain.Booking,
	listing bookingDomain.ListingSummary,
	previous bookingDomain.BookingStatus,
	actorID uuid.UUID,
) {
	key := bk.ID().String()
	switch bk.Status() {
	case bookingDomain.StatusCancelled:
		s.publishEvent(ctx, contracts.BookingCancelled, key, contracts.BookingCancelledEvent{
			BookingID:        bk.ID(),
			ListingID:        bk.ListingID(),
			GuestID:          bk.GuestID(),
			HostID:           listing.HostID,
			CancelledBy:      actorID,
			DaysUntilCheckIn: bookingDomain.DaysUntilCheckIn(bk.CheckInDate(), s.now()),
			OccurredAt:       s.now(),
		})
	case bookingDomain.StatusConfirmed, bookingDomain.StatusCompleted:
		eventType := contracts.BookingConfirmed
		if bk.Status() == bookingDomain.StatusCompleted {
			eventType = contracts.BookingCompleted
		}
		s.publishEvent(ctx, eventType, key, contracts.BookingStatusChangedEvent{
			BookingID:      bk.ID(),
			ListingID:      bk.ListingID(),
			GuestID:        bk.GuestID(),
			HostID:         listing.HostID,
			PreviousStatus: previous.String(),
			Status:         bk.Status().String(),
			CheckInDate:    bk.CheckInDate().Format(bookingDomain.DateLayout),
			OccurredAt:     s.now(),
		})
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	if s.publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(contracts.EventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, contracts.TopicBookingEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", contracts.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
