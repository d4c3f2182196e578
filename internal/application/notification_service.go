package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/Nestaway-Rentals/service-rental/internal/common/session"
	"github.com/Nestaway-Rentals/service-rental/internal/contracts"
	notificationDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/notification"
	"github.com/Nestaway-Rentals/service-rental/internal/i18n"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationDTO is the API response representation of a notification.
type NotificationDTO struct {
	ID        uuid.UUID  `json:"id"`
	BookingID uuid.UUID  `json:"booking_id"`
	Kind      string     `json:"kind"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationService stores booking notifications and serves them to recipients.
type NotificationService struct {
	repo    notificationDomain.NotificationRepository
	catalog *i18n.Catalog
	logger  *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo notificationDomain.NotificationRepository, catalog *i18n.Catalog, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, catalog: catalog, logger: logger}
}

// NotifyBookingRequested tells the host about a new booking request.
func (s *NotificationService) NotifyBookingRequested(ctx context.Context, evt contracts.BookingRequestedEvent) error {
	msg := s.catalog.T(i18n.DefaultLocale, "notification."+contracts.BookingRequested, "listing", evt.ListingTitle)
	return s.notify(ctx, evt.HostID, evt.BookingID, contracts.BookingRequested, msg)
}

// NotifyStatusChanged tells the guest that the host confirmed or completed a booking.
func (s *NotificationService) NotifyStatusChanged(ctx context.Context, eventType string, evt contracts.BookingStatusChangedEvent) error {
	msg := s.catalog.T(i18n.DefaultLocale, "notification."+eventType)
	return s.notify(ctx, evt.GuestID, evt.BookingID, eventType, msg)
}

// NotifyBookingCancelled tells the party that did not cancel.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, evt contracts.BookingCancelledEvent) error {
	recipient := evt.HostID
	if evt.CancelledBy == evt.HostID {
		recipient = evt.GuestID
	}
	msg := s.catalog.T(i18n.DefaultLocale, "notification."+contracts.BookingCancelled)
	return s.notify(ctx, recipient, evt.BookingID, contracts.BookingCancelled, msg)
}

// ListMyNotifications returns the caller's notifications, unread first.
func (s *NotificationService) ListMyNotifications(ctx context.Context, page, limit int) (*domain.PaginatedResult[NotificationDTO], error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	items, total, err := s.repo.FindByRecipientID(ctx, actor.UserID, page, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]NotificationDTO, len(items))
	for i, n := range items {
		dtos[i] = toNotificationDTO(n)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*NotificationDTO, error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientID() != actor.UserID {
		return nil, domain.NewForbiddenError("You are not authorized to update this notification")
	}

	if !n.IsRead() {
		n.MarkRead(time.Now().UTC())
		if err := s.repo.MarkRead(ctx, n); err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
	}

	result := toNotificationDTO(n)
	return &result, nil
}

func (s *NotificationService) notify(ctx context.Context, recipientID, bookingID uuid.UUID, kind, message string) error {
	n, err := notificationDomain.NewNotification(recipientID, bookingID, kind, message)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	s.logger.Info("notification stored",
		zap.String("notification_id", n.ID().String()),
		zap.String("recipient_id", recipientID.String()),
		zap.String("kind", kind),
	)
	return nil
}

func toNotificationDTO(n *notificationDomain.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID(),
		BookingID: n.BookingID(),
		Kind:      n.Kind(),
		Message:   n.Message(),
		IsRead:    n.IsRead(),
		ReadAt:    n.ReadAt(),
		CreatedAt: n.CreatedAt(),
	}
}
