package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	notificationDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/notification"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationModel is the GORM model for the notifications table.
type NotificationModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID  `gorm:"type:uuid;index;not null"`
	BookingID   uuid.UUID  `gorm:"type:uuid;index"`
	Kind        string     `gorm:"not null;size:50"`
	Message     string     `gorm:"type:text;not null"`
	ReadAt      *time.Time `gorm:""`
	CreatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (NotificationModel) TableName() string {
	return "notifications"
}

// GormNotificationRepository is the GORM-based implementation of NotificationRepository.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save persists a new notification.
func (r *GormNotificationRepository) Save(ctx context.Context, n *notificationDomain.Notification) error {
	model := &NotificationModel{
		ID:          n.ID(),
		RecipientID: n.RecipientID(),
		BookingID:   n.BookingID(),
		Kind:        n.Kind(),
		Message:     n.Message(),
		ReadAt:      n.ReadAt(),
		CreatedAt:   n.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return domain.NewStorageError("failed to save notification", err)
	}
	return nil
}

// FindByID retrieves a notification by ID.
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notificationDomain.Notification, error) {
	var model NotificationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Notification", id.String())
		}
		return nil, domain.NewStorageError("failed to find notification", err)
	}
	return toDomainNotification(&model), nil
}

// FindByRecipientID lists a recipient's notifications, unread first then newest first.
func (r *GormNotificationRepository) FindByRecipientID(ctx context.Context, recipientID uuid.UUID, page, limit int) ([]*notificationDomain.Notification, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&NotificationModel{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStorageError("failed to count notifications", err)
	}

	var models []NotificationModel
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("CASE WHEN read_at IS NULL THEN 0 ELSE 1 END").
		Order("created_at DESC").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewStorageError("failed to find notifications", err)
	}

	items := make([]*notificationDomain.Notification, len(models))
	for i := range models {
		items[i] = toDomainNotification(&models[i])
	}
	return items, total, nil
}

// MarkRead stores the notification's read time.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, n *notificationDomain.Notification) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ?", n.ID()).
		Update("read_at", n.ReadAt())
	if result.Error != nil {
		return domain.NewStorageError("failed to mark notification read", result.Error)
	}
	return nil
}

func toDomainNotification(m *NotificationModel) *notificationDomain.Notification {
	return notificationDomain.Reconstruct(m.ID, m.RecipientID, m.BookingID, m.Kind, m.Message, m.ReadAt, m.CreatedAt)
}
