package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	bookingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/booking"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID          uuid.UUID `gorm:"type:uuid;index;not null"`
	GuestID            uuid.UUID `gorm:"type:uuid;index;not null"`
	CheckInDate        time.Time `gorm:"type:date;not null"`
	CheckOutDate       time.Time `gorm:"type:date;not null"`
	GuestCount         int       `gorm:"not null"`
	Nights             int       `gorm:"not null"`
	TotalPrice         float64   `gorm:"type:numeric(12,2);not null"`
	SpecialRequests    string    `gorm:"type:text"`
	Status             string    `gorm:"not null;size:20;index;default:'pending'"`
	CancellationReason string    `gorm:"type:text"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// bookingWithListingRow is a booking joined with the fields of its listing
// needed for authorization.
type bookingWithListingRow struct {
	BookingModel  `gorm:"embedded"`
	ListingHostID uuid.UUID
	ListingTitle  string
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Create inserts a new booking.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return domain.NewStorageError("failed to create booking", err)
	}
	return nil
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, domain.NewStorageError("failed to find booking", err)
	}
	return toDomainBooking(&model), nil
}

// FindWithListing retrieves a booking joined with its listing.
func (r *GormBookingRepository) FindWithListing(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, bookingDomain.ListingSummary, error) {
	var row bookingWithListingRow
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.*, listings.host_id AS listing_host_id, listings.title AS listing_title").
		Joins("JOIN listings ON listings.id = bookings.listing_id").
		Where("bookings.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingDomain.ListingSummary{}, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, bookingDomain.ListingSummary{}, domain.NewStorageError("failed to find booking with listing", err)
	}

	summary := bookingDomain.ListingSummary{
		ID:     row.ListingID,
		HostID: row.ListingHostID,
		Title:  row.ListingTitle,
	}
	return toDomainBooking(&row.BookingModel), summary, nil
}

// FindByGuestID retrieves bookings made by a guest with pagination.
func (r *GormBookingRepository) FindByGuestID(ctx context.Context, guestID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("guest_id = ?", guestID).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStorageError("failed to count guest bookings", err)
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewStorageError("failed to find guest bookings", err)
	}
	return toDomainBookings(models), total, nil
}

// FindByHostID retrieves bookings on listings owned by a host with pagination.
func (r *GormBookingRepository) FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.hostScope(ctx, hostID).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStorageError("failed to count host bookings", err)
	}

	var models []BookingModel
	if err := r.hostScope(ctx, hostID).
		Select("bookings.*").
		Order("bookings.created_at DESC").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewStorageError("failed to find host bookings", err)
	}
	return toDomainBookings(models), total, nil
}

// CountByStatusForHost returns booking counts grouped by status for a host's listings.
func (r *GormBookingRepository) CountByStatusForHost(ctx context.Context, hostID uuid.UUID) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var results []statusCount
	if err := r.hostScope(ctx, hostID).
		Select("bookings.status AS status, count(*) AS count").
		Group("bookings.status").
		Scan(&results).Error; err != nil {
		return nil, domain.NewStorageError("failed to count host bookings by status", err)
	}

	counts := make(map[string]int64, len(bookingDomain.AllStatuses))
	for _, s := range bookingDomain.AllStatuses {
		counts[string(s)] = 0
	}
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// UpdateStatus sets the status unconditionally.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status bookingDomain.BookingStatus) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
}

// Cancel sets the status to cancelled and stores the reason.
func (r *GormBookingRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":              string(bookingDomain.StatusCancelled),
		"cancellation_reason": reason,
		"updated_at":          time.Now().UTC(),
	})
}

func (r *GormBookingRepository) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return domain.NewStorageError("failed to update booking", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", id.String())
	}
	return nil
}

func (r *GormBookingRepository) hostScope(ctx context.Context, hostID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Joins("JOIN listings ON listings.id = bookings.listing_id").
		Where("listings.host_id = ?", hostID)
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:                 bk.ID(),
		ListingID:          bk.ListingID(),
		GuestID:            bk.GuestID(),
		CheckInDate:        bk.CheckInDate(),
		CheckOutDate:       bk.CheckOutDate(),
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

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.ListingID,
		m.GuestID,
		bookingDomain.BookingStatus(m.Status),
		m.CheckInDate.UTC(),
		m.CheckOutDate.UTC(),
		m.GuestCount,
		m.Nights,
		m.TotalPrice,
		m.SpecialRequests,
		m.CancellationReason,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainBookings(models []BookingModel) []*bookingDomain.Booking {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toDomainBooking(&models[i])
	}
	return bookings
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
