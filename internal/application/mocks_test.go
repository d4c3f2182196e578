package application

import (
	"context"
	"io"

	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/kafka"
	"github.com/Nestaway-Rentals/service-rental/internal/common/session"
	bookingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/booking"
	listingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/listing"
	notificationDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/notification"
	profileDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/profile"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func withUser(id uuid.UUID, role auth.Role) context.Context {
	return session.WithIdentity(context.Background(), session.Identity{UserID: id, Role: role})
}

// --- Booking repository ---

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, b *bookingDomain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Error(1)
}

func (m *mockBookingRepo) FindWithListing(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, bookingDomain.ListingSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, bookingDomain.ListingSummary{}, args.Error(2)
	}
	return args.Get(0).(*bookingDomain.Booking), args.Get(1).(bookingDomain.ListingSummary), args.Error(2)
}

func (m *mockBookingRepo) FindByGuestID(ctx context.Context, guestID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	args := m.Called(ctx, guestID, page, limit)
	return args.Get(0).([]*bookingDomain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *mockBookingRepo) FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	args := m.Called(ctx, hostID, page, limit)
	return args.Get(0).([]*bookingDomain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *mockBookingRepo) CountByStatusForHost(ctx context.Context, hostID uuid.UUID) (map[string]int64, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status bookingDomain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

// --- Listing repository ---

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) FindByID(ctx context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listingDomain.Listing), args.Error(1)
}

func (m *mockListingRepo) FindBySlug(ctx context.Context, slug string) (*listingDomain.Listing, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listingDomain.Listing), args.Error(1)
}

func (m *mockListingRepo) FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*listingDomain.Listing, int64, error) {
	args := m.Called(ctx, hostID, page, limit)
	return args.Get(0).([]*listingDomain.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *mockListingRepo) Search(ctx context.Context, filter listingDomain.SearchFilter) ([]*listingDomain.Listing, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*listingDomain.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *mockListingRepo) Save(ctx context.Context, l *listingDomain.Listing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockListingRepo) Update(ctx context.Context, l *listingDomain.Listing) error {
	return m.Called(ctx, l).Error(0)
}

// --- Profile repository ---

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*profileDomain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profileDomain.Profile), args.Error(1)
}

func (m *mockProfileRepo) FindByEmail(ctx context.Context, email string) (*profileDomain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profileDomain.Profile), args.Error(1)
}

func (m *mockProfileRepo) Save(ctx context.Context, p *profileDomain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfileRepo) Update(ctx context.Context, p *profileDomain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

// --- Notification repository ---

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Save(ctx context.Context, n *notificationDomain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*notificationDomain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notificationDomain.Notification), args.Error(1)
}

func (m *mockNotificationRepo) FindByRecipientID(ctx context.Context, recipientID uuid.UUID, page, limit int) ([]*notificationDomain.Notification, int64, error) {
	args := m.Called(ctx, recipientID, page, limit)
	return args.Get(0).([]*notificationDomain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, n *notificationDomain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// --- Ports ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishEvent(ctx context.Context, topic, key string, event kafka.CloudEvent) error {
	return m.Called(ctx, topic, key, event).Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, id uuid.UUID, dst any) (bool, error) {
	args := m.Called(ctx, id, dst)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, id uuid.UUID, v any) error {
	return m.Called(ctx, id, v).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockUploader struct {
	mock.Mock
	enabled bool
}

func (m *mockUploader) Enabled() bool { return m.enabled }

func (m *mockUploader) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}
