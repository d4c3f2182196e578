package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	bookingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/booking"
	listingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/listing"
	notificationDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/notification"
	profileDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/profile"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type RepositorySuite struct {
	suite.Suite
	db            *gorm.DB
	ctx           context.Context
	bookings      *GormBookingRepository
	listings      *GormListingRepository
	profiles      *GormProfileRepository
	notifications *GormNotificationRepository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(Models()...))

	s.db = db
	s.ctx = context.Background()
	s.bookings = NewGormBookingRepository(db)
	s.listings = NewGormListingRepository(db)
	s.profiles = NewGormProfileRepository(db)
	s.notifications = NewGormNotificationRepository(db)
}

func (s *RepositorySuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func (s *RepositorySuite) newListing(hostID uuid.UUID, title, city string, price float64, published bool, amenities ...string) *listingDomain.Listing {
	l, err := listingDomain.NewListing(hostID, listingDomain.Details{
		Title:         title,
		PropertyType:  listingDomain.PropertyApartment,
		Location:      listingDomain.Location{City: city, Country: "Portugal"},
		PricePerNight: price,
		MaxGuests:     4,
		Bedrooms:      2,
		Beds:          2,
		Bathrooms:     1,
		Amenities:     amenities,
	})
	s.Require().NoError(err)
	if published {
		l.Publish()
	}
	s.Require().NoError(s.listings.Save(s.ctx, l))
	return l
}

func (s *RepositorySuite) newBooking(guestID, listingID uuid.UUID) *bookingDomain.Booking {
	in, _ := bookingDomain.ParseDate("check_in_date", "2025-06-01")
	out, _ := bookingDomain.ParseDate("check_out_date", "2025-06-05")
	b, err := bookingDomain.NewBooking(guestID, listingID, in, out, 2, 4, 400, "")
	s.Require().NoError(err)
	s.Require().NoError(s.bookings.Create(s.ctx, b))
	return b
}

// --- Bookings ---

func (s *RepositorySuite) TestBooking_CreateAndFind() {
	l := s.newListing(uuid.New(), "Flat", "Lisbon", 100, true)
	guestID := uuid.New()
	b := s.newBooking(guestID, l.ID())

	got, err := s.bookings.FindByID(s.ctx, b.ID())
	s.Require().NoError(err)
	s.Equal(bookingDomain.StatusPending, got.Status())
	s.Equal(guestID, got.GuestID())
	s.Equal("2025-06-01", got.CheckInDate().Format(bookingDomain.DateLayout))
	s.Equal(400.0, got.TotalPrice())
}

func (s *RepositorySuite) TestBooking_FindWithListing() {
	hostID := uuid.New()
	l := s.newListing(hostID, "Flat", "Lisbon", 100, true)
	b := s.newBooking(uuid.New(), l.ID())

	got, summary, err := s.bookings.FindWithListing(s.ctx, b.ID())
	s.Require().NoError(err)
	s.Equal(b.ID(), got.ID())
	s.Equal(hostID, summary.HostID)
	s.Equal(l.ID(), summary.ID)
	s.Equal("Flat", summary.Title)

	_, _, err = s.bookings.FindWithListing(s.ctx, uuid.New())
	s.True(domain.IsCode(err, domain.CodeNotFound))
}

func (s *RepositorySuite) TestBooking_UpdateStatusAndCancel() {
	l := s.newListing(uuid.New(), "Flat", "Lisbon", 100, true)
	b := s.newBooking(uuid.New(), l.ID())

	s.Require().NoError(s.bookings.UpdateStatus(s.ctx, b.ID(), bookingDomain.StatusConfirmed))
	got, err := s.bookings.FindByID(s.ctx, b.ID())
	s.Require().NoError(err)
	s.Equal(bookingDomain.StatusConfirmed, got.Status())

	s.Require().NoError(s.bookings.Cancel(s.ctx, b.ID(), "Guest cancelled"))
	got, err = s.bookings.FindByID(s.ctx, b.ID())
	s.Require().NoError(err)
	s.Equal(bookingDomain.StatusCancelled, got.Status())
	s.Equal("Guest cancelled", got.CancellationReason())

	err = s.bookings.UpdateStatus(s.ctx, uuid.New(), bookingDomain.StatusConfirmed)
	s.True(domain.IsCode(err, domain.CodeNotFound))
}

func (s *RepositorySuite) TestBooking_GuestAndHostQueries() {
	hostID := uuid.New()
	mine := s.newListing(hostID, "Mine", "Lisbon", 100, true)
	other := s.newListing(uuid.New(), "Other", "Porto", 80, true)
	guestID := uuid.New()

	b1 := s.newBooking(guestID, mine.ID())
	s.newBooking(guestID, other.ID())
	s.newBooking(uuid.New(), mine.ID())
	s.Require().NoError(s.bookings.UpdateStatus(s.ctx, b1.ID(), bookingDomain.StatusConfirmed))

	guestBookings, total, err := s.bookings.FindByGuestID(s.ctx, guestID, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(guestBookings, 2)

	hostBookings, total, err := s.bookings.FindByHostID(s.ctx, hostID, 1, 1)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(hostBookings, 1)

	counts, err := s.bookings.CountByStatusForHost(s.ctx, hostID)
	s.Require().NoError(err)
	s.Equal(int64(1), counts["pending"])
	s.Equal(int64(1), counts["confirmed"])
	s.Equal(int64(0), counts["completed"])
}

// --- Listings ---

func (s *RepositorySuite) TestListing_SaveFindUpdate() {
	hostID := uuid.New()
	l := s.newListing(hostID, "Sea View", "Lisbon", 150, false, "wifi", "pool")

	got, err := s.listings.FindBySlug(s.ctx, l.Slug())
	s.Require().NoError(err)
	s.Equal(l.ID(), got.ID())
	s.Equal([]string{"wifi", "pool"}, got.Amenities())
	s.False(got.IsPublished())

	got.Publish()
	s.Require().NoError(got.AddImage("https://cdn/1.jpg"))
	s.Require().NoError(s.listings.Update(s.ctx, got))

	again, err := s.listings.FindByID(s.ctx, l.ID())
	s.Require().NoError(err)
	s.True(again.IsPublished())
	s.Equal([]string{"https://cdn/1.jpg"}, again.Images())

	again.Unpublish()
	s.Require().NoError(s.listings.Update(s.ctx, again))
	final, err := s.listings.FindByID(s.ctx, l.ID())
	s.Require().NoError(err)
	s.False(final.IsPublished())

	_, err = s.listings.FindByID(s.ctx, uuid.New())
	s.True(domain.IsCode(err, domain.CodeNotFound))
}

func (s *RepositorySuite) TestListing_Search() {
	hostID := uuid.New()
	s.newListing(hostID, "Lisbon Loft", "Lisbon", 120, true, "wifi", "kitchen")
	s.newListing(hostID, "Porto House", "Porto", 90, true, "wifi")
	s.newListing(hostID, "Hidden Lisbon Gem", "Lisbon", 60, false, "wifi")

	tests := []struct {
		name   string
		filter listingDomain.SearchFilter
		want   int64
	}{
		{"all published", listingDomain.SearchFilter{}, 2},
		{"city case-insensitive", listingDomain.SearchFilter{City: "lisBON"}, 1},
		{"query matches title", listingDomain.SearchFilter{Query: "house"}, 1},
		{"price range", listingDomain.SearchFilter{MinPrice: 100, MaxPrice: 200}, 1},
		{"amenities all match", listingDomain.SearchFilter{Amenities: []string{"WiFi", "kitchen"}}, 1},
		{"guests", listingDomain.SearchFilter{Guests: 5}, 0},
		{"type", listingDomain.SearchFilter{PropertyType: listingDomain.PropertyVilla}, 0},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.filter.Page, tt.filter.Limit = 1, 20
			items, total, err := s.listings.Search(s.ctx, tt.filter)
			s.Require().NoError(err)
			s.Equal(tt.want, total)
			s.Len(items, int(tt.want))
			for _, l := range items {
				s.True(l.IsPublished())
			}
		})
	}
}

func (s *RepositorySuite) TestListing_SearchTreatsWildcardsLiterally() {
	hostID := uuid.New()
	s.newListing(hostID, "Cosy Flat", "Porto", 80, true, "wifi")
	s.newListing(hostID, "Garage Studio", "Porto", 70, true, "free_parking")
	s.newListing(hostID, "new_york Loft", "Lisbon", 150, true, "sauna", "washer&dryer")

	tests := []struct {
		name   string
		filter listingDomain.SearchFilter
		want   int64
	}{
		{"underscore tag is not a wildcard", listingDomain.SearchFilter{Amenities: []string{"w_fi"}}, 0},
		{"percent tag matches nothing", listingDomain.SearchFilter{Amenities: []string{"%"}}, 0},
		{"tag containing underscore", listingDomain.SearchFilter{Amenities: []string{"free_parking"}}, 1},
		{"tag containing ampersand", listingDomain.SearchFilter{Amenities: []string{"washer&dryer"}}, 1},
		{"query with underscore matches literally", listingDomain.SearchFilter{Query: "new_york"}, 1},
		{"query underscore is not a wildcard", listingDomain.SearchFilter{Query: "new_yor_"}, 0},
		{"query percent matches nothing", listingDomain.SearchFilter{Query: "%"}, 0},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.filter.Page, tt.filter.Limit = 1, 20
			_, total, err := s.listings.Search(s.ctx, tt.filter)
			s.Require().NoError(err)
			s.Equal(tt.want, total)
		})
	}
}

func (s *RepositorySuite) TestListing_FindByHostIncludesUnpublished() {
	hostID := uuid.New()
	s.newListing(hostID, "A", "Lisbon", 10, true)
	s.newListing(hostID, "B", "Lisbon", 10, false)
	s.newListing(uuid.New(), "C", "Lisbon", 10, true)

	items, total, err := s.listings.FindByHostID(s.ctx, hostID, 1, 20)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(items, 2)
}

// --- Profiles ---

func (s *RepositorySuite) TestProfile_SaveFindUpdate() {
	p, err := profileDomain.NewProfile("ana@example.com", "hash", "Ana")
	s.Require().NoError(err)
	s.Require().NoError(s.profiles.Save(s.ctx, p))

	got, err := s.profiles.FindByEmail(s.ctx, " ANA@example.com")
	s.Require().NoError(err)
	s.Equal(p.ID(), got.ID())

	got.BecomeHost()
	s.Require().NoError(s.profiles.Update(s.ctx, got))
	again, err := s.profiles.FindByID(s.ctx, p.ID())
	s.Require().NoError(err)
	s.True(again.IsHost())

	dup, err := profileDomain.NewProfile("ana@example.com", "hash", "Other Ana")
	s.Require().NoError(err)
	err = s.profiles.Save(s.ctx, dup)
	s.True(domain.IsCode(err, domain.CodeConflict))
}

// --- Notifications ---

func (s *RepositorySuite) TestNotification_UnreadFirst() {
	recipient := uuid.New()
	older, err := notificationDomain.NewNotification(recipient, uuid.New(), "booking.requested", "older")
	s.Require().NoError(err)
	s.Require().NoError(s.notifications.Save(s.ctx, older))

	read := notificationDomain.Reconstruct(uuid.New(), recipient, uuid.New(), "booking.confirmed", "read",
		nil, time.Now().UTC().Add(time.Minute))
	s.Require().NoError(s.notifications.Save(s.ctx, read))
	read.MarkRead(time.Now())
	s.Require().NoError(s.notifications.MarkRead(s.ctx, read))

	items, total, err := s.notifications.FindByRecipientID(s.ctx, recipient, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(items, 2)
	s.Equal("older", items[0].Message())
	s.True(items[1].IsRead())

	got, err := s.notifications.FindByID(s.ctx, read.ID())
	s.Require().NoError(err)
	s.NotNil(got.ReadAt())
}
