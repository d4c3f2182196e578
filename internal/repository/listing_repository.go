package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/database"
	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	listingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListingModel is the GORM model for the listings table.
type ListingModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	HostID        uuid.UUID `gorm:"type:uuid;index;not null"`
	Slug          string    `gorm:"uniqueIndex;not null;size:255"`
	Title         string    `gorm:"not null;size:200"`
	Description   string    `gorm:"type:text"`
	PropertyType  string    `gorm:"not null;size:20;index"`
	Address       string    `gorm:"size:255"`
	City          string    `gorm:"not null;size:100;index"`
	Country       string    `gorm:"not null;size:100;index"`
	PricePerNight float64   `gorm:"type:numeric(12,2);not null"`
	MaxGuests     int       `gorm:"not null"`
	Bedrooms      int       `gorm:"not null;default:0"`
	Beds          int       `gorm:"not null;default:1"`
	Bathrooms     float64   `gorm:"type:numeric(3,1);not null;default:0"`
	Amenities     []string  `gorm:"serializer:json;type:jsonb;not null"`
	Images        []string  `gorm:"serializer:json;type:jsonb;not null"`
	IsPublished   bool      `gorm:"not null;default:false;index"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ListingModel) TableName() string {
	return "listings"
}

// GormListingRepository is the GORM-based implementation of ListingRepository.
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository.
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID retrieves a listing by ID.
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	return r.findOne(ctx, "id = ?", id, id.String())
}

// FindBySlug retrieves a listing by its slug.
func (r *GormListingRepository) FindBySlug(ctx context.Context, slug string) (*listingDomain.Listing, error) {
	return r.findOne(ctx, "slug = ?", slug, slug)
}

func (r *GormListingRepository) findOne(ctx context.Context, query string, arg interface{}, key string) (*listingDomain.Listing, error) {
	var model ListingModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Listing", key)
		}
		return nil, domain.NewStorageError("failed to find listing", err)
	}
	return toDomainListing(&model), nil
}

// FindByHostID retrieves a host's listings, published or not.
func (r *GormListingRepository) FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*listingDomain.Listing, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ListingModel{}).Where("host_id = ?", hostID).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStorageError("failed to count host listings", err)
	}

	var models []ListingModel
	if err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewStorageError("failed to find host listings", err)
	}
	return toDomainListings(models), total, nil
}

// Search returns published listings matching filter, newest first.
func (r *GormListingRepository) Search(ctx context.Context, filter listingDomain.SearchFilter) ([]*listingDomain.Listing, int64, error) {
	var total int64
	if err := r.searchScope(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStorageError("failed to count listings", err)
	}

	var models []ListingModel
	if err := r.searchScope(ctx, filter).
		Order("created_at DESC").
		Offset(offset(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewStorageError("failed to search listings", err)
	}
	return toDomainListings(models), total, nil
}

func (r *GormListingRepository) searchScope(ctx context.Context, f listingDomain.SearchFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&ListingModel{}).Where("is_published = ?", true)

	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(city) LIKE ?", likePattern(city))
	}
	if country := strings.TrimSpace(f.Country); country != "" {
		q = q.Where("LOWER(country) LIKE ?", likePattern(country))
	}
	if text := strings.TrimSpace(f.Query); text != "" {
		p := likePattern(text)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(city) LIKE ? ESCAPE '\' OR LOWER(country) LIKE ? ESCAPE '\')`, p, p, p)
	}
	if f.Guests > 0 {
		q = q.Where("max_guests >= ?", f.Guests)
	}
	if f.MinPrice > 0 {
		q = q.Where("price_per_night >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price_per_night <= ?", f.MaxPrice)
	}
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", string(f.PropertyType))
	}
	// JSON arrays render each tag as "tag" in both PostgreSQL and SQLite text casts.
	// jsonb prints &, < and > raw while the GORM serializer stores them \u-escaped.
	for _, tag := range listingDomain.NormalizeAmenities(f.Amenities) {
		raw, escaped := jsonString(tag, false), jsonString(tag, true)
		if raw == escaped {
			q = q.Where(`CAST(amenities AS TEXT) LIKE ? ESCAPE '\'`, "%"+escapeLike(raw)+"%")
			continue
		}
		q = q.Where(`(CAST(amenities AS TEXT) LIKE ? ESCAPE '\' OR CAST(amenities AS TEXT) LIKE ? ESCAPE '\')`,
			"%"+escapeLike(raw)+"%", "%"+escapeLike(escaped)+"%")
	}
	return q
}

// Save persists a new listing.
func (r *GormListingRepository) Save(ctx context.Context, l *listingDomain.Listing) error {
	if err := r.db.WithContext(ctx).Create(toListingModel(l)).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return domain.NewConflictError("a listing with this slug already exists")
		}
		return domain.NewStorageError("failed to save listing", err)
	}
	return nil
}

// Update persists all mutable listing fields. Last write wins.
func (r *GormListingRepository) Update(ctx context.Context, l *listingDomain.Listing) error {
	model := toListingModel(l)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("title", "description", "property_type", "address", "city", "country",
			"price_per_night", "max_guests", "bedrooms", "beds", "bathrooms",
			"amenities", "images", "is_published", "updated_at").
		Updates(model)
	if result.Error != nil {
		return domain.NewStorageError("failed to update listing", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Listing", model.ID.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toListingModel(l *listingDomain.Listing) *ListingModel {
	loc := l.Location()
	return &ListingModel{
		ID:            l.ID(),
		HostID:        l.HostID(),
		Slug:          l.Slug(),
		Title:         l.Title(),
		Description:   l.Description(),
		PropertyType:  string(l.PropertyType()),
		Address:       loc.Address,
		City:          loc.City,
		Country:       loc.Country,
		PricePerNight: l.PricePerNight(),
		MaxGuests:     l.MaxGuests(),
		Bedrooms:      l.Bedrooms(),
		Beds:          l.Beds(),
		Bathrooms:     l.Bathrooms(),
		Amenities:     l.Amenities(),
		Images:        l.Images(),
		IsPublished:   l.IsPublished(),
		CreatedAt:     l.CreatedAt(),
		UpdatedAt:     l.UpdatedAt(),
	}
}

func toDomainListing(m *ListingModel) *listingDomain.Listing {
	return listingDomain.Reconstruct(
		m.ID,
		m.HostID,
		m.Slug,
		listingDomain.Details{
			Title:         m.Title,
			Description:   m.Description,
			PropertyType:  listingDomain.PropertyType(m.PropertyType),
			Location:      listingDomain.Location{Address: m.Address, City: m.City, Country: m.Country},
			PricePerNight: m.PricePerNight,
			MaxGuests:     m.MaxGuests,
			Bedrooms:      m.Bedrooms,
			Beds:          m.Beds,
			Bathrooms:     m.Bathrooms,
			Amenities:     m.Amenities,
		},
		m.Images,
		m.IsPublished,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainListings(models []ListingModel) []*listingDomain.Listing {
	listings := make([]*listingDomain.Listing, len(models))
	for i := range models {
		listings[i] = toDomainListing(&models[i])
	}
	return listings
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match literally inside a LIKE pattern using ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func likePattern(s string) string {
	return "%" + escapeLike(strings.ToLower(s)) + "%"
}

// jsonString renders s as a quoted JSON string, the form a tag takes inside
// the stored amenities array.
func jsonString(s string, escapeHTML bool) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(escapeHTML)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
