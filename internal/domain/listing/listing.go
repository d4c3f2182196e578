package listing

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MaxImages is the maximum number of images per listing.
const MaxImages = 20

// Location is where a listing is.
type Location struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Details are the host-editable attributes of a listing.
type Details struct {
	Title         string
	Description   string
	PropertyType  PropertyType
	Location      Location
	PricePerNight float64
	MaxGuests     int
	Bedrooms      int
	Beds          int
	Bathrooms     float64
	Amenities     []string
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Title         *string
	Description   *string
	PropertyType  *PropertyType
	Location      *Location
	PricePerNight *float64
	MaxGuests     *int
	Bedrooms      *int
	Beds          *int
	Bathrooms     *float64
	Amenities     []string
}

// Listing is the aggregate root for a rentable property.
type Listing struct {
	id          uuid.UUID
	hostID      uuid.UUID
	slug        string
	details     Details
	images      []string
	isPublished bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewListing creates an unpublished listing owned by hostID.
func NewListing(hostID uuid.UUID, d Details) (*Listing, error) {
	if hostID == uuid.Nil {
		return nil, domain.NewValidationError("host ID is required")
	}
	d = normalize(d)
	if err := validateDetails(d); err != nil {
		return nil, err
	}

	id := uuid.New()
	now := time.Now().UTC()
	return &Listing{
		id:        id,
		hostID:    hostID,
		slug:      MakeSlug(d.Title, id),
		details:   d,
		images:    []string{},
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Listing from persistence data (no validation).
func Reconstruct(
	id, hostID uuid.UUID,
	slugValue string,
	d Details,
	images []string,
	isPublished bool,
	createdAt, updatedAt time.Time,
) *Listing {
	if images == nil {
		images = []string{}
	}
	return &Listing{
		id:          id,
		hostID:      hostID,
		slug:        slugValue,
		details:     d,
		images:      images,
		isPublished: isPublished,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// MakeSlug builds the public slug "<title-slug>-<first 8 hex of id>".
func MakeSlug(title string, id uuid.UUID) string {
	base := slug.Make(title)
	suffix := strings.ReplaceAll(id.String(), "-", "")[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// --- Getters ---

func (l *Listing) ID() uuid.UUID              { return l.id }
func (l *Listing) HostID() uuid.UUID          { return l.hostID }
func (l *Listing) Slug() string               { return l.slug }
func (l *Listing) Title() string              { return l.details.Title }
func (l *Listing) Description() string        { return l.details.Description }
func (l *Listing) PropertyType() PropertyType { return l.details.PropertyType }
func (l *Listing) Location() Location         { return l.details.Location }
func (l *Listing) PricePerNight() float64     { return l.details.PricePerNight }
func (l *Listing) MaxGuests() int             { return l.details.MaxGuests }
func (l *Listing) Bedrooms() int              { return l.details.Bedrooms }
func (l *Listing) Beds() int                  { return l.details.Beds }
func (l *Listing) Bathrooms() float64         { return l.details.Bathrooms }
func (l *Listing) IsPublished() bool          { return l.isPublished }
func (l *Listing) CreatedAt() time.Time       { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time       { return l.updatedAt }

// Amenities returns a copy of the amenity tags.
func (l *Listing) Amenities() []string { return append([]string{}, l.details.Amenities...) }

// Images returns a copy of the ordered image URLs.
func (l *Listing) Images() []string { return append([]string{}, l.images...) }

// Details returns a copy of the editable attributes.
func (l *Listing) Details() Details {
	d := l.details
	d.Amenities = l.Amenities()
	return d
}

// IsOwnedBy reports whether userID is the listing's host.
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool { return l.hostID == userID }

// IsVisibleTo reports whether userID may view the listing.
func (l *Listing) IsVisibleTo(userID uuid.UUID) bool {
	return l.isPublished || l.IsOwnedBy(userID)
}

// --- Behavior ---

// Apply merges a patch into the listing. The slug never changes.
func (l *Listing) Apply(p Patch) error {
	d := l.details
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.PropertyType != nil {
		d.PropertyType = *p.PropertyType
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.PricePerNight != nil {
		d.PricePerNight = *p.PricePerNight
	}
	if p.MaxGuests != nil {
		d.MaxGuests = *p.MaxGuests
	}
	if p.Bedrooms != nil {
		d.Bedrooms = *p.Bedrooms
	}
	if p.Beds != nil {
		d.Beds = *p.Beds
	}
	if p.Bathrooms != nil {
		d.Bathrooms = *p.Bathrooms
	}
	if p.Amenities != nil {
		d.Amenities = p.Amenities
	}

	d = normalize(d)
	if err := validateDetails(d); err != nil {
		return err
	}
	l.details = d
	l.updatedAt = time.Now().UTC()
	return nil
}

// Publish makes the listing searchable.
func (l *Listing) Publish() {
	l.isPublished = true
	l.updatedAt = time.Now().UTC()
}

// Unpublish hides the listing from search.
func (l *Listing) Unpublish() {
	l.isPublished = false
	l.updatedAt = time.Now().UTC()
}

// AddImage appends an image URL.
func (l *Listing) AddImage(url string) error {
	if url == "" {
		return domain.NewValidationError("image URL is required")
	}
	if len(l.images) >= MaxImages {
		return domain.NewValidationError(fmt.Sprintf("a listing can have at most %d images", MaxImages))
	}
	l.images = append(l.images, url)
	l.updatedAt = time.Now().UTC()
	return nil
}

// NormalizeAmenities lower-cases, trims and de-duplicates tags, keeping order.
func NormalizeAmenities(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func normalize(d Details) Details {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Location.Address = strings.TrimSpace(d.Location.Address)
	d.Location.City = strings.TrimSpace(d.Location.City)
	d.Location.Country = strings.TrimSpace(d.Location.Country)
	d.Amenities = NormalizeAmenities(d.Amenities)
	return d
}

func validateDetails(d Details) error {
	fields := map[string]string{}
	if d.Title == "" {
		fields["title"] = "is required"
	} else if len(d.Title) > 200 {
		fields["title"] = "must be at most 200 characters"
	}
	if !d.PropertyType.IsValid() {
		fields["property_type"] = fmt.Sprintf("invalid property type: %s", d.PropertyType)
	}
	if d.Location.City == "" {
		fields["city"] = "is required"
	}
	if d.Location.Country == "" {
		fields["country"] = "is required"
	}
	if d.PricePerNight <= 0 {
		fields["price_per_night"] = "must be greater than 0"
	}
	if d.MaxGuests < 1 {
		fields["max_guests"] = "must be at least 1"
	}
	if d.Bedrooms < 0 {
		fields["bedrooms"] = "must not be negative"
	}
	if d.Beds < 1 {
		fields["beds"] = "must be at least 1"
	}
	if d.Bathrooms < 0 {
		fields["bathrooms"] = "must not be negative"
	}
	if len(fields) > 0 {
		return domain.NewFieldValidationError(fields)
	}
	return nil
}
