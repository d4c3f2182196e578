package application

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/Nestaway-Rentals/service-rental/internal/common/session"
	listingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/listing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImageSize is the largest accepted listing image upload.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// CreateListingRequest is the request DTO for creating a listing.
type CreateListingRequest struct {
	Title         string                 `json:"title" binding:"required"`
	Description   string                 `json:"description"`
	PropertyType  string                 `json:"property_type" binding:"required"`
	Location      listingDomain.Location `json:"location"`
	PricePerNight float64                `json:"price_per_night"`
	MaxGuests     int                    `json:"max_guests"`
	Bedrooms      int                    `json:"bedrooms"`
	Beds          int                    `json:"beds"`
	Bathrooms     float64                `json:"bathrooms"`
	Amenities     []string               `json:"amenities"`
}

// UpdateListingRequest is the request DTO for a partial listing update.
type UpdateListingRequest struct {
	Title         *string                 `json:"title"`
	Description   *string                 `json:"description"`
	PropertyType  *string                 `json:"property_type"`
	Location      *listingDomain.Location `json:"location"`
	PricePerNight *float64                `json:"price_per_night"`
	MaxGuests     *int                    `json:"max_guests"`
	Bedrooms      *int                    `json:"bedrooms"`
	Beds          *int                    `json:"beds"`
	Bathrooms     *float64                `json:"bathrooms"`
	Amenities     []string                `json:"amenities"`
}

// SearchListingsQuery holds public search parameters.
type SearchListingsQuery struct {
	City         string
	Country      string
	Query        string
	Guests       int
	MinPrice     float64
	MaxPrice     float64
	PropertyType string
	Amenities    []string
	Page         int
	Limit        int
}

// ListingImage is an uploaded image file.
type ListingImage struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

// ListingDTO is the API response representation of a listing.
type ListingDTO struct {
	ID            uuid.UUID              `json:"id"`
	HostID        uuid.UUID              `json:"host_id"`
	Slug          string                 `json:"slug"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	PropertyType  string                 `json:"property_type"`
	Location      listingDomain.Location `json:"location"`
	PricePerNight float64                `json:"price_per_night"`
	MaxGuests     int                    `json:"max_guests"`
	Bedrooms      int                    `json:"bedrooms"`
	Beds          int                    `json:"beds"`
	Bathrooms     float64                `json:"bathrooms"`
	Amenities     []string               `json:"amenities"`
	Images        []string               `json:"images"`
	IsPublished   bool                   `json:"is_published"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ListingService implements listing management and search.
type ListingService struct {
	repo     listingDomain.ListingRepository
	cache    ListingCache
	uploader ImageUploader
	logger   *zap.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(
	repo listingDomain.ListingRepository,
	cache ListingCache,
	uploader ImageUploader,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{repo: repo, cache: cache, uploader: uploader, logger: logger}
}

// CreateListing creates an unpublished listing owned by the calling host.
func (s *ListingService) CreateListing(ctx context.Context, req CreateListingRequest) (*ListingDTO, error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.IsHost() {
		return nil, domain.NewForbiddenError("only hosts can create listings")
	}

	l, err := listingDomain.NewListing(actor.UserID, listingDomain.Details{
		Title:         req.Title,
		Description:   req.Description,
		PropertyType:  listingDomain.PropertyType(req.PropertyType),
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
		Bedrooms:      req.Bedrooms,
		Beds:          req.Beds,
		Bathrooms:     req.Bathrooms,
		Amenities:     req.Amenities,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save listing: %w", err)
	}

	s.logger.Info("listing created",
		zap.String("listing_id", l.ID().String()),
		zap.String("host_id", actor.UserID.String()),
		zap.String("slug", l.Slug()),
	)

	result := toListingDTO(l)
	return &result, nil
}

// UpdateListing applies a partial update to a listing owned by the caller.
func (s *ListingService) UpdateListing(ctx context.Context, listingID uuid.UUID, req UpdateListingRequest) (*ListingDTO, error) {
	l, err := s.findOwned(ctx, listingID)
	if err != nil {
		return nil, err
	}

	patch := listingDomain.Patch{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		MaxGuests:     req.MaxGuests,
		Bedrooms:      req.Bedrooms,
		Beds:          req.Beds,
		Bathrooms:     req.Bathrooms,
		Amenities:     req.Amenities,
	}
	if req.PropertyType != nil {
		pt := listingDomain.PropertyType(*req.PropertyType)
		patch.PropertyType = &pt
	}

	if err := l.Apply(patch); err != nil {
		return nil, err
	}
	return s.persist(ctx, l, "listing updated")
}

// PublishListing makes a listing owned by the caller searchable.
func (s *ListingService) PublishListing(ctx context.Context, listingID uuid.UUID) (*ListingDTO, error) {
	l, err := s.findOwned(ctx, listingID)
	if err != nil {
		return nil, err
	}
	l.Publish()
	return s.persist(ctx, l, "listing published")
}

// UnpublishListing hides a listing owned by the caller.
func (s *ListingService) UnpublishListing(ctx context.Context, listingID uuid.UUID) (*ListingDTO, error) {
	l, err := s.findOwned(ctx, listingID)
	if err != nil {
		return nil, err
	}
	l.Unpublish()
	return s.persist(ctx, l, "listing unpublished")
}

// AddImage uploads an image and appends its URL to a listing owned by the caller.
func (s *ListingService) AddImage(ctx context.Context, listingID uuid.UUID, img ListingImage) (*ListingDTO, error) {
	if s.uploader == nil || !s.uploader.Enabled() {
		return nil, domain.NewValidationError("image uploads are not configured")
	}

	l, err := s.findOwned(ctx, listingID)
	if err != nil {
		return nil, err
	}

	ext, ok := imageExtensions[img.ContentType]
	if !ok {
		return nil, domain.NewFieldValidationError(map[string]string{
			"image": "must be a JPEG, PNG or WebP image",
		})
	}
	if img.Size <= 0 || img.Size > MaxImageSize {
		return nil, domain.NewFieldValidationError(map[string]string{
			"image": fmt.Sprintf("must be at most %d bytes", MaxImageSize),
		})
	}
	if len(l.Images()) >= listingDomain.MaxImages {
		return nil, domain.NewValidationError(fmt.Sprintf("a listing can have at most %d images", listingDomain.MaxImages))
	}

	key := fmt.Sprintf("listings/%s/%s.%s", l.ID(), uuid.New(), ext)
	url, err := s.uploader.Upload(ctx, key, img.ContentType, img.Body, img.Size)
	if err != nil {
		return nil, domain.NewStorageError("failed to upload image", err)
	}

	if err := l.AddImage(url); err != nil {
		return nil, err
	}
	return s.persist(ctx, l, "listing image added")
}

// GetListing returns a listing visible to the caller. Published listings are
// served through the cache.
func (s *ListingService) GetListing(ctx context.Context, listingID uuid.UUID) (*ListingDTO, error) {
	var cached ListingDTO
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, listingID, &cached)
		if err != nil {
			s.logger.Warn("listing cache read failed", zap.String("listing_id", listingID.String()), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	l, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisible(ctx, l); err != nil {
		return nil, err
	}

	result := toListingDTO(l)
	if l.IsPublished() && s.cache != nil {
		if err := s.cache.Set(ctx, l.ID(), result); err != nil {
			s.logger.Warn("listing cache write failed", zap.String("listing_id", l.ID().String()), zap.Error(err))
		}
	}
	return &result, nil
}

// GetListingBySlug returns a listing by its public slug.
func (s *ListingService) GetListingBySlug(ctx context.Context, slug string) (*ListingDTO, error) {
	l, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisible(ctx, l); err != nil {
		return nil, err
	}
	result := toListingDTO(l)
	return &result, nil
}

// ListMyListings returns the caller's listings regardless of the published flag.
func (s *ListingService) ListMyListings(ctx context.Context, page, limit int) (*domain.PaginatedResult[ListingDTO], error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	listings, total, err := s.repo.FindByHostID(ctx, actor.UserID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toListingDTOs(listings), total, page, limit)
	return &result, nil
}

// SearchListings searches published listings.
func (s *ListingService) SearchListings(ctx context.Context, q SearchListingsQuery) (*domain.PaginatedResult[ListingDTO], error) {
	fields := map[string]string{}
	if q.Guests < 0 {
		fields["guests"] = "must not be negative"
	}
	if q.MinPrice < 0 {
		fields["min_price"] = "must not be negative"
	}
	if q.MaxPrice < 0 {
		fields["max_price"] = "must not be negative"
	}
	if q.MaxPrice > 0 && q.MinPrice > q.MaxPrice {
		fields["max_price"] = "must be greater than or equal to min_price"
	}
	pt := listingDomain.PropertyType(q.PropertyType)
	if q.PropertyType != "" && !pt.IsValid() {
		fields["property_type"] = fmt.Sprintf("invalid property type: %s", q.PropertyType)
	}
	if len(fields) > 0 {
		return nil, domain.NewFieldValidationError(fields)
	}

	listings, total, err := s.repo.Search(ctx, listingDomain.SearchFilter{
		City:         q.City,
		Country:      q.Country,
		Query:        q.Query,
		Guests:       q.Guests,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		PropertyType: pt,
		Amenities:    listingDomain.NormalizeAmenities(q.Amenities),
		Page:         q.Page,
		Limit:        q.Limit,
	})
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toListingDTOs(listings), total, q.Page, q.Limit)
	return &result, nil
}

// --- Helpers ---

func (s *ListingService) findOwned(ctx context.Context, listingID uuid.UUID) (*listingDomain.Listing, error) {
	actor, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !l.IsOwnedBy(actor.UserID) {
		return nil, domain.NewForbiddenError("You are not authorized to modify this listing")
	}
	return l, nil
}

func (s *ListingService) checkVisible(ctx context.Context, l *listingDomain.Listing) error {
	actor, _ := session.FromContext(ctx)
	if !l.IsVisibleTo(actor.UserID) {
		return domain.NewNotFoundError("Listing", l.ID().String())
	}
	return nil
}

func (s *ListingService) persist(ctx context.Context, l *listingDomain.Listing, msg string) (*ListingDTO, error) {
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	s.invalidate(ctx, l.ID())

	s.logger.Info(msg, zap.String("listing_id", l.ID().String()))
	result := toListingDTO(l)
	return &result, nil
}

func (s *ListingService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("listing cache invalidation failed", zap.String("listing_id", id.String()), zap.Error(err))
	}
}

func toListingDTO(l *listingDomain.Listing) ListingDTO {
	return ListingDTO{
		ID:            l.ID(),
		HostID:        l.HostID(),
		Slug:          l.Slug(),
		Title:         l.Title(),
		Description:   l.Description(),
		PropertyType:  string(l.PropertyType()),
		Location:      l.Location(),
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

func toListingDTOs(listings []*listingDomain.Listing) []ListingDTO {
	dtos := make([]ListingDTO, len(listings))
	for i, l := range listings {
		dtos[i] = toListingDTO(l)
	}
	return dtos
}

