package listing

import (
	"context"

	"github.com/google/uuid"
)

// SearchFilter narrows a published-listing search. Zero values are ignored.
type SearchFilter struct {
	City         string
	Country      string
	Query        string
	Guests       int
	MinPrice     float64
	MaxPrice     float64
	PropertyType PropertyType
	Amenities    []string
	Page         int
	Limit        int
}

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindBySlug(ctx context.Context, slug string) (*Listing, error)
	FindByHostID(ctx context.Context, hostID uuid.UUID, page, limit int) ([]*Listing, int64, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Listing, int64, error)
	Save(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
}
