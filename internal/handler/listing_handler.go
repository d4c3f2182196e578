package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Nestaway-Rentals/service-rental/internal/application"
	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/Nestaway-Rentals/service-rental/internal/common/middleware"
	"github.com/Nestaway-Rentals/service-rental/internal/common/response"
	"github.com/gin-gonic/gin"
)

// ListingHandler handles HTTP requests for listing management and search.
type ListingHandler struct {
	service *application.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *application.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// RegisterRoutes registers all listing routes.
func (h *ListingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	requireAuth := middleware.RequireAuth()

	listings := r.Group("/api/v1/listings")
	listings.Use(middleware.IdentityMiddleware(jwtManager))
	{
		listings.GET("", h.SearchListings)
		listings.POST("", middleware.RequireRole(auth.RoleHost), h.CreateListing)
		listings.GET("/mine", requireAuth, h.ListMyListings)
		listings.GET("/slug/:slug", h.GetListingBySlug)
		listings.GET("/:id", h.GetListing)
		listings.PUT("/:id", requireAuth, h.UpdateListing)
		listings.POST("/:id/publish", requireAuth, h.PublishListing)
		listings.POST("/:id/unpublish", requireAuth, h.UnpublishListing)
		listings.POST("/:id/images", requireAuth, h.UploadImage)
	}
}

// SearchListings handles GET /api/v1/listings.
func (h *ListingHandler) SearchListings(c *gin.Context) {
	q, fields := parseSearchQuery(c)
	if len(fields) > 0 {
		response.Error(c, domain.NewFieldValidationError(fields))
		return
	}

	result, err := h.service.SearchListings(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// CreateListing handles POST /api/v1/listings.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req application.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateListing(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyListings handles GET /api/v1/listings/mine.
func (h *ListingHandler) ListMyListings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListMyListings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetListing handles GET /api/v1/listings/:id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID, ok := parseID(c, "listing")
	if !ok {
		return
	}

	result, err := h.service.GetListing(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetListingBySlug handles GET /api/v1/listings/slug/:slug.
func (h *ListingHandler) GetListingBySlug(c *gin.Context) {
	result, err := h.service.GetListingBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateListing handles PUT /api/v1/listings/:id.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	listingID, ok := parseID(c, "listing")
	if !ok {
		return
	}

	var req application.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateListing(c.Request.Context(), listingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PublishListing handles POST /api/v1/listings/:id/publish.
func (h *ListingHandler) PublishListing(c *gin.Context) {
	listingID, ok := parseID(c, "listing")
	if !ok {
		return
	}

	result, err := h.service.PublishListing(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UnpublishListing handles POST /api/v1/listings/:id/unpublish.
func (h *ListingHandler) UnpublishListing(c *gin.Context) {
	listingID, ok := parseID(c, "listing")
	if !ok {
		return
	}

	result, err := h.service.UnpublishListing(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UploadImage handles POST /api/v1/listings/:id/images (multipart field "image").
func (h *ListingHandler) UploadImage(c *gin.Context) {
	listingID, ok := parseID(c, "listing")
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "failed to read image file")
		return
	}
	defer file.Close()

	// Trust the bytes, not the client-declared content type.
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		response.BadRequest(c, "failed to read image file")
		return
	}

	result, err := h.service.AddImage(c.Request.Context(), listingID, application.ListingImage{
		Body:        file,
		Size:        header.Size,
		ContentType: http.DetectContentType(head[:n]),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

func parseSearchQuery(c *gin.Context) (application.SearchListingsQuery, map[string]string) {
	page, limit := parsePagination(c)
	fields := map[string]string{}

	q := application.SearchListingsQuery{
		City:         strings.TrimSpace(c.Query("city")),
		Country:      strings.TrimSpace(c.Query("country")),
		Query:        strings.TrimSpace(c.Query("q")),
		PropertyType: strings.TrimSpace(c.Query("property_type")),
		Page:         page,
		Limit:        limit,
	}

	if raw := c.Query("guests"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields["guests"] = "must be an integer"
		}
		q.Guests = n
	}
	if raw := c.Query("min_price"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields["min_price"] = "must be a number"
		}
		q.MinPrice = f
	}
	if raw := c.Query("max_price"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields["max_price"] = "must be a number"
		}
		q.MaxPrice = f
	}
	for _, v := range c.QueryArray("amenities") {
		q.Amenities = append(q.Amenities, strings.Split(v, ",")...)
	}
	return q, fields
}
