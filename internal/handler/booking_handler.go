package handler

import (
	"strconv"
	"strings"

	"github.com/Nestaway-Rentals/service-rental/internal/application"
	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/middleware"
	"github.com/Nestaway-Rentals/service-rental/internal/common/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
// The identity is resolved on every route and enforced by the service.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	bookings := r.Group("/api/v1/bookings")
	bookings.Use(middleware.IdentityMiddleware(jwtManager))
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListMyBookings)
		bookings.GET("/hosting", h.ListHostBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/confirm", h.ConfirmBooking)
		bookings.PATCH("/:id/status", h.UpdateStatus)
		bookings.POST("/:id/cancel", h.CancelBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings. It accepts a JSON object or a
// form-encoded body.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	form, ok := bindBookingForm(c)
	if !ok {
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyBookings handles GET /api/v1/bookings.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListMyBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ListHostBookings handles GET /api/v1/bookings/hosting.
func (h *BookingHandler) ListHostBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListHostBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}

	result, err := h.service.ConfirmBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateStatus handles PATCH /api/v1/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.ShouldBind(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), bookingID, strings.TrimSpace(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "booking")
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason" form:"reason"`
	}
	// The body is optional; an absent reason falls back to the default.
	_ = c.ShouldBind(&body)

	result, err := h.service.CancelBooking(c.Request.Context(), bookingID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func bindBookingForm(c *gin.Context) (application.BookingForm, bool) {
	if c.ContentType() == gin.MIMEJSON {
		var raw map[string]any
		if err := c.ShouldBindJSON(&raw); err != nil {
			response.BadRequest(c, "invalid JSON body")
			return application.BookingForm{}, false
		}
		return application.BookingFormFromMap(raw), true
	}

	if err := c.Request.ParseForm(); err != nil {
		response.BadRequest(c, "invalid form body")
		return application.BookingForm{}, false
	}
	return application.BookingForm{
		ListingID:       c.PostForm("listing_id"),
		CheckInDate:     c.PostForm("check_in_date"),
		CheckOutDate:    c.PostForm("check_out_date"),
		GuestCount:      c.PostForm("guest_count"),
		Nights:          c.PostForm("nights"),
		TotalPrice:      c.PostForm("total_price"),
		SpecialRequests: c.PostForm("special_requests"),
	}, true
}

func parseID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
