package handler

import (
	"github.com/Nestaway-Rentals/service-rental/internal/application"
	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/middleware"
	"github.com/Nestaway-Rentals/service-rental/internal/common/response"
	"github.com/gin-gonic/gin"
)

// HostHandler handles the host dashboard.
type HostHandler struct {
	service *application.BookingService
}

// NewHostHandler creates a new HostHandler.
func NewHostHandler(service *application.BookingService) *HostHandler {
	return &HostHandler{service: service}
}

// RegisterRoutes registers host dashboard routes.
func (h *HostHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	host := r.Group("/api/v1/host")
	host.Use(middleware.IdentityMiddleware(jwtManager), middleware.RequireRole(auth.RoleHost))
	{
		host.GET("/stats/bookings", h.BookingStats)
	}
}

// BookingStats handles GET /api/v1/host/stats/bookings.
func (h *HostHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.GetHostStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
