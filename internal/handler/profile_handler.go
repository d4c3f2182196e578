package handler

import (
	"github.com/Nestaway-Rentals/service-rental/internal/application"
	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/middleware"
	"github.com/Nestaway-Rentals/service-rental/internal/common/response"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles the signed-in user's profile.
type ProfileHandler struct {
	service *application.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *application.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// RegisterRoutes registers profile routes.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	profile := r.Group("/api/v1/profile")
	profile.Use(middleware.IdentityMiddleware(jwtManager), middleware.RequireAuth())
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.POST("/become-host", h.BecomeHost)
	}
}

// GetProfile handles GET /api/v1/profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	result, err := h.service.GetProfile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateProfile handles PUT /api/v1/profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req application.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// BecomeHost handles POST /api/v1/profile/become-host.
func (h *ProfileHandler) BecomeHost(c *gin.Context) {
	result, err := h.service.BecomeHost(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
