package handler

import (
	"github.com/Nestaway-Rentals/service-rental/internal/application"
	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/middleware"
	"github.com/Nestaway-Rentals/service-rental/internal/common/response"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the caller's notifications.
type NotificationHandler struct {
	service *application.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *application.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes registers notification routes.
func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	notifications := r.Group("/api/v1/notifications")
	notifications.Use(middleware.IdentityMiddleware(jwtManager), middleware.RequireAuth())
	{
		notifications.GET("", h.ListNotifications)
		notifications.POST("/:id/read", h.MarkRead)
	}
}

// ListNotifications handles GET /api/v1/notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListMyNotifications(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// MarkRead handles POST /api/v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "notification")
	if !ok {
		return
	}

	result, err := h.service.MarkRead(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
