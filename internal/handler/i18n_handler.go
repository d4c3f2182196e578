package handler

import (
	"github.com/Nestaway-Rentals/service-rental/internal/common/response"
	"github.com/Nestaway-Rentals/service-rental/internal/i18n"
	"github.com/gin-gonic/gin"
)

// I18nHandler serves UI message catalogs.
type I18nHandler struct {
	catalog *i18n.Catalog
}

// NewI18nHandler creates a new I18nHandler.
func NewI18nHandler(catalog *i18n.Catalog) *I18nHandler {
	return &I18nHandler{catalog: catalog}
}

// RegisterRoutes registers the public catalog routes.
func (h *I18nHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/i18n", h.ListLocales)
	r.GET("/api/v1/i18n/:locale", h.GetCatalog)
}

// ListLocales handles GET /api/v1/i18n.
func (h *I18nHandler) ListLocales(c *gin.Context) {
	response.Success(c, gin.H{
		"locales": h.catalog.Locales(),
		"default": i18n.DefaultLocale,
		"current": i18n.GetLocale(c),
	})
}

// GetCatalog handles GET /api/v1/i18n/:locale. Unknown locales get the best match.
func (h *I18nHandler) GetCatalog(c *gin.Context) {
	locale, messages := h.catalog.Messages(c.Param("locale"))
	response.Success(c, gin.H{
		"locale":   locale,
		"messages": messages,
	})
}
