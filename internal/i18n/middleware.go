package i18n

import "github.com/gin-gonic/gin"

const localeKey = "locale"

// LocaleMiddleware negotiates ?lang= then Accept-Language and sets Content-Language.
func LocaleMiddleware(c *Catalog) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		locale := c.Match(ctx.Query("lang"), ctx.GetHeader("Accept-Language"))
		ctx.Set(localeKey, locale)
		ctx.Header("Content-Language", locale)
		ctx.Next()
	}
}

// GetLocale returns the negotiated locale, or DefaultLocale.
func GetLocale(ctx *gin.Context) string {
	if v := ctx.GetString(localeKey); v != "" {
		return v
	}
	return DefaultLocale
}
