package middleware

import (
	"net/http"
	"strings"

	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/domain"
	"github.com/Nestaway-Rentals/service-rental/internal/common/response"
	"github.com/Nestaway-Rentals/service-rental/internal/common/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID    = "user_id"
	ctxUserRole  = "user_role"
	ctxUserEmail = "user_email"
)

// IdentityMiddleware resolves a Bearer token into the request identity.
// Missing or invalid tokens leave the request anonymous; authorization is
// decided downstream.
func IdentityMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			c.Next()
			return
		}

		id := session.FromClaims(claims)
		c.Set(ctxUserID, id.UserID)
		c.Set(ctxUserRole, id.Role)
		c.Set(ctxUserEmail, id.Email)
		c.Request = c.Request.WithContext(session.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireAuth aborts anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole aborts requests whose identity lacks one of the given roles.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response.Envelope{
			Error: "insufficient role",
			Code:  string(domain.CodeForbidden),
		})
	}
}

// GetUserID returns the authenticated user's ID.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserRole returns the authenticated user's role.
func GetUserRole(c *gin.Context) (auth.Role, bool) {
	v, ok := c.Get(ctxUserRole)
	if !ok {
		return "", false
	}
	role, ok := v.(auth.Role)
	return role, ok
}
