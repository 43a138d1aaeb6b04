package middleware

import (
	"errors"
	"net/http"
	"strings"

	"mainet/internal/logger"
	"mainet/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWT and OptionalJWT
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxIdentity = "identity"
)

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	token := strings.TrimPrefix(h, "Bearer ")
	if token == h {
		token = strings.TrimPrefix(h, "bearer ")
	}
	return strings.TrimSpace(token)
}

func setIdentity(c *gin.Context, id service.Identity) {
	c.Set(CtxUserID, id.UserID)
	c.Set(CtxRole, id.Role)
	c.Set(CtxIdentity, id)
	c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), "user_id", id.UserID))
}

// JWT requires a valid access token in the Authorization header.
func JWT(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		id, err := tokens.ParseAccess(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidToken) {
				logger.WithContext(c.Request.Context()).Error("token check failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

// OptionalJWT sets the identity when a valid token is present and lets
// anonymous requests through.
func OptionalJWT(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if id, err := tokens.ParseAccess(c.Request.Context(), token); err == nil {
				setIdentity(c, id)
			}
		}
		c.Next()
	}
}

// AdminOnly must run after JWT
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxIdentity)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if id, _ := v.(service.Identity); !id.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
