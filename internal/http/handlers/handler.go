package handlers

import (
	"net/http"

	"mainet/internal/http/middleware"
	"mainet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler holds the services behind the REST endpoints
type Handler struct {
	Auth          *service.AuthService
	Game          *service.GameService
	Upgrades      *service.UpgradeService
	Rigs          *service.RigService
	Verifications *service.VerificationService
	Admin         *service.AdminService
	Profiles      *service.ProfileService
}

// getUserID reads the user id set by the JWT middleware
func getUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func getIdentity(c *gin.Context) (service.Identity, bool) {
	v, ok := c.Get(middleware.CtxIdentity)
	if !ok {
		return service.Identity{}, false
	}
	id, ok := v.(service.Identity)
	return id, ok
}

// requireUser aborts with 401 when no user is attached
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}

// bindJSON decodes the body and answers 400 on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return false
	}
	return true
}
