package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListUpgrades returns the catalog. Levels are filled in when a valid token was sent.
func (h *Handler) ListUpgrades(c *gin.Context) {
	var userID *uuid.UUID
	if id, ok := getUserID(c); ok {
		userID = &id
	}
	offers, err := h.Upgrades.Catalog(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list upgrades", err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *Handler) MyUpgrades(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	levels, err := h.Upgrades.MyUpgrades(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "my upgrades", err)
		return
	}
	c.JSON(http.StatusOK, levels)
}

func (h *Handler) BuyUpgrade(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	res, err := h.Upgrades.Buy(c.Request.Context(), userID, c.Param("type"))
	if err != nil {
		respondError(c, "buy upgrade", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
