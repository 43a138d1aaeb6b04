package handlers

import (
	"net/http"

	"mainet/internal/service"

	"github.com/gin-gonic/gin"
)

type clickRequest struct {
	Clicks int64 `json:"clicks"`
}

// GameState reconciles and returns the caller's progression
func (h *Handler) GameState(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	gs, err := h.Game.State(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "game state", err)
		return
	}
	c.JSON(http.StatusOK, gs)
}

// SaveGameState stores cosmetic client state; balances and energy are ignored
func (h *Handler) SaveGameState(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req service.SettingsUpdate
	if !bindJSON(c, &req) {
		return
	}
	gs, err := h.Game.SaveSettings(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "save game state", err)
		return
	}
	c.JSON(http.StatusOK, gs)
}

func (h *Handler) Click(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	req := clickRequest{Clicks: 1}
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	res, err := h.Game.Click(c.Request.Context(), userID, req.Clicks)
	if err != nil {
		respondError(c, "click", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Transfer(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	res, err := h.Game.Transfer(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "transfer", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
