package handlers

import (
	"net/http"
	"strconv"

	"mainet/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := h.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req domain.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Profiles.Update(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// queryInt parses a non-negative integer query parameter
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func (h *Handler) Transactions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	txs, err := h.Profiles.Transactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, "list transactions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs)})
}
