package handlers

import (
	"net/http"

	"mainet/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) VerifyTransaction(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req service.VerifyRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Verifications.Verify(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "verify transaction", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) VerificationHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	list, err := h.Verifications.History(c.Request.Context(), userID, queryInt(c, "limit", 50))
	if err != nil {
		respondError(c, "verification history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verifications": list, "count": len(list)})
}
