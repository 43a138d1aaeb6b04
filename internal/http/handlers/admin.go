package handlers

import (
	"net/http"

	"mainet/internal/domain"

	"github.com/gin-gonic/gin"
)

type bulkVerifyRequest struct {
	TransactionIDs []string `json:"transaction_ids" binding:"required"`
}

func (h *Handler) VerificationStats(c *gin.Context) {
	st, err := h.Admin.VerificationStats(c.Request.Context())
	if err != nil {
		respondError(c, "verification stats", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// BulkVerify checks a list of ids for the calling admin. The method comes
// from ?payment_method= and defaults to payeer.
func (h *Handler) BulkVerify(c *gin.Context) {
	adminID, ok := requireUser(c)
	if !ok {
		return
	}
	var req bulkVerifyRequest
	if !bindJSON(c, &req) {
		return
	}
	method := domain.PaymentMethod(c.DefaultQuery("payment_method", string(domain.PaymentPayeer)))

	res, err := h.Admin.BulkVerify(c.Request.Context(), adminID, method, req.TransactionIDs)
	if err != nil {
		respondError(c, "bulk verify", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
