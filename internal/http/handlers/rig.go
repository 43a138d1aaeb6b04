package handlers

import (
	"net/http"

	"mainet/internal/domain"

	"github.com/gin-gonic/gin"
)

type buyRigRequest struct {
	RigName string         `json:"rig_name"`
	RigType domain.RigType `json:"rig_type" binding:"required"`
}

func (h *Handler) RigCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.Rigs.Catalog())
}

func (h *Handler) MyRigs(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	rigs, err := h.Rigs.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list rigs", err)
		return
	}
	c.JSON(http.StatusOK, rigs)
}

func (h *Handler) BuyRig(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req buyRigRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Rigs.Buy(c.Request.Context(), userID, req.RigName, req.RigType)
	if err != nil {
		respondError(c, "buy rig", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
