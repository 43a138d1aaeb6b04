package handlers

import (
	"errors"
	"net/http"
	"strings"

	"mainet/internal/economy"
	"mainet/internal/lock"
	"mainet/internal/logger"
	"mainet/internal/repository"
	"mainet/internal/service"

	"github.com/gin-gonic/gin"
)

var badRequest = []error{
	service.ErrInvalidClicks,
	service.ErrInsufficientEnergy,
	service.ErrInsufficientBalance,
	service.ErrMaxLevelReached,
	service.ErrNothingToTransfer,
	service.ErrInvalidUpgradeType,
	service.ErrInvalidRigType,
	service.ErrInvalidPaymentMethod,
	service.ErrInvalidTransactionID,
	service.ErrEmailTaken,
	service.ErrUsernameTaken,
	economy.ErrInvalidAmount,
}

// statusFor maps a service error to an HTTP status and client message
func statusFor(err error) (int, string) {
	if errors.Is(err, service.ErrValidation) {
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest, target.Error()
		}
	}
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, lock.ErrLockTimeout):
		return http.StatusServiceUnavailable, "busy, try again"
	}
	return http.StatusInternalServerError, "internal error"
}

// respondError writes {"error": ...}. Server-side failures are logged with the operation.
func respondError(c *gin.Context, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error(op+" failed", "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}
