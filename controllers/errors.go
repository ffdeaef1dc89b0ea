package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/charlotte58cafe/loyalty-be/services"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to a stable HTTP status and message so
// the front end can show cause-specific text. Unexpected errors are logged
// and come back as a plain 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidRate),
		errors.Is(err, services.ErrInvalidPhoneNumber),
		errors.Is(err, services.ErrInsufficientPoints):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidOTP),
		errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRewardNotFound),
		errors.Is(err, services.ErrRedemptionNotFound),
		errors.Is(err, services.ErrCodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrRewardInactive),
		errors.Is(err, services.ErrDuplicatePendingRequest),
		errors.Is(err, services.ErrAlreadyProcessed),
		errors.Is(err, services.ErrNotVerified),
		errors.Is(err, services.ErrAlreadyTerminal):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError && !services.IsBusinessError(err) {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
