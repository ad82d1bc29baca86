package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, gin.H{"success": true, "data": data, "message": message})
}

func respondValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ValidationError", "message": message})
}

// respondError maps the domain taxonomy onto the uniform failure envelope.
func respondError(c *gin.Context, err error) {
	code := "InternalError"
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrInvalidTier),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnknownFeature):
		code, status = "ValidationError", http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyUnlocked):
		code, status = "AlreadyUnlocked", http.StatusBadRequest
	case errors.Is(err, domain.ErrSubscriptionExists):
		code, status = "SubscriptionConflict", http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance):
		code, status = "InsufficientBalance", http.StatusPaymentRequired
	case errors.Is(err, domain.ErrNotFound):
		code, status = "NotFound", http.StatusNotFound
	}

	c.JSON(status, gin.H{"success": false, "error": code, "message": err.Error()})
}

// userID reads the uuid the auth middleware stored.
func userID(c *gin.Context) uuid.UUID {
	v, _ := c.Get("userId")
	uid, _ := v.(uuid.UUID)
	return uid
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
