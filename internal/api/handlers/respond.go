package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/francisco-dev-ao/angohost-api/pkg/errors"
)

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// respondError maps the error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal error and gets logged with its
// cause; the client only sees a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *apperrors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *apperrors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Error()})
	case *apperrors.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": e.Error()})
	case *apperrors.ErrValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": e.Error(), "field": e.Field})
	case *apperrors.ErrInvalidStateTransition:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *apperrors.ErrPreconditionFailed:
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": e.Error()})
	case *apperrors.ErrInsufficientFunds:
		c.JSON(http.StatusPaymentRequired, gin.H{"error": e.Error()})
	default:
		logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
