package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

const (
	// UserHeader carries the id of the farm user a request acts for.
	UserHeader = "X-User-ID"
	userKey    = "user_id"
)

// UserScope resolves the acting user from UserHeader, falling back to
// defaultUserID.
func UserScope(defaultUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(UserHeader)
		if id == "" {
			id = defaultUserID
		}
		c.Set(userKey, id)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userKey)
}

// respondError maps domain errors onto HTTP statuses. Unknown errors are
// logged and hidden behind a 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
