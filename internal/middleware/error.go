package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	detailUnauthorized = "Authentication credentials were not provided."
	detailForbidden    = "You do not have permission to perform this action."
	detailNotFound     = "Not found."
	detailRateLimited  = "Request was throttled."
	detailInternal     = "Internal server error."
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Client errors keep their message; anything unknown becomes a logged 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := Render(err)
		if status == http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}
		c.JSON(status, body)
	}
}

// Render maps an error to its HTTP status and JSON body.
func Render(err error) (int, any) {
	var (
		validation *types.ValidationError
		connection *types.ConnectionError
		detail     *types.DetailError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Fields
	case errors.As(err, &connection):
		return http.StatusBadRequest, gin.H{"errors": connection.Message}
	case errors.As(err, &detail):
		return detail.Status, gin.H{"detail": detail.Detail}
	case errors.Is(err, types.ErrUnauthorized), errors.Is(err, types.ErrTokenRevoked):
		return http.StatusUnauthorized, gin.H{"detail": detailUnauthorized}
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden, gin.H{"detail": detailForbidden}
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, gin.H{"detail": detailNotFound}
	case errors.Is(err, types.ErrRateLimited):
		return http.StatusTooManyRequests, gin.H{"detail": detailRateLimited}
	default:
		return http.StatusInternalServerError, gin.H{"detail": detailInternal}
	}
}

// Recovery turns panics into the generic 500 body.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": detailInternal})
	})
}

func abortWithError(c *gin.Context, err error) {
	status, body := Render(err)
	c.AbortWithStatusJSON(status, body)
}
