package middleware

import (
	"fmt"

	"contact-relay/internal/delivery/http/response"
	"contact-relay/pkg/apperror"
	"contact-relay/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached to the gin context.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		// Log the actual error server-side; the response body stays generic
		// for anything that is not an AppError.
		logger.Log.Error("request failed", "error", err, "path", c.Request.URL.Path)
		response.FromError(err).Render(c)
	}
}

// Recovery turns panics into a JSON 500 instead of an empty response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		_ = c.Error(apperror.Internal(fmt.Errorf("panic: %v", recovered)))
		c.Abort()
	})
}
