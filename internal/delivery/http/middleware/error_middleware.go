package middleware

import (
	"errors"
	"net/http"

	"bizconnect-backend/internal/delivery/http/response"
	"bizconnect-backend/pkg/apperror"
	"bizconnect-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler maps errors appended to the Gin context onto the response
// envelope. AppErrors keep their status and message; anything else is
// logged server-side and answered with an opaque 500 so internals never
// leak to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if appErr.Err != nil {
					logger.Log.Error("Request failed",
						"path", c.FullPath(), "code", appErr.Code, "error", appErr.Err)
				}
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				logger.Log.Error("Unhandled error", "path", c.FullPath(), "error", err)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
