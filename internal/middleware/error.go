package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/logger"
)

// ErrorHandler renders the last error attached with c.Error as the API error
// body, unless the handler already wrote a response. Bind errors become
// INVALID_INPUT. Anything that is not an AppError is logged and returned as
// INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		appErr, unexpected := appErrorOf(last)

		switch {
		case unexpected:
			logger.Get().Errorw("unexpected error",
				"error", last.Err.Error(),
				"request_id", c.GetString(requestIDKey),
				"user_id", c.GetString("userID"),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
		case appErr.Internal != nil:
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"request_id", c.GetString(requestIDKey),
				"path", c.Request.URL.Path,
			)
		}

		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}

func appErrorOf(e *gin.Error) (appErr *apperrors.AppError, unexpected bool) {
	if errors.As(e.Err, &appErr) {
		return appErr, false
	}
	if e.IsType(gin.ErrorTypeBind) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, e.Err.Error()), false
	}
	return apperrors.ErrInternalServer, true
}
