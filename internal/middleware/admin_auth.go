package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "idoljournal/internal/errors"
	"idoljournal/internal/logger"
)

// AdminKeyHeader carries the ADMIN_API_KEY value on /admin requests.
const AdminKeyHeader = "X-API-Key"

// AdminKeyMiddleware lets a request through to the backfill and other
// maintenance routes only when it presents the configured admin key. The
// routes stay closed while no key is configured.
func AdminKeyMiddleware(adminKey string) gin.HandlerFunc {
	want := []byte(adminKey)
	return func(c *gin.Context) {
		if len(want) == 0 {
			abortWithError(c, apperrors.ErrAdminDisabled)
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(AdminKeyHeader)), want) != 1 {
			logger.Get().Warnw("admin key rejected", "path", c.FullPath(), "client_ip", c.ClientIP())
			abortWithError(c, apperrors.ErrInvalidAdminKey)
			return
		}
		c.Next()
	}
}
