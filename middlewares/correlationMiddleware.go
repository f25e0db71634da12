package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmdatafocus/tfd_bot/utils"
)

const CorrelationHeader = "x-correlation-id"

// CorrelationMiddleware reuses the caller's correlation id or generates one,
// echoes it back and attaches it to the request context.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(CorrelationHeader)
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Header(CorrelationHeader, cid)
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	}
}
