package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/tfd_bot/utils"
	"github.com/sirupsen/logrus"
)

func LoggerMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		logger.WithFields(logrus.Fields{
			"status":         c.Writer.Status(),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"latency":        time.Since(start).String(),
			"correlation_id": cid,
		}).Info("request")
	}
}
