package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/tfd_bot/bot"
	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/mmdatafocus/tfd_bot/middlewares"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the HTTP surface: health check plus a read-only JSON view
// of the same reports the chat commands produce.
func NewRouter(s config.Settings, b *bot.Bot, logger *logrus.Logger) *gin.Engine {
	if s.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = config.GetLogger()
	}

	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.Use(cors.New(corsConfig(s)))
	r.Use(middlewares.LoggerMiddleware(logger))
	r.Use(gin.Recovery())

	r.GET("/api/help", HelpHandler(b))
	r.GET("/api/reports/:type/:username", ReportHandler(b, logger))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}

func corsConfig(s config.Settings) cors.Config {
	corsConfig := cors.DefaultConfig()
	if s.Production {
		if len(s.CORSAllowedOrigins) == 0 {
			// cors rejects a config with no origin source at all.
			corsConfig.AllowOriginFunc = func(string) bool { return false }
		} else {
			corsConfig.AllowOrigins = s.CORSAllowedOrigins
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AddAllowHeaders(middlewares.CorrelationHeader)
	corsConfig.AddExposeHeaders("Content-Length", middlewares.CorrelationHeader)
	return corsConfig
}
