package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/tfd_bot/bot"
	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/mmdatafocus/tfd_bot/report"
	"github.com/sirupsen/logrus"
)

type ReportResponse struct {
	Chunks []string `json:"chunks"`
}

var reportTypes = map[string]bool{
	"descendant": true,
	"build":      true,
	"weapons":    true,
}

func HelpHandler(b *bot.Bot) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ReportResponse{Chunks: report.Chunk(b.HelpText(), report.MaxMessageLength)})
	}
}

// ReportHandler serves GET /api/reports/:type/:username. A player that
// cannot be found is still a 200: the body carries the same message the chat
// command would send.
func ReportHandler(b *bot.Bot, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := strings.ToLower(c.Param("type"))
		if !reportTypes[kind] {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown report type"})
			return
		}
		username := strings.TrimSpace(c.Param("username"))
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}

		chunks, err := b.Run(c.Request.Context(), &bot.Invocation{Command: kind, Args: []string{username}})
		if err != nil {
			config.LogError(logger, "api/handlers.go", "ReportHandler", "bot.Run", gin.H{"type": kind, "username": username}, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build report"})
			return
		}
		if chunks == nil {
			chunks = []string{}
		}
		c.JSON(http.StatusOK, ReportResponse{Chunks: chunks})
	}
}
