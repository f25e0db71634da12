package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/sirupsen/logrus"
)

// REST posts replies through the Discord HTTP API.
type REST struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *logrus.Logger
}

func NewREST(s config.Settings, logger *logrus.Logger) *REST {
	baseURL := s.DiscordAPIURL
	if baseURL == "" {
		baseURL = config.DefaultDiscordAPIURL
	}
	if logger == nil {
		logger = config.GetLogger()
	}
	return &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   s.DiscordToken,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Send creates one message in channelID.
func (r *REST) Send(ctx context.Context, channelID string, content string) error {
	body, err := json.Marshal(createMessage{Content: content})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/channels/%s/messages", r.baseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+r.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		r.logger.WithFields(logrus.Fields{"status": resp.StatusCode, "url": endpoint}).Warn("Failed to send message")
		return fmt.Errorf("discord api error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
