package tfdapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/mmdatafocus/tfd_bot/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	userAPIPrefix = "/tfd/v1"
	metaPrefix    = "/static/tfd/meta/en"
)

var tracer = otel.Tracer("tfd_bot/tfdapi")

// Client talks to the Nexon open API. It is safe for concurrent use; the
// underlying http.Client pools connections across invocations.
type Client struct {
	baseURL   string
	apiKey    string
	apiKeyHdr string
	http      *http.Client
	logger    *logrus.Logger
}

func NewClient(s config.Settings, logger *logrus.Logger) (*Client, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, errors.New("tfd api key is empty")
	}
	baseURL := s.APIBaseURL
	if baseURL == "" {
		baseURL = config.DefaultAPIBaseURL
	}
	hdr := s.APIKeyHeader
	if hdr == "" {
		hdr = config.DefaultAPIKeyHeader
	}
	timeout := s.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = config.GetLogger()
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    s.APIKey,
		apiKeyHdr: hdr,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}, nil
}

// getJSON issues one GET and decodes the body into dest. Every failure is
// logged here with the status code and URL; callers only see false.
func (c *Client) getJSON(ctx context.Context, op string, path string, params url.Values, dest any) bool {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	ctx, span := tracer.Start(ctx, "tfdapi."+op, trace.WithAttributes(
		attribute.String("http.method", http.MethodGet),
		attribute.String("http.url", endpoint),
	))
	defer span.End()

	status, err := c.do(ctx, endpoint, dest)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		cid, _ := utils.GetCorrelationIdFromContext(ctx)
		c.logger.WithFields(logrus.Fields{
			"op":             op,
			"status":         status,
			"url":            endpoint,
			"correlation_id": cid,
		}).Warn(fmt.Sprintf("Failed to fetch %s: %v", op, err))
		return false
	}
	return true
}

func (c *Client) do(ctx context.Context, endpoint string, dest any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set(c.apiKeyHdr, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("tfd api error %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(body)), 200))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
