package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/yt-video-details/config"
	"github.com/gcottom/yt-video-details/pkg/http_client"
	"go.uber.org/zap"
)

func NewClient(cfg *config.Config, httpClient *http_client.HTTPClient) *Client {
	return &Client{
		HTTPClient:       httpClient,
		BaseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:           cfg.APIKey,
		APIHost:          cfg.APIHost,
		DetailsPath:      cfg.DetailsPath,
		FormatsPath:      cfg.FormatsPath,
		PrimaryTimeout:   cfg.PrimaryTimeout(),
		SecondaryTimeout: cfg.SecondaryTimeout(),
	}
}

// FetchDetails calls the video details endpoint, which carries both the
// metadata and the usual format lists.
func (c *Client) FetchDetails(ctx context.Context, id string) (*Payload, error) {
	params := url.Values{}
	params.Set("videoId", id)
	params.Set("urlAccess", "normal")
	params.Set("videos", "auto")
	params.Set("audios", "auto")
	return c.fetch(ctx, c.DetailsPath, params, c.PrimaryTimeout)
}

// FetchFormats calls the alternative formats endpoint.
func (c *Client) FetchFormats(ctx context.Context, id string) (*Payload, error) {
	params := url.Values{}
	params.Set("videoId", id)
	params.Set("includeFormats", "true")
	return c.fetch(ctx, c.FormatsPath, params, c.SecondaryTimeout)
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values, timeout time.Duration) (*Payload, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req, err := c.HTTPClient.CreateRequest(ctx, http.MethodGet, c.BaseURL+endpoint, params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.APIKey)
	req.Header.Set(HeaderAPIHost, c.APIHost)

	zaplog.InfoC(ctx, "calling upstream api", zap.String("endpoint", endpoint), zap.String("videoId", params.Get("videoId")))
	body, code, err := c.HTTPClient.DoRequest(req)
	if err != nil {
		err = classify(ctx, endpoint, timeout, err)
		zaplog.ErrorC(ctx, "upstream request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}
	if code != http.StatusOK {
		httpErr := &HTTPError{Endpoint: endpoint, StatusCode: code, Message: errorMessage(body, code)}
		zaplog.ErrorC(ctx, "upstream returned error status", zap.String("endpoint", endpoint), zap.Int("code", code))
		return nil, httpErr
	}
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		zaplog.ErrorC(ctx, "failed to unmarshal upstream response", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &payload, nil
}

func classify(ctx context.Context, endpoint string, timeout time.Duration, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Endpoint: endpoint, Timeout: timeout, Err: err}
	}
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// errorMessage prefers the upstream's own "message" field.
func errorMessage(body []byte, code int) string {
	var data struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &data); err == nil && data.Message != "" {
		return data.Message
	}
	return fmt.Sprintf("API returned %d", code)
}
