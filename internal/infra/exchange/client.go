package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pipone-one/p2pminiapp/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second
	defaultRows    = 20
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Client is the HTTP plumbing shared by the adapters: bounded timeout,
// per-request egress route and request logging.
type Client struct {
	client *http.Client
	logger *zap.Logger
}

func NewClient(timeout time.Duration, proxy func(*http.Request) (*url.URL, error), logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxy
	return &Client{
		client: &http.Client{Timeout: timeout, Transport: transport},
		logger: logger,
	}
}

func (c *Client) postJSON(ctx context.Context, exchange domain.Exchange, endpoint string, headers map[string]string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", exchange, err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	return c.do(exchange, request, headers, out)
}

func (c *Client) getJSON(ctx context.Context, exchange domain.Exchange, endpoint string, headers map[string]string, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(exchange, request, headers, out)
}

func (c *Client) do(exchange domain.Exchange, request *http.Request, headers map[string]string, out any) error {
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "application/json")
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.Debug("exchange request start", zap.String("exchange", string(exchange)), zap.String("url", request.URL.String()))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Warn("exchange request failed", zap.String("exchange", string(exchange)), zap.Error(err))
		return fmt.Errorf("%s: %w", exchange, err)
	}
	defer response.Body.Close()

	c.logger.Debug(
		"exchange request complete",
		zap.String("exchange", string(exchange)),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, response.Body)
		return fmt.Errorf("%s error: status %d", exchange, response.StatusCode)
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", exchange, err)
	}
	return nil
}
