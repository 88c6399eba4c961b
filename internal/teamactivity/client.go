package teamactivity

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config describes how to reach the reporting API. The endpoint sometimes
// fails to resolve on office networks, so a literal fallback address can be
// given; requests to it carry the canonical hostname in the Host header.
type Config struct {
	Scheme     string // default "https"
	Host       string
	FallbackIP string
	BasePath   string

	Timeout            time.Duration // per request, default 20s
	InsecureSkipVerify bool
	RequestsPerSecond  float64 // 0 disables throttling
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		limiter: limiter,
	}
}

// FetchMonth retrieves the raw activity payload for one (year, month) unit.
// The canonical hostname is tried first; on failure a single retry goes to
// the fallback address with an explicit Host header.
func (c *Client) FetchMonth(ctx context.Context, year int, month time.Month) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	query := fmt.Sprintf("?year=%d&month=%d", year, int(month))

	url := fmt.Sprintf("%s://%s%s%s", c.cfg.Scheme, c.cfg.Host, c.cfg.BasePath, query)
	body, hostErr := c.get(ctx, url, "")
	if hostErr == nil {
		return body, nil
	}

	if c.cfg.FallbackIP == "" {
		return "", fmt.Errorf("fetch %d-%02d via %s: %w", year, int(month), c.cfg.Host, hostErr)
	}

	url = fmt.Sprintf("%s://%s%s%s", c.cfg.Scheme, c.cfg.FallbackIP, c.cfg.BasePath, query)
	body, ipErr := c.get(ctx, url, c.cfg.Host)
	if ipErr != nil {
		return "", fmt.Errorf("fetch %d-%02d failed via hostname (%v) and fallback address: %w",
			year, int(month), hostErr, ipErr)
	}
	return body, nil
}

// HealthCheck probes the endpoint without pulling a full payload. Any
// response from the server counts as healthy; only transport-level failures
// on both addresses are reported.
func (c *Client) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s://%s%s", c.cfg.Scheme, c.cfg.Host, c.cfg.BasePath)
	if err := c.head(ctx, url, ""); err == nil {
		return nil
	} else if c.cfg.FallbackIP == "" {
		return err
	}

	url = fmt.Sprintf("%s://%s%s", c.cfg.Scheme, c.cfg.FallbackIP, c.cfg.BasePath)
	return c.head(ctx, url, c.cfg.Host)
}

func (c *Client) get(ctx context.Context, url, hostHeader string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if hostHeader != "" {
		req.Host = hostHeader
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

func (c *Client) head(ctx context.Context, url, hostHeader string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	if hostHeader != "" {
		req.Host = hostHeader
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
