// Package fetch retrieves raw pages from the upstream encyclopedia site.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/PetruGlt/StatesOfTheWorld/internal/config"
)

// StatusError reports a non-success HTTP status for a fetched page.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Path, e.Code)
}

// Client fetches pages with retries and a politeness rate limit.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
}

// NewClient creates a fetch client from source configuration.
func NewClient(cfg config.SourceConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	// Retryable transport handles transient upstream hiccups
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.Logger = nil

	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", cfg.UserAgent)
	restyClient.SetTransport(&retryablehttp.RoundTripper{Client: retryClient})

	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}

	return &Client{
		resty:   restyClient,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Get fetches the page at the given site-relative path and returns its body.
// Non-2xx responses yield a *StatusError.
func (c *Client) Get(ctx context.Context, path string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.resty.R().SetContext(ctx).Get(path)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", path, err)
	}
	if resp.IsError() {
		return "", &StatusError{Path: path, Code: resp.StatusCode()}
	}
	return resp.String(), nil
}
