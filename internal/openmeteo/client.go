// Package openmeteo talks to the Open-Meteo geocoding and forecast endpoints.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrCityNotFound      = errors.New("Cidade não encontrada")
	ErrMalformedResponse = errors.New("malformed response from weather provider")
	ErrUnavailable       = errors.New("weather provider unavailable")
)

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("weather provider returned %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("weather provider returned %d", e.StatusCode)
}

// Option configures a client.
type Option func(*client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithLimiter makes every request wait for the limiter first.
// The limiter may be shared between the resolver and the fetcher.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *client) {
		c.limiter = l
	}
}

type client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newClient(baseURL string, opts ...Option) client {
	c := client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// getJSON issues one GET and decodes the body into v.
func (c *client) getJSON(ctx context.Context, params url.Values, v interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Reason string `json:"reason"`
		}
		// the body is not always JSON, the status alone is enough then
		_ = json.Unmarshal(body, &apiErr)

		return &StatusError{StatusCode: resp.StatusCode, Reason: apiErr.Reason}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}
