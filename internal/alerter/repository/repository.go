package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Fetch failures wrap one of these so callers can tell "upstream failed" from "no data".
var (
	ErrRequestFailed    = errors.New("upstream request failed")
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
	ErrMalformedBody    = errors.New("malformed upstream body")
)

// jsonClient performs paced, header-authenticated GET requests and decodes JSON bodies.
type jsonClient struct {
	log            *logger.Logger
	metrics        *metrics.Manager
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	headers        map[string]string
}

func newJSONClient(log *logger.Logger, m *metrics.Manager, timeout time.Duration, maxRequestPerMinute int, headers map[string]string) *jsonClient {
	limit := rate.Inf
	if maxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(maxRequestPerMinute))
	}
	return &jsonClient{
		log:            log,
		metrics:        m,
		httpClient:     &http.Client{Timeout: timeout},
		requestLimiter: rate.NewLimiter(limit, 1),
		headers:        headers,
	}
}

// getJSON fetches url and decodes the body into out. endpoint labels logs and metrics.
func (c *jsonClient) getJSON(ctx context.Context, endpoint, url string, out interface{}) error {
	err := c.do(ctx, url, out)
	if err != nil {
		c.metrics.FetchFailed(endpoint)
		c.log.ErrorContext(ctx, "Upstream fetch failed",
			zap.String("endpoint", endpoint),
			zap.String("url", url),
			logger.ErrorField(err))
	}
	return err
}

func (c *jsonClient) do(ctx context.Context, url string, out interface{}) error {
	if err := c.requestLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: waiting for request limit: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
