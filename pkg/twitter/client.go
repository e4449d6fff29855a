package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dghubble/oauth1"
)

// DefaultMaxLength is the tweet length limit used when none is configured.
const DefaultMaxLength = 280

var (
	ErrContentTooLong   = errors.New("tweet exceeds maximum length")
	ErrDuplicateContent = errors.New("duplicate tweet rejected")
	ErrRateLimited      = errors.New("posting rate limited")
	ErrMissingAuth      = errors.New("twitter credentials are incomplete")
)

// Config holds OAuth1 user-context credentials for the v2 tweets endpoint.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
	MaxLength      int
	Timeout        time.Duration
}

// Client posts tweets.
type Client struct {
	baseURL    string
	maxLength  int
	httpClient *http.Client
}

// NewClient creates a client that signs every request with the configured credentials.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" || cfg.AccessToken == "" || cfg.AccessSecret == "" {
		return nil, ErrMissingAuth
	}
	httpClient := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret).
		Client(context.Background(), oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret))
	httpClient.Timeout = cfg.Timeout

	maxLength := cfg.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twitter.com"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxLength:  maxLength,
		httpClient: httpClient,
	}, nil
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Detail string `json:"detail"`
}

// Post publishes text and returns the tweet id.
func (c *Client) Post(ctx context.Context, text string) (string, error) {
	if n := utf8.RuneCountInString(text); n > c.maxLength {
		return "", fmt.Errorf("%w: %d > %d", ErrContentTooLong, n, c.maxLength)
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post tweet: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read tweet response: %w", err)
	}

	var parsed createTweetResponse
	_ = json.Unmarshal(body, &parsed)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(string(body)), "duplicate"):
		return "", ErrDuplicateContent
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("post tweet: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	case parsed.Data.ID == "":
		return "", fmt.Errorf("post tweet: response has no id: %s", strings.TrimSpace(string(body)))
	}
	return parsed.Data.ID, nil
}
