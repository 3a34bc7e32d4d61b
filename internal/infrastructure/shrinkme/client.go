package shrinkme

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds the provider round-trip so link creation is
// never blocked indefinitely by a third party.
const DefaultTimeout = 15 * time.Second

type shortenResponse struct {
	Status       string `json:"status"`
	ShortenedURL string `json:"shortenedUrl"`
	Message      string `json:"message"`
}

// Client talks to a ShrinkMe-style shortening API:
// GET <base>/api?api=<key>&url=<encoded>[&alias=<code>].
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Shorten obtains a public short URL for originalURL. When alias is
// set and the provider rejects it (taken alias, any non-success), the
// call is retried exactly once without an alias. An empty result with
// a nil error means the provider degraded softly; the caller proceeds
// without a monetized URL.
func (c *Client) Shorten(ctx context.Context, apiKey, originalURL, alias string) (string, error) {
	shortened, err := c.shortenOnce(ctx, apiKey, originalURL, alias)
	if err != nil {
		return "", err
	}
	if shortened != "" {
		return shortened, nil
	}

	if alias != "" {
		c.logger.Warn("shortener rejected custom alias, retrying without it",
			"alias", alias)
		return c.shortenOnce(ctx, apiKey, originalURL, "")
	}

	return "", nil
}

func (c *Client) shortenOnce(ctx context.Context, apiKey, originalURL, alias string) (string, error) {
	apiURL := fmt.Sprintf("%s/api?api=%s&url=%s", c.baseURL, url.QueryEscape(apiKey), url.QueryEscape(originalURL))
	if alias != "" {
		apiURL += "&alias=" + url.QueryEscape(alias)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build shortener request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("shortener request failed", "error", err.Error())
		return "", nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read shortener response", "error", err.Error())
		return "", nil
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("shortener returned non-200",
			"status", resp.StatusCode)
		return "", nil
	}

	var parsed shortenResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Status == "success" && parsed.ShortenedURL != "" {
			return parsed.ShortenedURL, nil
		}
	}

	// Some providers answer with a bare URL body.
	raw := strings.TrimSpace(string(body))
	if isValidURL(raw) {
		return raw, nil
	}

	return "", nil
}

func isValidURL(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
