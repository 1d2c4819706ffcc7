package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/e-comet/ghcollector/errors"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "ghcollector"
	acceptHeader     = "application/vnd.github+json"
	apiVersion       = "2022-11-28"

	// maxBodySize bounds the body read of a single response.
	maxBodySize = 10 << 20
	// maxErrorBodySize bounds the body kept on a StatusError.
	maxErrorBodySize = 512
)

// StatusError is returned when the upstream answers with a non successful
// status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Config is the configuration of the HTTPClient.
type Config struct {
	// BaseURL is the API root every target is joined to.
	BaseURL string
	// Token is the bearer token sent on every request. Optional.
	Token string
	// UserAgent is the user agent sent on every request.
	UserAgent string
	// HTTPClient is the client used once opened. Defaults to a new client
	// without timeout, the caller bounds every request with its context.
	HTTPClient *http.Client
	// Logger is the logger.
	Logger *slog.Logger
}

func (c *Config) defaults() error {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}

	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}

	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return nil
}

// HTTPClient calls the GitHub REST API. It only makes calls between Open and
// Close.
type HTTPClient struct {
	cfg  Config
	base *url.URL

	mu     sync.RWMutex
	client *http.Client
}

// New returns a new closed HTTPClient.
func New(cfg Config) (*HTTPClient, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid base url %q", errors.ErrInvalidConfig, cfg.BaseURL)
	}

	return &HTTPClient{
		cfg:  cfg,
		base: base,
	}, nil
}

// Open makes the client active. Opening an active client does nothing.
func (h *HTTPClient) Open() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		return nil
	}

	h.client = h.cfg.HTTPClient
	if h.client == nil {
		h.client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	h.cfg.Logger.Debug("http client opened", slog.String("base_url", h.base.String()))

	return nil
}

// Close makes the client inactive and releases its idle connections.
func (h *HTTPClient) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client == nil {
		return nil
	}

	h.client.CloseIdleConnections()
	h.client = nil
	h.cfg.Logger.Debug("http client closed")

	return nil
}

// Active satisfies fetch.Transport interface.
func (h *HTTPClient) Active() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.client != nil
}

// Fetch satisfies fetch.Transport interface.
func (h *HTTPClient) Fetch(ctx context.Context, target string, params url.Values) ([]byte, error) {
	h.mu.RLock()
	client := h.client
	h.mu.RUnlock()
	if client == nil {
		return nil, errors.ErrNotInitialized
	}

	u := h.base.JoinPath(strings.TrimPrefix(target, "/"))
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", h.cfg.UserAgent)
	if h.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBodySize {
			body = body[:maxErrorBodySize]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
