package qualpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"oakmart-be/internal/config"
	"oakmart-be/internal/logger"
)

const (
	productionBaseURL = "https://api.qualpay.com"
	sandboxBaseURL    = "https://api-test.qualpay.com"

	userAgent   = "oakmart-be"
	developerID = "OakmartGo"

	surfacePlatform = "platform"
	surfacePG       = "pg"
)

// ErrNotConfigured is returned before any network attempt when the merchant
// id is missing or does not parse as a positive integer.
var ErrNotConfigured = errors.New("gateway is not configured")

// Client talks to both Qualpay API surfaces. Surface clients are built
// lazily and reused; construction is guarded so concurrent first use cannot
// leave a partial entry behind.
type Client struct {
	settings config.QualpaySettings

	mu        sync.Mutex
	surfaces  map[string]*surface
	transport http.RoundTripper
}

type surface struct {
	baseURL    string
	httpClient *http.Client
	credential string
}

func NewClient(settings config.QualpaySettings) *Client {
	if settings.SecurityKey == "" {
		logger.L().Warn("Qualpay security key is empty")
	}
	return &Client{
		settings: settings,
		surfaces: make(map[string]*surface),
	}
}

func (c *Client) baseAPIURL() string {
	if c.settings.UseSandbox {
		return sandboxBaseURL
	}
	return productionBaseURL
}

// merchantID parses the configured merchant id, gating every call.
func (c *Client) merchantID() (int64, error) {
	id, err := strconv.ParseInt(c.settings.MerchantID, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrNotConfigured
	}
	return id, nil
}

// surfaceFor returns the cached client for the named surface, building it
// on first use. At most one live instance per surface.
func (c *Client) surfaceFor(name string) *surface {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.surfaces[name]; ok {
		return s
	}
	s := &surface{
		baseURL:    c.baseAPIURL() + "/" + name,
		credential: c.settings.SecurityKey,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: c.transport,
		},
	}
	c.surfaces[name] = s
	return s
}

func (c *Client) platform() *surface { return c.surfaceFor(surfacePlatform) }
func (c *Client) pg() *surface       { return c.surfaceFor(surfacePG) }

// do performs one JSON round-trip against the surface. Any transport,
// status or decoding failure comes back as a plain error; the caller's
// invoke wrapper owns logging and formatting.
func (s *surface) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.credential, "")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read qualpay response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// provider error envelopes still decode below when the body is JSON
		if err := json.Unmarshal(raw, out); err == nil {
			return nil
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}

	return json.Unmarshal(raw, out)
}
