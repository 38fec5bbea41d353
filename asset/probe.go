package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultProbeTimeout bounds a single liveness probe.
const DefaultProbeTimeout = 30 * time.Second

// Prober checks that a URL is reachable.
type Prober interface {
	// Probe issues a GET against rawURL and returns the response status code.
	Probe(ctx context.Context, rawURL string) (int, error)
}

// HTTPProber probes URLs with plain, unauthenticated GET requests.
// Redirects are not followed: a 3xx answer is reported as-is.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber creates a prober. A nil client gets a default one with
// DefaultProbeTimeout.
func NewHTTPProber(client *http.Client) *HTTPProber {
	if client == nil {
		client = &http.Client{Timeout: DefaultProbeTimeout}
	}
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &HTTPProber{client: &c}
}

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("probe: failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probe: request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body) // Drain so the connection can be reused

	return resp.StatusCode, nil
}

// IsHTTPURL reports whether s is an absolute http or https URL.
// Malformed input is simply not a URL.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
