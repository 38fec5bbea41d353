// Package transport sends entries to the asset service over HTTP.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	// ContentTypeAtom is the content type for Atom entries.
	ContentTypeAtom = "application/atom+xml"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// maxRedirects matches net/http's default limit.
	maxRedirects = 10

	// defaultBufferSize is the initial size for pooled buffers.
	defaultBufferSize = 8 * 1024 // 8KB
)

// bufferPool is a pool of reusable bytes.Buffer to reduce allocations.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
	},
}

// readAllPooled reads from r using a pooled buffer and returns a copy of the data.
func readAllPooled(r io.Reader) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	// Return a copy since buf will be reused
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// Response is a raw service response. Status classification is left to the caller.
type Response struct {
	StatusCode int
	Body       []byte
}

// HTTPTransport handles HTTP communication with the asset service.
type HTTPTransport struct {
	client *http.Client

	// base is the round tripper under authentication; it owns the connections.
	base http.RoundTripper
}

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// NewHTTPTransport creates a new HTTP transport with the given options.
func NewHTTPTransport(opts ...HTTPTransportOption) *HTTPTransport {
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		// NTLM authenticates the connection, so the handshake and the
		// request must share it.
		DisableKeepAlives:   false,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
	t := &HTTPTransport{
		client: &http.Client{
			Timeout:       DefaultTimeout,
			Transport:     base,
			CheckRedirect: checkRedirect,
		},
		base: base,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// checkRedirect returns a redirected POST to the caller as is. Following it
// would turn the entry into a GET of the Location and hide the refusal.
func checkRedirect(_ *http.Request, via []*http.Request) error {
	if len(via) > 0 && via[0].Method == http.MethodPost {
		return http.ErrUseLastResponse
	}
	if len(via) >= maxRedirects {
		return errors.New("stopped after 10 redirects")
	}
	return nil
}

// WithTimeout sets the HTTP client timeout. Zero disables it.
func WithTimeout(d time.Duration) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.client.Timeout = d
	}
}

// WithRoundTripper replaces the base round tripper (before authentication is applied).
func WithRoundTripper(rt http.RoundTripper) HTTPTransportOption {
	return func(t *HTTPTransport) {
		if rt != nil {
			t.client.Transport = rt
			t.base = rt
		}
	}
}

// Authenticate wraps the current round tripper with wrap (e.g. an
// auth.Authenticator's Transport method).
func (t *HTTPTransport) Authenticate(wrap func(http.RoundTripper) http.RoundTripper) {
	t.client.Transport = wrap(t.client.Transport)
}

// Post sends an entry and returns the status and body. It does not retry,
// does not follow redirects and does not treat any status as an error.
func (t *HTTPTransport) Post(ctx context.Context, url string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("transport: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", ContentTypeAtom)

	return t.do(req)
}

// Get issues a GET, used to probe the asset feed with the configured credentials.
func (t *HTTPTransport) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: failed to create request: %w", err)
	}
	return t.do(req)
}

func (t *HTTPTransport) do(req *http.Request) (*Response, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readAllPooled(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: failed to read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// CloseIdleConnections closes any idle connections in the base round
// tripper. Authentication wrappers do not forward the call, so it goes to the
// base directly.
func (t *HTTPTransport) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if c, ok := t.base.(closeIdler); ok {
		c.CloseIdleConnections()
	}
}
