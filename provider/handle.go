package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// Reachability is the outcome of a liveness probe.
type Reachability int

const (
	// Reachable means the server answered with any HTTP status.
	Reachable Reachability = iota
	// Refused means the connection was actively refused.
	Refused
	// Failed covers every other transport fault: DNS, timeout, bad URL.
	Failed
)

func (r Reachability) String() string {
	switch r {
	case Reachable:
		return "reachable"
	case Refused:
		return "refused"
	default:
		return "failed"
	}
}

// Handle is a configured HTTP client bound to a base URL, a timeout and an
// optional auth header. It is never mutated after NewHandle returns; Setup
// replaces it wholesale.
type Handle struct {
	baseURL string
	client  *http.Client
}

// StatusError is returned for non-2xx responses on JSON endpoints.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

// NewHandle builds a handle from cfg. The auth header is attached only when
// both APIKeyHeader and APIKey are set.
func NewHandle(cfg Config) *Handle {
	var transport http.RoundTripper = http.DefaultTransport
	if cfg.HasAPIKey() {
		transport = &headerTransport{
			name:  cfg.APIKeyHeader,
			value: cfg.APIKey,
			base:  transport,
		}
	}

	return &Handle{
		baseURL: cfg.API,
		client: &http.Client{
			Timeout:   time.Duration(cfg.Timeout) * time.Millisecond,
			Transport: transport,
		},
	}
}

// BaseURL returns the URL requests are resolved against.
func (h *Handle) BaseURL() string {
	return h.baseURL
}

// endpoint resolves path relative to the base URL, the way a base-URL HTTP
// client joins them: exactly one slash between the two.
func (h *Handle) endpoint(path string) string {
	return strings.TrimRight(h.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (h *Handle) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.endpoint(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return h.client.Do(req)
}

// Probe issues GET <base>/ and classifies the outcome. Any HTTP response,
// including 4xx and 5xx, counts as Reachable.
func (h *Handle) Probe(ctx context.Context) (Reachability, error) {
	resp, err := h.do(ctx, http.MethodGet, "", nil)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return Refused, err
		}
		return Failed, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return Reachable, nil
}

func (h *Handle) getJSON(ctx context.Context, path string, out any) error {
	resp, err := h.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (h *Handle) postJSON(ctx context.Context, path string, in, out any) error {
	resp, err := h.do(ctx, http.MethodPost, path, in)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type headerTransport struct {
	name  string
	value string
	base  http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(t.name, t.value)
	return t.base.RoundTrip(req)
}
