// Package kickit is a client for the remote KickIt API.
package kickit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kickit-app/kickit/internal/config"
	"github.com/kickit-app/kickit/internal/version"
)

// Client holds the connection settings shared by all resource services.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// New creates a new KickIt API client.
func New(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.APIURL,
		userAgent:  fmt.Sprintf("KickIt/%s", version.Version),
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

// NewWithHTTPClient creates a client for baseURL using the given http client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  fmt.Sprintf("KickIt/%s", version.Version),
		httpClient: httpClient,
	}
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestIDKey struct{}

// WithRequestID returns a context that forwards id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// request describes a single API round trip.
type request struct {
	method   string
	endpoint string
	token    string
	body     any
	op       string
	family   family
}

// do performs the request and returns the response when the status is 2xx.
// Every failure is returned as an *Error.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	var reqBody io.Reader
	if r.body != nil {
		jsonBody, err := json.Marshal(r.body)
		if err != nil {
			return nil, &Error{Kind: KindUnknown, Op: r.op, Message: "Unable to " + r.op, Err: fmt.Errorf("error marshaling request body: %w", err)}
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.endpoint, reqBody)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Op: r.op, Message: "Unable to " + r.op, Err: fmt.Errorf("error creating request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("API request failed", "method", r.method, "endpoint", r.endpoint, "error", err)
		return nil, networkError(r.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close() //nolint:errcheck
		apiErr := responseError(resp, r.family, r.op)
		log.Debug("API request returned an error", "method", r.method, "endpoint", r.endpoint, "status", resp.StatusCode, "kind", apiErr.Kind)
		return nil, apiErr
	}

	return resp, nil
}

// doJSON performs the request and decodes the response body into out.
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return decodeError(r.op, resp.StatusCode, fmt.Errorf("error decoding response: %w", err))
	}
	return nil
}
