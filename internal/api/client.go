// Package api is the typed HTTP client for the OmniOrder backend. The
// backend is an external collaborator; everything here is a thin, explicit
// binding to its documented surface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

// TokenSource supplies the bearer token for authenticated calls. It is
// consulted per request so a refreshed demo session takes effect without
// rebuilding the client.
type TokenSource func() string

// Client handles API requests to the OmniOrder backend.
type Client struct {
	httpClient *http.Client
	BaseURL    string
	token      TokenSource
}

// NewClient creates a new API client. An empty baseURL falls back to the
// OMNI_API_URL environment variable, then to localhost.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("OMNI_API_URL")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetTokenSource installs the bearer token supplier used by admin and
// kitchen calls.
func (c *Client) SetTokenSource(src TokenSource) { c.token = src }

// Ping checks if the API server is reachable.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// KitchenSocketURL returns the ws:// (or wss://) endpoint for the kitchen
// event stream, with the bearer token passed as a query parameter.
func (c *Client) KitchenSocketURL() string {
	u := c.BaseURL + "/api/v1/ws/kitchen"
	if strings.HasPrefix(u, "https://") {
		u = "wss://" + strings.TrimPrefix(u, "https://")
	} else {
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			u += "?token=" + url.QueryEscape(tok)
		}
	}
	return u
}

// do performs one JSON request/response round trip. body and out may be
// nil. Non-2xx statuses are mapped through statusError so call sites can
// branch on the sentinel errors in errors.go.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any, authed bool) error {
	return c.do(ctx, http.MethodGet, path, nil, out, authed)
}

func (c *Client) post(ctx context.Context, path string, body, out any, authed bool) error {
	return c.do(ctx, http.MethodPost, path, body, out, authed)
}

func (c *Client) put(ctx context.Context, path string, body, out any, authed bool) error {
	return c.do(ctx, http.MethodPut, path, body, out, authed)
}

func (c *Client) delete(ctx context.Context, path string, authed bool) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, authed)
}
