package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// TokenSource supplies the current access token at send time.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client represents an HTTP client for the debtdesk API
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a new API client. Every request it sends is routed through
// the bearer transport reading from tokens.
func New(baseURL string, tokens TokenSource, log zerolog.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		log:     log.With().Str("component", "client").Logger(),
	}
	c.SetHTTPClient(&http.Client{})
	return c
}

// SetHTTPClient sets a custom HTTP client. Its transport is wrapped so that
// the bearer header is still injected.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	wrapped := *httpClient
	wrapped.Transport = &bearerTransport{
		base:   httpClient.Transport,
		tokens: c.tokens,
	}
	c.httpClient = &wrapped
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a JSON request and decodes the JSON response into out.
// Any status other than want becomes an *APIError.
func (c *Client) do(ctx context.Context, op, method, path string, body any, want int, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("received response")

	if resp.StatusCode != want {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
