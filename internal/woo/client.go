// Package woo is a minimal client for the WooCommerce REST API. One Client is
// constructed per inbound gateway request and is bound to exactly one store's
// credentials; clients must never be shared or cached across tenants.
package woo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultVersion = "wc/v3"

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithVersion sets the REST API version segment, e.g. "wc/v3".
func WithVersion(version string) ClientOption {
	return func(c *Client) {
		c.version = strings.Trim(version, "/")
	}
}

// WithQueryStringAuth sends credentials as consumer_key/consumer_secret query
// parameters instead of HTTP basic auth. Some hosts strip the Authorization
// header, which is what this works around.
func WithQueryStringAuth() ClientOption {
	return func(c *Client) {
		c.queryAuth = true
	}
}

// Client issues authenticated calls against one store. Construction performs
// no network I/O.
type Client struct {
	storeURL   string
	key        string
	secret     string
	version    string
	queryAuth  bool
	httpClient *http.Client
}

// NewClient creates a client for the store at storeURL using the given
// consumer credentials.
func NewClient(storeURL, key, secret string, opts ...ClientOption) *Client {
	c := &Client{
		storeURL:   strings.TrimSuffix(storeURL, "/"),
		key:        key,
		secret:     secret,
		version:    defaultVersion,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StoreURL returns the store's base URL, without a trailing slash.
func (c *Client) StoreURL() string { return c.storeURL }

// Response is the decoded-envelope of one upstream call.
type Response struct {
	Data   json.RawMessage
	Header http.Header
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Data, v)
}

// Get issues a GET for the endpoint path (relative to wp-json/<version>/).
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE. Query parameters carry options such as force=true.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, query, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	endpoint := fmt.Sprintf("%s/wp-json/%s/%s", c.storeURL, c.version, strings.TrimPrefix(path, "/"))

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := req.URL.Query()
	for key, vals := range query {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	if c.queryAuth {
		q.Set("consumer_key", c.key)
		q.Set("consumer_secret", c.secret)
	} else {
		req.SetBasicAuth(c.key, c.secret)
	}
	req.URL.RawQuery = q.Encode()

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, data)
	}

	return &Response{Data: data, Header: resp.Header}, nil
}
