package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yourname/sleeprelay/internal"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	DefaultVersion = "2022-06-28"

	logBodyLimit = 512
)

type Options struct {
	BaseURL string
	Version string
	Token   string
	Timeout time.Duration
	Logger  internal.Logger
}

// Client talks to the Notion REST API with a single integration token.
// Every call is a single attempt; there is no retry.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
	logger     internal.Logger
}

// NewClient builds a client whose transport injects "Authorization: Bearer <token>".
// An *http.Client stored in ctx under oauth2.HTTPClient supplies the base transport.
func NewClient(ctx context.Context, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Logger == nil {
		opts.Logger = internal.NopLogger()
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = opts.Timeout
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		version:    opts.Version,
		httpClient: hc,
		logger:     opts.Logger,
	}
}

// Do sends body as JSON and returns the status and raw response body. A nil body
// sends no payload. Errors are transport failures only; any HTTP status is returned
// to the caller for translation.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, internal.TransportError("failed to encode request", err)
		}
		reader = bytes.NewReader(b)
		c.logger.Debugf("notion: %s %s body=%s", method, path, truncate(b, logBodyLimit))
	} else {
		c.logger.Debugf("notion: %s %s", method, path)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, internal.TransportError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, internal.TransportError("notion request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internal.TransportError("failed to read notion response", err)
	}
	c.logger.Debugf("notion: %s %s status=%d body=%s", method, path, resp.StatusCode, truncate(raw, logBodyLimit))
	return &Response{Status: resp.StatusCode, Body: raw}, nil
}

func (c *Client) CreatePage(ctx context.Context, page CreatePageRequest) (*Response, error) {
	return c.Do(ctx, http.MethodPost, "/pages", page)
}

func (c *Client) UpdatePage(ctx context.Context, pageID string, update UpdatePageRequest) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, "/pages/"+pageID, update)
}

// QueryDatabase returns the raw response together with the decoded results when the
// call succeeded. The decoded value is nil for non-200 responses.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, query QueryRequest) (*Response, *QueryResponse, error) {
	resp, err := c.Do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", query)
	if err != nil {
		return nil, nil, err
	}
	if !resp.OK() {
		return resp, nil, nil
	}
	var out QueryResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return resp, nil, internal.TransportError("failed to decode query response", fmt.Errorf("notion: %w", err))
	}
	return resp, &out, nil
}

func truncate(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
