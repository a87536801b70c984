package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/jpalmerr/homeworkbot/internal/errs"
)

const (
	// DefaultEndpoint is the homework status API.
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 30 * time.Second

	maxResponseBodySize = 1 << 20 // 1MB
)

// Client fetches the homework status feed.
//
// Client is a single-attempt primitive: it never retries, and the retry
// policy belongs to the caller. Timeouts are applied per request via context.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	timeout    time.Duration
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithEndpoint overrides [DefaultEndpoint].
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTimeout overrides [DefaultTimeout]. Non-positive values are ignored.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a feed [Client] authenticating with the given OAuth token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		// no default timeout - we use per-request timeouts via context
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				MaxIdleConns:    2,
				IdleConnTimeout: 60 * time.Second,
			},
		},
		endpoint: DefaultEndpoint,
		token:    token,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch requests every homework updated since the from watermark and returns
// the decoded JSON body without any schema checks.
//
// The returned error is marked with [ErrTransport], [ErrProtocol] or
// [ErrDecode].
func (c *Client) Fetch(ctx context.Context, from int64) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errs.Mark(errors.Wrap(err, "invalid endpoint"), ErrTransport)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(from, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errs.Mark(errors.Wrap(err, "failed to create request"), ErrTransport)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Mark(errors.Wrap(err, "request failed"), ErrTransport)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.Mark(&ProtocolError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
		}, ErrProtocol)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, errs.Mark(errors.Wrap(err, "failed to read response body"), ErrTransport)
	}

	return decode(body)
}

// Close releases idle connections. The client stays usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}

// decode parses body as a single JSON value, keeping numbers as json.Number.
func decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errs.Mark(errors.Wrap(err, "invalid JSON"), ErrDecode)
	}
	if dec.More() {
		return nil, errs.Mark(errors.New("invalid JSON: unexpected data after top-level value"), ErrDecode)
	}
	return v, nil
}

// reasonPhrase extracts "Service Unavailable" from "503 Service Unavailable".
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
