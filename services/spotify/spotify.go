package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"rantify/blueprint"
)

const DefaultBaseURL = "https://api.spotify.com/v1/"

// Client reads the Spotify Web API on behalf of one user. It never retries;
// pagination is followed until the catalog reports no next page.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.baseURL = u
	}
}

// NewLimiter returns a limiter allowing rps requests per second, or nil
// when rps is zero or less.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// WithLimiter makes the client wait on l before every request. Clients
// sharing l share its budget.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithRateLimit gives the client a limiter of its own.
func WithRateLimit(rps float64) ClientOption {
	return WithLimiter(NewLimiter(rps))
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

func NewClient(httpClient *http.Client, opts ...ClientOption) *Client {
	client := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// NewClientFromToken returns a client authorized with a bearer access token.
func NewClientFromToken(ctx context.Context, accessToken string, opts ...ClientOption) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return NewClient(oauth2.NewClient(ctx, src), opts...)
}

func (c *Client) url(path string, options ...RequestOption) string {
	u := c.baseURL + strings.TrimPrefix(path, "/")
	params := buildRequestOptions(options...).urlParams
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, url string, result interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return ctx.Err()
			}
			// Wait fails early when the next slot is past the deadline.
			return fmt.Errorf("%w: %v", blueprint.ErrUpstreamTimeout, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("[services][spotify][get] warning - request failed", zap.String("url", url), zap.Error(err))
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeErrorResponse(resp)
	}

	// an empty body leaves result untouched
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
		return transportError(err)
	}
	return nil
}

func (c *Client) decodeErrorResponse(resp *http.Response) error {
	catalogErr := &blueprint.CatalogError{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return catalogErr
	}

	var e errorResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&e); err != nil {
		c.logger.Debug("[services][spotify][decodeErrorResponse] could not decode error body", zap.ByteString("body", body))
		return catalogErr
	}
	if e.Error.Message != "" {
		catalogErr.Message = e.Error.Message
	}
	return catalogErr
}

// transportError marks timeouts so callers can tell them apart from
// catalog errors.
func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", blueprint.ErrUpstreamTimeout, err)
	}
	return err
}

// collectPages fetches first and every page linked through next, in order.
func collectPages[T any](ctx context.Context, c *Client, first string) ([]T, error) {
	var items []T
	next := first
	for next != "" {
		var page Page[T]
		if err := c.get(ctx, next, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		next = lo.FromPtr(page.Next)
	}
	return items, nil
}
