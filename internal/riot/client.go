// Package riot is a small Riot Games API client. All requests made through one
// Client are spaced by a fixed minimum delay, so a Client is meant to be shared
// by everything that talks to one routing group.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// MinSpacing is the smallest allowed delay between two requests.
	MinSpacing = 1300 * time.Millisecond

	defaultMaxRetries  = 5
	defaultRetryMargin = 2 * time.Second
	defaultRetryAfter  = 10 * time.Second
	tokenHeader        = "X-Riot-Token"
)

// ErrAuthFailed is returned when the API rejects the key. It is never retried
// and callers are expected to abort the whole run.
var ErrAuthFailed = errors.New("riot api: authentication failed")

// Client issues rate-limited GET requests against the platform and routing
// hosts of one routing group.
type Client struct {
	apiKey      string
	routing     string
	baseURL     string // overrides every host when set
	http        *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	retryMargin time.Duration
	logger      *zap.Logger
	requests    atomic.Int64

	// sleep waits out a Retry-After hint; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithSpacing sets the delay between requests. Values below MinSpacing are raised to it.
func WithSpacing(d time.Duration) Option {
	return func(c *Client) {
		if d < MinSpacing {
			d = MinSpacing
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithMaxRetries caps how many times a throttled request is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryMargin sets the safety margin added to every Retry-After hint.
func WithRetryMargin(d time.Duration) Option {
	return func(c *Client) { c.retryMargin = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL sends every request to url instead of the Riot hosts.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithLogger sets the logger used for throttling and failure reports.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a client for the given routing group (americas, europe,
// asia, sea) authenticated with apiKey.
func NewClient(apiKey, routing string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		routing:     routing,
		http:        &http.Client{Timeout: 30 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(MinSpacing), 1),
		maxRetries:  defaultMaxRetries,
		retryMargin: defaultRetryMargin,
		logger:      zap.NewNop(),
		sleep:       sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With(zap.String("routing", routing))
	return c
}

// Routing returns the routing group this client serves.
func (c *Client) Routing() string { return c.routing }

// Requests returns how many HTTP requests the client has sent.
func (c *Client) Requests() int64 { return c.requests.Load() }

// hostURL returns the base URL for a platform (na1, kr...) or routing host.
func (c *Client) hostURL(host string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://" + host + ".api.riotgames.com"
}

// rawKeeper is implemented by payloads that keep their undecoded body.
type rawKeeper interface {
	keepRaw([]byte)
}

// get fetches url and decodes the JSON body into out.
//
// found is false when the API has nothing usable: 404, any other non-2xx,
// a transport failure, an undecodable body, or a request still throttled after
// the retry cap. err is only set for ErrAuthFailed and context cancellation.
func (c *Client) get(ctx context.Context, url string, out any) (found bool, err error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set(tokenHeader, c.apiKey)

		c.requests.Add(1)
		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			c.logger.Warn("request failed", zap.String("url", url), zap.Error(err))
			return false, nil
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				c.logger.Warn("read body", zap.String("url", url), zap.Error(err))
				return false, nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				c.logger.Warn("decode body", zap.String("url", url), zap.Error(err))
				return false, nil
			}
			if rk, ok := out.(rawKeeper); ok {
				rk.keepRaw(body)
			}
			return true, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp.Header.Get("Retry-After")) + c.retryMargin
			drain(resp)
			if attempt >= c.maxRetries {
				c.logger.Warn("still throttled, giving up",
					zap.String("url", url), zap.Int("attempts", attempt+1))
				return false, nil
			}
			c.logger.Warn("rate limited",
				zap.String("url", url), zap.Duration("wait", wait), zap.Int("attempt", attempt+1))
			if err := c.sleep(ctx, wait); err != nil {
				return false, err
			}

		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
			drain(resp)
			c.logger.Error("api key rejected", zap.String("url", url), zap.Int("status", resp.StatusCode))
			return false, fmt.Errorf("GET %s: HTTP %d: %w", url, resp.StatusCode, ErrAuthFailed)

		default:
			drain(resp)
			c.logger.Debug("no data", zap.String("url", url), zap.Int("status", resp.StatusCode))
			return false, nil
		}
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsFatal reports whether err must stop the whole run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrAuthFailed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
