// Package api is the request gateway between eventview and the monitoring backend.
//
// Every call goes through one perform path that:
//   - marks the caller's busy target before the request and always clears it afterwards
//   - bounds the request with the client timeout
//   - tags the request with an X-Request-ID
//   - decodes the {success, data, error} envelope and validates the payload
//
// Failures are returned as *RequestError values whose Kind is one of ErrNetworkFailure,
// ErrMalformedResponse, ErrApplication, ErrTimedOut or ErrCanceled.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/astra-monitor/eventview/internal/logging"
)

// API paths relative to the base URL.
const (
	EventsPath        = "/api/events"
	MonitorPath       = "/api/monitor"
	BreachHistoryPath = "/api/breach_history"
)

// RequestIDHeader carries the per-request ULID.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout bounds a request when no timeout option is given.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// Default failure texts used when the server gives none.
const (
	defaultEventsError  = "Failed to load events"
	defaultMonitorError = "Unknown error"
	defaultHistoryError = "Failed to load breach history"
)

// BusyTarget is a UI region that shows a busy state while a request is in flight.
type BusyTarget interface {
	SetBusy(busy bool)
}

// BusyFunc adapts a function to BusyTarget.
type BusyFunc func(busy bool)

// SetBusy calls f.
func (f BusyFunc) SetBusy(busy bool) { f(busy) }

// Query is anything that encodes to a URL query string. url.Values satisfies it.
type Query interface {
	Encode() string
}

// Client talks to the monitoring backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.ComponentLogger(l, "api")
	}
}

// NewClient creates a client for the backend at baseURL (scheme://host[:port][/prefix]).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// endpoint builds an absolute URL for path with the encoded query.
func (c *Client) endpoint(path, rawQuery string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = rawQuery
	return u.String()
}

// Events fetches one page of events matching query.
func (c *Client) Events(ctx context.Context, query Query, busy BusyTarget) (*ResultPage, error) {
	rawQuery := ""
	if query != nil {
		rawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(EventsPath, rawQuery), nil)
	if err != nil {
		return nil, &RequestError{Kind: ErrNetworkFailure, Err: err, Message: err.Error()}
	}
	return c.Perform(ctx, req, busy)
}

// Perform executes a prepared events request and returns the validated result page.
// busy is marked before the request is sent and cleared on every return path.
func (c *Client) Perform(ctx context.Context, req *http.Request, busy BusyTarget) (*ResultPage, error) {
	var page ResultPage
	if err := c.perform(ctx, req, busy, &page, true, defaultEventsError); err != nil {
		return nil, err
	}
	return &page, nil
}

// RunMonitor triggers a monitoring run on the backend (POST /api/monitor, no body).
func (c *Client) RunMonitor(ctx context.Context, busy BusyTarget) (*MonitorResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(MonitorPath, ""), http.NoBody)
	if err != nil {
		return nil, &RequestError{Kind: ErrNetworkFailure, Err: err, Message: err.Error()}
	}
	var result MonitorResult
	if err = c.perform(ctx, req, busy, &result, false, defaultMonitorError); err != nil {
		return nil, err
	}
	return &result, nil
}

// BreachHistoryQuery selects one payload metric's breach history. From and To are
// YYYY-MM-DD dates; zero values let the server pick its default range.
type BreachHistoryQuery struct {
	SCID       int64
	MetricType string
	From       time.Time
	To         time.Time
}

// Encode implements Query.
func (q BreachHistoryQuery) Encode() string {
	v := url.Values{}
	v.Set("scid", strconv.FormatInt(q.SCID, 10))
	v.Set("metric_type", q.MetricType)
	if !q.From.IsZero() {
		v.Set("date_from", q.From.Format(time.DateOnly))
	}
	if !q.To.IsZero() {
		v.Set("date_to", q.To.Format(time.DateOnly))
	}
	return v.Encode()
}

// BreachHistory fetches the breach events of one payload metric in chronological order.
func (c *Client) BreachHistory(ctx context.Context, q BreachHistoryQuery, busy BusyTarget) ([]BreachPoint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(BreachHistoryPath, q.Encode()), nil)
	if err != nil {
		return nil, &RequestError{Kind: ErrNetworkFailure, Err: err, Message: err.Error()}
	}
	var points []BreachPoint
	if err = c.perform(ctx, req, busy, &points, true, defaultHistoryError); err != nil {
		return nil, err
	}
	return points, nil
}

// perform runs req and decodes the envelope's data into out. When requireSuccess is set
// the envelope must carry success=true and a data payload; otherwise any 2xx JSON body
// is accepted and decoded whole into out.
//
//nolint:funlen // One linear request lifecycle; splitting it hides the busy/timeout pairing.
func (c *Client) perform(
	ctx context.Context,
	req *http.Request,
	busy BusyTarget,
	out any,
	requireSuccess bool,
	defaultMessage string,
) error {
	if busy != nil {
		busy.SetBusy(true)
		defer busy.SetBusy(false)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := logging.NewID()
	req = req.WithContext(reqCtx)
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	log := c.logger.With().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqErr := transportError(ctx, reqCtx, err, c.timeout)
		reqErr.RequestID = requestID
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return reqErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		reqErr := transportError(ctx, reqCtx, err, c.timeout)
		reqErr.RequestID = requestID
		reqErr.Status = resp.StatusCode
		log.Warn().Err(err).Int("status", resp.StatusCode).Msg("reading response body failed")
		return reqErr
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("response received")

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		if decodeErr == nil && env.Error != "" {
			msg = env.Error
		}
		return &RequestError{Kind: ErrNetworkFailure, Status: resp.StatusCode, Message: msg, RequestID: requestID}
	}

	malformed := func(cause error) error {
		log.Warn().Err(cause).Msg("malformed response")
		return &RequestError{
			Kind:      ErrMalformedResponse,
			Status:    resp.StatusCode,
			Message:   "Invalid data format returned from API",
			RequestID: requestID,
			Err:       cause,
		}
	}

	if decodeErr != nil {
		return malformed(decodeErr)
	}

	if !requireSuccess {
		if err = json.Unmarshal(body, out); err != nil {
			return malformed(err)
		}
		return nil
	}

	if env.Success == nil || !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = defaultMessage
		}
		log.Info().Str("error", msg).Msg("backend reported failure")
		return &RequestError{Kind: ErrApplication, Status: resp.StatusCode, Message: msg, RequestID: requestID}
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return malformed(errors.New("response has no data"))
	}
	if err = json.Unmarshal(env.Data, out); err != nil {
		return malformed(err)
	}
	if err = validatePayload(out); err != nil {
		return malformed(err)
	}
	return nil
}

// transportError classifies a failure that produced no usable response.
func transportError(parent, reqCtx context.Context, err error, timeout time.Duration) *RequestError {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded):
		return &RequestError{
			Kind:    ErrTimedOut,
			Message: fmt.Sprintf("request timed out after %s", timeout),
			Err:     err,
		}
	case parent.Err() != nil || errors.Is(err, context.Canceled):
		return &RequestError{Kind: ErrCanceled, Message: "request canceled", Err: err}
	default:
		return &RequestError{Kind: ErrNetworkFailure, Message: err.Error(), Err: err}
	}
}
