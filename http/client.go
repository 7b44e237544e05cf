package http

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Client issues declarative requests against a base URL.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	base      *url.URL
	debug     atomic.Bool
	transport Transport
	timeout   time.Duration
	logger    *zap.Logger
	metrics   *Metrics
	env       *Environment
	headers   Headers
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for baseURL with the given options.
// baseURL must be absolute.
//
// Example:
//
//	client, err := http.NewClient("https://api.example.com/v1",
//	    http.WithTimeout(10*time.Second),
//	    http.WithDebug(true),
//	)
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, baseURL, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidEndpoint, baseURL)
	}

	c := &Client{
		base:    base,
		timeout: 30 * time.Second,
	}
	for _, option := range options {
		option(c)
	}

	if c.transport == nil {
		t, err := NewNetTransport(WithTransportTimeout(c.timeout))
		if err != nil {
			return nil, err
		}
		c.transport = t
	}
	if c.logger == nil {
		c.logger = newDebugLogger()
	}
	if c.env == nil {
		env := DetectEnvironment()
		c.env = &env
	}

	return c, nil
}

// WithDebug enables request and response tracing.
func WithDebug(enabled bool) ClientOption {
	return func(c *Client) {
		c.debug.Store(enabled)
	}
}

// WithTransport replaces the default net/http transport.
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithTimeout sets the timeout of the default transport.
// It has no effect when WithTransport is also used.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for debug tracing.
// The default writes human-readable lines to stderr.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithEnvironment overrides the detected application metadata used for the
// default User-Agent and Accept-Language headers.
func WithEnvironment(env Environment) ClientOption {
	return func(c *Client) {
		c.env = &env
	}
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithDefaultHeaders adds headers to every request sent by the client.
// Headers set on a request replace defaults of the same name.
func WithDefaultHeaders(headers ...Header) ClientOption {
	return func(c *Client) {
		for _, h := range headers {
			c.headers.UpdateHeader(h)
		}
	}
}

// Base returns a copy of the client's base URL.
func (c *Client) Base() *url.URL {
	u := *c.base
	return &u
}

// Debug reports whether tracing is enabled.
func (c *Client) Debug() bool {
	return c.debug.Load()
}

// SetDebug turns tracing on or off. Calls already in flight may trace with
// either setting.
func (c *Client) SetDebug(enabled bool) {
	c.debug.Store(enabled)
}

// Resolve builds the transport request for req without sending it.
func (c *Client) Resolve(req *Request) (*ResolvedRequest, error) {
	if len(c.headers) > 0 {
		merged := *req
		merged.Headers = append(c.headers.Clone(), req.Headers...)
		req = &merged
	}
	return req.resolve(c.base, *c.env)
}

// Send executes req and blocks until the transport completes.
// Every failure, including one building the request, is reported through the
// returned Response rather than as a separate error.
//
// Example:
//
//	type user struct {
//	    Name string `json:"name"`
//	}
//
//	resp := http.Send[user](ctx, client, http.NewRequest(http.MethodGet, "users/42"))
//	u, err := resp.Result.Get()
func Send[T any](ctx context.Context, c *Client, req *Request) *Response[T] {
	call := c.prepare(req)
	return complete[T](ctx, c, call)
}

// SendAsync executes req without blocking and passes the Response to
// callback exactly once, on a goroutine owned by the call. The callback is
// not run if the transport never returns; bound the call with ctx.
func SendAsync[T any](ctx context.Context, c *Client, req *Request, callback func(*Response[T])) {
	call := c.prepare(req)
	go func() {
		callback(complete[T](ctx, c, call))
	}()
}

// Get sends a GET request for path with optional query parameters.
func Get[T any](ctx context.Context, c *Client, path string, params *Parameters) *Response[T] {
	return Send[T](ctx, c, NewRequest(MethodGet, path).WithParameters(params))
}

// Post sends a POST request for path with params encoded as a JSON body.
func Post[T any](ctx context.Context, c *Client, path string, params *Parameters) *Response[T] {
	return Send[T](ctx, c, NewRequest(MethodPost, path).WithParameters(params))
}

// pendingCall is a request resolved on the caller's goroutine, waiting for
// the transport.
type pendingCall struct {
	method   Method
	resolved *ResolvedRequest
	err      error
}

func (c *Client) prepare(req *Request) pendingCall {
	resolved, err := c.Resolve(req)
	call := pendingCall{method: req.Method, resolved: resolved, err: err}
	if resolved != nil {
		call.method = resolved.Method
	}
	if err != nil {
		c.trace("request not sent", zap.String("path", req.Path), zap.Error(err))
		return call
	}
	c.trace("request",
		zap.String("method", resolved.Method.String()),
		zap.Stringer("url", resolved.URL),
		zap.Strings("headers", headerLines(resolved.Headers)),
		zap.ByteString("body", resolved.Body),
	)
	return call
}

// complete runs the transport for call and builds the Response. Send and
// SendAsync both finish here.
func complete[T any](ctx context.Context, c *Client, call pendingCall) *Response[T] {
	if call.err != nil {
		resp := NewErrorResponse[T](call.err)
		c.metrics.observe(call.method, outcome(resp.Result.Err), 0)
		return resp
	}

	start := time.Now()
	meta, body, err := c.transport.RoundTrip(ctx, call.resolved)

	var resp *Response[T]
	if err != nil {
		resp = NewErrorResponse[T](err)
	} else {
		resp = NewResponse[T](body, meta)
	}
	elapsed := time.Since(start)
	c.metrics.observe(call.method, outcome(resp.Result.Err), elapsed)

	if c.debug.Load() {
		fields := []zap.Field{
			zap.Int("status", resp.Status),
			zap.Stringer("result", resp.Result),
			zap.Duration("elapsed", elapsed),
			zap.Strings("headers", headerLines(resp.Headers)),
			zap.ByteString("body", resp.RawBody),
		}
		if resp.URL != nil {
			fields = append(fields, zap.Stringer("url", resp.URL))
		}
		if resp.Result.Err != nil {
			fields = append(fields, zap.Error(resp.Result.Err))
		}
		c.trace("response", fields...)
	}
	return resp
}

func (c *Client) trace(msg string, fields ...zap.Field) {
	if !c.debug.Load() {
		return
	}
	c.logger.Debug(msg, fields...)
}

func outcome(err *Error) string {
	if err == nil {
		return "success"
	}
	return err.Kind.String()
}

func headerLines(hs Headers) []string {
	lines := make([]string, len(hs))
	for i, h := range hs {
		lines[i] = h.String()
	}
	return lines
}

// newDebugLogger returns a console logger on stderr that emits debug entries.
func newDebugLogger() *zap.Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core).Named("simplenet")
}
