package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/net/http2"
)

// supportedEncodings lists the content codings decoded by decodeBody, in
// order of preference.
var supportedEncodings = []string{"gzip", "deflate"}

// TransportResponse is the metadata of a completed transport call.
type TransportResponse struct {
	URL        *url.URL
	StatusCode int
	Header     http.Header
}

// Transport executes resolved requests. A nil *TransportResponse with a
// nil error means the transport produced bytes without HTTP metadata.
type Transport interface {
	RoundTrip(ctx context.Context, req *ResolvedRequest) (*TransportResponse, []byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *ResolvedRequest) (*TransportResponse, []byte, error)

// RoundTrip calls f(ctx, req).
func (f TransportFunc) RoundTrip(ctx context.Context, req *ResolvedRequest) (*TransportResponse, []byte, error) {
	return f(ctx, req)
}

// NetTransport executes requests with a *http.Client.
// NetTransport is safe for concurrent use by multiple goroutines.
type NetTransport struct {
	client *http.Client
}

// NetTransportOption configures a NetTransport.
type NetTransportOption func(*netTransportConfig)

type netTransportConfig struct {
	timeout            time.Duration
	http2              bool
	insecureSkipVerify bool
	httpClient         *http.Client
}

// WithTransportTimeout sets the overall timeout of each call.
// The default is 30 seconds.
func WithTransportTimeout(timeout time.Duration) NetTransportOption {
	return func(c *netTransportConfig) {
		c.timeout = timeout
	}
}

// WithHTTP2 enables HTTP/2 on the underlying transport.
func WithHTTP2() NetTransportOption {
	return func(c *netTransportConfig) {
		c.http2 = true
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// WARNING: This should only be used for testing purposes.
func WithInsecureSkipVerify() NetTransportOption {
	return func(c *netTransportConfig) {
		c.insecureSkipVerify = true
	}
}

// WithHTTPClient uses httpClient as-is, ignoring the other options.
func WithHTTPClient(httpClient *http.Client) NetTransportOption {
	return func(c *netTransportConfig) {
		c.httpClient = httpClient
	}
}

// NewNetTransport creates a transport backed by net/http.
func NewNetTransport(options ...NetTransportOption) (*NetTransport, error) {
	cfg := netTransportConfig{timeout: 30 * time.Second}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.httpClient != nil {
		return &NetTransport{client: cfg.httpClient}, nil
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if cfg.http2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("configure http2: %w", err)
		}
	}

	return &NetTransport{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.timeout,
		},
	}, nil
}

// RoundTrip sends req and reads the whole response body.
func (t *NetTransport) RoundTrip(ctx context.Context, req *ResolvedRequest) (*TransportResponse, []byte, error) {
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, nil, err
	}

	meta := &TransportResponse{
		URL:        httpResp.Request.URL,
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
	}
	return meta, decodeBody(meta.Header, body), nil
}

// decodeBody undoes gzip or deflate content coding. Setting Accept-Encoding
// explicitly turns off net/http's transparent decompression, so it is done here.
// Bodies that fail to decode are returned unchanged and the header is left alone.
func decodeBody(header http.Header, body []byte) []byte {
	coding := strings.ToLower(strings.TrimSpace(header.Get("Content-Encoding")))
	if coding == "" || coding == "identity" || len(body) == 0 {
		return body
	}

	var (
		r   io.ReadCloser
		err error
	)
	switch coding {
	case "gzip", "x-gzip":
		r, err = gzip.NewReader(bytes.NewReader(body))
	case "deflate":
		r, err = zlib.NewReader(bytes.NewReader(body))
		if err != nil {
			r, err = flate.NewReader(bytes.NewReader(body)), nil
		}
	default:
		return body
	}
	if err != nil {
		return body
	}
	defer r.Close()

	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	header.Del("Content-Encoding")
	header.Del("Content-Length")
	return decoded
}
