package http

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyTransport adapts resty.Client to the Transport interface.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a RestyTransport with the specified timeout.
func NewRestyTransport(timeout time.Duration) *RestyTransport {
	c := resty.New()
	c.SetTimeout(timeout)
	return &RestyTransport{client: c}
}

// NewRestyTransportFromClient wraps an existing resty.Client, for callers
// that configure proxies, TLS, or middleware themselves.
func NewRestyTransportFromClient(c *resty.Client) *RestyTransport {
	return &RestyTransport{client: c}
}

// RoundTrip executes req with resty.
func (t *RestyTransport) RoundTrip(ctx context.Context, req *ResolvedRequest) (*TransportResponse, []byte, error) {
	r := t.client.R().SetContext(ctx)
	for _, h := range req.Headers {
		r.SetHeader(h.Name, h.Value)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method.String(), req.URL.String())
	if err != nil {
		return nil, nil, err
	}

	meta := &TransportResponse{
		URL:        req.URL,
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
	}
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		meta.URL = resp.RawResponse.Request.URL
	}
	return meta, decodeBody(meta.Header, resp.Body()), nil
}
