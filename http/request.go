package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const mimeJSON = "application/json"

// Request is a declarative description of an outbound call.
// Use NewRequest to create one and chain the With methods to configure it.
type Request struct {
	Path       string
	Method     Method
	Headers    Headers
	Parameters *Parameters
	Body       []byte
	// IgnoreBase treats Path as a complete absolute URL instead of a path
	// appended to the client's base URL.
	IgnoreBase bool
}

// NewRequest creates a request for path with the given method.
//
// Example:
//
//	req := http.NewRequest(http.MethodGet, "users").
//	    WithHeader(http.BearerAuthorization(token)).
//	    WithParameter("limit", "10")
func NewRequest(method Method, path string) *Request {
	return &Request{
		Path:   path,
		Method: method,
	}
}

// WithHeader upserts a header. Returns the Request to allow method chaining.
func (r *Request) WithHeader(h Header) *Request {
	r.Headers.UpdateHeader(h)
	return r
}

// WithHeaders upserts each header in order.
func (r *Request) WithHeaders(headers ...Header) *Request {
	for _, h := range headers {
		r.Headers.UpdateHeader(h)
	}
	return r
}

// WithParameter sets a single parameter.
func (r *Request) WithParameter(key, value string) *Request {
	if r.Parameters == nil {
		r.Parameters = &Parameters{}
	}
	r.Parameters.Set(key, value)
	return r
}

// WithParameters replaces the request parameters.
func (r *Request) WithParameters(p *Parameters) *Request {
	r.Parameters = p
	return r
}

// WithBody sets a raw body. It is ignored when parameters are also set.
func (r *Request) WithBody(body []byte) *Request {
	r.Body = body
	return r
}

// WithIgnoreBase marks Path as an absolute URL.
func (r *Request) WithIgnoreBase() *Request {
	r.IgnoreBase = true
	return r
}

// ResolvedRequest is a fully formed request ready for a Transport.
type ResolvedRequest struct {
	URL     *url.URL
	Method  Method
	Headers Headers
	Body    []byte
}

// HTTPRequest converts the resolved request into a net/http request bound to ctx.
func (rr *ResolvedRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if rr.Body != nil {
		body = bytes.NewReader(rr.Body)
	}
	req, err := http.NewRequestWithContext(ctx, rr.Method.String(), rr.URL.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header = rr.Headers.HTTPHeader()
	return req, nil
}

// Resolve builds the transport request against base using the detected
// process environment for default headers.
func (r *Request) Resolve(base *url.URL) (*ResolvedRequest, error) {
	return r.resolve(base, DetectEnvironment())
}

func (r *Request) resolve(base *url.URL, env Environment) (*ResolvedRequest, error) {
	endpoint, err := r.endpoint(base)
	if err != nil {
		return nil, err
	}

	method := r.Method
	if method == "" {
		method = MethodGet
	}

	headers := make(Headers, 0, len(r.Headers)+3)
	for _, h := range r.Headers {
		headers.UpdateHeader(h)
	}
	for _, h := range defaultHeaders(env) {
		if !headers.Has(h.Name) {
			headers = append(headers, h)
		}
	}

	resolved := &ResolvedRequest{
		URL:     endpoint,
		Method:  method,
		Headers: headers,
	}

	switch {
	case r.Parameters != nil && method.carriesQuery():
		appendQuery(endpoint, r.Parameters.QueryItems())
	case r.Parameters != nil && method.carriesBody():
		if body, ok := r.Parameters.Body(); ok {
			resolved.Body = body
			defaultContentType(&resolved.Headers)
		}
	case r.Parameters == nil && r.Body != nil:
		resolved.Body = r.Body
		defaultContentType(&resolved.Headers)
	}

	return resolved, nil
}

func (r *Request) endpoint(base *url.URL) (*url.URL, error) {
	if r.IgnoreBase {
		u, err := url.Parse(r.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, r.Path, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidEndpoint, r.Path)
		}
		return u, nil
	}

	if base == nil {
		return nil, fmt.Errorf("%w: no base URL", ErrInvalidEndpoint)
	}
	return joinPath(base, r.Path), nil
}

// joinPath appends path to base with exactly one separating slash.
// Escaped characters in the base path, such as %2F, are kept as written.
// A query or fragment already present in base is kept.
func joinPath(base *url.URL, path string) *url.URL {
	u := *base
	trimmed := strings.TrimLeft(path, "/")
	if trimmed == "" {
		if u.Path == "" {
			u.Path = "/"
			u.RawPath = ""
		}
		return &u
	}

	escaped := strings.TrimRight(base.EscapedPath(), "/") + "/" + (&url.URL{Path: trimmed}).EscapedPath()
	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		u.Path = strings.TrimRight(u.Path, "/") + "/" + trimmed
		u.RawPath = ""
		return &u
	}
	u.Path = decoded
	u.RawPath = escaped
	return &u
}

// appendQuery adds items after any query already present on u.
func appendQuery(u *url.URL, items []QueryItem) {
	if len(items) == 0 {
		return
	}
	encoded := encodeQueryItems(items)
	if u.RawQuery == "" {
		u.RawQuery = encoded
		return
	}
	u.RawQuery += "&" + encoded
}

func defaultContentType(headers *Headers) {
	if !headers.Has("Content-Type") {
		headers.UpdateHeader(ContentType(mimeJSON))
	}
}
