package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Empty is the target type for calls that expect no response content.
// Responses decoded as Empty always succeed without parsing the body.
type Empty struct{}

// EmptyValue is the value carried by every successful Empty response.
var EmptyValue = Empty{}

// Result holds either a decoded value or an error, never both.
type Result[T any] struct {
	Value *T
	Err   *Error
}

// Get returns the decoded value, or the failure as an error.
func (r Result[T]) Get() (*T, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Value, nil
}

// Ok reports whether the call succeeded and the body decoded.
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

func (r Result[T]) String() string {
	if r.Err != nil {
		return "failure(" + r.Err.Kind.String() + ")"
	}
	return "success"
}

// Response is the typed outcome of a single request.
// It is built once, right after the transport returns, and is not modified afterwards.
type Response[T any] struct {
	// URL is the final request URL, nil when the transport failed
	URL *url.URL

	// Result is the decoded body or the classified failure
	Result Result[T]

	// Status is the HTTP status code, 0 when unavailable
	Status int

	// Headers contains the response headers
	Headers Headers

	// RawBody is the response body as received
	RawBody []byte
}

// NewResponse builds a Response from a completed transport call. meta may be
// nil when the transport returned no HTTP metadata.
func NewResponse[T any](body []byte, meta *TransportResponse) *Response[T] {
	resp := &Response[T]{
		RawBody: body,
		Headers: Headers{},
	}
	if meta != nil {
		resp.URL = meta.URL
		resp.Status = meta.StatusCode
		resp.Headers = HeadersFromHTTP(meta.Header)
	}

	if isEmpty[T]() {
		var marker T
		resp.Result = Result[T]{Value: &marker}
		return resp
	}

	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		resp.Result = Result[T]{Err: newError(CannotDecode, err)}
		return resp
	}
	resp.Result = Result[T]{Value: &value}
	return resp
}

// NewErrorResponse builds a failed Response from a transport error.
func NewErrorResponse[T any](err error) *Response[T] {
	return &Response[T]{
		Result:  Result[T]{Err: newError(Classify(err), err)},
		Headers: Headers{},
	}
}

func isEmpty[T any]() bool {
	var zero T
	_, ok := any(zero).(Empty)
	return ok
}

// IsSuccess returns true if the response status code is in the 2xx range.
func (r *Response[T]) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsRedirect returns true if the response status code is in the 3xx range.
func (r *Response[T]) IsRedirect() bool {
	return r.Status >= 300 && r.Status < 400
}

// IsClientError returns true if the response status code is in the 4xx range.
func (r *Response[T]) IsClientError() bool {
	return r.Status >= 400 && r.Status < 500
}

// IsServerError returns true if the response status code is in the 5xx range.
func (r *Response[T]) IsServerError() bool {
	return r.Status >= 500 && r.Status < 600
}

// IsError returns true if the response status code indicates an error (4xx or 5xx).
func (r *Response[T]) IsError() bool {
	return r.IsClientError() || r.IsServerError()
}

// DebugString renders the response for logs.
func (r *Response[T]) DebugString() string {
	var sb strings.Builder
	target := "no URL"
	if r.URL != nil {
		target = r.URL.String()
	}
	fmt.Fprintf(&sb, "<Response %s\n\t%d - %s\n\tHeaders: ", target, r.Status, r.Result)
	for i, h := range r.Headers {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(h.String())
	}
	sb.WriteString("\n\tBody: ")
	if len(r.RawBody) == 0 {
		sb.WriteString("empty")
	} else {
		sb.WriteString(prettyJSON(r.RawBody))
	}
	sb.WriteString("\n>")
	return sb.String()
}

// prettyJSON indents body when it is valid JSON and returns it unchanged otherwise.
func prettyJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "\t", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}
