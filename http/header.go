package http

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Header is a single HTTP header name/value pair.
// Two headers refer to the same field when their names match case-insensitively.
type Header struct {
	Name  string
	Value string
}

// NewHeader creates a header from the given name and value.
func NewHeader(name, value string) Header {
	return Header{Name: name, Value: value}
}

// String returns the header in wire form ("Name: value").
func (h Header) String() string {
	return h.Name + ": " + h.Value
}

// Accept returns an Accept header.
func Accept(value string) Header {
	return NewHeader("Accept", value)
}

// AcceptCharset returns an Accept-Charset header.
func AcceptCharset(value string) Header {
	return NewHeader("Accept-Charset", value)
}

// AcceptLanguage returns an Accept-Language header.
// Use DefaultAcceptLanguage for a value built from the user's preferred languages.
func AcceptLanguage(value string) Header {
	return NewHeader("Accept-Language", value)
}

// AcceptEncoding returns an Accept-Encoding header.
// Use DefaultAcceptEncoding for the encodings supported by the default transport.
func AcceptEncoding(value string) Header {
	return NewHeader("Accept-Encoding", value)
}

// BasicAuthorization returns a Basic Authorization header for the given credentials.
func BasicAuthorization(username, password string) Header {
	credential := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return Authorization("Basic " + credential)
}

// BearerAuthorization returns a Bearer Authorization header for the given token.
func BearerAuthorization(token string) Header {
	return Authorization("Bearer " + token)
}

// Authorization returns an Authorization header with a raw value.
func Authorization(value string) Header {
	return NewHeader("Authorization", value)
}

// ContentDisposition returns a Content-Disposition header.
func ContentDisposition(value string) Header {
	return NewHeader("Content-Disposition", value)
}

// ContentType returns a Content-Type header.
// Requests carrying parameters or a raw body default to application/json.
func ContentType(value string) Header {
	return NewHeader("Content-Type", value)
}

// UserAgent returns a User-Agent header.
func UserAgent(value string) Header {
	return NewHeader("User-Agent", value)
}

// QualityEncoded joins values as a quality-weighted list, assigning 1.0 to
// the first entry and 0.1 less to each following one.
//
// Example:
//
//	QualityEncoded([]string{"br", "gzip"}) // "br;q=1.0, gzip;q=0.9"
func QualityEncoded(values []string) string {
	parts := make([]string, 0, len(values))
	for i, v := range values {
		// integer tenths keep the weights exact ("0.7", not "0.7000000000000001")
		tenths := 10 - i
		if tenths < 0 {
			tenths = 0
		}
		parts = append(parts, fmt.Sprintf("%s;q=%d.%d", v, tenths/10, tenths%10))
	}
	return strings.Join(parts, ", ")
}

// Headers is an ordered header collection with case-insensitive lookup.
// The zero value is an empty collection ready to use.
type Headers []Header

// IndexOf returns the position of the first header named name.
func (hs Headers) IndexOf(name string) (int, bool) {
	for i, h := range hs {
		if strings.EqualFold(h.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// Update replaces the value of the header named name, keeping its position,
// or appends a new header when none exists.
func (hs *Headers) Update(name, value string) {
	hs.UpdateHeader(NewHeader(name, value))
}

// UpdateHeader replaces the header with the same name as h or appends h.
func (hs *Headers) UpdateHeader(h Header) {
	if i, ok := hs.IndexOf(h.Name); ok {
		(*hs)[i] = h
		return
	}
	*hs = append(*hs, h)
}

// Remove deletes the first header named name. It is a no-op when absent.
func (hs *Headers) Remove(name string) {
	i, ok := hs.IndexOf(name)
	if !ok {
		return
	}
	*hs = append((*hs)[:i], (*hs)[i+1:]...)
}

// Value returns the value of the first header named name.
func (hs Headers) Value(name string) (string, bool) {
	i, ok := hs.IndexOf(name)
	if !ok {
		return "", false
	}
	return hs[i].Value, true
}

// Get returns the value of the header named name, or "" when absent.
func (hs Headers) Get(name string) string {
	v, _ := hs.Value(name)
	return v
}

// Has reports whether a header named name is present.
func (hs Headers) Has(name string) bool {
	_, ok := hs.IndexOf(name)
	return ok
}

// Set updates the header named name when value is non-nil and removes it otherwise.
func (hs *Headers) Set(name string, value *string) {
	if value == nil {
		hs.Remove(name)
		return
	}
	hs.Update(name, *value)
}

// Clone returns a copy that does not share storage with hs.
func (hs Headers) Clone() Headers {
	if hs == nil {
		return nil
	}
	out := make(Headers, len(hs))
	copy(out, hs)
	return out
}

// HTTPHeader converts the collection to a net/http header map.
func (hs Headers) HTTPHeader() http.Header {
	out := make(http.Header, len(hs))
	for _, h := range hs {
		out.Set(h.Name, h.Value)
	}
	return out
}

// HeadersFromHTTP converts a net/http header map into a collection sorted by
// canonical name. Multiple values for one field are joined with ", ".
func HeadersFromHTTP(h http.Header) Headers {
	if len(h) == 0 {
		return Headers{}
	}
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Headers, 0, len(names))
	for _, name := range names {
		out = append(out, NewHeader(name, strings.Join(h[name], ", ")))
	}
	return out
}
