package http

import (
	"bytes"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
)

// QueryItem is a single name/value pair of a URL query.
type QueryItem struct {
	Name  string
	Value string
}

// Parameters is an ordered string-to-string mapping used for query strings
// and JSON request bodies. Keys are unique; entries keep insertion order.
// The zero value is empty and ready to use.
type Parameters struct {
	keys   []string
	values map[string]string
}

// NewParameters creates Parameters from alternating key/value arguments.
// A trailing key without a value is ignored.
//
// Example:
//
//	params := http.NewParameters("page", "1", "limit", "10")
func NewParameters(kv ...string) *Parameters {
	p := &Parameters{}
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i], kv[i+1])
	}
	return p
}

// ParametersFromMap creates Parameters from a map. Map iteration order is
// random, so entries are added in ascending key order.
func ParametersFromMap(m map[string]string) *Parameters {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := &Parameters{}
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// Set stores value under key. An existing key keeps its position.
func (p *Parameters) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key.
func (p *Parameters) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

// Delete removes key. It is a no-op when absent.
func (p *Parameters) Delete(key string) {
	if p == nil {
		return
	}
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (p *Parameters) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Parameters) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// QueryItems returns the entries as query items in insertion order.
func (p *Parameters) QueryItems() []QueryItem {
	items := make([]QueryItem, 0, p.Len())
	for _, k := range p.Keys() {
		items = append(items, QueryItem{Name: k, Value: p.values[k]})
	}
	return items
}

// Query returns the entries as a URL query string ("k1=v1&k2=v2") in
// insertion order. Keys and values are percent-encoded.
func (p *Parameters) Query() string {
	return encodeQueryItems(p.QueryItems())
}

// Body returns the entries encoded as a JSON object in insertion order.
// The boolean is false when encoding fails; callers treat that as no body.
func (p *Parameters) Body() ([]byte, bool) {
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, false
	}
	return b, true
}

// MarshalJSON encodes the parameters as a JSON object, preserving order.
func (p *Parameters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object of strings. Keys are added in
// ascending order since object member order is not preserved by encoding/json.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*p = *ParametersFromMap(m)
	return nil
}

func encodeQueryItems(items []QueryItem) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(item.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(item.Value))
	}
	return sb.String()
}
