package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameters_Query(t *testing.T) {
	tests := []struct {
		name     string
		params   *Parameters
		expected string
	}{
		{"Empty", &Parameters{}, ""},
		{"Single pair", NewParameters("key", "value"), "key=value"},
		{"Insertion order", NewParameters("page", "1", "limit", "10", "a", "z"), "page=1&limit=10&a=z"},
		{"Percent-encoded", NewParameters("q", "a b&c", "name=x", "é"), "q=a+b%26c&name%3Dx=%C3%A9"},
		{"From map sorted", ParametersFromMap(map[string]string{"b": "2", "a": "1"}), "a=1&b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.params.Query())
		})
	}
}

func TestParameters_SetKeepsPosition(t *testing.T) {
	p := NewParameters("a", "1", "b", "2")
	p.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, p.Keys())
	v, ok := p.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	p.Delete("a")
	p.Delete("missing")
	assert.Equal(t, []string{"b"}, p.Keys())
	assert.Equal(t, 1, p.Len())
}

func TestParameters_NilReceiver(t *testing.T) {
	var p *Parameters

	assert.NotPanics(t, func() { p.Delete("x") })
	_, ok := p.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Keys())
}

func TestParameters_QueryItems(t *testing.T) {
	p := NewParameters("x", "1", "y", "2")
	assert.Equal(t, []QueryItem{{Name: "x", Value: "1"}, {Name: "y", Value: "2"}}, p.QueryItems())
}

func TestParameters_Body(t *testing.T) {
	p := NewParameters("key", "value", "quote", `say "hi"`)

	body, ok := p.Body()
	require.True(t, ok)
	assert.Equal(t, `{"key":"value","quote":"say \"hi\""}`, string(body))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, map[string]string{"key": "value", "quote": `say "hi"`}, decoded)

	var nilParams *Parameters
	body, ok = nilParams.Body()
	require.True(t, ok)
	assert.Equal(t, "{}", string(body))
}

func TestParameters_UnmarshalJSON(t *testing.T) {
	var p Parameters
	require.NoError(t, json.Unmarshal([]byte(`{"z":"1","a":"2"}`), &p))
	assert.Equal(t, "a=2&z=1", p.Query())

	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &p))
}
