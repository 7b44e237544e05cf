package http

import (
	"net/http"
	"testing"
)

func TestHeaders_Update(t *testing.T) {
	tests := []struct {
		name        string
		initial     Headers
		updateName  string
		updateValue string
		expectedLen int
		expectedIdx int
	}{
		{
			name:        "Append to empty collection",
			initial:     nil,
			updateName:  "Accept",
			updateValue: "application/json",
			expectedLen: 1,
			expectedIdx: 0,
		},
		{
			name:        "Replace existing keeps position",
			initial:     Headers{Accept("text/html"), UserAgent("test")},
			updateName:  "Accept",
			updateValue: "application/json",
			expectedLen: 2,
			expectedIdx: 0,
		},
		{
			name:        "Replace is case-insensitive",
			initial:     Headers{UserAgent("test"), ContentType("text/plain")},
			updateName:  "content-type",
			updateValue: "application/json",
			expectedLen: 2,
			expectedIdx: 1,
		},
		{
			name:        "Append new name",
			initial:     Headers{UserAgent("test")},
			updateName:  "X-Request-ID",
			updateValue: "abc",
			expectedLen: 2,
			expectedIdx: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := tt.initial.Clone()
			hs.Update(tt.updateName, tt.updateValue)

			if len(hs) != tt.expectedLen {
				t.Errorf("Expected %d headers, got %d", tt.expectedLen, len(hs))
			}
			if v, ok := hs.Value(tt.updateName); !ok || v != tt.updateValue {
				t.Errorf("Expected value %q, got %q (found=%v)", tt.updateValue, v, ok)
			}
			if i, _ := hs.IndexOf(tt.updateName); i != tt.expectedIdx {
				t.Errorf("Expected index %d, got %d", tt.expectedIdx, i)
			}
		})
	}
}

func TestHeaders_RemoveIsIdempotent(t *testing.T) {
	hs := Headers{Accept("*/*"), UserAgent("test"), ContentType("application/json")}

	hs.Remove("USER-AGENT")
	once := hs.Clone()
	hs.Remove("user-agent")

	if len(hs) != 2 || len(once) != 2 {
		t.Fatalf("Expected 2 headers after remove, got %d and %d", len(once), len(hs))
	}
	for i := range hs {
		if hs[i] != once[i] {
			t.Errorf("Header %d changed on second remove: %v != %v", i, hs[i], once[i])
		}
	}
	if hs.Has("User-Agent") {
		t.Error("User-Agent should be removed")
	}

	var empty Headers
	empty.Remove("Accept")
	if len(empty) != 0 {
		t.Errorf("Remove on empty collection should be a no-op")
	}
}

func TestHeaders_Set(t *testing.T) {
	var hs Headers
	v := "Bearer token"

	hs.Set("Authorization", &v)
	if got := hs.Get("authorization"); got != v {
		t.Errorf("Expected %q, got %q", v, got)
	}

	hs.Set("AUTHORIZATION", nil)
	if hs.Has("Authorization") {
		t.Error("Set with nil should remove the header")
	}
	if got := hs.Get("Authorization"); got != "" {
		t.Errorf("Expected empty value for missing header, got %q", got)
	}
}

func TestHeaderFactories(t *testing.T) {
	tests := []struct {
		name     string
		header   Header
		expected Header
	}{
		{"Accept", Accept("application/json"), Header{"Accept", "application/json"}},
		{"Accept-Charset", AcceptCharset("utf-8"), Header{"Accept-Charset", "utf-8"}},
		{"Accept-Language", AcceptLanguage("en"), Header{"Accept-Language", "en"}},
		{"Accept-Encoding", AcceptEncoding("gzip"), Header{"Accept-Encoding", "gzip"}},
		{"Basic", BasicAuthorization("user", "pass"), Header{"Authorization", "Basic dXNlcjpwYXNz"}},
		{"Bearer", BearerAuthorization("4U7H-70K3N"), Header{"Authorization", "Bearer 4U7H-70K3N"}},
		{"Raw authorization", Authorization("Token abc"), Header{"Authorization", "Token abc"}},
		{"Content-Disposition", ContentDisposition("inline"), Header{"Content-Disposition", "inline"}},
		{"Content-Type", ContentType("text/plain"), Header{"Content-Type", "text/plain"}},
		{"User-Agent", UserAgent("simplenet-test"), Header{"User-Agent", "simplenet-test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.header != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.header)
			}
		})
	}
}

func TestQualityEncoded(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected string
	}{
		{"Empty", nil, ""},
		{"Single", []string{"gzip"}, "gzip;q=1.0"},
		{"Descending", []string{"br", "gzip", "deflate"}, "br;q=1.0, gzip;q=0.9, deflate;q=0.8"},
		{
			"Six languages",
			[]string{"en", "es", "fr", "de", "it", "pt"},
			"en;q=1.0, es;q=0.9, fr;q=0.8, de;q=0.7, it;q=0.6, pt;q=0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QualityEncoded(tt.values); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestHeadersFromHTTP(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Add("Vary", "Accept")
	h.Add("Vary", "Origin")

	hs := HeadersFromHTTP(h)
	if len(hs) != 2 {
		t.Fatalf("Expected 2 headers, got %d", len(hs))
	}
	if hs[0].Name != "Content-Type" || hs[1].Name != "Vary" {
		t.Errorf("Expected headers sorted by name, got %v", hs)
	}
	if got := hs.Get("vary"); got != "Accept, Origin" {
		t.Errorf("Expected joined values, got %q", got)
	}

	back := hs.HTTPHeader()
	if back.Get("Content-Type") != "application/json" {
		t.Errorf("Expected round trip to keep Content-Type, got %q", back.Get("Content-Type"))
	}
}
