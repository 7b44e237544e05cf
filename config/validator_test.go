package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		file          *File
		expectedPaths []string
	}{
		{
			name: "Valid file",
			file: &File{
				Default: "a",
				Profiles: map[string]Profile{
					"a": {BaseURL: "https://a.example.com", Timeout: "5s", Transport: TransportNet, HTTP2: true},
					"b": {BaseURL: "https://b.example.com", Transport: TransportResty, Headers: map[string]string{"X-Trace": "1"}},
				},
			},
		},
		{
			name:          "No profiles",
			file:          &File{},
			expectedPaths: []string{"profiles"},
		},
		{
			name: "Unknown default",
			file: &File{
				Default:  "missing",
				Profiles: map[string]Profile{"a": {BaseURL: "https://a.example.com"}},
			},
			expectedPaths: []string{"default"},
		},
		{
			name: "Bad profile fields",
			file: &File{Profiles: map[string]Profile{
				"a": {
					BaseURL:   "example.com/api",
					Timeout:   "-1s",
					Transport: "smtp",
					Headers:   map[string]string{"Bad Name": "x"},
				},
			}},
			expectedPaths: []string{"profiles.a.baseUrl", "profiles.a.timeout", "profiles.a.transport", "profiles.a.headers"},
		},
		{
			name: "Missing base URL and resty with http2",
			file: &File{Profiles: map[string]Profile{
				"a": {Transport: TransportResty, HTTP2: true},
			}},
			expectedPaths: []string{"profiles.a.baseUrl", "profiles.a.http2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.file)

			paths := make([]string, len(errs))
			for i, e := range errs {
				paths[i] = e.Path
			}
			if len(tt.expectedPaths) == 0 {
				assert.Empty(t, paths)
				return
			}
			assert.Equal(t, tt.expectedPaths, paths)
			assert.Contains(t, errs.Error(), tt.expectedPaths[0])
		})
	}
}
