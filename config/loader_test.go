package config

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/simplenet/http"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "simplenet.yaml", `
default: staging
profiles:
  staging:
    baseUrl: https://staging.example.com/api
    timeout: 10s
    debug: true
    headers:
      Authorization: Bearer {{token}}
      Accept: application/json
    variables:
      token: dev-token
    app:
      name: demo
      version: "2.1"
  production:
    baseUrl: https://api.example.com
    transport: resty
`)

	file, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"production", "staging"}, file.Names())

	p, err := file.Profile("")
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com/api", p.BaseURL)
	assert.True(t, p.Debug)

	d, err := p.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	headers := p.DefaultHeaders()
	assert.Equal(t, http.Headers{
		{Name: "Accept", Value: "application/json"},
		{Name: "Authorization", Value: "Bearer dev-token"},
	}, headers)

	env := p.Environment()
	assert.Equal(t, "demo", env.AppName)
	assert.Equal(t, "2.1", env.AppVersion)

	prod, err := file.Profile("production")
	require.NoError(t, err)
	assert.Equal(t, TransportResty, prod.Transport)

	_, err = file.Profile("missing")
	assert.Error(t, err)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "simplenet.json", `{
		"profiles": {
			"local": {"baseUrl": "http://localhost:8080", "http2": true}
		}
	}`)

	file, err := Load(path)
	require.NoError(t, err)

	p, err := file.Profile("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", p.BaseURL)
	assert.True(t, p.HTTP2)

	d, err := p.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, d)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", `{"profiles":`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "profiles: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "invalid.yaml", "profiles:\n  a:\n    timeout: 5s\n"))
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "profiles.a.baseUrl", verrs[0].Path)
}

func TestFile_ProfileRequiresSelection(t *testing.T) {
	file := &File{Profiles: map[string]Profile{
		"a": {BaseURL: "https://a.example.com"},
		"b": {BaseURL: "https://b.example.com"},
	}}

	_, err := file.Profile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a, b")
}

func TestExpand(t *testing.T) {
	t.Setenv("SIMPLENET_TEST_SECRET", "from-env")

	tests := []struct {
		name     string
		input    string
		vars     map[string]string
		expected string
	}{
		{"No references", "plain", nil, "plain"},
		{"Variable", "Bearer {{token}}", map[string]string{"token": "abc"}, "Bearer abc"},
		{"Spaces inside braces", "{{ token }}", map[string]string{"token": "abc"}, "abc"},
		{"Several", "{{a}}-{{b}}", map[string]string{"a": "1", "b": "2"}, "1-2"},
		{"Environment fallback", "{{SIMPLENET_TEST_SECRET}}", nil, "from-env"},
		{"Variables win over environment", "{{SIMPLENET_TEST_SECRET}}", map[string]string{"SIMPLENET_TEST_SECRET": "var"}, "var"},
		{"Unknown left in place", "x {{nope_not_set}} y", nil, "x {{nope_not_set}} y"},
		{"Unterminated", "x {{open", nil, "x {{open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Expand(tt.input, tt.vars))
		})
	}
}

func TestProfile_NewClient(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"Default transport", Profile{BaseURL: "https://api.example.com"}, false},
		{"HTTP2 net transport", Profile{BaseURL: "https://api.example.com", HTTP2: true, Timeout: "2s"}, false},
		{"Resty transport", Profile{BaseURL: "https://api.example.com", Transport: TransportResty}, false},
		{"Unknown transport", Profile{BaseURL: "https://api.example.com", Transport: "carrier-pigeon"}, true},
		{"Bad timeout", Profile{BaseURL: "https://api.example.com", Timeout: "soon"}, true},
		{"Relative base URL", Profile{BaseURL: "/api"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := tt.profile.NewClient()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.profile.BaseURL, client.Base().String())
		})
	}
}

func TestProfile_ClientAppliesHeaders(t *testing.T) {
	p := Profile{
		BaseURL:   "https://api.example.com",
		Headers:   map[string]string{"X-Api-Key": "{{key}}"},
		Variables: map[string]string{"key": "k-123"},
	}

	client, err := p.NewClient(http.WithDebug(false))
	require.NoError(t, err)

	resolved, err := client.Resolve(http.NewRequest(http.MethodGet, "items"))
	require.NoError(t, err)
	assert.Equal(t, "k-123", resolved.Headers.Get("X-Api-Key"))
}

func TestProfile_Insecure(t *testing.T) {
	server := httptest.NewTLSServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusNoContent)
	}))
	defer server.Close()

	tests := []struct {
		name      string
		transport string
		insecure  bool
		wantErr   bool
	}{
		{"Net transport verifies certificates", TransportNet, false, true},
		{"Net transport insecure", TransportNet, true, false},
		{"Resty transport verifies certificates", TransportResty, false, true},
		{"Resty transport insecure", TransportResty, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Profile{BaseURL: server.URL, Transport: tt.transport, Insecure: tt.insecure, Timeout: "5s"}
			client, err := p.NewClient()
			require.NoError(t, err)

			resp := http.Send[http.Empty](context.Background(), client, http.NewRequest(http.MethodGet, "health"))
			if tt.wantErr {
				assert.NotNil(t, resp.Result.Err)
				return
			}
			require.Nil(t, resp.Result.Err)
			assert.Equal(t, nethttp.StatusNoContent, resp.Status)
		})
	}
}
