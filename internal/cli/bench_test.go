package cli

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	nethttp "net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/simplenet/internal/output"
)

func TestBenchCmd(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Query().Get("fail") == "1" {
			w.WriteHeader(nethttp.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	stdout, _, err := executeCmd(t, "-o", "json", "bench", server.URL+"/health", "-n", "12", "-c", "3")
	require.NoError(t, err)

	var data output.BenchmarkData
	require.NoError(t, json.Unmarshal([]byte(stdout), &data))
	assert.Equal(t, "GET", data.Method)
	assert.Equal(t, server.URL+"/health", data.URL)
	assert.Equal(t, 12, data.Requests)
	assert.Equal(t, 12, data.Succeeded)
	assert.Equal(t, 3, data.Concurrency)
	assert.Equal(t, map[int]int{200: 12}, data.StatusCodes)

	stdout, _, err = executeCmd(t, "--no-color", "bench", server.URL+"/health", "-n", "2", "-X", "delete", "-p", "fail=1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "BENCHMARK: DELETE")
	assert.Contains(t, stdout, "500: 2")
}

func TestBenchCmd_InvalidFlags(t *testing.T) {
	_, _, err := executeCmd(t, "bench", "http://example.com", "-X", "TRACE")
	assert.Error(t, err)

	_, _, err = executeCmd(t, "bench", "http://127.0.0.1:1", "-n", "0")
	assert.Error(t, err)
}

func TestParseMethod(t *testing.T) {
	m, err := parseMethod("patch")
	require.NoError(t, err)
	assert.Equal(t, "PATCH", m.String())

	_, err = parseMethod("HEAD")
	assert.Error(t, err)
}
