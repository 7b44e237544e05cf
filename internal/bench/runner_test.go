package bench

import (
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	nethttp "net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wesleyorama2/simplenet/http"
)

func TestRun(t *testing.T) {
	var inFlight, peak, hits atomic.Int32
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		if hits.Add(1)%5 == 0 {
			w.WriteHeader(nethttp.StatusServiceUnavailable)
			return
		}
		time.Sleep(5 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, err := http.NewClient(server.URL, http.WithLogger(zap.NewNop()))
	require.NoError(t, err)

	s, err := Run(context.Background(), client, http.NewRequest(http.MethodGet, "health"), Config{Requests: 20, Concurrency: 4})
	require.NoError(t, err)

	assert.Equal(t, 20, s.Requests)
	assert.Equal(t, 20, s.Succeeded)
	assert.Zero(t, s.Failed)
	assert.Equal(t, map[int]int{200: 16, 503: 4}, s.StatusCodes)
	assert.LessOrEqual(t, peak.Load(), int32(4))
	assert.Greater(t, s.Latency.Max, time.Duration(0))
}

func TestRun_Failures(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {}))
	url := server.URL
	server.Close()

	client, err := http.NewClient(url, http.WithLogger(zap.NewNop()))
	require.NoError(t, err)

	s, err := Run(context.Background(), client, http.NewRequest(http.MethodGet, "x"), Config{Requests: 3, Concurrency: 10})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Failed)
	assert.Equal(t, 3, s.Failures[http.Unknown.String()])
	assert.Empty(t, s.StatusCodes)
}

func TestRun_InvalidConfig(t *testing.T) {
	client, err := http.NewClient("https://example.com")
	require.NoError(t, err)

	_, err = Run(context.Background(), client, http.NewRequest(http.MethodGet, "x"), Config{})
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	client, err := http.NewClient("https://example.com", http.WithTransport(http.TransportFunc(
		func(ctx context.Context, req *http.ResolvedRequest) (*http.TransportResponse, []byte, error) {
			return &http.TransportResponse{URL: req.URL, StatusCode: 204}, nil, nil
		})))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := Run(ctx, client, http.NewRequest(http.MethodGet, "x"), Config{Requests: 100, Concurrency: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Requests)
}

func TestRun_Rate(t *testing.T) {
	client, err := http.NewClient("https://example.com", http.WithTransport(http.TransportFunc(
		func(ctx context.Context, req *http.ResolvedRequest) (*http.TransportResponse, []byte, error) {
			return &http.TransportResponse{URL: req.URL, StatusCode: 200}, nil, nil
		})))
	require.NoError(t, err)

	start := time.Now()
	s, err := Run(context.Background(), client, http.NewRequest(http.MethodGet, "x"), Config{Requests: 5, Concurrency: 5, Rate: 50})
	require.NoError(t, err)

	assert.Equal(t, 5, s.Requests)
	// The first request uses the burst; the other four wait 20ms each.
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}
