package bench

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wesleyorama2/simplenet/http"
)

// Config controls a run.
type Config struct {
	// Requests is the total number of requests to send
	Requests int
	// Concurrency bounds the number of requests in flight
	Concurrency int
	// Rate caps requests started per second; zero means unlimited
	Rate float64
}

// Run sends req cfg.Requests times through client, keeping at most
// cfg.Concurrency in flight, and returns the aggregated summary.
// Responses are not decoded. Cancelling ctx stops new requests from being
// started; requests already in flight finish through the transport.
func Run(ctx context.Context, client *http.Client, req *http.Request, cfg Config) (Summary, error) {
	if cfg.Requests <= 0 {
		return Summary{}, errors.New("requests must be positive")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Concurrency > cfg.Requests {
		cfg.Concurrency = cfg.Requests
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	recorder := NewRecorder()
	slots := make(chan struct{}, cfg.Concurrency)
	var wg sync.WaitGroup

	start := time.Now()
loop:
	for i := 0; i < cfg.Requests; i++ {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			break loop
		case slots <- struct{}{}:
		}

		wg.Add(1)
		sent := time.Now()
		http.SendAsync(ctx, client, req, func(resp *http.Response[http.Empty]) {
			defer wg.Done()
			defer func() { <-slots }()

			failure := ""
			if resp.Result.Err != nil {
				failure = resp.Result.Err.Kind.String()
			}
			recorder.Record(time.Since(sent), resp.Status, failure)
		})
	}
	wg.Wait()

	return recorder.Summary(time.Since(start)), ctx.Err()
}
