// Package bench fires a request repeatedly through a simplenet client and
// aggregates latency percentiles, status codes and failure kinds.
package bench

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// histogramMin is the smallest recordable latency in microseconds
	histogramMin = 1
	// histogramMax is the largest recordable latency in microseconds (1 hour)
	histogramMax = 3600000000
	histogramSigFigs = 3
)

// Recorder collects the outcome of each request.
//
// # Thread Safety
//
// Recorder is safe for concurrent use. Counters are atomic; the histogram
// and the per-status and per-kind maps are guarded by a mutex because HDR
// histogram RecordValue is not thread-safe.
type Recorder struct {
	mu          sync.Mutex
	latency     *hdrhistogram.Histogram
	statusCodes map[int]int
	failures    map[string]int

	succeeded atomic.Int64
	failed    atomic.Int64
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		latency:     hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		statusCodes: make(map[int]int),
		failures:    make(map[string]int),
	}
}

// Record adds one request. failure is the error kind name, or empty when the
// request succeeded. status is zero when no response arrived.
func (r *Recorder) Record(elapsed time.Duration, status int, failure string) {
	micros := elapsed.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}

	if failure == "" {
		r.succeeded.Add(1)
	} else {
		r.failed.Add(1)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.latency.RecordValue(micros)
	if status != 0 {
		r.statusCodes[status]++
	}
	if failure != "" {
		r.failures[failure]++
	}
}

// Percentiles holds latency figures for a run.
type Percentiles struct {
	Min  time.Duration
	Mean time.Duration
	P50  time.Duration
	P90  time.Duration
	P95  time.Duration
	P99  time.Duration
	Max  time.Duration
}

// Summary is the aggregated result of a run.
type Summary struct {
	Requests    int
	Succeeded   int
	Failed      int
	StatusCodes map[int]int
	Failures    map[string]int
	Duration    time.Duration
	Latency     Percentiles
}

// RequestsPerSecond is the completed request rate over the run.
func (s Summary) RequestsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Requests) / s.Duration.Seconds()
}

// Summary snapshots the recorder. duration is the wall time of the run.
func (r *Recorder) Summary(duration time.Duration) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	micros := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }

	s := Summary{
		Succeeded:   int(r.succeeded.Load()),
		Failed:      int(r.failed.Load()),
		StatusCodes: make(map[int]int, len(r.statusCodes)),
		Failures:    make(map[string]int, len(r.failures)),
		Duration:    duration,
	}
	s.Requests = s.Succeeded + s.Failed
	for k, v := range r.statusCodes {
		s.StatusCodes[k] = v
	}
	for k, v := range r.failures {
		s.Failures[k] = v
	}

	if r.latency.TotalCount() > 0 {
		s.Latency = Percentiles{
			Min:  micros(r.latency.Min()),
			Mean: micros(int64(r.latency.Mean())),
			P50:  micros(r.latency.ValueAtQuantile(50)),
			P90:  micros(r.latency.ValueAtQuantile(90)),
			P95:  micros(r.latency.ValueAtQuantile(95)),
			P99:  micros(r.latency.ValueAtQuantile(99)),
			Max:  micros(r.latency.Max()),
		}
	}
	return s
}
