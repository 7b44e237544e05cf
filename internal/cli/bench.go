package cli

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/simplenet/http"
	"github.com/wesleyorama2/simplenet/internal/bench"
	"github.com/wesleyorama2/simplenet/internal/output"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench URL",
		Short: "Send the same request many times and report latency percentiles",
		Args:  cobra.ExactArgs(1),
		RunE:  runBench,
	}

	cmd.Flags().IntP("requests", "n", 100, "Total number of requests")
	cmd.Flags().IntP("concurrency", "c", 10, "Requests in flight at once")
	cmd.Flags().Float64P("rate", "r", 0, "Maximum requests started per second (0 for unlimited)")
	cmd.Flags().StringP("method", "X", "GET", "HTTP method")
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include as 'Name: value' (can be used multiple times)")
	cmd.Flags().StringArrayP("param", "p", []string{}, "Parameters as key=value (can be used multiple times)")
	cmd.Flags().StringP("data", "d", "", "Raw request body, or @file to read it from a file")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while the run lasts")
	return cmd
}

func runBench(cmd *cobra.Command, args []string) error {
	requests, _ := cmd.Flags().GetInt("requests")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	rateLimit, _ := cmd.Flags().GetFloat64("rate")
	methodFlag, _ := cmd.Flags().GetString("method")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	outputFlag, _ := cmd.Flags().GetString("output")
	noColorFlag, _ := cmd.Flags().GetBool("no-color")

	method, err := parseMethod(methodFlag)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(outputFlag)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics, err := http.NewMetrics(registry)
	if err != nil {
		return err
	}

	t, err := newTarget(cmd, args[0], http.WithMetrics(metrics))
	if err != nil {
		return err
	}
	req, err := buildRequest(cmd, method, t)
	if err != nil {
		return err
	}
	resolved, err := t.client.Resolve(req)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		stop := serveMetrics(cmd, metricsAddr, registry)
		defer stop()
	}

	summary, err := bench.Run(cmd.Context(), t.client, req, bench.Config{
		Requests:    requests,
		Concurrency: concurrency,
		Rate:        rateLimit,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	out := cmd.OutOrStdout()
	formatter := output.GetFormatter(format, false, output.ColorDisabled(out, noColorFlag))
	fmt.Fprint(out, formatter.FormatBenchmark(benchmarkData(resolved, summary, concurrency)))
	return err
}

func parseMethod(s string) (http.Method, error) {
	switch m := http.Method(strings.ToUpper(s)); m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported method %q", s)
	}
}

// serveMetrics exposes registry on addr/metrics until the returned func is called.
func serveMetrics(cmd *cobra.Command, addr string, registry *prometheus.Registry) func() {
	mux := nethttp.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &nethttp.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			fmt.Fprintf(cmd.ErrOrStderr(), "metrics server: %v\n", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}

func benchmarkData(req *http.ResolvedRequest, s bench.Summary, concurrency int) *output.BenchmarkData {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

	return &output.BenchmarkData{
		Method:            req.Method.String(),
		URL:               req.URL.String(),
		Requests:          s.Requests,
		Concurrency:       concurrency,
		Succeeded:         s.Succeeded,
		Failed:            s.Failed,
		Failures:          s.Failures,
		StatusCodes:       s.StatusCodes,
		Duration:          s.Duration.Milliseconds(),
		RequestsPerSecond: s.RequestsPerSecond(),
		Latency: output.LatencyData{
			Min:  ms(s.Latency.Min),
			Mean: ms(s.Latency.Mean),
			P50:  ms(s.Latency.P50),
			P90:  ms(s.Latency.P90),
			P95:  ms(s.Latency.P95),
			P99:  ms(s.Latency.P99),
			Max:  ms(s.Latency.Max),
		},
	}
}
