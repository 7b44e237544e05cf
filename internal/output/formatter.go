package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wesleyorama2/simplenet/http"
)

// Formatter is responsible for formatting HTTP requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  colors,
	}
}

// FormatRequest formats an HTTP request for display
func (f *Formatter) FormatRequest(req *http.ResolvedRequest) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.colors.Method.Sprint(req.Method),
		f.colors.URL.Sprint(req.URL.String())))

	if f.Verbose && len(req.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		f.writeHeaders(&buf, req.Headers)
	}

	if len(req.Body) > 0 {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(string(req.Body)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(resp *http.Response[http.Empty], elapsed time.Duration) string {
	var buf strings.Builder

	status := statusText(resp.Status)
	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s (%dms)\n",
		f.colors.Status(resp.Status).Sprint(status),
		elapsed.Milliseconds()))

	if resp.Result.Err != nil {
		buf.WriteString(fmt.Sprintf("  %s %s\n", ErrorIcon(f.NoColor), f.colors.Error.Sprint(resp.Result.Err.Error())))
	}

	if f.Verbose && len(resp.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		f.writeHeaders(&buf, resp.Headers)
	}

	if len(resp.RawBody) > 0 {
		buf.WriteString("  Body:\n  ")
		buf.WriteString(formatJSONString(string(resp.RawBody)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatBenchmark formats a bench summary for display
func (f *Formatter) FormatBenchmark(b *BenchmarkData) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("%s %s %s\n",
		f.colors.Highlight.Sprint("BENCHMARK:"),
		f.colors.Method.Sprint(b.Method),
		f.colors.URL.Sprint(b.URL)))
	buf.WriteString(fmt.Sprintf("  Requests:     %d (concurrency %d)\n", b.Requests, b.Concurrency))
	buf.WriteString(fmt.Sprintf("  Succeeded:    %s %d\n", SuccessIcon(f.NoColor), b.Succeeded))
	buf.WriteString(fmt.Sprintf("  Failed:       %s %d\n", ErrorIcon(f.NoColor), b.Failed))
	buf.WriteString(fmt.Sprintf("  Duration:     %dms\n", b.Duration))
	buf.WriteString(fmt.Sprintf("  Throughput:   %.2f req/s\n", b.RequestsPerSecond))

	buf.WriteString("  Latency:\n")
	buf.WriteString(fmt.Sprintf("    min %.2fms  mean %.2fms  max %.2fms\n", b.Latency.Min, b.Latency.Mean, b.Latency.Max))
	buf.WriteString(fmt.Sprintf("    p50 %.2fms  p90 %.2fms  p95 %.2fms  p99 %.2fms\n",
		b.Latency.P50, b.Latency.P90, b.Latency.P95, b.Latency.P99))

	if len(b.StatusCodes) > 0 {
		codes := make([]int, 0, len(b.StatusCodes))
		for code := range b.StatusCodes {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		buf.WriteString("  Status codes:\n")
		for _, code := range codes {
			buf.WriteString(fmt.Sprintf("    %s: %d\n", f.colors.Status(code).Sprint(code), b.StatusCodes[code]))
		}
	}

	if len(b.Failures) > 0 {
		kinds := make([]string, 0, len(b.Failures))
		for kind := range b.Failures {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		buf.WriteString("  Failures:\n")
		for _, kind := range kinds {
			buf.WriteString(fmt.Sprintf("    %s: %d\n", f.colors.Error.Sprint(kind), b.Failures[kind]))
		}
	}

	return buf.String()
}

func (f *Formatter) writeHeaders(buf *strings.Builder, headers http.Headers) {
	for _, h := range headers {
		buf.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.HeaderKey.Sprint(h.Name), h.Value))
	}
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
