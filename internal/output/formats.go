package output

import (
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/simplenet/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a format name given on the command line.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req *http.ResolvedRequest) string
	FormatResponse(resp *http.Response[http.Empty], elapsed time.Duration) string
	FormatBenchmark(b *BenchmarkData) string
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	URL           string            `json:"url,omitempty" yaml:"url,omitempty"`
	StatusCode    int               `json:"statusCode" yaml:"statusCode"`
	Status        string            `json:"status" yaml:"status"`
	Result        string            `json:"result" yaml:"result"`
	Error         string            `json:"error,omitempty" yaml:"error,omitempty"`
	Headers       map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body          interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	ResponseTime  int64             `json:"responseTimeMs" yaml:"responseTimeMs"`
	Timestamp     string            `json:"timestamp" yaml:"timestamp"`
	ContentLength int64             `json:"contentLength,omitempty" yaml:"contentLength,omitempty"`
}

// LatencyData holds latency percentiles in milliseconds
type LatencyData struct {
	Min  float64 `json:"minMs" yaml:"minMs"`
	Mean float64 `json:"meanMs" yaml:"meanMs"`
	P50  float64 `json:"p50Ms" yaml:"p50Ms"`
	P90  float64 `json:"p90Ms" yaml:"p90Ms"`
	P95  float64 `json:"p95Ms" yaml:"p95Ms"`
	P99  float64 `json:"p99Ms" yaml:"p99Ms"`
	Max  float64 `json:"maxMs" yaml:"maxMs"`
}

// BenchmarkData summarizes a bench run
type BenchmarkData struct {
	Method            string         `json:"method" yaml:"method"`
	URL               string         `json:"url" yaml:"url"`
	Requests          int            `json:"requests" yaml:"requests"`
	Concurrency       int            `json:"concurrency" yaml:"concurrency"`
	Succeeded         int            `json:"succeeded" yaml:"succeeded"`
	Failed            int            `json:"failed" yaml:"failed"`
	Failures          map[string]int `json:"failures,omitempty" yaml:"failures,omitempty"`
	StatusCodes       map[int]int    `json:"statusCodes,omitempty" yaml:"statusCodes,omitempty"`
	Duration          int64          `json:"durationMs" yaml:"durationMs"`
	RequestsPerSecond float64        `json:"requestsPerSecond" yaml:"requestsPerSecond"`
	Latency           LatencyData    `json:"latency" yaml:"latency"`
}

// NewRequestData converts a resolved request into its serializable form
func NewRequestData(req *http.ResolvedRequest) RequestData {
	return RequestData{
		Method:    req.Method.String(),
		URL:       req.URL.String(),
		Headers:   headerMap(req.Headers),
		Body:      bodyValue(req.Body),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// NewResponseData converts a response into its serializable form
func NewResponseData(resp *http.Response[http.Empty], elapsed time.Duration) ResponseData {
	data := ResponseData{
		StatusCode:   resp.Status,
		Status:       statusText(resp.Status),
		Result:       resp.Result.String(),
		Headers:      headerMap(resp.Headers),
		Body:         bodyValue(resp.RawBody),
		ResponseTime: elapsed.Milliseconds(),
		Timestamp:    time.Now().Format(time.RFC3339),
	}
	if resp.URL != nil {
		data.URL = resp.URL.String()
	}
	if resp.Result.Err != nil {
		data.Error = resp.Result.Err.Error()
	}

	// Add content length if available
	if contentLength := resp.Headers.Get("Content-Length"); contentLength != "" {
		var length int64
		fmt.Sscanf(contentLength, "%d", &length)
		data.ContentLength = length
	}

	return data
}

func statusText(code int) string {
	if code == 0 {
		return "no response"
	}
	return fmt.Sprintf("%d %s", code, nethttp.StatusText(code))
}

func headerMap(headers http.Headers) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.Name] = h.Value
	}
	return m
}

// bodyValue decodes JSON bodies so they nest in the output, falling back to
// the raw string.
func bodyValue(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(kind string, v interface{}) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal %s: %s"}`, kind, err)
	}
	return string(output)
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req *http.ResolvedRequest) string {
	return f.marshal("request", NewRequestData(req))
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp *http.Response[http.Empty], elapsed time.Duration) string {
	return f.marshal("response", NewResponseData(resp, elapsed))
}

// FormatBenchmark formats a bench summary as JSON
func (f *JSONFormatter) FormatBenchmark(b *BenchmarkData) string {
	return f.marshal("benchmark", b)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(kind string, v interface{}) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal %s: %s", kind, err)
	}
	return "---\n" + string(output)
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req *http.ResolvedRequest) string {
	return f.marshal("request", NewRequestData(req))
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp *http.Response[http.Empty], elapsed time.Duration) string {
	return f.marshal("response", NewResponseData(resp, elapsed))
}

// FormatBenchmark formats a bench summary as YAML
func (f *YAMLFormatter) FormatBenchmark(b *BenchmarkData) string {
	return f.marshal("benchmark", b)
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}
