package config

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/simplenet/http"
)

// File is the top-level structure of a profile file.
type File struct {
	// Default is the profile used when none is requested
	Default string `json:"default,omitempty" yaml:"default,omitempty"`

	// Profiles maps a name to a backend configuration
	Profiles map[string]Profile `json:"profiles" yaml:"profiles"`
}

// Profile configures one client.
type Profile struct {
	BaseURL   string            `json:"baseUrl" yaml:"baseUrl"`
	Timeout   string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Debug     bool              `json:"debug,omitempty" yaml:"debug,omitempty"`
	HTTP2     bool              `json:"http2,omitempty" yaml:"http2,omitempty"`
	Insecure  bool              `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	Transport string            `json:"transport,omitempty" yaml:"transport,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
	App       App               `json:"app,omitempty" yaml:"app,omitempty"`
}

// App overrides the detected application metadata sent in the User-Agent.
type App struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Bundle  string `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Build   string `json:"build,omitempty" yaml:"build,omitempty"`
}

const (
	TransportNet   = "net"
	TransportResty = "resty"
)

// DefaultTimeout applies when a profile does not set one.
const DefaultTimeout = 30 * time.Second

// Load reads a profile file from path and validates it.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	file, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	if errs := Validate(file); len(errs) > 0 {
		return nil, errs
	}
	return file, nil
}

// Parse decodes profile data. The format is chosen by the extension of path:
// .json is JSON, anything else is YAML.
func Parse(data []byte, path string) (*File, error) {
	var file File

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	return &file, nil
}

// Profile returns the named profile, or the default one when name is empty.
// A file with a single profile and no default uses that profile.
func (f *File) Profile(name string) (*Profile, error) {
	if name == "" {
		name = f.Default
	}
	if name == "" && len(f.Profiles) == 1 {
		for only := range f.Profiles {
			name = only
		}
	}
	if name == "" {
		return nil, fmt.Errorf("no profile selected and no default set (available: %s)",
			strings.Join(f.Names(), ", "))
	}

	p, ok := f.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile not found: %s", name)
	}
	return &p, nil
}

// Names returns the profile names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TimeoutDuration parses Timeout, returning DefaultTimeout when it is unset.
func (p *Profile) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", p.Timeout, err)
	}
	return d, nil
}

// DefaultHeaders returns the profile headers with variables substituted,
// sorted by name.
func (p *Profile) DefaultHeaders() http.Headers {
	names := make([]string, 0, len(p.Headers))
	for name := range p.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	var headers http.Headers
	for _, name := range names {
		headers.Update(name, Expand(p.Headers[name], p.Variables))
	}
	return headers
}

// Expand replaces {{name}} references with values from vars, falling back to
// the process environment. Unknown references are left in place.
//
// Example:
//
//	Expand("Bearer {{token}}", map[string]string{"token": "abc"}) // "Bearer abc"
func Expand(input string, vars map[string]string) string {
	var sb strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			break
		}
		name := strings.TrimSpace(rest[start+2 : start+2+end])
		sb.WriteString(rest[:start])
		if v, ok := lookup(name, vars); ok {
			sb.WriteString(v)
		} else {
			sb.WriteString(rest[start : start+4+end])
		}
		rest = rest[start+4+end:]
	}
	sb.WriteString(rest)
	return sb.String()
}

func lookup(name string, vars map[string]string) (string, bool) {
	if v, ok := vars[name]; ok {
		return v, true
	}
	return os.LookupEnv(name)
}

// Environment merges the App overrides into the detected environment.
func (p *Profile) Environment() http.Environment {
	env := http.DetectEnvironment()
	if p.App.Name != "" {
		env.AppName = p.App.Name
	}
	if p.App.Version != "" {
		env.AppVersion = p.App.Version
	}
	if p.App.Bundle != "" {
		env.BundleID = p.App.Bundle
	}
	if p.App.Build != "" {
		env.Build = p.App.Build
	}
	return env
}

// ClientOptions translates the profile into client options.
func (p *Profile) ClientOptions() ([]http.ClientOption, error) {
	timeout, err := p.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	options := []http.ClientOption{
		http.WithDebug(p.Debug),
		http.WithEnvironment(p.Environment()),
	}
	if headers := p.DefaultHeaders(); len(headers) > 0 {
		options = append(options, http.WithDefaultHeaders(headers...))
	}

	switch p.Transport {
	case "", TransportNet:
		var netOptions []http.NetTransportOption
		netOptions = append(netOptions, http.WithTransportTimeout(timeout))
		if p.HTTP2 {
			netOptions = append(netOptions, http.WithHTTP2())
		}
		if p.Insecure {
			netOptions = append(netOptions, http.WithInsecureSkipVerify())
		}
		t, err := http.NewNetTransport(netOptions...)
		if err != nil {
			return nil, err
		}
		options = append(options, http.WithTransport(t))
	case TransportResty:
		rc := resty.New().SetTimeout(timeout)
		if p.Insecure {
			rc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
		}
		options = append(options, http.WithTransport(http.NewRestyTransportFromClient(rc)))
	default:
		return nil, fmt.Errorf("unknown transport %q", p.Transport)
	}

	return options, nil
}

// NewClient builds a client from the profile. Extra options are applied last.
func (p *Profile) NewClient(extra ...http.ClientOption) (*http.Client, error) {
	options, err := p.ClientOptions()
	if err != nil {
		return nil, err
	}
	return http.NewClient(p.BaseURL, append(options, extra...)...)
}
