package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the path to the invalid field
	Path string

	// Message describes the validation error
	Message string
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every problem found in a file.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Validate checks the file and returns every validation error found.
// An empty result indicates the file is valid.
//
// Example:
//
//	if errs := config.Validate(file); len(errs) > 0 {
//	    for _, err := range errs {
//	        log.Printf("Validation error: %s", err)
//	    }
//	}
func Validate(file *File) ValidationErrors {
	var errors ValidationErrors

	if len(file.Profiles) == 0 {
		errors = append(errors, ValidationError{
			Path:    "profiles",
			Message: "at least one profile is required",
		})
	}

	if file.Default != "" {
		if _, ok := file.Profiles[file.Default]; !ok {
			errors = append(errors, ValidationError{
				Path:    "default",
				Message: fmt.Sprintf("profile %q is not defined", file.Default),
			})
		}
	}

	for _, name := range file.Names() {
		p := file.Profiles[name]
		prefix := "profiles." + name

		if p.BaseURL == "" {
			errors = append(errors, ValidationError{
				Path:    prefix + ".baseUrl",
				Message: "baseUrl is required",
			})
		} else if u, err := url.Parse(p.BaseURL); err != nil || !u.IsAbs() || u.Host == "" {
			errors = append(errors, ValidationError{
				Path:    prefix + ".baseUrl",
				Message: fmt.Sprintf("baseUrl must be an absolute URL, got %q", p.BaseURL),
			})
		}

		if p.Timeout != "" {
			if d, err := time.ParseDuration(p.Timeout); err != nil || d <= 0 {
				errors = append(errors, ValidationError{
					Path:    prefix + ".timeout",
					Message: fmt.Sprintf("timeout must be a positive duration, got %q", p.Timeout),
				})
			}
		}

		switch p.Transport {
		case "", TransportNet:
		case TransportResty:
			if p.HTTP2 {
				errors = append(errors, ValidationError{
					Path:    prefix + ".http2",
					Message: "http2 is only supported by the net transport",
				})
			}
		default:
			errors = append(errors, ValidationError{
				Path:    prefix + ".transport",
				Message: fmt.Sprintf("transport must be %q or %q, got %q", TransportNet, TransportResty, p.Transport),
			})
		}

		for header := range p.Headers {
			if strings.TrimSpace(header) == "" || strings.ContainsAny(header, ": \t") {
				errors = append(errors, ValidationError{
					Path:    prefix + ".headers",
					Message: fmt.Sprintf("invalid header name %q", header),
				})
			}
		}
	}

	return errors
}
