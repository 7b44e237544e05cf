package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/simplenet/config"
	"github.com/wesleyorama2/simplenet/http"
)

// target is the client a command sends through, and the path to send to.
type target struct {
	client     *http.Client
	path       string
	ignoreBase bool
}

// newTarget picks the client for raw. With a config file, raw is a path
// relative to the profile's base URL unless it is itself an absolute URL.
// Without one, raw is a full URL and the client is built from its origin.
func newTarget(cmd *cobra.Command, raw string, extra ...http.ClientOption) (*target, error) {
	flags := cmd.Flags()
	debug, _ := flags.GetBool("debug")
	timeout, _ := flags.GetDuration("timeout")
	configPath, _ := flags.GetString("config")
	profileName, _ := flags.GetString("profile")
	if configPath == "" {
		configPath = os.Getenv(envConfig)
	}
	if profileName == "" {
		profileName = os.Getenv(envProfile)
	}

	options := []http.ClientOption{http.WithLogger(newLogger(cmd.ErrOrStderr()))}
	if debug {
		options = append(options, http.WithDebug(true))
	}
	options = append(options, extra...)

	if configPath != "" {
		file, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		profile, err := file.Profile(profileName)
		if err != nil {
			return nil, err
		}
		if flags.Changed("timeout") {
			profile.Timeout = timeout.String()
		}
		client, err := profile.NewClient(options...)
		if err != nil {
			return nil, err
		}
		return &target{client: client, path: raw, ignoreBase: isAbsoluteURL(raw)}, nil
	}

	if profileName != "" {
		return nil, fmt.Errorf("--profile needs a config file (--config or $%s)", envConfig)
	}

	baseURL, fullURL := parseURL(raw)
	client, err := http.NewClient(baseURL, append([]http.ClientOption{http.WithTimeout(timeout)}, options...)...)
	if err != nil {
		return nil, err
	}
	return &target{client: client, path: fullURL, ignoreBase: true}, nil
}

// parseURL splits a URL into its origin and the full URL to request.
// A missing scheme defaults to http. Fragments are dropped.
func parseURL(rawURL string) (string, string) {
	// Add scheme if missing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "http://" + rawURL
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, rawURL
	}
	parsedURL.Fragment = ""
	parsedURL.RawFragment = ""

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	// Include user info in the base URL if present
	if parsedURL.User != nil {
		baseURL = fmt.Sprintf("%s://%s@%s", parsedURL.Scheme, parsedURL.User.String(), parsedURL.Host)
	}

	return baseURL, parsedURL.String()
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && u.Host != ""
}

// requestTimeout returns the --timeout value.
func requestTimeout(cmd *cobra.Command) time.Duration {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return timeout
}
