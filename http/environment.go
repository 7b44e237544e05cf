package http

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"golang.org/x/text/language"
)

// Version is the library version reported in the default User-Agent.
// It is set at build time with -ldflags "-X github.com/wesleyorama2/simplenet/http.Version=...".
var Version = "0.1.0"

const unknown = "Unknown"

// maxLanguages caps the number of entries in the default Accept-Language header.
const maxLanguages = 6

// Environment describes the calling application and host. It is only used to
// build default header values.
type Environment struct {
	AppName    string
	AppVersion string
	BundleID   string
	Build      string
	OSName     string
	OSVersion  string
	Languages  []string
}

// DetectEnvironment inspects the running process for application and host metadata.
// Fields that cannot be determined are set to "Unknown".
func DetectEnvironment() Environment {
	env := Environment{
		AppName:    unknown,
		AppVersion: unknown,
		BundleID:   unknown,
		Build:      unknown,
		OSName:     osName(runtime.GOOS),
		OSVersion:  orUnknown(osRelease()),
		Languages:  languagesFromEnv(os.Getenv),
	}

	if len(os.Args) > 0 && os.Args[0] != "" {
		env.AppName = filepath.Base(os.Args[0])
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path != "" {
			env.BundleID = info.Main.Path
		}
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			env.AppVersion = info.Main.Version
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				env.Build = shortRevision(s.Value)
			}
		}
	}

	return env
}

func osName(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "ios":
		return "iOS"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	case "android":
		return "Android"
	case "freebsd", "openbsd", "netbsd":
		return strings.ToUpper(goos[:1]) + goos[1:]
	default:
		return unknown
	}
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// languagesFromEnv reads POSIX locale variables in priority order.
// LANGUAGE may hold a colon-separated list.
func languagesFromEnv(getenv func(string) string) []string {
	var langs []string
	if v := getenv("LANGUAGE"); v != "" {
		langs = append(langs, strings.Split(v, ":")...)
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(key); v != "" {
			langs = append(langs, v)
		}
	}
	return langs
}

// normalizeLanguages converts locale names such as "en_US.UTF-8" to BCP 47
// tags, dropping invalid and duplicate entries and the POSIX "C" locale.
func normalizeLanguages(raw []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if i := strings.IndexAny(r, ".@"); i >= 0 {
			r = r[:i]
		}
		if r == "" || r == "C" || r == "POSIX" {
			continue
		}
		tag, err := language.Parse(strings.ReplaceAll(r, "_", "-"))
		if err != nil {
			continue
		}
		s := tag.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// DefaultAcceptEncoding returns the Accept-Encoding header sent when the
// caller does not set one. It lists the encodings the bundled transports decode.
func DefaultAcceptEncoding() Header {
	return AcceptEncoding(QualityEncoded(supportedEncodings))
}

// DefaultAcceptLanguage returns an Accept-Language header built from the
// environment's preferred languages, falling back to "en".
func DefaultAcceptLanguage(env Environment) Header {
	langs := normalizeLanguages(env.Languages)
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	if len(langs) > maxLanguages {
		langs = langs[:maxLanguages]
	}
	return AcceptLanguage(QualityEncoded(langs))
}

// DefaultUserAgent returns a User-Agent header describing the application,
// host, and library.
//
// Example: "billing/1.4.0 (github.com/acme/billing; build:3f2a9c1d0e4b; Linux amd64) simplenet/0.1.0"
func DefaultUserAgent(env Environment) Header {
	return UserAgent(orUnknown(env.AppName) + "/" + orUnknown(env.AppVersion) +
		" (" + orUnknown(env.BundleID) + "; build:" + orUnknown(env.Build) + "; " +
		orUnknown(env.OSName) + " " + orUnknown(env.OSVersion) + ") simplenet/" + Version)
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

// defaultHeaders returns the headers attached to every request unless the
// caller supplied their own value.
func defaultHeaders(env Environment) Headers {
	return Headers{
		DefaultUserAgent(env),
		DefaultAcceptEncoding(),
		DefaultAcceptLanguage(env),
	}
}
