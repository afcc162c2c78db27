package scrape

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/airchive/aircheck/internal/model"
)

// ErrStreamNotFound is returned when neither locator strategy yields a
// manifest URL.
//
// This is the one extraction miss that is fatal to an export: without an
// audio source there is nothing to archive. It usually means the show
// page requires a signed-in session to expose its stream.
var ErrStreamNotFound = errors.New("no stream manifest found on page (the page may require authentication)")

// DefaultStreamHost is the streaming CDN domain the direct-scan strategy
// accepts manifest URLs from.
const DefaultStreamHost = "ark2.live"

// Locator resolves the manifest URL for a show's audio stream.
//
// Two strategies run in order, first match wins:
//
//  1. Direct scan for an absolute manifest URL on the streaming host.
//  2. Reconstruction from the page's stream-session data attribute and
//     the embedded ark2Player configuration object.
//
// Example:
//
//	loc := scrape.NewLocator()
//	target, err := loc.Resolve(pageHTML)
//	if errors.Is(err, scrape.ErrStreamNotFound) {
//	    // no audio source, the export cannot proceed
//	}
type Locator struct {
	// StreamHost is the domain suffix a directly scanned manifest URL
	// must belong to. Defaults to DefaultStreamHost.
	StreamHost string
}

// NewLocator creates a Locator for the default streaming host.
func NewLocator() *Locator {
	return &Locator{StreamHost: DefaultStreamHost}
}

var (
	manifestURLPattern = regexp.MustCompile(`https?://[^\s"'<>]+\.m3u8`)
	sessionIDPattern   = regexp.MustCompile(`data-(?:stream-)?start-session="(\d+)"`)
)

// playerConfig is the subset of the embedded ark2Player configuration
// needed to reconstruct a manifest URL.
type playerConfig struct {
	BaseURL string `json:"baseUrl"`
	Station string `json:"station"`
}

// Resolve returns the manifest URL for the show's audio.
//
// Returns ErrStreamNotFound when neither strategy yields a URL. A
// malformed player configuration (unparsable JSON, missing keys) is
// treated as "not found" rather than as a distinct error, since a direct
// manifest URL may still have matched on other pages.
func (l *Locator) Resolve(pageHTML string) (model.StreamTarget, error) {
	decoded := decodeText(pageHTML)

	if u := l.scanDirect(decoded); u != "" {
		return model.StreamTarget{ManifestURL: u}, nil
	}
	if u := l.reconstruct(decoded); u != "" {
		return model.StreamTarget{ManifestURL: u}, nil
	}
	return model.StreamTarget{}, ErrStreamNotFound
}

// scanDirect looks for an absolute manifest URL on the streaming host.
func (l *Locator) scanDirect(decoded string) string {
	for _, candidate := range manifestURLPattern.FindAllString(decoded, -1) {
		u, err := url.Parse(candidate)
		if err != nil {
			continue
		}
		host := u.Hostname()
		if host == l.StreamHost || strings.HasSuffix(host, "."+l.StreamHost) {
			return candidate
		}
	}
	return ""
}

// reconstruct rebuilds the manifest URL from the numeric stream-session
// attribute and the embedded player configuration:
//
//	<base>/<station>-<session>/index.m3u8
func (l *Locator) reconstruct(decoded string) string {
	m := sessionIDPattern.FindStringSubmatch(decoded)
	if m == nil {
		return ""
	}
	session := m[1]

	cfg, ok := extractPlayerConfig(decoded)
	if !ok || cfg.BaseURL == "" || cfg.Station == "" {
		return ""
	}

	return fmt.Sprintf("%s/%s-%s/index.m3u8",
		strings.TrimRight(cfg.BaseURL, "/"), cfg.Station, session)
}

// extractPlayerConfig finds the first balanced JSON object following the
// ark2Player marker and deserializes it. Any parse failure reports !ok;
// the locator treats that as the strategy simply not matching.
func extractPlayerConfig(decoded string) (playerConfig, bool) {
	idx := strings.Index(decoded, "ark2Player")
	if idx == -1 {
		return playerConfig{}, false
	}

	raw, ok := balancedObject(decoded[idx:])
	if !ok {
		return playerConfig{}, false
	}

	var cfg playerConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return playerConfig{}, false
	}
	return cfg, true
}

// balancedObject returns the first {...} object in s, tracking nesting
// depth and string literals so embedded braces do not end the scan early.
func balancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
