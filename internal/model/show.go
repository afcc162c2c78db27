package model

import (
	"net/url"
	"strings"
)

// UnknownStation is used when the source URL carries no station path segment.
const UnknownStation = "Unknown-Station"

// UnknownShow is used when neither the page nor the URL yields a show title.
const UnknownShow = "Unknown-Show"

// ShowIdentity names the show being exported.
//
// It is derived once from the source URL path and page markup and is
// immutable afterward. All artifact paths are keyed off it.
type ShowIdentity struct {
	// StationName is the first path segment of the source URL,
	// e.g. "wmbr" for https://platform.example/wmbr/show/late-night.
	StationName string

	// ShowSlug is the filename-safe show name used in artifact stems.
	ShowSlug string

	// ShowTitleDisplay is the human-readable show title used in tags
	// and the description document.
	ShowTitleDisplay string
}

// ShowSchedule holds the extracted (or defaulted) air date and duration.
type ShowSchedule struct {
	// AirDateISO is the air date as "2006-01-02".
	AirDateISO string

	// AirDateDisplay is the air date as "Jan 2, 2006".
	AirDateDisplay string

	// DurationHMS is the export duration as a fully zero-padded
	// "HH:MM:SS" string.
	DurationHMS string
}

// TrackEntry is one row of the show's tracklist.
type TrackEntry struct {
	// ClockTime is the wall-clock time the track aired, as printed on
	// the page (e.g. "4:05 PM").
	ClockTime string

	// Artist and Song are the credited performer and title. Song may be
	// empty when the page only lists an artist.
	Artist string
	Song   string

	// ChapterOffset is the elapsed time from the first tracklist entry,
	// formatted as "H:MM:SS". Empty until computed.
	ChapterOffset string
}

// StreamTarget is the resolved audio source for the show.
type StreamTarget struct {
	// ManifestURL is the absolute URL of the segmented audio manifest.
	ManifestURL string
}

// StationFromURL returns the station name encoded in a show page URL.
//
// The station is the first path segment; UnknownStation is returned when
// the URL has no usable path.
func StationFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return UnknownStation
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			return seg
		}
	}
	return UnknownStation
}

// SlugFromURL returns the final path segment of a show page URL, for use
// as a title fallback. Returns "" when the path is empty.
func SlugFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segs[len(segs)-1]
	return SanitizeFileName(last)
}

// NewShowIdentity builds a ShowIdentity from the source URL and the title
// extracted from the page markup.
//
// When extractedTitle is empty the final URL path segment is used; when
// that is also empty the identity falls back to UnknownShow.
func NewShowIdentity(rawURL, extractedTitle string) ShowIdentity {
	title := strings.TrimSpace(extractedTitle)
	if title == "" {
		title = SlugFromURL(rawURL)
	}
	if title == "" {
		title = UnknownShow
	}

	return ShowIdentity{
		StationName:      StationFromURL(rawURL),
		ShowSlug:         Slugify(title),
		ShowTitleDisplay: title,
	}
}

// Slugify converts a display title into a filename-safe slug: invalid
// characters are sanitized and interior whitespace becomes "-".
func Slugify(title string) string {
	s := SanitizeFileName(title)
	return strings.Join(strings.Fields(s), "-")
}
