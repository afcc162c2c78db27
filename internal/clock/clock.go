// Package clock implements the time-of-day arithmetic used by the show
// metadata and tracklist extractors.
//
// Clock strings on show pages appear in both 12-hour ("4:00 PM", "4:00PM",
// "4 PM") and 24-hour ("16:00") forms. Parsing is lenient: unparsable
// input yields a "not a time" result rather than an error, because every
// caller has a documented fallback.
//
// Two output conventions coexist and both are load-bearing:
//
//	clock.FormatChapter(3900)  // "1:05:00"  (chapter markers)
//	clock.FormatDuration(3900) // "01:05:00" (duration fields)
package clock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimeOfDay is a clock time expressed as seconds since midnight.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(?i:(AM|PM))?$`)

// Parse interprets a clock-time string in 12-hour or 24-hour form.
//
// The second return value reports whether the input was recognized.
// A bare hour ("16") without minutes or an AM/PM suffix is rejected,
// since it is indistinguishable from ordinary page text.
func Parse(s string) (TimeOfDay, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}

	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return 0, false
		}
	}

	meridiem := strings.ToUpper(m[3])
	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		// 24-hour form needs explicit minutes.
		if m[2] == "" || hour > 23 {
			return 0, false
		}
	}

	return TimeOfDay(hour*3600 + minute*60), true
}

// Delta returns the number of seconds from a to b.
//
// When b precedes a, b is taken to be on the following day, so a show
// that crosses midnight ("11:00 PM" to "1:00 AM") yields a positive
// two-hour delta rather than a negative one.
func Delta(a, b TimeOfDay) int {
	d := int(b) - int(a)
	if d < 0 {
		d += secondsPerDay
	}
	return d
}

// FormatChapter formats a second count as "H:MM:SS" with no leading zero
// on the hour, the convention used for chapter markers.
func FormatChapter(seconds int) string {
	h, m, s := split(seconds)
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatDuration formats a second count as fully zero-padded "HH:MM:SS",
// the convention used for duration fields.
func FormatDuration(seconds int) string {
	h, m, s := split(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseDuration parses a fully padded "HH:MM:SS" duration back into
// seconds. Used to apply duration overrides and the tracklist gate.
func ParseDuration(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed duration %q", s)
	}
	var total int
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("malformed duration %q", s)
		}
		total = total*60 + n
	}
	return total, nil
}

func split(seconds int) (h, m, s int) {
	if seconds < 0 {
		seconds = 0
	}
	return seconds / 3600, seconds % 3600 / 60, seconds % 60
}
