package scrape

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/airchive/aircheck/internal/clock"
	"github.com/airchive/aircheck/internal/model"
)

// decodeText unescapes HTML entities and folds the Unicode spaces they
// produce (&nbsp; is U+00A0, &thinsp; is U+2009) into plain spaces. The
// extraction patterns match ASCII whitespace only, so this has to happen
// before any of them run.
func decodeText(pageHTML string) string {
	decoded := html.UnescapeString(pageHTML)
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII && unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, decoded)
}

// DefaultDuration is used when no air-time range can be found on the page.
const DefaultDuration = "02:00:00"

// ScheduleResult is the outcome of schedule extraction. The Defaulted
// flags let the caller note in the diagnostic stream when a documented
// default was used instead of an extracted value.
type ScheduleResult struct {
	Schedule          model.ShowSchedule
	DateDefaulted     bool
	DurationDefaulted bool
}

var monthNumbers = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var (
	datePattern = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)

	timeRangePattern = regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:AM|PM)?)\s*[-–—]\s*(\d{1,2}(?::\d{2})?\s*(?:AM|PM)?)\b`)

	showTitlePattern = regexp.MustCompile(`(?is)<h[1-6][^>]*class="[^"]*show[-_ ]?title[^"]*"[^>]*>(.*?)</h[1-6]>`)
	titleLinkPattern = regexp.MustCompile(`(?is)<a[^>]*>(.*?)</a>`)

	tagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ExtractSchedule pulls the air date and duration out of a show page.
//
// Both extractions are independent; a miss on either one produces its
// documented default (today's date, DefaultDuration) rather than an
// error. now supplies "today" so callers and tests control the clock.
func ExtractSchedule(pageHTML string, now time.Time) ScheduleResult {
	decoded := decodeText(pageHTML)

	res := ScheduleResult{}

	airDate, ok := extractAirDate(decoded)
	if !ok {
		airDate = now
		res.DateDefaulted = true
	}
	res.Schedule.AirDateISO = airDate.Format("2006-01-02")
	res.Schedule.AirDateDisplay = airDate.Format("Jan 2, 2006")

	duration, ok := extractDuration(decoded)
	if !ok {
		duration = DefaultDuration
		res.DurationDefaulted = true
	}
	res.Schedule.DurationHMS = duration

	return res
}

// extractAirDate finds the first month-name + day + 4-digit-year pattern.
func extractAirDate(decoded string) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(decoded)
	if m == nil {
		return time.Time{}, false
	}

	month, ok := monthNumbers[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// extractDuration finds a clock-time range ("4:00 PM – 6:00 PM") and
// computes its wraparound-aware length. Candidate ranges whose endpoints
// do not parse as clock times are skipped, which keeps year spans and
// phone numbers from being misread as air times.
func extractDuration(decoded string) (string, bool) {
	for _, m := range timeRangePattern.FindAllStringSubmatch(decoded, -1) {
		start, ok := clock.Parse(m[1])
		if !ok {
			continue
		}
		end, ok := clock.Parse(m[2])
		if !ok {
			continue
		}
		return clock.FormatDuration(clock.Delta(start, end)), true
	}
	return "", false
}

// ExtractShowTitle finds a heading tagged with a show-title class and
// returns the text of its nested link, stripped of markup and entities.
// Returns "" when no such heading exists; the caller falls back to the
// URL path segment.
func ExtractShowTitle(pageHTML string) string {
	decoded := decodeText(pageHTML)

	heading := showTitlePattern.FindStringSubmatch(decoded)
	if heading == nil {
		return ""
	}
	link := titleLinkPattern.FindStringSubmatch(heading[1])
	if link == nil {
		return ""
	}
	return StripTags(link[1])
}

// StripTags removes markup from an HTML fragment, decodes any remaining
// entities and collapses interior whitespace.
func StripTags(fragment string) string {
	text := tagPattern.ReplaceAllString(fragment, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// FormatStationLine renders the station attribution used in tags and the
// description document.
func FormatStationLine(stationName string) string {
	return fmt.Sprintf("Broadcast on %s", stationName)
}
