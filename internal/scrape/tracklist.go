package scrape

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/airchive/aircheck/internal/clock"
	"github.com/airchive/aircheck/internal/model"
)

// tracklistStrategies are tried in order; the first strategy yielding at
// least one entry wins.
var tracklistStrategies = []func(string) []model.TrackEntry{
	extractTableTracklist,
	extractBlockTracklist,
}

// ExtractTracklist pulls the per-track timeline out of a show page.
//
// Returns the raw chronological entries without chapter offsets; apply
// ApplyChapterOffsets before rendering. An empty result is not an error,
// some stations simply do not publish spins.
func ExtractTracklist(pageHTML string) []model.TrackEntry {
	decoded := decodeText(pageHTML)

	for _, strategy := range tracklistStrategies {
		if entries := strategy(decoded); len(entries) > 0 {
			return entries
		}
	}
	return nil
}

var (
	rowPattern  = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	cellPattern = regexp.MustCompile(`(?is)<t[dh][^>]*>(.*?)</t[dh]>`)

	clockTextPattern = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:AM|PM)?\b`)

	artistClassPattern = regexp.MustCompile(`(?is)<[a-z][a-z0-9]*[^>]*class="[^"]*\bartist\b[^"]*"[^>]*>(.*?)</`)
	songClassPattern   = regexp.MustCompile(`(?is)<[a-z][a-z0-9]*[^>]*class="[^"]*\bsong\b[^"]*"[^>]*>(.*?)</`)
)

// extractTableTracklist handles tabular tracklists. Each row needs at
// least three cells; the first clock-time cell anchors the scan and the
// next two non-empty cells after it are artist and song.
func extractTableTracklist(decoded string) []model.TrackEntry {
	var entries []model.TrackEntry

	for _, row := range rowPattern.FindAllStringSubmatch(decoded, -1) {
		cellMatches := cellPattern.FindAllStringSubmatch(row[1], -1)
		if len(cellMatches) < 3 {
			continue
		}

		cells := make([]string, len(cellMatches))
		for i, cm := range cellMatches {
			cells[i] = StripTags(cm[1])
		}

		timeIdx := -1
		for i, cell := range cells {
			if isClockTime(cell) {
				timeIdx = i
				break
			}
		}
		if timeIdx == -1 {
			continue
		}

		artist, song := "", ""
		for _, cell := range cells[timeIdx+1:] {
			if cell == "" {
				continue
			}
			if artist == "" {
				artist = cell
			} else {
				song = cell
				break
			}
		}
		if artist == "" {
			continue
		}

		entries = append(entries, model.TrackEntry{
			ClockTime: cells[timeIdx],
			Artist:    artist,
			Song:      song,
		})
	}

	return entries
}

// extractBlockTracklist handles spin-block layouts: container elements
// tagged with a spin/track class, each carrying a clock time plus either
// class-tagged artist/song sub-elements or plain inline text.
func extractBlockTracklist(decoded string) []model.TrackEntry {
	var entries []model.TrackEntry

	for _, tag := range []string{"div", "li"} {
		pattern := regexp.MustCompile(fmt.Sprintf(
			`(?is)<%[1]s[^>]*class="[^"]*\b(?:spin|track)[^"]*"[^>]*>(.*?)</%[1]s>`, tag))

		for _, block := range pattern.FindAllStringSubmatch(decoded, -1) {
			if entry, ok := parseSpinBlock(block[1]); ok {
				entries = append(entries, entry)
			}
		}
		if len(entries) > 0 {
			break
		}
	}

	return entries
}

// parseSpinBlock extracts one entry from a spin block's inner HTML.
func parseSpinBlock(inner string) (model.TrackEntry, bool) {
	clockTime := ""
	for _, candidate := range clockTextPattern.FindAllString(StripTags(inner), -1) {
		if isClockTime(candidate) {
			clockTime = strings.TrimSpace(candidate)
			break
		}
	}
	if clockTime == "" {
		return model.TrackEntry{}, false
	}

	artist, song := "", ""
	if m := artistClassPattern.FindStringSubmatch(inner); m != nil {
		artist = StripTags(m[1])
	}
	if m := songClassPattern.FindStringSubmatch(inner); m != nil {
		song = StripTags(m[1])
	}

	if artist == "" {
		// No class-tagged sub-elements; treat the first two inline-text
		// children that are not clock times as artist then song.
		texts := inlineTexts(inner)
		if len(texts) > 0 {
			artist = texts[0]
		}
		if len(texts) > 1 {
			song = texts[1]
		}
	}
	if artist == "" {
		return model.TrackEntry{}, false
	}

	return model.TrackEntry{ClockTime: clockTime, Artist: artist, Song: song}, true
}

// inlineTexts returns the non-empty text segments of an HTML fragment,
// in document order, skipping segments that are themselves clock times.
func inlineTexts(inner string) []string {
	var texts []string
	for _, seg := range tagPattern.Split(inner, -1) {
		text := strings.Join(strings.Fields(html.UnescapeString(seg)), " ")
		if text == "" || isClockTime(text) {
			continue
		}
		texts = append(texts, text)
	}
	return texts
}

func isClockTime(s string) bool {
	_, ok := clock.Parse(s)
	return ok
}

// ApplyChapterOffsets computes each entry's chapter offset relative to
// the first entry's clock time and drops entries whose offset reaches
// the effective export duration.
//
// Offsets are wraparound-aware, so a tracklist crossing midnight stays
// monotonically non-decreasing. The gate is on the export duration, not
// the calendar day: a 15:00 offset is dropped from a 10-minute export
// even though it aired the same night.
func ApplyChapterOffsets(entries []model.TrackEntry, durationSeconds int) []model.TrackEntry {
	if len(entries) == 0 {
		return nil
	}

	first, ok := clock.Parse(entries[0].ClockTime)
	if !ok {
		return nil
	}

	var retained []model.TrackEntry
	for _, entry := range entries {
		t, ok := clock.Parse(entry.ClockTime)
		if !ok {
			continue
		}
		offset := clock.Delta(first, t)
		if offset >= durationSeconds {
			continue
		}
		entry.ChapterOffset = clock.FormatChapter(offset)
		retained = append(retained, entry)
	}
	return retained
}
