package scrape

import (
	"fmt"
	"strings"

	"github.com/airchive/aircheck/internal/model"
)

// attributionLine closes every description document.
const attributionLine = "Archived with aircheck."

// Description renders the chapter-annotated description document that
// accompanies a video export.
//
// Layout: display title, display air date, station line, then (when any
// tracks were retained) a blank line and one line per track as
// "<offset> <artist> – <song>", a trailing blank line, and the closing
// attribution. A show without a tracklist still gets a document; the
// track block is simply omitted.
func Description(id model.ShowIdentity, sched model.ShowSchedule, tracks []model.TrackEntry) string {
	var b strings.Builder

	fmt.Fprintln(&b, id.ShowTitleDisplay)
	fmt.Fprintln(&b, sched.AirDateDisplay)
	fmt.Fprintln(&b, FormatStationLine(id.StationName))

	if len(tracks) > 0 {
		fmt.Fprintln(&b)
		for _, track := range tracks {
			fmt.Fprintln(&b, FormatTrackLine(track))
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, attributionLine)

	return b.String()
}

// FormatTrackLine renders one description line for a retained track.
// The song segment is omitted when the page only credited an artist.
func FormatTrackLine(track model.TrackEntry) string {
	if track.Song == "" {
		return fmt.Sprintf("%s %s", track.ChapterOffset, track.Artist)
	}
	return fmt.Sprintf("%s %s – %s", track.ChapterOffset, track.Artist, track.Song)
}
