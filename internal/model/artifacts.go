package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// OutputMode selects the terminal branch of the export pipeline.
type OutputMode int

const (
	// ModeAudio produces a single tagged audio file.
	ModeAudio OutputMode = iota

	// ModeVideo produces a still-image video plus a description document.
	ModeVideo
)

// String returns "audio" or "video".
func (m OutputMode) String() string {
	if m == ModeVideo {
		return "video"
	}
	return "audio"
}

// ParseOutputMode maps the CLI's format string to an OutputMode.
// Unrecognized values default to ModeAudio.
func ParseOutputMode(s string) OutputMode {
	if strings.EqualFold(strings.TrimSpace(s), "video") {
		return ModeVideo
	}
	return ModeAudio
}

// Artifacts holds the deterministic on-disk paths for every intermediate
// and final file of one export.
//
// Each path is derived from the show slug and air date, so re-running the
// same show/date lands on the same files. The pipeline uses bare
// existence checks on these paths to decide which stages to skip, which
// is what makes a partially completed export resumable.
//
// Example:
//
//	art := model.NewArtifacts("/exports", id, sched, model.ModeVideo)
//	// art.RawAudio        = /exports/late-night-2024-03-08-raw.mp3
//	// art.NormalizedAudio = /exports/late-night-2024-03-08-normalized.mp3
//	// art.Final()         = /exports/late-night-2024-03-08-video.mp4
type Artifacts struct {
	// WorkDir is the working/output directory all paths live under.
	WorkDir string

	// Mode selects which final artifact Final() reports.
	Mode OutputMode

	// RawAudio is the unprocessed stream download.
	RawAudio string

	// NormalizedAudio is the loudness-normalized re-encode of RawAudio.
	NormalizedAudio string

	// Cover is the resolved or synthesized cover image.
	Cover string

	// FinalAudio is the tagged audio-mode output.
	FinalAudio string

	// FinalVideo is the video-mode output.
	FinalVideo string

	// Description is the chapter-annotated description document
	// (video mode only).
	Description string
}

// StagedCoverNames are the conventional filenames checked in the working
// directory for a user-supplied cover image, in preference order.
var StagedCoverNames = []string{"cover.jpg", "cover.jpeg", "cover.png"}

// NewArtifacts computes all artifact paths for one show export.
func NewArtifacts(workDir string, id ShowIdentity, sched ShowSchedule, mode OutputMode) *Artifacts {
	stem := fmt.Sprintf("%s-%s", id.ShowSlug, sched.AirDateISO)

	join := func(suffix string) string {
		return filepath.Join(workDir, stem+suffix)
	}

	return &Artifacts{
		WorkDir:         workDir,
		Mode:            mode,
		RawAudio:        join("-raw.mp3"),
		NormalizedAudio: join("-normalized.mp3"),
		Cover:           join("-cover.png"),
		FinalAudio:      join(".mp3"),
		FinalVideo:      join("-video.mp4"),
		Description:     join("-tracklist.txt"),
	}
}

// Final returns the terminal artifact path for the selected mode.
func (a *Artifacts) Final() string {
	if a.Mode == ModeVideo {
		return a.FinalVideo
	}
	return a.FinalAudio
}

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Leading/trailing whitespace is removed
func SanitizeFileName(name string) string {
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	return strings.TrimSpace(name)
}
