package assemble

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	ioutils "github.com/airchive/aircheck/internal/io"
	"github.com/airchive/aircheck/internal/model"
	"github.com/airchive/aircheck/internal/tool"
)

// Assembler produces the final artifact for either output branch.
//
// Example:
//
//	asm := assemble.NewAssembler(runner, logger)
//	err := asm.Audio(ctx, art, id, sched)   // audio branch
//	err = asm.Video(ctx, art, id, sched)    // video branch
type Assembler struct {
	runner tool.Runner
	log    zerolog.Logger
}

// NewAssembler creates an Assembler using the given engine runner.
func NewAssembler(runner tool.Runner, log zerolog.Logger) *Assembler {
	return &Assembler{runner: runner, log: log}
}

// Audio builds the audio-branch artifact: the normalized audio copied to
// its final name, tagged, with the cover attached as a picture frame.
// No stream is re-encoded.
func (a *Assembler) Audio(ctx context.Context, art *model.Artifacts, id model.ShowIdentity, sched model.ShowSchedule) error {
	if err := ioutils.CopyFile(ctx, art.NormalizedAudio, art.FinalAudio); err != nil {
		return fmt.Errorf("copy normalized audio: %w", err)
	}

	artwork, err := os.ReadFile(art.Cover)
	if err != nil {
		// The resolver always produces a cover; a read failure here is
		// unexpected but not worth losing the export over.
		a.log.Warn().Err(err).Msg("cover unreadable, tagging without artwork")
		artwork = nil
	}

	if err := writeTags(art.FinalAudio, id, sched, artwork); err != nil {
		return fmt.Errorf("tag final audio: %w", err)
	}
	return nil
}

// Video builds the video-branch artifact: a static-image video track
// from the cover at a low frame rate, muxed with the normalized audio as
// a copy-codec stream.
func (a *Assembler) Video(ctx context.Context, art *model.Artifacts, id model.ShowIdentity, sched model.ShowSchedule) error {
	// The engine writes to a staging name; only a fully muxed file is
	// renamed onto the path the stage guard checks.
	staging := art.FinalVideo + ".part"
	args := videoArgs(art, id, sched, staging)
	if _, err := a.runner.Run(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("assemble video: %w", err)
	}
	if err := os.Rename(staging, art.FinalVideo); err != nil {
		return fmt.Errorf("finalize video: %w", err)
	}
	return nil
}

// videoArgs builds the engine invocation for the video branch.
//
//   - loop/framerate 2: a still frame needs no more
//   - stillimage tune + ultrafast preset: content never changes
//   - even-dimension scale: the encoder rejects odd sizes
//   - keyint 300: avoids a keyframe storm on static content
//   - -shortest: cap to the shorter stream (the audio, in practice)
func videoArgs(art *model.Artifacts, id model.ShowIdentity, sched model.ShowSchedule, outPath string) []string {
	return []string{
		"-hide_banner", "-nostats", "-y",
		"-loop", "1",
		"-framerate", "2",
		"-i", art.Cover,
		"-i", art.NormalizedAudio,
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-tune", "stillimage",
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
		"-pix_fmt", "yuv420p",
		"-g", "300",
		"-c:a", "copy",
		"-shortest",
		"-metadata", "title=" + TagTitle(id, sched),
		"-metadata", "artist=" + id.StationName,
		"-metadata", "album=" + id.ShowTitleDisplay,
		"-metadata", "date=" + sched.AirDateISO,
		"-f", "mp4",
		outPath,
	}
}
