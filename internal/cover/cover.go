// Package cover resolves the artwork for an export: a user-staged image
// when one is present in the working directory, otherwise a synthesized
// title card.
//
// The canvas depends on the output mode. Video exports get a widescreen
// 16:9 frame because the cover becomes the video track; audio exports
// get a square canvas because the cover becomes embedded artwork. This
// is a format accommodation, not a style choice.
package cover

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // staged cover decoding
	"image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/airchive/aircheck/internal/model"
)

// Canvas is the pixel size of the resolved cover.
type Canvas struct {
	Width  int
	Height int
}

// CanvasFor returns the cover canvas for an output mode: 1280x720 for
// video, 1400x1400 for embedded audio artwork.
func CanvasFor(mode model.OutputMode) Canvas {
	if mode == model.ModeVideo {
		return Canvas{Width: 1280, Height: 720}
	}
	return Canvas{Width: 1400, Height: 1400}
}

// Resolver produces the cover artifact for one export.
//
// Example:
//
//	res := cover.NewResolver(logger)
//	err := res.Resolve(art, id, sched)
type Resolver struct {
	log zerolog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(log zerolog.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve writes the cover image to art.Cover.
//
// A staged image (model.StagedCoverNames, checked in order) in the
// working directory is used when present, scaled to fit the mode's
// canvas. A staged image that cannot be read or decoded is a warning
// only; the resolver falls through to title-card synthesis, which always
// produces a usable cover. Only the final write can fail.
func (r *Resolver) Resolve(art *model.Artifacts, id model.ShowIdentity, sched model.ShowSchedule) error {
	canvas := CanvasFor(art.Mode)

	for _, name := range model.StagedCoverNames {
		staged := filepath.Join(art.WorkDir, name)
		img, err := loadImage(staged)
		if err != nil {
			if !os.IsNotExist(err) {
				r.log.Warn().Err(err).Str("path", staged).Msg("staged cover unusable, synthesizing title card")
			}
			continue
		}
		r.log.Info().Str("path", staged).Msg("using staged cover image")
		return writePNG(art.Cover, scaleToFit(img, canvas))
	}

	r.log.Info().
		Str("canvas", fmt.Sprintf("%dx%d", canvas.Width, canvas.Height)).
		Msg("no staged cover, synthesizing title card")
	card, err := renderTitleCard(canvas, id.ShowTitleDisplay, sched.AirDateDisplay)
	if err != nil {
		return fmt.Errorf("synthesize title card: %w", err)
	}
	return writePNG(art.Cover, card)
}

// loadImage reads and decodes a staged cover image.
func loadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// scaleToFit downscales an image to fit within the canvas, preserving
// aspect ratio and forcing even pixel dimensions (the video encoder
// rejects odd ones). Images already inside the canvas are only re-laid,
// not upscaled.
func scaleToFit(img image.Image, canvas Canvas) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > canvas.Width || height > canvas.Height {
		ratio := float64(width) / float64(height)
		if float64(canvas.Width)/float64(canvas.Height) > ratio {
			width = int(float64(canvas.Height) * ratio)
			height = canvas.Height
		} else {
			height = int(float64(canvas.Width) / ratio)
			width = canvas.Width
		}
	}

	width = evenDim(width)
	height = evenDim(height)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func evenDim(d int) int {
	d &^= 1
	if d < 2 {
		d = 2
	}
	return d
}

// writePNG encodes the cover artifact. Failure here is a filesystem
// failure and fatal to the pipeline.
func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}

	staging := path + ".part"
	if err := os.WriteFile(staging, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(staging, path)
}
