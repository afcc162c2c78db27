package cover

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airchive/aircheck/internal/model"
)

var (
	testIdentity = model.ShowIdentity{StationName: "wmbr", ShowSlug: "late-night", ShowTitleDisplay: "Late Night"}
	testSchedule = model.ShowSchedule{AirDateISO: "2024-03-08", AirDateDisplay: "Mar 8, 2024", DurationHMS: "02:00:00"}
)

func decodeCover(t *testing.T, path string) image.Image {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestCanvasFor_ModesDiffer(t *testing.T) {
	audio := CanvasFor(model.ModeAudio)
	video := CanvasFor(model.ModeVideo)

	// Audio artwork is square, video frames are widescreen.
	assert.Equal(t, audio.Width, audio.Height)
	assert.Equal(t, 16*video.Height, 9*video.Width)
	assert.NotEqual(t, audio, video)
}

func TestResolver_SynthesizesTitleCard(t *testing.T) {
	for _, mode := range []model.OutputMode{model.ModeAudio, model.ModeVideo} {
		t.Run(mode.String(), func(t *testing.T) {
			dir := t.TempDir()
			art := model.NewArtifacts(dir, testIdentity, testSchedule, mode)

			err := NewResolver(zerolog.Nop()).Resolve(art, testIdentity, testSchedule)
			require.NoError(t, err)

			img := decodeCover(t, art.Cover)
			canvas := CanvasFor(mode)
			assert.Equal(t, canvas.Width, img.Bounds().Dx())
			assert.Equal(t, canvas.Height, img.Bounds().Dy())
		})
	}
}

func TestResolver_UsesStagedCover(t *testing.T) {
	dir := t.TempDir()
	art := model.NewArtifacts(dir, testIdentity, testSchedule, model.ModeVideo)

	// Stage an oversized image; it must be scaled into the canvas with
	// even dimensions.
	staged := image.NewRGBA(image.Rect(0, 0, 3000, 2000))
	for i := range staged.Pix {
		staged.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, staged))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.png"), buf.Bytes(), 0644))

	err := NewResolver(zerolog.Nop()).Resolve(art, testIdentity, testSchedule)
	require.NoError(t, err)

	img := decodeCover(t, art.Cover)
	canvas := CanvasFor(model.ModeVideo)
	assert.LessOrEqual(t, img.Bounds().Dx(), canvas.Width)
	assert.LessOrEqual(t, img.Bounds().Dy(), canvas.Height)
	assert.Zero(t, img.Bounds().Dx()%2)
	assert.Zero(t, img.Bounds().Dy()%2)

	// Staged white image, not the dark synthesized card.
	r, _, _, _ := img.At(1, 1).RGBA()
	assert.Greater(t, r, uint32(0x8000))
}

func TestResolver_CorruptStagedCoverFallsThrough(t *testing.T) {
	dir := t.TempDir()
	art := model.NewArtifacts(dir, testIdentity, testSchedule, model.ModeAudio)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("not an image"), 0644))

	err := NewResolver(zerolog.Nop()).Resolve(art, testIdentity, testSchedule)
	require.NoError(t, err)

	// The synthesized card is produced despite the unusable staged file.
	img := decodeCover(t, art.Cover)
	assert.Equal(t, CanvasFor(model.ModeAudio).Width, img.Bounds().Dx())
}

func TestScaleToFit_NoUpscale(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 301, 200))
	out := scaleToFit(small, Canvas{Width: 1280, Height: 720})

	// Small images keep their size, rounded down to even dimensions.
	assert.Equal(t, 300, out.Bounds().Dx())
	assert.Equal(t, 200, out.Bounds().Dy())
}

func TestRenderTitleCard_Background(t *testing.T) {
	img, err := renderTitleCard(Canvas{Width: 320, Height: 180}, "Show", "Jan 1, 2024")
	require.NoError(t, err)

	assert.Equal(t, cardBackground, img.At(0, 0).(color.RGBA))
}
