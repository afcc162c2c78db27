package assemble

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airchive/aircheck/internal/model"
	"github.com/airchive/aircheck/internal/tool"
)

var (
	testIdentity = model.ShowIdentity{StationName: "wmbr", ShowSlug: "late-night", ShowTitleDisplay: "Late Night"}
	testSchedule = model.ShowSchedule{AirDateISO: "2024-03-08", AirDateDisplay: "Mar 8, 2024", DurationHMS: "02:00:00"}
)

func TestTagTitle(t *testing.T) {
	assert.Equal(t, "Late Night – Mar 8, 2024", TagTitle(testIdentity, testSchedule))
}

func TestAssembler_Audio(t *testing.T) {
	dir := t.TempDir()
	art := model.NewArtifacts(dir, testIdentity, testSchedule, model.ModeAudio)

	// A tagless MP3 stand-in; id3v2 prepends its header on save.
	require.NoError(t, os.WriteFile(art.NormalizedAudio, []byte{0xff, 0xfb, 0x90, 0x00}, 0644))
	require.NoError(t, os.WriteFile(art.Cover, []byte("png-bytes"), 0644))

	asm := NewAssembler(&tool.Fake{}, zerolog.Nop())
	require.NoError(t, asm.Audio(context.Background(), art, testIdentity, testSchedule))

	tag, err := id3v2.Open(art.FinalAudio, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "Late Night – Mar 8, 2024", tag.Title())
	assert.Equal(t, "wmbr", tag.Artist())
	assert.Equal(t, "Late Night", tag.Album())

	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	require.Len(t, pics, 1)
	assert.Equal(t, []byte("png-bytes"), pics[0].(id3v2.PictureFrame).Picture)
}

func TestWriteTags_StreamShorterThanTagHeader(t *testing.T) {
	// Under ten bytes the tag header itself cannot be read; the writer
	// must treat that like a tagless stream, not a failure.
	path := filepath.Join(t.TempDir(), "short.mp3")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfb}, 0644))

	require.NoError(t, writeTags(path, testIdentity, testSchedule, nil))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()
	assert.Equal(t, "wmbr", tag.Artist())
	assert.Equal(t, "Late Night", tag.Album())
}

func TestAssembler_AudioMissingCoverIsWarning(t *testing.T) {
	dir := t.TempDir()
	art := model.NewArtifacts(dir, testIdentity, testSchedule, model.ModeAudio)
	require.NoError(t, os.WriteFile(art.NormalizedAudio, []byte{0xff, 0xfb, 0x90, 0x00}, 0644))

	asm := NewAssembler(&tool.Fake{}, zerolog.Nop())
	require.NoError(t, asm.Audio(context.Background(), art, testIdentity, testSchedule))

	if _, err := os.Stat(art.FinalAudio); err != nil {
		t.Fatalf("final audio missing: %v", err)
	}
}

func TestAssembler_VideoArgs(t *testing.T) {
	dir := t.TempDir()
	art := model.NewArtifacts(dir, testIdentity, testSchedule, model.ModeVideo)
	fake := &tool.Fake{}

	// Stand in for the engine's staged output so the finalize rename
	// has something to move.
	require.NoError(t, os.WriteFile(art.FinalVideo+".part", []byte("mp4"), 0644))

	asm := NewAssembler(fake, zerolog.Nop())
	require.NoError(t, asm.Video(context.Background(), art, testIdentity, testSchedule))

	require.Len(t, fake.Calls, 1)
	cmd := strings.Join(fake.Calls[0], " ")

	assert.Contains(t, cmd, "-loop 1")
	assert.Contains(t, cmd, "-framerate 2")
	assert.Contains(t, cmd, "-tune stillimage")
	assert.Contains(t, cmd, "-preset ultrafast")
	assert.Contains(t, cmd, "scale=trunc(iw/2)*2:trunc(ih/2)*2")
	assert.Contains(t, cmd, "-g 300")
	assert.Contains(t, cmd, "-c:a copy")
	assert.Contains(t, cmd, "-shortest")
	assert.Contains(t, cmd, "title=Late Night – Mar 8, 2024")
	assert.Contains(t, cmd, filepath.Join(dir, "late-night-2024-03-08-video.mp4.part"))
	assert.FileExists(t, art.FinalVideo, "staged output must be renamed onto the artifact path")

	// Inputs: the cover frame and the normalized audio, in that order.
	assert.Contains(t, cmd, art.Cover)
	assert.Contains(t, cmd, art.NormalizedAudio)
}

func TestAssembler_VideoEngineFailure(t *testing.T) {
	art := model.NewArtifacts("/exports", testIdentity, testSchedule, model.ModeVideo)
	fake := &tool.Fake{Responses: []tool.FakeResponse{
		{Match: "", Output: "x264 blew up", Err: context.DeadlineExceeded},
	}}

	asm := NewAssembler(fake, zerolog.Nop())
	err := asm.Video(context.Background(), art, testIdentity, testSchedule)
	assert.Error(t, err)
}
