package assemble

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2"

	"github.com/airchive/aircheck/internal/model"
)

// TagTitle renders the track title shared by both output branches.
func TagTitle(id model.ShowIdentity, sched model.ShowSchedule) string {
	return fmt.Sprintf("%s – %s", id.ShowTitleDisplay, sched.AirDateDisplay)
}

// writeTags writes the ID3 frames and attached cover picture to the
// final audio artifact.
//
// artwork may be nil, in which case only text frames are written.
func writeTags(path string, id model.ShowIdentity, sched model.ShowSchedule, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		// A stream too short to carry a tag header parses as an error,
		// not as "no tag". Reopen without parsing and write a fresh tag
		// ahead of the existing audio.
		tag, err = id3v2.Open(path, id3v2.Options{Parse: false})
		if err != nil {
			return err
		}
	}
	defer tag.Close()

	tag.SetTitle(TagTitle(id, sched))
	tag.SetArtist(id.StationName)
	tag.SetAlbum(id.ShowTitleDisplay)
	tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, sched.AirDateISO)
	tag.AddTextFrame("TYER", id3v2.EncodingUTF8, sched.AirDateISO[:4])

	if artwork != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/png",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	return tag.Save()
}
