package httpx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/grafov/m3u8"
)

// ManifestInfo summarizes a fetched stream manifest for the diagnostic
// stream. The fetch tool re-reads the manifest itself, so this is purely
// informational.
type ManifestInfo struct {
	// Variants counts the renditions of a master playlist; zero for a
	// plain media playlist.
	Variants int

	// Segments counts the media segments of a media playlist.
	Segments uint

	// TargetDuration is the media playlist's advertised segment length
	// in seconds.
	TargetDuration float64
}

// String renders the summary the way it appears in the log.
func (mi ManifestInfo) String() string {
	if mi.Variants > 0 {
		return fmt.Sprintf("master playlist, %d variants", mi.Variants)
	}
	return fmt.Sprintf("%d segments, target duration %.0fs", mi.Segments, mi.TargetDuration)
}

// InspectManifest fetches the resolved manifest URL and decodes it.
//
// Callers treat any error here as a warning: a manifest that does not
// decode may still download fine through the fetch tool.
func (c *Client) InspectManifest(ctx context.Context, url string) (ManifestInfo, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return ManifestInfo{}, err
	}

	playlist, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), true)
	if err != nil {
		return ManifestInfo{}, fmt.Errorf("decode manifest: %w", err)
	}

	switch listType {
	case m3u8.MASTER:
		master := playlist.(*m3u8.MasterPlaylist)
		return ManifestInfo{Variants: len(master.Variants)}, nil
	case m3u8.MEDIA:
		media := playlist.(*m3u8.MediaPlaylist)
		return ManifestInfo{
			Segments:       media.Count(),
			TargetDuration: media.TargetDuration,
		}, nil
	default:
		return ManifestInfo{}, fmt.Errorf("unrecognized playlist type %d", listType)
	}
}
