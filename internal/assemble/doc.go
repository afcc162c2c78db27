// Package assemble builds the terminal artifact of an export from the
// normalized audio and the resolved cover.
//
// # Audio branch
//
// The normalized audio is copied to its final name and tagged: title
// ("<show> – <date>"), artist (the station), album (the show), date, and
// the cover as an attached front-cover picture. The audio stream is
// never re-encoded here; attaching frames to an MP3 rewrites only the
// tag header.
//
// # Video branch
//
// The cover becomes a static video track (low frame rate, still-image
// tune, fixed keyframe interval) muxed with the normalized audio as a
// copy-codec stream, capped to the shorter of the two. Tags mirror the
// audio branch.
//
// Both branches are idempotent on their output artifact: a pre-existing
// final file is success, and the engine is not re-invoked.
package assemble
