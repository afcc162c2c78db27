// Package scrape extracts structured show facts from radio platform
// pages.
//
// Show pages are loosely structured and vary between stations, so every
// extraction is an ordered list of independent strategies over the same
// decoded markup, short-circuiting on the first non-empty result:
//
//   - Schedule: month-name date pattern and a clock-time range, each
//     falling back to a documented default (today / 02:00:00).
//   - Show title: a heading tagged with a show-title class, falling back
//     to the URL path (handled by model.NewShowIdentity).
//   - Stream manifest: a direct playlist URL, falling back to
//     reconstruction from the embedded player configuration.
//   - Tracklist: a tabular layout, falling back to class-tagged spin
//     blocks.
//
// HTML entities are decoded before any pattern matching; pages routinely
// encode spaces and punctuation as entities that would otherwise break a
// textual match.
//
// Only the stream manifest is allowed to fail: a show without a date or
// tracklist is still exportable, a show without audio is not.
package scrape
