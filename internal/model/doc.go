// Package model defines the core data structures used throughout the
// aircheck exporter.
//
// # Show identity and schedule
//
// ShowIdentity names the show being archived and ShowSchedule carries the
// extracted air date and duration:
//
//	id := model.NewShowIdentity(pageURL, "Late Night")
//	fmt.Println(id.StationName) // e.g. "wmbr"
//	fmt.Println(id.ShowSlug)    // "Late-Night"
//
// # Artifacts
//
// Artifacts computes the deterministic file paths that back the
// pipeline's resumption contract:
//
//	art := model.NewArtifacts(outDir, id, sched, model.ModeAudio)
//	fmt.Println(art.RawAudio) // where the stream download lands
//	fmt.Println(art.Final())  // the finished export
//
// Two exports of the same show and air date intentionally collide on the
// same paths so a re-run resumes instead of duplicating work.
package model
