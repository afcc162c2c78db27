// Package pipeline orchestrates a show export end to end.
//
// An export is an ordered table of stages, each tied to the on-disk
// artifact it produces. Before a stage runs its artifact path is
// checked; an existing file means the stage already completed in a
// previous run and is skipped. Interrupting an export at any point and
// re-running the same command therefore resumes after the last
// completed stage, with no state kept anywhere but the file system.
//
// Stage order: download, normalize, cover, then the mode's terminal
// stage (tag-and-copy for audio, describe plus still-image mux for
// video). A pre-existing final artifact short-circuits the whole run.
package pipeline
