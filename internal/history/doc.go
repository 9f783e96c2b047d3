// Package history persists emitted wallpaper cycles in a SQLite database.
//
// Every emission is stored as one row per image with the run identifier,
// the monitor it was shown on, and the image metadata gathered by the
// selection pipeline. The store is optional: the pipeline runs without it.
package history
