// Package selection drives the wallpaper rotation loop.
//
// A Cycle runs passes over the image pool. Each pass scans the configured
// directories, removes duplicate content, orders the pool, cuts it into
// chunks of exactly one wallpaper's worth of images and, for every chunk,
// checks sizes, probes dimensions, validates, and hands the result to a
// Renderer. Chunks that fail any check are skipped without waiting. A pass
// that emits nothing is fatal; otherwise the next pass rescans so new files
// are picked up.
//
// The machine is single threaded. Only hashing and dimension probing fan out,
// each bounded by the configured concurrency limit.
package selection
