// Package main hosts the wallswitch CLI entrypoint and command graph.
//
// Running wallswitch without a subcommand starts the rotation loop: it scans
// the configured directories, removes duplicate images, and keeps applying
// validated chunks of pictures as a multi-monitor wallpaper. Subcommands
// inspect the pool, the configuration, the emission history, and the
// external tools the rotation needs.
package main
