// Package instance keeps a single wallswitch rotation running per state
// directory.
//
// An exclusive flock on the lock file marks the running instance and a pid
// file next to it lets later invocations stop or replace it with SIGTERM.
package instance
