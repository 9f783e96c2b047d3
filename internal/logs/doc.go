// Package logs reads the wallswitch log file for the logs command: the last
// lines on demand, and new lines as they are appended.
package logs
