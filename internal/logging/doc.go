// Package logging assembles structured slog loggers for wallswitch.
//
// It owns the console and JSON handlers, parses level names, opens every
// configured output, and fans records out to one handler per destination so
// that terminal output can be colorized while log files stay plain. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
