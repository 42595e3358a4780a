// Package logtail reads the end of the client log file.
//
// The TUI writes zerolog JSON records to a file because it owns the
// terminal. Read returns the last N lines using a ring buffer, so memory is
// bounded by N rather than file size. Format turns the JSON records back
// into the human-readable console layout; lines that are not JSON pass
// through untouched.
package logtail
