// Package logging builds the slog loggers used across uttale.
//
// It provides a compact console handler for interactive use, a JSON handler
// for machine consumption, and small attribute helpers so call sites stay
// terse. Format "auto" picks console when stdout is a terminal and JSON
// otherwise.
package logging
