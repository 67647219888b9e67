// Package logging builds the shared slog logger for putmig.
//
// Console and JSON handlers write to stderr so progress output on stdout
// stays machine-readable; an optional rotating file sink (lumberjack) mirrors
// everything for later inspection. Attr helpers keep field construction terse
// at call sites, and NewNop supplies a discard logger for tests.
package logging
