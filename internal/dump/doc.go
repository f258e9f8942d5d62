// Package dump converts large SQL dump files into per-table CSV files.
// This package has no UI dependencies and can be used by any frontend.
//
// # Architecture
//
// The package is organized around a single [Parser] per dump file:
//
//  1. [NewParser] validates the dump path and configures encoding and
//     progress reporting.
//  2. [Parser.BuildIndex] streams the file once, segments it into
//     semicolon-terminated statements, and indexes CREATE TABLE and
//     INSERT INTO statements by table name.
//  3. [Parser.ExportTable] realizes one table's INSERT statements into
//     rows, deduplicates them, and writes the output files.
//
// # Output layout
//
// All output lands under SqlConversions/<dump-stem>/ next to the dump:
//
//	<dump-stem> - <table>.csv               unique, correctly-sized rows
//	<dump-stem> - <table>_wrong_length.txt  rows whose field count did not
//	                                        match the header (if any)
//	<dump-stem>_ErroredLines.txt            append-only parse error log,
//	                                        shared across tables
//
// Tables whose headers contain sensitive-data keywords (email, username,
// ip, ...) are routed into a "Good Ones/" subdirectory as a triage signal.
//
// # Error handling
//
// A single bad statement never aborts a table export: parse failures are
// logged to the shared error file and processing continues. Rows whose
// field count disagrees with the header are not errors; they go to the
// wrong-length file for a later repair pass (see the repair package).
// Only filesystem-level failures are fatal.
//
// # Tolerances
//
// This is not a SQL parser. Statement boundaries are detected textually
// (a line ending in ";"), so a semicolon ending a line inside a string
// literal terminates the statement early. Quote-escape detection inspects
// only the immediately preceding character, so a doubled backslash before
// a quote is misread. Both are deliberate tolerances that hold for the
// dumps this tool targets.
package dump
