// Package logging constructs the slog logger used for diagnostics and
// progress reporting.
//
// Diagnostics are a separate channel from primary output: loggers write to
// stderr (or wherever the caller points them) while selection results go
// to stdout untouched. The console handler favors short human-readable
// lines; the json format exists for machine consumption.
package logging
