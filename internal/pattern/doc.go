// Package pattern parses and applies the user-supplied name lists used for
// preferring, avoiding and excluding candidates.
//
// A list is either inline (entries joined by a configurable separator) or
// loaded from a file via the "file:" prefix, one entry per line. Entries
// are literal substrings unless regex mode is enabled, and matching
// optionally folds case. Both switches apply to every list of a run.
package pattern
