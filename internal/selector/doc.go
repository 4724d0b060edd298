// Package selector walks ranked families and resolves the first eligible
// candidate against the hash index or the input repository.
//
// Resolution tolerates partial failure: a multi-file candidate counts as
// resolved when at least one of its files is located. A candidate whose
// name matches an exclude-after pattern aborts its whole family; a bad
// top match never falls through to a worse sibling.
package selector
