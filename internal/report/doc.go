// Package report renders human-readable tables describing a run: the
// active category filters, the effective sorting criteria, and the
// end-of-run selection summary.
package report
