// Package dat models and parses Logiqx-style DAT catalogs.
//
// A DAT file describes every known variant of a set of games: each <game>
// element carries a name, an optional cloneof reference to its parent, the
// declared releases with their region codes, and the ROM files with sizes
// and content digests. The parser keeps catalog order, which later stages
// rely on for input-order tie-breaks.
package dat
