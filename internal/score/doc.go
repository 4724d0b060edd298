// Package score computes the composite ranking key for every candidate of
// a family.
//
// Numeric tag fields (revision, version, prerelease versions) are first
// normalized family-wide: each digit run is zero-padded to the widest run
// seen at the same position in any sibling, so plain ordinal comparison of
// the resulting vectors is equivalent to numeric comparison. Because the
// padding width depends on the family, scores are never comparable across
// families.
package score
