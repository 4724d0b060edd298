// Package classify extracts release metadata from catalog entry names and
// expands each entry into selection candidates.
//
// Classification is pattern based and exact: a fixed vocabulary of tags
// (bad dump, BIOS, prerelease classes, revision, version, language lists)
// is tested against the parenthesized and bracketed segments of a name.
// Every region detected in the name, plus every region declared on the
// entry's releases, yields one candidate. Candidates sharing a clone-of
// parent form a family, the unit all later scoring and ranking works on.
package classify
