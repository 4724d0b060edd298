// Package index builds the digest-to-path index used for hash-based
// candidate resolution.
//
// The repository tree is listed up front (largest files first, purely so
// progress feels steady), then hashed by a bounded worker pool. Zip
// archives contribute one digest per member stream in addition to the
// monolithic file digest. Workers never share state: each returns a local
// digest map, and the coordinator merges them after the pool drains. When
// the same digest is seen from both a loose file and an archive, the loose
// file's path wins; between equals, the first writer wins.
package index
