// Package scanner discovers the remote file tree eligible for migration.
//
// A depth-first walk over the put.io folder hierarchy builds a Node tree
// rooted at a synthetic entry with ID 0 and an empty path, applying the
// configured inclusion filters to every file. Folder listing failures are
// absorbed so a single unreadable subtree never aborts discovery of the rest
// of the account. Progress snapshots stream to an optional observer by value,
// keeping the scan free of shared mutable state.
package scanner
