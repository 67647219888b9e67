// Package ledger persists per-file transfer state across runs.
//
// The ledger is a JSON document mapping each file's relative path to its
// transfer record (status, byte counts, retry count, last error). Saves are
// atomic (temp sibling + rename) so a crash can never leave a half-written
// file, and a corrupted ledger silently degrades to empty state because the
// executor's local size check makes re-downloading safe.
//
// Relative paths are the cross-run identity key; two remote items resolving
// to the same path would silently merge histories. That collision is a known
// limitation, not handled here. Concurrent processes sharing one ledger path
// are likewise unsupported: there is no file locking.
package ledger
