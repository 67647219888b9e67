// Package workflow drives the migration from scan to summary.
//
// The Manager authenticates, walks the remote tree, reconciles the result
// against the transfer ledger to find the pending set, and transfers items
// strictly one at a time: URL lookup, executor invocation, ledger update,
// optional autosave. Per-item failures are recorded and never unwind past
// the item loop; only authentication failure and an unwritable ledger are
// fatal. Cancellation is cooperative and observed between items, with a
// ledger flush before the run reports itself interrupted.
package workflow
