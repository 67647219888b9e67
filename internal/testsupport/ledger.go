package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"putmig/internal/ledger"
	"putmig/internal/logging"
)

// NewLedger opens a ledger backed by a temp file with autosave effectively
// disabled, so tests control every persist explicitly.
func NewLedger(t testing.TB) *ledger.Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migration_state.json")
	return ledger.Open(path, time.Hour, logging.NewNop())
}

// OpenLedger opens a ledger at an explicit path, for reload-style tests.
func OpenLedger(t testing.TB, path string) *ledger.Ledger {
	t.Helper()
	return ledger.Open(path, time.Hour, logging.NewNop())
}
