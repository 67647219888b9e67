package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"putmig/internal/logging"
)

// Ledger is the durable record of per-file transfer state. It follows a
// single-writer model: operations are synchronous and callers must not share
// one Ledger across goroutines without their own serialization.
type Ledger struct {
	path     string
	autosave time.Duration
	lastSave time.Time
	logger   *slog.Logger
	state    document
}

// Open loads the ledger at path, or initializes an empty one when the file is
// missing. A file that exists but cannot be parsed degrades to empty state:
// a corrupted ledger must never block a migration, it only costs re-checking
// files that already exist locally.
func Open(path string, autosaveInterval time.Duration, logger *slog.Logger) *Ledger {
	l := &Ledger{
		path:     path,
		autosave: autosaveInterval,
		logger:   logging.NewComponentLogger(logger, "ledger"),
	}
	l.load()
	return l
}

func (l *Ledger) load() {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("ledger unreadable, starting fresh",
				logging.String("path", l.path), logging.Error(err))
		}
		l.initEmpty()
		return
	}

	var state document
	if err := json.Unmarshal(data, &state); err != nil {
		l.logger.Warn("ledger corrupted, starting fresh",
			logging.String("path", l.path), logging.Error(err))
		l.initEmpty()
		return
	}
	if state.Files == nil {
		state.Files = make(map[string]Record)
	}
	if state.MigrationID == "" {
		state.MigrationID = uuid.NewString()
	}
	if state.MigrationStartTime == "" {
		state.MigrationStartTime = timestamp(time.Now())
	}
	l.state = state
}

func (l *Ledger) initEmpty() {
	l.state = document{
		MigrationID:        uuid.NewString(),
		Files:              make(map[string]Record),
		MigrationStartTime: timestamp(time.Now()),
	}
}

// Save serializes the full document and atomically replaces the backing file
// (temp sibling + rename), so a crash mid-write never leaves a torn ledger.
func (l *Ledger) Save() error {
	data, err := json.MarshalIndent(l.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger temp file: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace ledger: %w", err)
	}

	l.lastSave = time.Now()
	return nil
}

// MaybeAutosave persists only when the autosave interval has elapsed since
// the last save. Amortization, not correctness: an explicit Save always runs
// at the end of a run and on interruption.
func (l *Ledger) MaybeAutosave() error {
	if time.Since(l.lastSave) < l.autosave {
		return nil
	}
	return l.Save()
}

// MarkCompleted replaces the record for path with a completed entry. The
// retry count and error message reset because a completed transfer has no
// outstanding failure.
func (l *Ledger) MarkCompleted(path string, totalBytes int64) {
	l.state.Files[path] = Record{
		TotalBytes:      totalBytes,
		DownloadedBytes: totalBytes,
		Status:          StatusCompleted,
		LastUpdated:     timestamp(time.Now()),
	}
}

// MarkFailed transitions path to failed, bumping the retry count when a
// record already exists.
func (l *Ledger) MarkFailed(path, message string) {
	record, ok := l.state.Files[path]
	if !ok {
		record = Record{}
	}
	record.Status = StatusFailed
	record.ErrorMessage = message
	record.RetryCount++
	record.LastUpdated = timestamp(time.Now())
	l.state.Files[path] = record
}

// MarkInProgress records a transfer that has started but not finished.
func (l *Ledger) MarkInProgress(path string, totalBytes, downloadedBytes int64) {
	l.state.Files[path] = Record{
		TotalBytes:      totalBytes,
		DownloadedBytes: downloadedBytes,
		Status:          StatusInProgress,
		LastUpdated:     timestamp(time.Now()),
	}
}

// IsCompleted reports whether path finished transferring in any prior run.
func (l *Ledger) IsCompleted(path string) bool {
	record, ok := l.state.Files[path]
	return ok && record.Status == StatusCompleted
}

// Record returns the entry for path if one exists.
func (l *Ledger) Record(path string) (Record, bool) {
	record, ok := l.state.Files[path]
	return record, ok
}

// FilesWithStatus returns a copy of every record currently in the given status.
func (l *Ledger) FilesWithStatus(status Status) map[string]Record {
	out := make(map[string]Record)
	for path, record := range l.state.Files {
		if record.Status == status {
			out[path] = record
		}
	}
	return out
}

// CompletedFiles returns all completed records.
func (l *Ledger) CompletedFiles() map[string]Record { return l.FilesWithStatus(StatusCompleted) }

// FailedFiles returns all failed records.
func (l *Ledger) FailedFiles() map[string]Record { return l.FilesWithStatus(StatusFailed) }

// InProgressFiles returns records left in progress, typically by a prior
// interrupted run.
func (l *Ledger) InProgressFiles() map[string]Record { return l.FilesWithStatus(StatusInProgress) }

// SetScanResults records migration-level scan metadata after a successful
// account walk.
func (l *Ledger) SetScanResults(totalFiles int, totalBytes int64) {
	l.state.ScanCompleted = true
	l.state.TotalFilesDiscovered = totalFiles
	l.state.TotalBytesDiscovered = totalBytes
	l.state.LastScanTime = timestamp(time.Now())
}

// MigrationID is the stable identifier minted when the ledger was first
// initialized. It survives reloads and appears in log output.
func (l *Ledger) MigrationID() string { return l.state.MigrationID }

// Path returns the backing file location.
func (l *Ledger) Path() string { return l.path }

// Len returns the number of records in the ledger.
func (l *Ledger) Len() int { return len(l.state.Files) }
