package ledger

import "time"

// Status represents the lifecycle of one transferred file.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Record is one row of the ledger, keyed externally by the file's relative
// path. Records are never deleted; failed and completed entries persist for
// audit and idempotent resume.
type Record struct {
	TotalBytes      int64  `json:"total_bytes"`
	DownloadedBytes int64  `json:"downloaded_bytes"`
	Status          Status `json:"status"`
	ErrorMessage    string `json:"error_message,omitempty"`
	RetryCount      int    `json:"retry_count"`
	LastUpdated     string `json:"last_updated"`
}

// document is the full persisted ledger file.
type document struct {
	MigrationID          string            `json:"migration_id"`
	Files                map[string]Record `json:"files"`
	ScanCompleted        bool              `json:"scan_completed"`
	TotalFilesDiscovered int               `json:"total_files_discovered"`
	TotalBytesDiscovered int64             `json:"total_bytes_discovered"`
	MigrationStartTime   string            `json:"migration_start_time"`
	LastScanTime         string            `json:"last_scan_time,omitempty"`
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
