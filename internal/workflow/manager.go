package workflow

import (
	"context"
	"log/slog"

	"putmig/internal/config"
	"putmig/internal/ledger"
	"putmig/internal/logging"
	"putmig/internal/putio"
	"putmig/internal/scanner"
	"putmig/internal/transfer"
)

// Client is the slice of the put.io API the manager drives.
type Client interface {
	AccountInfo(ctx context.Context) (*putio.AccountInfo, error)
	ListFiles(ctx context.Context, parentID int64) ([]putio.File, error)
	DownloadURL(ctx context.Context, id int64) (string, error)
}

// Transferrer executes a single item transfer.
type Transferrer interface {
	Transfer(ctx context.Context, item *scanner.Node, sourceURL string) transfer.Outcome
	TargetPath(item *scanner.Node) string
}

// Summary reports what one migration run accomplished.
type Summary struct {
	TotalFiles       int
	Completed        int
	Failed           int
	Skipped          int
	BytesTransferred int64
	Interrupted      bool
}

// ItemEvent describes progress on one pending item. Outcome is nil when the
// item is starting and set once it finished.
type ItemEvent struct {
	Index   int
	Total   int
	Item    *scanner.Node
	Outcome *transfer.Outcome
}

// Option configures a Manager.
type Option func(*Manager)

// WithScanObserver forwards scan progress snapshots to fn.
func WithScanObserver(fn func(scanner.Progress)) Option {
	return func(m *Manager) { m.scanObserver = fn }
}

// WithItemObserver forwards per-item transfer events to fn.
func WithItemObserver(fn func(ItemEvent)) Option {
	return func(m *Manager) { m.itemObserver = fn }
}

// Manager orchestrates the migration: scan, reconcile against the ledger,
// transfer pending items one at a time, persist state after every outcome.
type Manager struct {
	cfg          *config.Config
	client       Client
	ledger       *ledger.Ledger
	executor     Transferrer
	logger       *slog.Logger
	scanObserver func(scanner.Progress)
	itemObserver func(ItemEvent)
}

// NewManager wires the migration engine together.
func NewManager(cfg *config.Config, client Client, led *ledger.Ledger, executor Transferrer, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		cfg:      cfg,
		client:   client,
		ledger:   led,
		executor: executor,
		logger:   logging.NewComponentLogger(logger, "workflow"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ledger exposes the manager's ledger for status reporting.
func (m *Manager) Ledger() *ledger.Ledger { return m.ledger }

// Scan authenticates against the API and walks the remote tree. Any
// authentication failure aborts the whole run; folder-level listing errors
// are absorbed inside the scanner.
func (m *Manager) Scan(ctx context.Context) (*scanner.Result, error) {
	account, err := m.client.AccountInfo(ctx)
	if err != nil {
		return nil, err
	}
	m.logger.Info("authenticated", logging.String("username", account.Username))

	opts := []scanner.Option{}
	if m.scanObserver != nil {
		opts = append(opts, scanner.WithObserver(m.scanObserver))
	}
	s := scanner.New(m.client, scanner.FiltersFromConfig(m.cfg.Filters), m.logger, opts...)
	return s.Scan(ctx)
}

// Reconcile computes the pending set: scanned files minus paths the ledger
// already marks completed, preserving scan order.
func (m *Manager) Reconcile(result *scanner.Result) []*scanner.Node {
	pending := make([]*scanner.Node, 0, len(result.Files))
	for _, file := range result.Files {
		if !m.ledger.IsCompleted(file.Path) {
			pending = append(pending, file)
		}
	}
	return pending
}

func (m *Manager) notifyItem(event ItemEvent) {
	if m.itemObserver != nil {
		m.itemObserver(event)
	}
}
