package workflow

import (
	"context"
	"fmt"

	"putmig/internal/logging"
	"putmig/internal/scanner"
	"putmig/internal/transfer"
)

// Run executes the complete migration. The returned summary is valid even
// when err is non-nil: an interrupted run reports what it finished before the
// cancellation. Fatal errors flush the ledger best-effort before returning.
func (m *Manager) Run(ctx context.Context) (*Summary, error) {
	m.logger.Info("starting migration",
		logging.String("migration_id", m.ledger.MigrationID()),
		logging.String("destination", m.cfg.Destination.BasePath),
	)

	result, err := m.Scan(ctx)
	if err != nil {
		if saveErr := m.ledger.Save(); saveErr != nil {
			m.logger.Error("ledger flush after scan failure", logging.Error(saveErr))
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	m.ledger.SetScanResults(len(result.Files), result.TotalBytes)

	pending := m.Reconcile(result)
	summary := &Summary{
		TotalFiles: len(result.Files),
		Skipped:    len(result.Files) - len(pending),
	}

	if len(pending) == 0 {
		m.logger.Info("all files already migrated", logging.Int("total", summary.TotalFiles))
		return summary, m.ledger.Save()
	}

	m.logger.Info("transferring pending files",
		logging.Int("pending", len(pending)),
		logging.Int("skipped", summary.Skipped),
	)

	for i, item := range pending {
		// Cancellation is observed between items only; an in-flight
		// transfer either completes or the process dies and the next
		// run resumes it from the partial file.
		select {
		case <-ctx.Done():
			summary.Interrupted = true
			if err := m.ledger.Save(); err != nil {
				m.logger.Error("ledger flush on interruption", logging.Error(err))
			}
			m.logger.Warn("migration interrupted",
				logging.Int("completed", summary.Completed),
				logging.Int("failed", summary.Failed),
			)
			return summary, ctx.Err()
		default:
		}

		m.transferItem(ctx, item, i, len(pending), summary)

		if err := m.ledger.MaybeAutosave(); err != nil {
			m.logger.Warn("ledger autosave failed", logging.Error(err))
		}
	}

	if err := m.ledger.Save(); err != nil {
		return summary, fmt.Errorf("final ledger save: %w", err)
	}

	m.logger.Info("migration finished",
		logging.Int("total", summary.TotalFiles),
		logging.Int("completed", summary.Completed),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// transferItem resolves one item's download URL and runs the executor,
// recording the outcome in the ledger. Failures stay local to the item.
func (m *Manager) transferItem(ctx context.Context, item *scanner.Node, index, total int, summary *Summary) {
	m.notifyItem(ItemEvent{Index: index, Total: total, Item: item})

	sourceURL, err := m.client.DownloadURL(ctx, item.ID)
	if err != nil {
		message := fmt.Sprintf("failed to get download URL: %v", err)
		m.ledger.MarkFailed(item.Path, message)
		summary.Failed++
		m.logger.Error("download URL lookup failed",
			logging.String("file", item.Path), logging.Error(err))
		m.notifyItem(ItemEvent{Index: index, Total: total, Item: item,
			Outcome: &transfer.Outcome{ErrorMessage: message}})
		return
	}

	m.ledger.MarkInProgress(item.Path, item.Size, transfer.PartialSize(m.executor.TargetPath(item)))

	outcome := m.executor.Transfer(ctx, item, sourceURL)
	if outcome.Success {
		m.ledger.MarkCompleted(item.Path, item.Size)
		summary.Completed++
		summary.BytesTransferred += outcome.BytesTransferred
		m.logger.Info("completed",
			logging.String("file", item.Path),
			logging.Bool("already_existed", outcome.AlreadyExisted),
			logging.Bool("used_fallback", outcome.UsedFallback),
		)
	} else {
		m.ledger.MarkFailed(item.Path, outcome.ErrorMessage)
		summary.Failed++
		m.logger.Error("transfer failed",
			logging.String("file", item.Path),
			logging.String("reason", outcome.ErrorMessage),
		)
	}

	m.notifyItem(ItemEvent{Index: index, Total: total, Item: item, Outcome: &outcome})
}
