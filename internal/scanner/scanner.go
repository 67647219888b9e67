package scanner

import (
	"context"
	"log/slog"

	"putmig/internal/logging"
	"putmig/internal/putio"
)

// Lister is the slice of the put.io client the scanner needs.
type Lister interface {
	ListFiles(ctx context.Context, parentID int64) ([]putio.File, error)
}

// Progress is a point-in-time snapshot of a running scan, delivered by value
// to the observer after every folder visit and every recorded file.
type Progress struct {
	FoldersScanned  int
	FilesDiscovered int
	BytesDiscovered int64
	CurrentFolder   string
}

// Result bundles everything a completed scan produced.
type Result struct {
	Root       *Node
	Files      []*Node
	TotalBytes int64
}

// Scanner walks the remote folder hierarchy and materializes the eligible
// subset as a tree plus a flat file list.
type Scanner struct {
	client   Lister
	filters  Filters
	logger   *slog.Logger
	observer func(Progress)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithObserver registers a progress callback. The observer only reports; it
// must not influence scan behaviour.
func WithObserver(fn func(Progress)) Option {
	return func(s *Scanner) { s.observer = fn }
}

// New builds a Scanner over the given client.
func New(client Lister, filters Filters, logger *slog.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		client:  client,
		filters: filters,
		logger:  logging.NewComponentLogger(logger, "scanner"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the account from the root folder. Listing errors inside a folder
// are logged and absorbed so one inaccessible subtree cannot abort discovery
// of the rest; only context cancellation ends a scan early.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	root := newRoot()
	result := &Result{Root: root}
	progress := Progress{}

	if err := s.scanFolder(ctx, root, &progress, result); err != nil {
		return nil, err
	}

	s.logger.Info("scan completed",
		logging.Int("files", progress.FilesDiscovered),
		logging.Int("folders", progress.FoldersScanned),
		logging.Int64("bytes", progress.BytesDiscovered),
	)
	return result, nil
}

func (s *Scanner) scanFolder(ctx context.Context, folder *Node, progress *Progress, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	progress.CurrentFolder = folder.Path
	if progress.CurrentFolder == "" {
		progress.CurrentFolder = "/"
	}
	progress.FoldersScanned++
	s.notify(*progress)

	files, err := s.client.ListFiles(ctx, folder.ID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("skipping unreadable folder",
			logging.String("folder", folder.Path),
			logging.Error(err),
		)
		return nil
	}

	for _, file := range files {
		if !file.IsFolder() && !s.filters.includeFile(file.Name, file.Size) {
			continue
		}
		node := &Node{
			ID:       file.ID,
			Name:     file.Name,
			Size:     file.Size,
			IsFolder: file.IsFolder(),
			ParentID: folder.ID,
			Path:     folder.childPath(file.Name),
		}
		folder.Children = append(folder.Children, node)

		if node.IsFolder {
			if err := s.scanFolder(ctx, node, progress, result); err != nil {
				return err
			}
			continue
		}

		progress.FilesDiscovered++
		progress.BytesDiscovered += node.Size
		result.Files = append(result.Files, node)
		result.TotalBytes += node.Size
		s.notify(*progress)
	}
	return nil
}

func (s *Scanner) notify(progress Progress) {
	if s.observer != nil {
		s.observer(progress)
	}
}
