package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"putmig/internal/logging"
	"putmig/internal/scanner"
)

var commandContext = exec.CommandContext

const defaultBinary = "axel"

// processBuffer pads the fetcher timeout to cover process startup overhead.
const processBuffer = 5 * time.Second

// Config describes transfer executor settings.
type Config struct {
	DestinationDir    string
	Connections       int
	Timeout           time.Duration
	PreserveStructure bool
	UseFallback       bool
	// Binary overrides the external fetcher executable; default "axel".
	Binary string
}

// Outcome is the result of one Transfer invocation, consumed immediately by
// the orchestrator.
type Outcome struct {
	Success          bool
	Path             string
	ErrorMessage     string
	AlreadyExisted   bool
	UsedFallback     bool
	BytesTransferred int64
}

// Executor produces the local bytes for one remote item, preferring an
// external multi-connection fetcher with a streamed HTTP fallback.
type Executor struct {
	cfg      Config
	logger   *slog.Logger
	fallback *httpFetcher
}

// New constructs an Executor from the given configuration.
func New(cfg Config, logger *slog.Logger) *Executor {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	if cfg.Connections <= 0 {
		cfg.Connections = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Executor{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "transfer"),
		fallback: newHTTPFetcher(cfg.Timeout),
	}
}

// Transfer fetches item from sourceURL into the destination tree. It never
// returns an error; every failure is folded into the Outcome so the caller's
// item loop keeps going.
func (e *Executor) Transfer(ctx context.Context, item *scanner.Node, sourceURL string) Outcome {
	target := e.TargetPath(item)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Outcome{Path: target, ErrorMessage: fmt.Sprintf("create directories: %v", err)}
	}

	// Idempotence check: a complete local copy makes the whole migration a
	// no-op for this item even when the ledger was lost.
	if size, ok := existingSize(target); ok && size == item.Size {
		e.logger.Info("file already exists and is complete",
			logging.String("path", target))
		return Outcome{Success: true, Path: target, AlreadyExisted: true}
	}

	err := e.runFetcher(ctx, sourceURL, target, item.Size)
	if err == nil {
		return Outcome{Success: true, Path: target, BytesTransferred: item.Size}
	}

	if !e.cfg.UseFallback {
		return Outcome{Path: target, ErrorMessage: err.Error()}
	}

	e.logger.Warn("fetcher failed, trying fallback",
		logging.String("file", item.Name), logging.Error(err))

	if err := e.fallback.fetch(ctx, sourceURL, target, item.Size); err != nil {
		return Outcome{Path: target, UsedFallback: true, ErrorMessage: err.Error()}
	}
	return Outcome{Success: true, Path: target, UsedFallback: true, BytesTransferred: item.Size}
}

// TargetPath computes where item lands locally: under its relative path when
// structure preservation is on, flattened to its bare name otherwise.
func (e *Executor) TargetPath(item *scanner.Node) string {
	if e.cfg.PreserveStructure && item.Path != "" {
		return filepath.Join(e.cfg.DestinationDir, filepath.FromSlash(item.Path))
	}
	return filepath.Join(e.cfg.DestinationDir, item.Name)
}

// PartialSize returns the current byte size of a possibly-partial local file,
// or 0 when it does not exist.
func PartialSize(path string) int64 {
	size, _ := existingSize(path)
	return size
}

func (e *Executor) runFetcher(ctx context.Context, sourceURL, target string, expectedSize int64) *TransferError {
	args := []string{
		"-n", strconv.Itoa(e.cfg.Connections),
		"-T", strconv.Itoa(int(e.cfg.Timeout / time.Second)),
		"-o", target,
	}
	if _, ok := existingSize(target); ok {
		args = append(args, "-c")
	}
	args = append(args, sourceURL)

	runCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout+processBuffer)
	defer cancel()

	cmd := commandContext(runCtx, e.cfg.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger.Debug("starting fetcher",
		logging.String("binary", e.cfg.Binary), logging.String("target", target))

	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return failure(ReasonTimeout, "download timeout after %s", e.cfg.Timeout)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return failure(ReasonFetcherNotFound, "%s command not found", e.cfg.Binary)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return failure(ReasonFetcherExit, "%s exited with code %d: %s",
				e.cfg.Binary, exitErr.ExitCode(), bytes.TrimSpace(stderr.Bytes()))
		}
		return failure(ReasonTransport, "run %s: %v", e.cfg.Binary, err)
	}

	return verifySize(target, expectedSize)
}

// verifySize is the integrity gate both strategies share: the file must exist
// and match the declared size exactly before a transfer counts as done.
func verifySize(target string, expected int64) *TransferError {
	size, ok := existingSize(target)
	if !ok {
		return failure(ReasonIntegrityMismatch, "downloaded file does not exist")
	}
	if size != expected {
		return failure(ReasonIntegrityMismatch, "file size mismatch: expected %d, got %d", expected, size)
	}
	return nil
}

func existingSize(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return 0, false
	}
	return info.Size(), true
}
