package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sys/unix"

	"putmig/internal/putio"
)

const apiCheckTimeout = 15 * time.Second

// fetcherBinary matches the transfer executor's default external downloader.
const fetcherBinary = "axel"

// AccountProber is the slice of the API client the connectivity check needs.
type AccountProber interface {
	AccountInfo(ctx context.Context) (*putio.AccountInfo, error)
}

// CheckAPI verifies that the put.io API is reachable and the token is valid.
// Single attempt with a short timeout; retry behaviour belongs to the real
// migration run.
func CheckAPI(ctx context.Context, prober AccountProber) Result {
	const name = "put.io API"

	checkCtx, cancel := context.WithTimeout(ctx, apiCheckTimeout)
	defer cancel()

	account, err := prober.AccountInfo(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeAPIError(err)}
	}
	return Result{Name: name, Passed: true,
		Detail: fmt.Sprintf("authenticated as %s", account.Username)}
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStatePath verifies the ledger's parent directory can be created and
// written. Unlike the destination, a missing state directory is fine because
// the ledger creates it on first save.
func CheckStatePath(name, dir string) Result {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: create: %v)", dir, err)}
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not writable: %v)", dir, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", dir)}
}

// CheckFetcher reports whether the external downloader is on PATH. With the
// HTTP fallback enabled a missing fetcher degrades throughput but does not
// block a migration, so the check passes with an advisory detail.
func CheckFetcher(fallbackEnabled bool) Result {
	const name = "Downloader"

	if _, err := exec.LookPath(fetcherBinary); err != nil {
		if fallbackEnabled {
			return Result{Name: name, Passed: true,
				Detail: fmt.Sprintf("%s not found, HTTP fallback will be used", fetcherBinary)}
		}
		return Result{Name: name,
			Detail: fmt.Sprintf("%s not found and fallback is disabled", fetcherBinary)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s available", fetcherBinary)}
}

// summarizeAPIError produces a human-readable summary for API check failures.
func summarizeAPIError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "connectivity check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "connectivity check timed out (API unreachable)"
	}
	if putio.IsAuthError(err) {
		return "authentication failed (invalid OAuth token)"
	}
	return err.Error()
}
