package preflight

import (
	"context"
	"path/filepath"

	"putmig/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config. A nil prober
// skips the API connectivity check, which lets offline commands reuse the
// filesystem and binary checks.
func RunAll(ctx context.Context, cfg *config.Config, prober AccountProber) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Destination directory", cfg.Destination.BasePath))
	results = append(results, CheckStatePath("State file", filepath.Dir(cfg.State.FilePath)))
	results = append(results, CheckFetcher(cfg.Advanced.UseFallbackDownloader))

	if prober != nil {
		results = append(results, CheckAPI(ctx, prober))
	}

	return results
}

// AllPassed reports whether every non-optional failure is absent. Optional
// checks still appear in results but carry Passed=true with an advisory
// detail, so a plain scan over Passed is sufficient.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
