package scanner

import (
	"strings"

	"putmig/internal/config"
)

const bytesPerGB = 1024 * 1024 * 1024

// Filters is the inclusion policy applied to discovered files. Folders are
// always included so the tree structure survives even when every descendant
// is filtered out.
type Filters struct {
	AllowedExtensions []string
	BlockedExtensions []string
	// MaxFileSizeGB caps eligible file size; zero means unlimited.
	MaxFileSizeGB float64
}

// FiltersFromConfig builds Filters from the [filters] config section.
func FiltersFromConfig(cfg config.Filters) Filters {
	return Filters{
		AllowedExtensions: cfg.AllowedExtensions,
		BlockedExtensions: cfg.BlockedExtensions,
		MaxFileSizeGB:     cfg.MaxFileSizeGB,
	}
}

// includeFile applies the allow-list, then the block-list, then the size cap.
// The allow-list is evaluated first on purpose: an extension present in both
// lists is still blocked.
func (f Filters) includeFile(name string, size int64) bool {
	ext := extension(name)
	if len(f.AllowedExtensions) > 0 && !containsFold(f.AllowedExtensions, ext) {
		return false
	}
	if len(f.BlockedExtensions) > 0 && containsFold(f.BlockedExtensions, ext) {
		return false
	}
	if f.MaxFileSizeGB > 0 && float64(size) > f.MaxFileSizeGB*bytesPerGB {
		return false
	}
	return true
}

// extension returns the lowercased text after the final dot, or "" when the
// name has no dot.
func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}
