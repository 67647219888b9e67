package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Putio contains credentials and endpoint settings for the put.io API.
type Putio struct {
	Token   string `toml:"token"`
	BaseURL string `toml:"base_url"`
}

// Destination describes where migrated files land.
type Destination struct {
	BasePath          string `toml:"base_path"`
	PreserveStructure bool   `toml:"preserve_structure"`
}

// Download contains transfer executor settings.
type Download struct {
	Connections int `toml:"connections"`
	Timeout     int `toml:"timeout"`
	RetryLimit  int `toml:"retry_limit"`
}

// Filters restricts which remote files are eligible for transfer.
type Filters struct {
	AllowedExtensions []string `toml:"allowed_extensions"`
	BlockedExtensions []string `toml:"blocked_extensions"`
	MaxFileSizeGB     float64  `toml:"max_file_size_gb"`
}

// State configures the persistent transfer ledger.
type State struct {
	FilePath             string `toml:"file_path"`
	SaveFrequencySeconds int    `toml:"save_frequency_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"`
	FilePath string `toml:"file_path"`
}

// Advanced holds knobs that rarely need changing.
type Advanced struct {
	APIRequestsPerSecond  float64 `toml:"api_requests_per_second"`
	UserAgent             string  `toml:"user_agent"`
	UseFallbackDownloader bool    `toml:"use_fallback_downloader"`
}

// Config encapsulates all configuration values for putmig.
//
// Configuration sections by subsystem:
//   - Putio: API token and base URL
//   - Destination: target directory and structure preservation
//   - Download: axel connection count, timeout, retry limit
//   - Filters: extension allow/block lists and size cap
//   - State: ledger file path and autosave interval
//   - Logging: log level, format, and optional file output
//   - Advanced: API rate limit, user agent, fallback toggle
type Config struct {
	Putio       Putio       `toml:"putio"`
	Destination Destination `toml:"destination"`
	Download    Download    `toml:"download"`
	Filters     Filters     `toml:"filters"`
	State       State       `toml:"state"`
	Logging     Logging     `toml:"logging"`
	Advanced    Advanced    `toml:"advanced"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/putmig/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. The
// returned config has all path fields expanded and absolute.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("putmig.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// clobber an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Sample returns the embedded sample configuration text.
func Sample() string {
	return sampleConfig
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
