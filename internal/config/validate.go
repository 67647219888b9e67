package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Validate ensures the configuration is usable. It runs before any network
// activity so bad values abort the run immediately.
func (c *Config) Validate() error {
	if err := c.validatePutio(); err != nil {
		return err
	}
	if err := c.validateDestination(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateFilters(); err != nil {
		return err
	}
	if err := c.validateState(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateAdvanced()
}

func (c *Config) validatePutio() error {
	if strings.TrimSpace(c.Putio.Token) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/putmig/config.toml"
		}
		return fmt.Errorf("putio.token is required. Set PUTIO_TOKEN env var or edit %s (create with 'putmig config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateDestination() error {
	if strings.TrimSpace(c.Destination.BasePath) == "" {
		return errors.New("destination.base_path must be set")
	}
	info, err := os.Stat(c.Destination.BasePath)
	if err != nil {
		return fmt.Errorf("destination.base_path does not exist: %s", c.Destination.BasePath)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination.base_path is not a directory: %s", c.Destination.BasePath)
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.Connections < 1 || c.Download.Connections > 16 {
		return errors.New("download.connections must be between 1 and 16")
	}
	if c.Download.Timeout <= 0 {
		return errors.New("download.timeout must be positive (seconds)")
	}
	if c.Download.RetryLimit < 0 {
		return errors.New("download.retry_limit must be non-negative")
	}
	return nil
}

func (c *Config) validateFilters() error {
	if c.Filters.MaxFileSizeGB < 0 {
		return errors.New("filters.max_file_size_gb must be non-negative")
	}
	return nil
}

func (c *Config) validateState() error {
	if c.State.SaveFrequencySeconds <= 0 {
		return errors.New("state.save_frequency_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateAdvanced() error {
	if c.Advanced.APIRequestsPerSecond <= 0 {
		return errors.New("advanced.api_requests_per_second must be positive")
	}
	return nil
}
