package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePutio()
	c.normalizeFilters()
	c.normalizeLogging()
	c.normalizeAdvanced()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Destination.BasePath, err = expandPath(c.Destination.BasePath); err != nil {
		return fmt.Errorf("destination.base_path: %w", err)
	}
	if strings.TrimSpace(c.State.FilePath) == "" {
		c.State.FilePath = defaultStateFilePath
	}
	if c.State.FilePath, err = expandPath(c.State.FilePath); err != nil {
		return fmt.Errorf("state.file_path: %w", err)
	}
	if c.Logging.FilePath, err = expandPath(c.Logging.FilePath); err != nil {
		return fmt.Errorf("logging.file_path: %w", err)
	}
	return nil
}

func (c *Config) normalizePutio() {
	if c.Putio.Token == "" {
		c.Putio.Token = strings.TrimSpace(os.Getenv("PUTIO_TOKEN"))
	}
	c.Putio.BaseURL = strings.TrimRight(strings.TrimSpace(c.Putio.BaseURL), "/")
	if c.Putio.BaseURL == "" {
		c.Putio.BaseURL = defaultBaseURL
	}
}

func (c *Config) normalizeFilters() {
	c.Filters.AllowedExtensions = normalizeExtensions(c.Filters.AllowedExtensions)
	c.Filters.BlockedExtensions = normalizeExtensions(c.Filters.BlockedExtensions)
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

func (c *Config) normalizeAdvanced() {
	c.Advanced.UserAgent = strings.TrimSpace(c.Advanced.UserAgent)
	if c.Advanced.UserAgent == "" {
		c.Advanced.UserAgent = defaultUserAgent
	}
}

func normalizeExtensions(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		ext = strings.TrimPrefix(ext, ".")
		if ext == "" {
			continue
		}
		out = append(out, ext)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
