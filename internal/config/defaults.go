package config

const (
	defaultBaseURL              = "https://api.put.io/v2"
	defaultConnections          = 4
	defaultTimeout              = 30
	defaultRetryLimit           = 3
	defaultStateFilePath        = "~/.local/share/putmig/migration_state.json"
	defaultSaveFrequencySeconds = 30
	defaultLogLevel             = "info"
	defaultLogFormat            = "console"
	defaultRequestsPerSecond    = 5
	defaultUserAgent            = "putmig/0.1.0"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Putio: Putio{
			BaseURL: defaultBaseURL,
		},
		Destination: Destination{
			PreserveStructure: true,
		},
		Download: Download{
			Connections: defaultConnections,
			Timeout:     defaultTimeout,
			RetryLimit:  defaultRetryLimit,
		},
		State: State{
			FilePath:             defaultStateFilePath,
			SaveFrequencySeconds: defaultSaveFrequencySeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Advanced: Advanced{
			APIRequestsPerSecond:  defaultRequestsPerSecond,
			UserAgent:             defaultUserAgent,
			UseFallbackDownloader: true,
		},
	}
}
