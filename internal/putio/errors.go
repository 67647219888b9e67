package putio

import (
	"errors"
	"fmt"
)

// ErrorKind classifies API failures so callers can pick a recovery strategy.
type ErrorKind int

const (
	// KindTransport covers connection failures and timeouts after retries.
	KindTransport ErrorKind = iota
	// KindAuth is an HTTP 401; never retried, fatal to the whole run.
	KindAuth
	// KindRateLimit means 429 responses persisted past the retry limit.
	KindRateLimit
	// KindClient is any other 4xx; treated as a caller bug and never retried.
	KindClient
	// KindServer means 5xx responses persisted past the retry limit.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "authentication"
	case KindRateLimit:
		return "rate_limit"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by every Client operation.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("putio: %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("putio: %s error: %s", e.Kind, e.Message)
}

// IsAuthError reports whether err is a 401 from the API.
func IsAuthError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}
