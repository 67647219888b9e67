// Package putio wraps the put.io REST API behind a rate-limited, retrying
// client.
//
// Every call waits on a token-bucket limiter so requests never exceed the
// configured per-second budget, honours 429 Retry-After pauses, and retries
// 5xx/transport failures with exponential backoff up to the retry limit.
// 401 and other 4xx responses fail immediately. Failures surface as *Error
// with a Kind the orchestrator uses to decide between aborting the run and
// skipping a single item.
package putio
