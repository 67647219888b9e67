package transfer

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"
)

const fallbackChunkSize = 8 * 1024

// httpFetcher is the fallback strategy: a plain streamed GET with the same
// integrity verification as the external fetcher.
type httpFetcher struct {
	client *http.Client
}

func newHTTPFetcher(timeout time.Duration) *httpFetcher {
	return &httpFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *httpFetcher) fetch(ctx context.Context, sourceURL, target string, expectedSize int64) *TransferError {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return failure(ReasonTransport, "create request: %v", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return failure(ReasonTransport, "fallback download failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(ReasonTransport, "fallback download failed: status %d", resp.StatusCode)
	}

	out, err := os.Create(target)
	if err != nil {
		return failure(ReasonTransport, "create target file: %v", err)
	}

	buf := make([]byte, fallbackChunkSize)
	if _, err := io.CopyBuffer(out, resp.Body, buf); err != nil {
		_ = out.Close()
		return failure(ReasonTransport, "stream body: %v", err)
	}
	if err := out.Close(); err != nil {
		return failure(ReasonTransport, "close target file: %v", err)
	}

	return verifySize(target, expectedSize)
}
