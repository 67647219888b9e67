package putio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://api.put.io/v2"
	defaultUserAgent    = "putmig/0.1.0"
	defaultHTTPTimeout  = 30 * time.Second
	defaultRetryBackoff = time.Second
	defaultRetryAfter   = 60 * time.Second
	maxQuotaWait        = 60 * time.Second
)

// Config describes the put.io client configuration.
type Config struct {
	Token             string
	BaseURL           string
	UserAgent         string
	RetryLimit        int
	RequestsPerSecond float64
	// RetryBackoff is the base for the exponential 5xx/transport backoff
	// (base * 2^attempt). Zero means one second.
	RetryBackoff time.Duration
	HTTPClient   *http.Client
}

// Client wraps the put.io REST API with rate limiting and retries.
type Client struct {
	token      string
	userAgent  string
	baseURL    *url.URL
	retryLimit int
	backoff    time.Duration
	limiter    *rate.Limiter
	http       *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("putio: token is required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("putio: parse base url: %w", err)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		token:      token,
		userAgent:  userAgent,
		baseURL:    baseURL,
		retryLimit: cfg.RetryLimit,
		backoff:    backoff,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		http:       client,
	}, nil
}

// AccountInfo fetches account details; used as the authentication probe before
// a migration starts.
func (c *Client) AccountInfo(ctx context.Context) (*AccountInfo, error) {
	var resp accountResponse
	if err := c.do(ctx, http.MethodGet, "account/info", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Info, nil
}

// ListFiles returns the direct children of a folder. Parent ID 0 is the
// account root.
func (c *Client) ListFiles(ctx context.Context, parentID int64) ([]File, error) {
	params := url.Values{}
	if parentID > 0 {
		params.Set("parent_id", strconv.FormatInt(parentID, 10))
	}
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "files/list", params, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// FileInfo fetches metadata for a single file.
func (c *Client) FileInfo(ctx context.Context, id int64) (*File, error) {
	var resp fileResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("files/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.File, nil
}

// DownloadURL resolves the direct download URL for a file.
func (c *Client) DownloadURL(ctx context.Context, id int64) (string, error) {
	var resp downloadResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("files/%d/download", id), nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// do issues one API call with rate limiting, retries, and backoff. Responses
// are decoded into out when it is non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL.JoinPath(strings.Split(endpoint, "/")...)
	if len(params) > 0 {
		reqURL.RawQuery = params.Encode()
	}

	var lastErr *Error
	for attempt := 0; attempt <= c.retryLimit; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Kind: KindTransport, Message: err.Error()}
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
		if err != nil {
			return &Error{Kind: KindTransport, Message: fmt.Sprintf("create request: %v", err)}
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return &Error{Kind: KindTransport, Message: ctx.Err().Error()}
			}
			lastErr = &Error{Kind: KindTransport, Message: err.Error()}
			if attempt < c.retryLimit {
				if sleepErr := sleepCtx(ctx, c.backoff*(1<<uint(attempt))); sleepErr != nil {
					return lastErr
				}
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = &Error{Kind: KindRateLimit, StatusCode: resp.StatusCode,
				Message: fmt.Sprintf("rate limit exceeded after %d retries", c.retryLimit)}
			if attempt < c.retryLimit {
				if sleepErr := sleepCtx(ctx, retryAfter(resp)); sleepErr != nil {
					return lastErr
				}
				continue
			}
			return lastErr

		case resp.StatusCode == http.StatusUnauthorized:
			return &Error{Kind: KindAuth, StatusCode: resp.StatusCode,
				Message: "authentication failed, check your OAuth token"}

		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return &Error{Kind: KindClient, StatusCode: resp.StatusCode, Message: string(body)}

		case resp.StatusCode >= 500:
			lastErr = &Error{Kind: KindServer, StatusCode: resp.StatusCode,
				Message: fmt.Sprintf("request failed after %d retries", c.retryLimit)}
			if attempt < c.retryLimit {
				if sleepErr := sleepCtx(ctx, c.backoff*(1<<uint(attempt))); sleepErr != nil {
					return lastErr
				}
				continue
			}
			return lastErr
		}

		if readErr != nil {
			return &Error{Kind: KindTransport, Message: fmt.Sprintf("read response: %v", readErr)}
		}

		// Exhausted quota: wait for the advertised reset before handing
		// control back, so the next call does not immediately 429.
		if wait := quotaWait(resp, time.Now()); wait > 0 {
			if err := sleepCtx(ctx, wait); err != nil {
				return &Error{Kind: KindTransport, Message: err.Error()}
			}
		}

		if out != nil {
			if err := json.Unmarshal(body, out); err != nil {
				return &Error{Kind: KindTransport, Message: fmt.Sprintf("decode response: %v", err)}
			}
		}
		return nil
	}

	if lastErr != nil {
		return lastErr
	}
	return &Error{Kind: KindTransport, Message: "no attempts made"}
}

func retryAfter(resp *http.Response) time.Duration {
	header := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if header == "" {
		return defaultRetryAfter
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

// quotaWait returns how long to pause after a successful response whose
// rate-limit headers report zero remaining quota, capped at maxQuotaWait.
func quotaWait(resp *http.Response, now time.Time) time.Duration {
	remaining := strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining"))
	reset := strings.TrimSpace(resp.Header.Get("X-RateLimit-Reset"))
	if remaining == "" || reset == "" {
		return 0
	}
	left, err := strconv.Atoi(remaining)
	if err != nil || left != 0 {
		return 0
	}
	resetUnix, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return 0
	}
	wait := time.Unix(resetUnix, 0).Sub(now)
	if wait <= 0 {
		return 0
	}
	if wait > maxQuotaWait {
		wait = maxQuotaWait
	}
	return wait
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
