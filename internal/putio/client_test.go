package putio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, server *httptest.Server, retryLimit int) *Client {
	t.Helper()
	client, err := New(Config{
		Token:             "test-token",
		BaseURL:           server.URL,
		RetryLimit:        retryLimit,
		RequestsPerSecond: 1000,
		RetryBackoff:      time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestAccountInfoSendsBearerToken(t *testing.T) {
	var gotAuth, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"info":{"username":"tester","mail":"t@example.com"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	info, err := client.AccountInfo(context.Background())
	if err != nil {
		t.Fatalf("AccountInfo failed: %v", err)
	}
	if info.Username != "tester" {
		t.Errorf("unexpected username: %q", info.Username)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
	if gotAgent == "" {
		t.Error("expected User-Agent header to be set")
	}
}

func TestListFilesParsesChildren(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/list" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("parent_id") != "42" {
			t.Errorf("unexpected parent_id: %q", r.URL.Query().Get("parent_id"))
		}
		w.Write([]byte(`{"files":[
			{"id":1,"name":"movie.mp4","size":1024,"file_type":"VIDEO","parent_id":42},
			{"id":2,"name":"music","size":0,"file_type":"FOLDER","parent_id":42}
		],"parent":{"id":42,"name":"stuff","file_type":"FOLDER"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	files, err := client.ListFiles(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].IsFolder() || !files[1].IsFolder() {
		t.Errorf("folder detection wrong: %+v", files)
	}
}

func TestRootListingOmitsParentID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("parent_id") {
			t.Errorf("root listing must not send parent_id, got %q", r.URL.Query().Get("parent_id"))
		}
		w.Write([]byte(`{"files":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 0)
	if _, err := client.ListFiles(context.Background(), 0); err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
}

func TestServerErrorsRetriedThenSucceed(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"url":"https://dl.example.com/1"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 2)
	url, err := client.DownloadURL(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if url != "https://dl.example.com/1" {
		t.Errorf("unexpected url: %q", url)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestServerErrorsExhaustRetryLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server, 2)
	_, err := client.DownloadURL(context.Background(), 1)

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindServer {
		t.Fatalf("expected server error, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls.Load())
	}
}

func TestRateLimitHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"info":{"username":"tester"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, 1)
	if _, err := client.AccountInfo(context.Background()); err != nil {
		t.Fatalf("expected success after 429 retry, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestRateLimitExhaustionFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server, 1)
	_, err := client.AccountInfo(context.Background())

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindRateLimit {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestUnauthorizedFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server, 3)
	_, err := client.AccountInfo(context.Background())

	if !IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("401 must not be retried, got %d attempts", calls.Load())
	}
}

func TestClientErrorFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such file"))
	}))
	defer server.Close()

	client := newTestClient(t, server, 3)
	_, err := client.FileInfo(context.Background(), 999)

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindClient {
		t.Fatalf("expected client error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected status: %d", apiErr.StatusCode)
	}
	if calls.Load() != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", calls.Load())
	}
}

func TestQuotaWait(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	cases := []struct {
		name      string
		remaining string
		reset     string
		want      time.Duration
	}{
		{"no headers", "", "", 0},
		{"quota left", "5", "1000030", 0},
		{"exhausted short wait", "0", "1000010", 10 * time.Second},
		{"exhausted capped", "0", "1001000", 60 * time.Second},
		{"reset in past", "0", "999990", 0},
		{"garbage remaining", "lots", "1000010", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tc.remaining != "" {
				resp.Header.Set("X-RateLimit-Remaining", tc.remaining)
			}
			if tc.reset != "" {
				resp.Header.Set("X-RateLimit-Reset", tc.reset)
			}
			if got := quotaWait(resp, now); got != tc.want {
				t.Errorf("quotaWait = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRetryAfterParsing(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", strconv.Itoa(7))
	if got := retryAfter(resp); got != 7*time.Second {
		t.Errorf("retryAfter = %v, want 7s", got)
	}

	resp.Header.Set("Retry-After", "soon")
	if got := retryAfter(resp); got != defaultRetryAfter {
		t.Errorf("retryAfter fallback = %v, want %v", got, defaultRetryAfter)
	}
}
