package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"putmig/internal/config"
	"putmig/internal/ledger"
	"putmig/internal/logging"
	"putmig/internal/putio"
	"putmig/internal/testsupport"
	"putmig/internal/transfer"
	"putmig/internal/workflow"
)

// fakeClient serves a small canned account over a local content server. Files
// download from server.URL/<id>.
type fakeClient struct {
	tree       map[int64][]putio.File
	contentURL string
	authErr    error
	urlErr     map[int64]error
}

func (f *fakeClient) AccountInfo(context.Context) (*putio.AccountInfo, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return &putio.AccountInfo{Username: "tester"}, nil
}

func (f *fakeClient) ListFiles(_ context.Context, parentID int64) ([]putio.File, error) {
	return f.tree[parentID], nil
}

func (f *fakeClient) DownloadURL(_ context.Context, id int64) (string, error) {
	if err, ok := f.urlErr[id]; ok {
		return "", err
	}
	return fmt.Sprintf("%s/%d", f.contentURL, id), nil
}

// newContentServer serves fixed payloads keyed by the final path element.
func newContentServer(t *testing.T, payloads map[string][]byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := payloads[filepath.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func payloadOf(size int) []byte {
	body := make([]byte, size)
	for i := range body {
		body[i] = byte('a' + i%26)
	}
	return body
}

// newManager assembles a manager over the fake client and a real executor.
// The executor's fetcher binary does not exist, so every transfer exercises
// the HTTP fallback against the content server.
func newManager(t *testing.T, cfg *config.Config, client *fakeClient, opts ...workflow.Option) *workflow.Manager {
	t.Helper()
	led := ledger.Open(cfg.State.FilePath, time.Hour, logging.NewNop())
	executor := transfer.New(transfer.Config{
		DestinationDir:    cfg.Destination.BasePath,
		Connections:       cfg.Download.Connections,
		Timeout:           10 * time.Second,
		PreserveStructure: cfg.Destination.PreserveStructure,
		UseFallback:       cfg.Advanced.UseFallbackDownloader,
		Binary:            "putmig-test-no-such-fetcher",
	}, logging.NewNop())
	return workflow.NewManager(cfg, client, led, executor, logging.NewNop(), opts...)
}

func twoFileAccount(contentURL string) *fakeClient {
	return &fakeClient{
		contentURL: contentURL,
		tree: map[int64][]putio.File{
			0: {
				{ID: 1, Name: "movie.mp4", Size: 1024, FileType: "VIDEO", ParentID: 0},
				{ID: 10, Name: "music", FileType: "FOLDER", ParentID: 0},
			},
			10: {
				{ID: 2, Name: "song.mp3", Size: 512, FileType: "AUDIO", ParentID: 10},
			},
		},
	}
}

func TestRunMigratesAccount(t *testing.T) {
	server := newContentServer(t, map[string][]byte{
		"1": payloadOf(1024),
		"2": payloadOf(512),
	})
	cfg := testsupport.NewConfig(t)
	client := twoFileAccount(server.URL)
	manager := newManager(t, cfg, client)

	summary, err := manager.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.TotalFiles != 2 || summary.Completed != 2 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.BytesTransferred != 1536 {
		t.Errorf("BytesTransferred = %d", summary.BytesTransferred)
	}

	if got := testsupport.FileSize(t, filepath.Join(cfg.Destination.BasePath, "movie.mp4")); got != 1024 {
		t.Errorf("movie.mp4 size = %d", got)
	}
	if got := testsupport.FileSize(t, filepath.Join(cfg.Destination.BasePath, "music", "song.mp3")); got != 512 {
		t.Errorf("song.mp3 size = %d", got)
	}

	reloaded := testsupport.OpenLedger(t, cfg.State.FilePath)
	if !reloaded.IsCompleted("movie.mp4") || !reloaded.IsCompleted("music/song.mp3") {
		t.Error("completions not persisted")
	}
}

func TestRerunSkipsCompletedFiles(t *testing.T) {
	server := newContentServer(t, map[string][]byte{
		"1": payloadOf(1024),
		"2": payloadOf(512),
	})
	cfg := testsupport.NewConfig(t)

	first := newManager(t, cfg, twoFileAccount(server.URL))
	if _, err := first.Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	second := newManager(t, cfg, twoFileAccount(server.URL))
	summary, err := second.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if summary.Skipped != 2 || summary.Completed != 0 || summary.Failed != 0 {
		t.Errorf("rerun summary = %+v", summary)
	}
}

func TestRunAbortsOnAuthFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	client := &fakeClient{authErr: &putio.Error{Kind: putio.KindAuth, StatusCode: 401, Message: "bad token"}}
	manager := newManager(t, cfg, client)

	_, err := manager.Run(context.Background())
	if !putio.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestRunContinuesPastURLFailure(t *testing.T) {
	server := newContentServer(t, map[string][]byte{
		"2": payloadOf(512),
	})
	client := twoFileAccount(server.URL)
	client.urlErr = map[int64]error{1: errors.New("no url for you")}
	cfg := testsupport.NewConfig(t)
	manager := newManager(t, cfg, client)

	summary, err := manager.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Completed != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}

	record, ok := manager.Ledger().Record("movie.mp4")
	if !ok || record.Status != ledger.StatusFailed {
		t.Fatalf("expected failed record, got %+v ok=%v", record, ok)
	}
	if record.RetryCount != 1 {
		t.Errorf("RetryCount = %d", record.RetryCount)
	}
}

func TestRunRecordsTransferFailure(t *testing.T) {
	// Content server knows nothing, so the fallback gets 404s.
	server := newContentServer(t, nil)
	cfg := testsupport.NewConfig(t)
	manager := newManager(t, cfg, twoFileAccount(server.URL))

	summary, err := manager.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Failed != 2 || summary.Completed != 0 {
		t.Errorf("summary = %+v", summary)
	}

	reloaded := testsupport.OpenLedger(t, cfg.State.FilePath)
	if got := len(reloaded.FailedFiles()); got != 2 {
		t.Errorf("persisted failed records = %d", got)
	}
}

func TestRunInterruptedBetweenItems(t *testing.T) {
	server := newContentServer(t, map[string][]byte{
		"1": payloadOf(1024),
		"2": payloadOf(512),
	})
	cfg := testsupport.NewConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	var events int
	manager := newManager(t, cfg, twoFileAccount(server.URL),
		workflow.WithItemObserver(func(event workflow.ItemEvent) {
			events++
			// Cancel once the first item has an outcome.
			if event.Outcome != nil {
				cancel()
			}
		}))

	summary, err := manager.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !summary.Interrupted {
		t.Error("summary must be marked interrupted")
	}
	if summary.Completed != 1 {
		t.Errorf("Completed = %d, want 1", summary.Completed)
	}

	// The interrupted run flushed the one completion it made.
	reloaded := testsupport.OpenLedger(t, cfg.State.FilePath)
	if len(reloaded.CompletedFiles()) != 1 {
		t.Errorf("persisted completions = %d", len(reloaded.CompletedFiles()))
	}
}

func TestRunAppliesFilters(t *testing.T) {
	server := newContentServer(t, map[string][]byte{
		"1": payloadOf(1024),
	})
	client := twoFileAccount(server.URL)
	cfg := testsupport.NewConfig(t, testsupport.WithFilters(config.Filters{
		AllowedExtensions: []string{"mp4"},
	}))
	manager := newManager(t, cfg, client)

	summary, err := manager.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.TotalFiles != 1 || summary.Completed != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestRunEmptyAccount(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	client := &fakeClient{tree: map[int64][]putio.File{}}
	manager := newManager(t, cfg, client)

	summary, err := manager.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.TotalFiles != 0 || summary.Completed != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestReconcilePreservesScanOrder(t *testing.T) {
	server := newContentServer(t, nil)
	cfg := testsupport.NewConfig(t)
	manager := newManager(t, cfg, twoFileAccount(server.URL))

	result, err := manager.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	manager.Ledger().MarkCompleted("movie.mp4", 1024)

	pending := manager.Reconcile(result)
	if len(pending) != 1 || pending[0].Path != "music/song.mp3" {
		t.Errorf("pending = %+v", pending)
	}
}
