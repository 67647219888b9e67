package scanner

import (
	"context"
	"errors"
	"testing"

	"putmig/internal/logging"
	"putmig/internal/putio"
)

// fakeLister serves a canned folder hierarchy keyed by parent ID.
type fakeLister struct {
	tree   map[int64][]putio.File
	broken map[int64]error
	calls  []int64
}

func (f *fakeLister) ListFiles(_ context.Context, parentID int64) ([]putio.File, error) {
	f.calls = append(f.calls, parentID)
	if err, ok := f.broken[parentID]; ok {
		return nil, err
	}
	return f.tree[parentID], nil
}

func folder(id int64, name string, parent int64) putio.File {
	return putio.File{ID: id, Name: name, FileType: "FOLDER", ParentID: parent}
}

func video(id int64, name string, size, parent int64) putio.File {
	return putio.File{ID: id, Name: name, Size: size, FileType: "VIDEO", ParentID: parent}
}

func TestScanBuildsTreeAndFileList(t *testing.T) {
	lister := &fakeLister{tree: map[int64][]putio.File{
		0:  {video(1, "movie.mp4", 1024, 0), folder(10, "music", 0)},
		10: {video(11, "song.mp3", 512, 10), folder(20, "live", 10)},
		20: {video(21, "set.flac", 2048, 20)},
	}}

	s := New(lister, Filters{}, logging.NewNop())
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(result.Files))
	}
	if result.TotalBytes != 1024+512+2048 {
		t.Errorf("TotalBytes = %d", result.TotalBytes)
	}

	paths := map[int64]string{}
	for _, file := range result.Files {
		paths[file.ID] = file.Path
	}
	want := map[int64]string{
		1:  "movie.mp4",
		11: "music/song.mp3",
		21: "music/live/set.flac",
	}
	for id, path := range want {
		if paths[id] != path {
			t.Errorf("file %d path = %q, want %q", id, paths[id], path)
		}
	}

	// Depth-first order: files appear in the order their folders were walked.
	if result.Files[0].ID != 1 || result.Files[1].ID != 11 || result.Files[2].ID != 21 {
		t.Errorf("unexpected discovery order: %v", []int64{result.Files[0].ID, result.Files[1].ID, result.Files[2].ID})
	}
}

func TestScanSkipsUnreadableFolder(t *testing.T) {
	lister := &fakeLister{
		tree: map[int64][]putio.File{
			0:  {folder(10, "good", 0), folder(30, "bad", 0)},
			10: {video(11, "keep.mp4", 100, 10)},
		},
		broken: map[int64]error{30: errors.New("boom")},
	}

	s := New(lister, Filters{}, logging.NewNop())
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan must tolerate unreadable folders, got %v", err)
	}
	if len(result.Files) != 1 || result.Files[0].ID != 11 {
		t.Errorf("expected the readable subtree to survive, got %+v", result.Files)
	}
	if result.TotalBytes != 100 {
		t.Errorf("TotalBytes = %d, want only included files counted", result.TotalBytes)
	}
}

func TestScanAbortsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lister := &fakeLister{tree: map[int64][]putio.File{0: {video(1, "a.mp4", 1, 0)}}}
	s := New(lister, Filters{}, logging.NewNop())
	if _, err := s.Scan(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestScanReportsProgress(t *testing.T) {
	lister := &fakeLister{tree: map[int64][]putio.File{
		0:  {folder(10, "shows", 0)},
		10: {video(11, "pilot.mkv", 700, 10)},
	}}

	var snapshots []Progress
	s := New(lister, Filters{}, logging.NewNop(), WithObserver(func(p Progress) {
		snapshots = append(snapshots, p)
	}))
	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(snapshots) == 0 {
		t.Fatal("expected progress callbacks")
	}
	last := snapshots[len(snapshots)-1]
	if last.FoldersScanned != 2 || last.FilesDiscovered != 1 || last.BytesDiscovered != 700 {
		t.Errorf("final snapshot = %+v", last)
	}
}

func TestIncludeFile(t *testing.T) {
	filters := Filters{
		AllowedExtensions: []string{"mp4", "mkv"},
		BlockedExtensions: []string{"zip"},
		MaxFileSizeGB:     2,
	}
	const mb = 1024 * 1024

	cases := []struct {
		name string
		size int64
		want bool
	}{
		{"a.mp4", mb, true},
		{"b.zip", mb, false},
		{"c.mkv", 5 * 1024 * mb, false},
		{"d.MP4", mb, true},
		{"noext", mb, false},
	}
	for _, tc := range cases {
		if got := filters.includeFile(tc.name, tc.size); got != tc.want {
			t.Errorf("includeFile(%q, %d) = %v, want %v", tc.name, tc.size, got, tc.want)
		}
	}
}

func TestAllowListWinsOverBlockListOrdering(t *testing.T) {
	// An extension in both lists is still blocked.
	filters := Filters{
		AllowedExtensions: []string{"iso"},
		BlockedExtensions: []string{"iso"},
	}
	if filters.includeFile("disc.iso", 1) {
		t.Error("extension present in both lists must be excluded")
	}
}

func TestEmptyFiltersIncludeEverything(t *testing.T) {
	filters := Filters{}
	if !filters.includeFile("anything.bin", 1<<40) {
		t.Error("empty filters must include every file")
	}
}

func TestFoldersBypassFilters(t *testing.T) {
	// A folder named like a blocked file must still be descended into.
	lister := &fakeLister{tree: map[int64][]putio.File{
		0:  {folder(10, "archive.zip", 0)},
		10: {video(11, "inside.mp4", 10, 10)},
	}}

	s := New(lister, Filters{BlockedExtensions: []string{"zip"}}, logging.NewNop())
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0].Path != "archive.zip/inside.mp4" {
		t.Errorf("expected folder traversal despite blocked extension, got %+v", result.Files)
	}
}
