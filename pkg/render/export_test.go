package render

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/citescope/citescope/pkg/errors"
)

func TestExportFilename(t *testing.T) {
	ts := time.Date(2026, 8, 23, 14, 32, 1, 0, time.UTC)

	tests := []struct {
		name string
		tool string
		want string
	}{
		{"plain", "search_papers", "search_papers_20260823_143201.png"},
		{"uppercase folded", "SearchPapers", "searchpapers_20260823_143201.png"},
		{"spaces and punctuation", "cite graph: v2!", "cite_graph_v2_20260823_143201.png"},
		{"dashes kept", "co-citation", "co-citation_20260823_143201.png"},
		{"empty falls back", "", "graph_20260823_143201.png"},
		{"only junk falls back", "???", "graph_20260823_143201.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportFilename(tt.tool, ts); got != tt.want {
				t.Errorf("ExportFilename(%q) = %q, want %q", tt.tool, got, tt.want)
			}
		})
	}
}

func TestExportPNGWritesFile(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	ts := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)

	path, err := ExportPNG(context.Background(), img, dir, "search_papers", ts)
	if err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path %q not under %q", path, dir)
	}
	if filepath.Base(path) != "search_papers_20260823_090000.png" {
		t.Errorf("filename = %q", filepath.Base(path))
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("exported file missing or empty: %v", err)
	}
}

func TestExportPNGCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	if _, err := ExportPNG(context.Background(), img, dir, "t", time.Now()); err != nil {
		t.Fatalf("ExportPNG into missing dir: %v", err)
	}
}

func TestExportPNGFailureIsCoded(t *testing.T) {
	// Using a regular file as the target directory forces a failure.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	_, err := ExportPNG(context.Background(), img, blocker, "t", time.Now())
	if !errors.Is(err, errors.ErrCodeExportFailed) {
		t.Errorf("err = %v, want EXPORT_FAILED", err)
	}
}
