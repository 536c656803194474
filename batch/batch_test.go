package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/tsawler/outliner/cache"
	"github.com/tsawler/outliner/export"
	"github.com/tsawler/outliner/internal/pdftest"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

// setupInput creates two valid PDFs, one corrupt PDF, an unsupported file
// and a nested PDF
func setupInput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "alpha.pdf"), pdftest.Report("Alpha Report"))
	writeFile(t, filepath.Join(dir, "beta.PDF"), pdftest.Report("Beta Report"))
	writeFile(t, filepath.Join(dir, "broken.pdf"), []byte("%PDF-1.4\nthis file is truncated"))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("not a document we handle"))
	writeFile(t, filepath.Join(dir, "sub", "gamma.pdf"), pdftest.Report("Gamma Report"))
	return dir
}

func TestDiscover(t *testing.T) {
	dir := setupInput(t)

	tests := []struct {
		name      string
		recursive bool
		want      []string
	}{
		{"flat", false, []string{"alpha.pdf", "beta.PDF", "broken.pdf"}},
		{"recursive", true, []string{"alpha.pdf", "beta.PDF", "broken.pdf", filepath.Join("sub", "gamma.pdf")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := New(Config{Recursive: tt.recursive}).Discover(dir)
			if err != nil {
				t.Fatalf("Discover failed: %v", err)
			}
			var got []string
			for _, d := range docs {
				rel, _ := filepath.Rel(dir, d)
				got = append(got, rel)
			}
			sort.Strings(got)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Discover = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	r := New(Config{Format: export.FormatMarkdown})
	got := r.OutputPath("/in", "/out", filepath.Join("/in", "sub", "doc.pdf"))
	want := filepath.Join("/out", "sub", "doc.md")
	if got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestRun(t *testing.T) {
	in := setupInput(t)
	out := filepath.Join(t.TempDir(), "out")

	var mu sync.Mutex
	var seen []string
	summary, err := New(Config{
		Workers: 2,
		OnItem: func(item Item) {
			mu.Lock()
			seen = append(seen, filepath.Base(item.Input))
			mu.Unlock()
		},
	}).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Processed != 3 {
		t.Errorf("Processed = %d, want 3", summary.Processed)
	}
	if summary.Degraded != 1 {
		t.Errorf("Degraded = %d, want 1", summary.Degraded)
	}
	if summary.Failed != 0 || summary.Cached != 0 {
		t.Errorf("Failed/Cached = %d/%d, want 0/0", summary.Failed, summary.Cached)
	}
	if len(seen) != 3 {
		t.Errorf("OnItem called %d times, want 3", len(seen))
	}

	// One output per input, the corrupt one included
	for _, name := range []string{"alpha.json", "beta.json", "broken.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	broken, err := os.ReadFile(filepath.Join(out, "broken.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(broken) != "{\n  \"title\": \"broken\",\n  \"outline\": []\n}\n" {
		t.Errorf("degraded output = %s", broken)
	}

	for _, item := range summary.Items {
		if filepath.Base(item.Input) == "alpha.pdf" {
			if item.Result.Degraded() {
				t.Fatalf("alpha degraded: %v", item.Result.Err)
			}
			if item.Result.Title != "Alpha Report" {
				t.Errorf("alpha title = %q, want %q", item.Result.Title, "Alpha Report")
			}
		}
	}
}

func TestRunRecursive(t *testing.T) {
	in := setupInput(t)
	out := t.TempDir()

	summary, err := New(Config{Recursive: true, Format: export.FormatMarkdown}).Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Processed != 4 {
		t.Errorf("Processed = %d, want 4", summary.Processed)
	}
	if _, err := os.Stat(filepath.Join(out, "sub", "gamma.md")); err != nil {
		t.Errorf("nested output missing: %v", err)
	}
}

func TestRunWithCache(t *testing.T) {
	in := setupInput(t)
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	r := New(Config{Cache: c})
	first, err := r.Run(context.Background(), in, t.TempDir())
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if first.Cached != 0 {
		t.Errorf("first run Cached = %d, want 0", first.Cached)
	}

	second, err := r.Run(context.Background(), in, t.TempDir())
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	// The degraded document is never cached
	if second.Cached != 2 {
		t.Errorf("second run Cached = %d, want 2", second.Cached)
	}
	if second.Degraded != 1 {
		t.Errorf("second run Degraded = %d, want 1", second.Degraded)
	}
}

func TestRunErrors(t *testing.T) {
	empty := t.TempDir()
	writeFile(t, filepath.Join(empty, "readme.txt"), []byte("nothing"))

	tests := []struct {
		name string
		in   string
		want error
	}{
		{"missing input", filepath.Join(t.TempDir(), "absent"), ErrNoInput},
		{"no documents", empty, ErrNoDocuments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{}).Run(context.Background(), tt.in, t.TempDir())
			if !errors.Is(err, tt.want) {
				t.Errorf("Run error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	in := setupInput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := New(Config{}).Run(ctx, in, t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if summary.Processed != 0 {
		t.Errorf("Processed = %d, want 0", summary.Processed)
	}
}

func TestRunUnwritableOutput(t *testing.T) {
	in := setupInput(t)
	// A file where the output directory should be
	blocker := filepath.Join(t.TempDir(), "out")
	writeFile(t, blocker, []byte("x"))

	if _, err := New(Config{}).Run(context.Background(), in, blocker); err == nil {
		t.Error("expected error when the output directory cannot be created")
	}
}
