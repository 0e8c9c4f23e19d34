package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kmorand/tarotgen/internal/errors"
)

// touch creates an empty file.
func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
}

func TestNextBatches_SkipsProcessed(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "batch_0001.json"))
	touch(t, filepath.Join(dir, "batch_0002.json"))
	touch(t, filepath.Join(dir, "batch_0003.json"))
	touch(t, filepath.Join(dir, "batch_0002_responses.jsonl"))

	out, err := NextBatches(NextInput{BatchesDir: dir})
	if err != nil {
		t.Fatalf("NextBatches failed: %v", err)
	}
	want := []string{"batch_0001.json", "batch_0003.json"}
	if len(out.Unprocessed) != len(want) {
		t.Fatalf("Unprocessed = %v, want %v", out.Unprocessed, want)
	}
	for i, name := range want {
		if out.Unprocessed[i] != name {
			t.Errorf("Unprocessed[%d] = %q, want %q", i, out.Unprocessed[i], name)
		}
	}
	if out.Remaining != 2 {
		t.Errorf("Remaining = %d, want 2", out.Remaining)
	}
}

func TestNextBatches_IgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "batch_0001.json"))
	touch(t, filepath.Join(dir, "index.json"))
	touch(t, filepath.Join(dir, "INSTRUCTIONS.md"))
	touch(t, filepath.Join(dir, "batch_1.json"))
	touch(t, filepath.Join(dir, "batch_0001.json.bak"))
	if err := os.Mkdir(filepath.Join(dir, "batch_0002.json"), 0700); err != nil {
		t.Fatal(err)
	}

	out, err := NextBatches(NextInput{BatchesDir: dir})
	if err != nil {
		t.Fatalf("NextBatches failed: %v", err)
	}
	if len(out.Unprocessed) != 1 || out.Unprocessed[0] != "batch_0001.json" {
		t.Errorf("Unprocessed = %v, want only batch_0001.json", out.Unprocessed)
	}
}

func TestNextBatches_Limit(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"batch_0003.json", "batch_0001.json", "batch_0002.json"} {
		touch(t, filepath.Join(dir, name))
	}

	out, err := NextBatches(NextInput{BatchesDir: dir, Limit: 2})
	if err != nil {
		t.Fatalf("NextBatches failed: %v", err)
	}
	// Limit trims the list but Remaining reports the full backlog.
	if len(out.Unprocessed) != 2 {
		t.Fatalf("len(Unprocessed) = %d, want 2", len(out.Unprocessed))
	}
	if out.Unprocessed[0] != "batch_0001.json" || out.Unprocessed[1] != "batch_0002.json" {
		t.Errorf("Unprocessed = %v, want sorted first two", out.Unprocessed)
	}
	if out.Remaining != 3 {
		t.Errorf("Remaining = %d, want 3", out.Remaining)
	}
}

func TestNextBatches_WideBatchNumbers(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "batch_9999.json"))
	touch(t, filepath.Join(dir, "batch_10000.json"))
	touch(t, filepath.Join(dir, "batch_10001.json"))
	touch(t, filepath.Join(dir, "batch_10001_responses.jsonl"))

	out, err := NextBatches(NextInput{BatchesDir: dir})
	if err != nil {
		t.Fatalf("NextBatches failed: %v", err)
	}
	if out.Remaining != 2 {
		t.Fatalf("Remaining = %d, want 2", out.Remaining)
	}
	// Numeric order: lexicographic sorting would put 10000 first.
	want := []string{"batch_9999.json", "batch_10000.json"}
	for i, name := range want {
		if out.Unprocessed[i] != name {
			t.Errorf("Unprocessed[%d] = %q, want %q", i, out.Unprocessed[i], name)
		}
	}
}

func TestNextBatches_AllProcessed(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "batch_0001.json"))
	touch(t, filepath.Join(dir, "batch_0001_responses.jsonl"))

	out, err := NextBatches(NextInput{BatchesDir: dir})
	if err != nil {
		t.Fatalf("NextBatches failed: %v", err)
	}
	if out.Unprocessed == nil {
		t.Error("Unprocessed is nil, want empty slice")
	}
	if len(out.Unprocessed) != 0 || out.Remaining != 0 {
		t.Errorf("out = %+v, want empty", out)
	}
}

func TestNextBatches_MissingDir(t *testing.T) {
	_, err := NextBatches(NextInput{BatchesDir: filepath.Join(t.TempDir(), "nope")})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("got %v, want NOT_FOUND", err)
	}
}
