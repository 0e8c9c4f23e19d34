package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kmorand/tarotgen/internal/errors"
)

// NextInput contains parameters for the NextBatches operation.
type NextInput struct {
	BatchesDir string
	Limit      int // 0 means all
}

// NextOutput contains the result of the NextBatches operation.
type NextOutput struct {
	Unprocessed []string `json:"unprocessed"`
	Remaining   int      `json:"remaining"`
}

// Batch names are zero-padded to four digits but grow wider past 9999,
// so matching and ordering must both tolerate the width change.
var batchFileRe = regexp.MustCompile(`^batch_(\d{4,})\.json$`)

// batchNumber extracts the numeric id from a batch file name, or -1 for
// a name that is not a batch file.
func batchNumber(name string) int {
	m := batchFileRe.FindStringSubmatch(name)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}

// sortBatchNames orders batch file names by numeric id. Lexicographic
// order breaks once ids cross a digit-width boundary ("batch_10000.json"
// sorts before "batch_9999.json").
func sortBatchNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return batchNumber(names[i]) < batchNumber(names[j])
	})
}

// NextBatches lists batch files that have no responses sibling yet, in
// filename order. File existence is the sole completion signal; a
// partially written responses file still marks its batch as taken, which
// is fine for a single-writer directory.
func NextBatches(input NextInput) (*NextOutput, error) {
	if input.BatchesDir == "" {
		return nil, errors.NewInvalidRequest("batches directory is required")
	}

	entries, err := os.ReadDir(input.BatchesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(input.BatchesDir)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to read batch directory: %w", err))
	}

	var unprocessed []string
	for _, e := range entries {
		if e.IsDir() || !batchFileRe.MatchString(e.Name()) {
			continue
		}
		responses := strings.TrimSuffix(e.Name(), ".json") + "_responses.jsonl"
		if _, err := os.Stat(filepath.Join(input.BatchesDir, responses)); err == nil {
			continue
		}
		unprocessed = append(unprocessed, e.Name())
	}
	sortBatchNames(unprocessed)

	out := &NextOutput{Remaining: len(unprocessed)}
	if input.Limit > 0 && len(unprocessed) > input.Limit {
		out.Unprocessed = unprocessed[:input.Limit]
	} else {
		out.Unprocessed = unprocessed
	}
	if out.Unprocessed == nil {
		out.Unprocessed = []string{}
	}
	return out, nil
}
