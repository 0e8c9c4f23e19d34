package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kmorand/tarotgen/internal/config"
	"github.com/kmorand/tarotgen/internal/errors"
	"github.com/kmorand/tarotgen/internal/prompt"
)

// PartitionInput contains parameters for the Partition operation.
type PartitionInput struct {
	PromptsPath string
	OutDir      string
	BatchSize   int // default: cfg.BatchSize
	StartBatch  int // first batch number, 1-based; 0 means 1
}

// PartitionOutput contains the result of the Partition operation.
type PartitionOutput struct {
	TotalPrompts int    `json:"total_prompts"`
	Pending      int    `json:"pending"`
	BatchSize    int    `json:"batch_size"`
	TotalBatches int    `json:"total_batches"`
	FirstBatch   int    `json:"first_batch"`
	LastBatch    int    `json:"last_batch"`
	OutDir       string `json:"out_dir"`
}

// BatchPrompt is one prompt inside a batch file.
type BatchPrompt struct {
	ID    string `json:"id"`
	Input string `json:"input"`
}

// BatchFile is the self-describing on-disk batch format.
type BatchFile struct {
	BatchID    int           `json:"batch_id"`
	OutputFile string        `json:"output_file"`
	Prompts    []BatchPrompt `json:"prompts"`
}

// IndexFile is the corpus-level batch index.
type IndexFile struct {
	TotalPrompts int `json:"total_prompts"`
	Pending      int `json:"pending"`
	BatchSize    int `json:"batch_size"`
	TotalBatches int `json:"total_batches"`
}

// BatchFileName returns the canonical batch file name for an index.
func BatchFileName(batchID int) string {
	return fmt.Sprintf("batch_%04d.json", batchID)
}

// ResponsesFileName returns the responses sibling expected for a batch.
func ResponsesFileName(batchID int) string {
	return fmt.Sprintf("batch_%04d_responses.jsonl", batchID)
}

// Partition splits pending prompt records into fixed-size batch files
// plus an index and a processing-instructions document. Re-running with
// the same start batch overwrites the same file names; batches are
// regenerated from the prompt records, never hand-edited.
func Partition(cfg *config.Config, input PartitionInput) (*PartitionOutput, error) {
	if input.PromptsPath == "" {
		return nil, errors.NewInvalidRequest("prompts path is required")
	}
	if input.OutDir == "" {
		return nil, errors.NewInvalidRequest("output directory is required")
	}
	if input.BatchSize == 0 {
		input.BatchSize = cfg.BatchSize
	}
	if input.BatchSize <= 0 {
		return nil, errors.NewInvalidRequest("batch size must be positive")
	}
	if input.StartBatch < 0 {
		return nil, errors.NewInvalidRequest("start batch must be positive; batch numbering is 1-based")
	}
	if input.StartBatch == 0 {
		input.StartBatch = 1
	}

	records, err := prompt.Load(input.PromptsPath)
	if err != nil {
		return nil, err
	}

	pending := make([]prompt.Record, 0, len(records))
	for _, r := range records {
		if r.Status == prompt.StatusPending {
			pending = append(pending, r)
		}
	}

	if err := os.MkdirAll(input.OutDir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create batch directory: %w", err))
	}

	totalBatches := 0
	for start := 0; start < len(pending); start += input.BatchSize {
		end := start + input.BatchSize
		if end > len(pending) {
			end = len(pending)
		}

		batchID := input.StartBatch + totalBatches
		batch := BatchFile{
			BatchID:    batchID,
			OutputFile: ResponsesFileName(batchID),
		}
		for _, r := range pending[start:end] {
			batch.Prompts = append(batch.Prompts, BatchPrompt{ID: r.ID, Input: r.Input})
		}

		if err := writeJSON(filepath.Join(input.OutDir, BatchFileName(batchID)), batch); err != nil {
			return nil, err
		}
		totalBatches++
	}

	index := IndexFile{
		TotalPrompts: len(records),
		Pending:      len(pending),
		BatchSize:    input.BatchSize,
		TotalBatches: totalBatches,
	}
	if err := writeJSON(filepath.Join(input.OutDir, "index.json"), index); err != nil {
		return nil, err
	}

	if err := writeInstructions(input.OutDir, index); err != nil {
		return nil, err
	}

	out := &PartitionOutput{
		TotalPrompts: len(records),
		Pending:      len(pending),
		BatchSize:    input.BatchSize,
		TotalBatches: totalBatches,
		OutDir:       input.OutDir,
	}
	if totalBatches > 0 {
		out.FirstBatch = input.StartBatch
		out.LastBatch = input.StartBatch + totalBatches - 1
	}
	return out, nil
}

// writeJSON marshals v to path with indentation.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.NewInternal(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to write %s: %w", path, err))
	}
	return nil
}

// writeInstructions writes the human-readable processing document that
// accompanies a batch directory.
func writeInstructions(outDir string, index IndexFile) error {
	text := fmt.Sprintf(`# Batch Processing Instructions

This directory holds %d batch files covering %d pending prompts
(%d prompts per batch, last batch may be smaller).

For each batch_NNNN.json:

1. Read the "prompts" array. Each entry has an "id" and the full "input"
   prompt text ending in an open assistant turn.
2. Author one reading per prompt, following the style instruction inside
   the prompt.
3. Write the results to the file named in "output_file"
   (batch_NNNN_responses.jsonl), one JSON object per line:

       {"id": "<prompt id>", "response": "<reading text>"}

4. Do not edit the batch files themselves; they are regenerated from the
   prompt records and any edits will be lost.

A batch counts as processed once its responses file exists. Use
"tarotgen next" to list batches that still need work, and
"tarotgen coverage" to audit the finished corpus.
`, index.TotalBatches, index.Pending, index.BatchSize)

	path := filepath.Join(outDir, "INSTRUCTIONS.md")
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to write instructions: %w", err))
	}
	return nil
}
