package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kmorand/tarotgen/internal/errors"
)

// SubmitInput contains parameters for the SubmitResponses operation.
type SubmitInput struct {
	BatchesDir string
	BatchName  string // e.g. "batch_0001.json"
	Responses  []ResponseLine
	Force      bool // overwrite an existing responses file
}

// SubmitOutput contains the result of the SubmitResponses operation.
type SubmitOutput struct {
	BatchName     string `json:"batch_name"`
	ResponsesFile string `json:"responses_file"`
	Written       int    `json:"written"`
	Unmatched     int    `json:"unmatched"`
}

// SubmitResponses writes a responses JSONL file for one batch. Ids that
// do not belong to the batch are counted but not written, and a response
// is required for every prompt so a batch is never half-done. An
// existing responses file is refused unless Force is set; its presence
// is what marks the batch as processed.
func SubmitResponses(input SubmitInput) (*SubmitOutput, error) {
	if input.BatchesDir == "" {
		return nil, errors.NewInvalidRequest("batches directory is required")
	}
	if input.BatchName == "" {
		return nil, errors.NewInvalidRequest("batch name is required")
	}
	if !batchFileRe.MatchString(input.BatchName) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid batch name: %s", input.BatchName))
	}
	if len(input.Responses) == 0 {
		return nil, errors.NewInvalidRequest("at least one response is required")
	}

	batchPath := filepath.Join(input.BatchesDir, input.BatchName)
	batch, err := readBatchFile(batchPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(input.BatchName)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to read batch: %w", err))
	}

	responsesPath := filepath.Join(input.BatchesDir, batch.OutputFile)
	if !input.Force {
		if _, err := os.Stat(responsesPath); err == nil {
			return nil, errors.NewResponsesExist(responsesPath)
		}
	}

	wanted := make(map[string]bool, len(batch.Prompts))
	for _, p := range batch.Prompts {
		wanted[p.ID] = true
	}

	byID := make(map[string]string, len(input.Responses))
	unmatched := 0
	for _, r := range input.Responses {
		if !wanted[r.ID] {
			unmatched++
			continue
		}
		byID[r.ID] = r.Response
	}
	for _, p := range batch.Prompts {
		if _, ok := byID[p.ID]; !ok {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("missing response for prompt %s", p.ID))
		}
	}

	var buf []byte
	for _, p := range batch.Prompts {
		line, err := json.Marshal(ResponseLine{ID: p.ID, Response: byID[p.ID]})
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	// Temp-then-rename so an interrupted write never presents a
	// half-written file as a completion signal.
	tmp := responsesPath + ".tmp"
	if err := os.WriteFile(tmp, buf, 0600); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to write responses: %w", err))
	}
	if err := os.Rename(tmp, responsesPath); err != nil {
		os.Remove(tmp)
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize responses: %w", err))
	}

	return &SubmitOutput{
		BatchName:     input.BatchName,
		ResponsesFile: batch.OutputFile,
		Written:       len(batch.Prompts),
		Unmatched:     unmatched,
	}, nil
}
