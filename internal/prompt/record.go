package prompt

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kmorand/tarotgen/internal/errors"
)

// Status tracks a prompt record through the authoring pipeline.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Record is one generated training prompt. Records are written once and
// never mutated in-process; the response and status fields are filled in
// out-of-band on the serialized JSON.
type Record struct {
	ID       string `json:"id"`
	Spread   string `json:"spread_name"`
	Question string `json:"question"`
	Category string `json:"question_category"`
	Input    string `json:"input_text"`
	Response string `json:"response,omitempty"`
	Status   Status `json:"status"`
}

// Save writes the records as a JSON array via a temp file and atomic
// rename, so a failed write never truncates an existing prompt file.
func Save(path string, records []Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create output directory: %w", err))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.NewInternal(err)
	}
	data = append(data, '\n')

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to write prompt file: %w", err))
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.NewInternal(fmt.Errorf("failed to finalize prompt file: %w", err))
	}
	return nil
}

// Load reads a prompt record file written by Save.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("prompt file %s is malformed: %w", path, err))
	}
	return records, nil
}
