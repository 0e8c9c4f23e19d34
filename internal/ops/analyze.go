package ops

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kmorand/tarotgen/internal/config"
	"github.com/kmorand/tarotgen/internal/coverage"
	"github.com/kmorand/tarotgen/internal/errors"
)

// AnalyzeInput contains parameters for the Analyze operation.
type AnalyzeInput struct {
	BatchesDir  string
	ReportPath  string // optional; empty means report is only returned
	HTML        bool   // additionally render ReportPath + ".html"
	TargetTotal int    // default: 10000
}

// AnalyzeOutput contains the result of the Analyze operation.
type AnalyzeOutput struct {
	Batches       int    `json:"batches"`
	Examples      int    `json:"examples"`
	ParseFailures int    `json:"parse_failures"`
	ReportPath    string `json:"report_path,omitempty"`

	Report   *coverage.Report `json:"-"`
	Markdown string           `json:"-"`
}

// ResponseLine is one line of a batch responses JSONL file.
type ResponseLine struct {
	ID       string `json:"id"`
	Response string `json:"response"`
}

// Analyze joins completed batches with their responses, reverse-parses
// the rendered prompts, and produces the coverage report. Per-record
// parse failures are logged and skipped; the report always completes.
func Analyze(cfg *config.Config, input AnalyzeInput) (*AnalyzeOutput, error) {
	if input.BatchesDir == "" {
		return nil, errors.NewInvalidRequest("batches directory is required")
	}
	if input.TargetTotal <= 0 {
		input.TargetTotal = 10000
	}

	entries, err := os.ReadDir(input.BatchesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(input.BatchesDir)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to read batch directory: %w", err))
	}

	var batchNames []string
	for _, e := range entries {
		if !e.IsDir() && batchFileRe.MatchString(e.Name()) {
			batchNames = append(batchNames, e.Name())
		}
	}
	sortBatchNames(batchNames)

	var examples []*coverage.Example
	parseFailures := 0
	batchesJoined := 0

	for _, name := range batchNames {
		batchPath := filepath.Join(input.BatchesDir, name)
		responsesPath := filepath.Join(input.BatchesDir, strings.TrimSuffix(name, ".json")+"_responses.jsonl")
		if _, err := os.Stat(responsesPath); err != nil {
			continue // batch not processed yet
		}

		batch, err := readBatchFile(batchPath)
		if err != nil {
			log.Printf("warning: skipping unreadable batch %s: %v", name, err)
			parseFailures++
			continue
		}
		responses, err := readResponses(responsesPath)
		if err != nil {
			log.Printf("warning: skipping unreadable responses for %s: %v", name, err)
			parseFailures++
			continue
		}
		batchesJoined++

		for _, p := range batch.Prompts {
			if _, ok := responses[p.ID]; !ok {
				continue // response not authored yet
			}
			ex, err := coverage.Parse(p.Input)
			if err != nil {
				log.Printf("warning: skipping unparseable prompt %s in %s: %v", p.ID, name, err)
				parseFailures++
				continue
			}
			examples = append(examples, ex)
		}
	}

	report := coverage.Analyze(examples, parseFailures, coverage.Targets{
		CardFloor:            cfg.CardFloor,
		CategoryTolerancePct: cfg.CategoryTolerancePct,
		PhaseToleranceFrac:   cfg.PhaseToleranceFrac,
		ReversedMin:          cfg.ReversedMin,
		ReversedMax:          cfg.ReversedMax,
	})
	markdown := report.Markdown(input.TargetTotal)

	out := &AnalyzeOutput{
		Batches:       batchesJoined,
		Examples:      len(examples),
		ParseFailures: parseFailures,
		Report:        report,
		Markdown:      markdown,
	}

	if input.ReportPath != "" {
		if err := os.WriteFile(input.ReportPath, []byte(markdown), 0600); err != nil {
			return nil, errors.NewInternal(fmt.Errorf("failed to write report: %w", err))
		}
		out.ReportPath = input.ReportPath

		if input.HTML {
			html, err := coverage.RenderHTML(markdown)
			if err != nil {
				return nil, errors.NewInternal(fmt.Errorf("failed to render report html: %w", err))
			}
			if err := os.WriteFile(input.ReportPath+".html", []byte(html), 0600); err != nil {
				return nil, errors.NewInternal(fmt.Errorf("failed to write report html: %w", err))
			}
		}
	}

	return out, nil
}

// readBatchFile loads one batch file.
func readBatchFile(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var batch BatchFile
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// readResponses loads a responses JSONL file into an id → response map.
// Malformed lines are logged and skipped, matching the analyzer's
// degrade-don't-abort contract.
func readResponses(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	responses := make(map[string]string)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rl ResponseLine
		if err := json.Unmarshal([]byte(line), &rl); err != nil {
			log.Printf("warning: %s line %d: %v", path, lineNo, err)
			continue
		}
		if rl.ID != "" {
			responses[rl.ID] = rl.Response
		}
	}
	return responses, scanner.Err()
}
