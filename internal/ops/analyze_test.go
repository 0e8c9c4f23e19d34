package ops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kmorand/tarotgen/internal/config"
	"github.com/kmorand/tarotgen/internal/deck"
	"github.com/kmorand/tarotgen/internal/draw"
	"github.com/kmorand/tarotgen/internal/errors"
	"github.com/kmorand/tarotgen/internal/prompt"
)

// renderedPrompt builds one parseable prompt for a fixed three-card draw.
func renderedPrompt(t *testing.T, question string) string {
	t.Helper()
	o := testOracle(t)

	layout, ok := deck.SpreadByID("threeCard")
	if !ok {
		t.Fatal("threeCard layout missing")
	}
	phase, ok := deck.MoonPhaseByName("Full Moon")
	if !ok {
		t.Fatal("Full Moon phase missing")
	}

	names := []string{"The Fool", "The Magician", "Ace of Cups"}
	var cards []draw.DrawnCard
	for i, name := range names {
		c, ok := deck.CardByName(name)
		if !ok {
			t.Fatalf("card %q not in deck", name)
		}
		cards = append(cards, draw.DrawnCard{Card: c, Position: layout.Positions[i], Reversed: i == 1})
	}

	return prompt.Render(prompt.RenderInput{
		Spread:   layout,
		Cards:    cards,
		Question: question,
		Style:    prompt.StyleBalanced,
		Phase:    phase,
		Meanings: o,
	})
}

func TestAnalyze_JoinsCompletedBatches(t *testing.T) {
	dir := t.TempDir()

	// Batch 1 is processed, batch 2 is not.
	input := renderedPrompt(t, "Will I find love?")
	writeJSONBatch(t, dir, 1, map[string]string{"aaa": input, "bbb": input})
	writeJSONBatch(t, dir, 2, map[string]string{"ccc": input})

	if _, err := SubmitResponses(SubmitInput{
		BatchesDir: dir,
		BatchName:  "batch_0001.json",
		Responses: []ResponseLine{
			{ID: "aaa", Response: "a reading"},
			{ID: "bbb", Response: "another reading"},
		},
	}); err != nil {
		t.Fatalf("SubmitResponses failed: %v", err)
	}

	out, err := Analyze(config.DefaultConfig(), AnalyzeInput{BatchesDir: dir})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if out.Batches != 1 {
		t.Errorf("Batches = %d, want 1", out.Batches)
	}
	if out.Examples != 2 {
		t.Errorf("Examples = %d, want 2 (unprocessed batch excluded)", out.Examples)
	}
	if out.ParseFailures != 0 {
		t.Errorf("ParseFailures = %d, want 0", out.ParseFailures)
	}

	r := out.Report
	if r.Examples != 2 {
		t.Errorf("report examples = %d, want 2", r.Examples)
	}
	found := false
	for _, s := range r.CategoryShares {
		if s.Name == "love" && s.Count == 2 {
			found = true
		}
	}
	if !found {
		t.Error("love category not counted from parsed prompts")
	}
}

func TestAnalyze_CountsParseFailures(t *testing.T) {
	dir := t.TempDir()

	writeJSONBatch(t, dir, 1, map[string]string{
		"aaa": renderedPrompt(t, "Will I find love?"),
		"bbb": "not a prompt at all",
	})
	if _, err := SubmitResponses(SubmitInput{
		BatchesDir: dir,
		BatchName:  "batch_0001.json",
		Responses: []ResponseLine{
			{ID: "aaa", Response: "a reading"},
			{ID: "bbb", Response: "a reading"},
		},
	}); err != nil {
		t.Fatal(err)
	}

	out, err := Analyze(config.DefaultConfig(), AnalyzeInput{BatchesDir: dir})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if out.Examples != 1 || out.ParseFailures != 1 {
		t.Errorf("examples/failures = %d/%d, want 1/1", out.Examples, out.ParseFailures)
	}
	if !strings.Contains(out.Markdown, "parse failures skipped: 1") {
		t.Error("report does not note the skipped failure")
	}
}

func TestAnalyze_WritesReportFiles(t *testing.T) {
	dir := t.TempDir()
	writeJSONBatch(t, dir, 1, map[string]string{"aaa": renderedPrompt(t, "")})
	if _, err := SubmitResponses(SubmitInput{
		BatchesDir: dir,
		BatchName:  "batch_0001.json",
		Responses:  []ResponseLine{{ID: "aaa", Response: "a reading"}},
	}); err != nil {
		t.Fatal(err)
	}

	reportPath := filepath.Join(dir, "coverage.md")
	out, err := Analyze(config.DefaultConfig(), AnalyzeInput{
		BatchesDir: dir,
		ReportPath: reportPath,
		HTML:       true,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if out.ReportPath != reportPath {
		t.Errorf("ReportPath = %q", out.ReportPath)
	}

	md, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(md), "# Coverage Report") {
		t.Error("markdown report missing heading")
	}

	html, err := os.ReadFile(reportPath + ".html")
	if err != nil {
		t.Fatalf("read html report: %v", err)
	}
	if !strings.Contains(string(html), "<h1") {
		t.Error("html report missing heading markup")
	}
}

func TestAnalyze_MissingDir(t *testing.T) {
	_, err := Analyze(config.DefaultConfig(), AnalyzeInput{BatchesDir: filepath.Join(t.TempDir(), "nope")})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("got %v, want NOT_FOUND", err)
	}
}

// writeJSONBatch writes one batch with full prompt texts.
func writeJSONBatch(t *testing.T, dir string, batchID int, prompts map[string]string) {
	t.Helper()
	batch := BatchFile{
		BatchID:    batchID,
		OutputFile: ResponsesFileName(batchID),
	}
	for id, input := range prompts {
		batch.Prompts = append(batch.Prompts, BatchPrompt{ID: id, Input: input})
	}
	if err := writeJSON(filepath.Join(dir, BatchFileName(batchID)), batch); err != nil {
		t.Fatal(err)
	}
}
