// Package ops implements the pipeline operations behind the CLI and MCP
// surfaces: generating prompts, partitioning batches, scanning for
// unprocessed work, and coverage analysis.
package ops

import (
	"database/sql"
	"math/rand"

	"github.com/oklog/ulid/v2"

	"github.com/kmorand/tarotgen/internal/config"
	"github.com/kmorand/tarotgen/internal/deck"
	"github.com/kmorand/tarotgen/internal/draw"
	"github.com/kmorand/tarotgen/internal/errors"
	"github.com/kmorand/tarotgen/internal/ledger"
	"github.com/kmorand/tarotgen/internal/oracle"
	"github.com/kmorand/tarotgen/internal/prompt"
)

// GenerateInput contains parameters for the Generate operation.
type GenerateInput struct {
	Count      int
	Seed       int64
	OutputPath string
	Style      prompt.Style // default: balanced
}

// GenerateOutput contains the result of the Generate operation.
type GenerateOutput struct {
	RunID            string `json:"run_id"`
	Requested        int    `json:"requested"`
	Generated        int    `json:"generated"`
	CollisionRetries int    `json:"collision_retries"`
	OutputPath       string `json:"output_path"`
}

// Generate produces Count prompt records from a seeded draw sequence and
// writes them as one prompt file. The ledger db is optional; when present
// the seen-id set extends across previous runs and this run is recorded.
func Generate(meanings *oracle.Oracle, cfg *config.Config, db *sql.DB, input GenerateInput) (*GenerateOutput, error) {
	if input.Count <= 0 {
		return nil, errors.NewInvalidRequest("count must be positive")
	}
	if input.OutputPath == "" {
		return nil, errors.NewInvalidRequest("output path is required")
	}
	if input.Style == "" {
		input.Style = prompt.StyleBalanced
	}

	if err := deck.Validate(); err != nil {
		return nil, errors.NewInternal(err)
	}

	seen := make(map[string]bool)
	if db != nil {
		var err error
		seen, err = ledger.SeenIDs(db)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	rng := rand.New(rand.NewSource(input.Seed))

	records := make([]prompt.Record, 0, input.Count)
	refs := make([]ledger.PromptRef, 0, input.Count)
	collisionRetries := 0

	for len(records) < input.Count {
		var (
			layout   deck.SpreadLayout
			cards    []draw.DrawnCard
			question string
			category string
			phase    deck.MoonPhase
			id       string
		)

		// Re-sample the whole draw on collision; the id is never mutated.
		retries := 0
		for {
			layout = draw.Spread(rng)
			question, category = draw.Question(rng)
			cards = draw.Cards(layout, rng)
			phase = draw.MoonPhase(rng)
			id = prompt.ID(layout.ID, question, cards)

			if !seen[id] {
				break
			}
			collisionRetries++
			retries++
			if retries > cfg.MaxCollisionRetries {
				return nil, errors.NewIDCollision(id, retries-1)
			}
		}
		seen[id] = true

		inputText := prompt.Render(prompt.RenderInput{
			Spread:   layout,
			Cards:    cards,
			Question: question,
			Style:    input.Style,
			Phase:    phase,
			Meanings: meanings,
		})

		records = append(records, prompt.Record{
			ID:       id,
			Spread:   layout.Name,
			Question: question,
			Category: category,
			Input:    inputText,
			Status:   prompt.StatusPending,
		})
		refs = append(refs, ledger.PromptRef{ID: id, Spread: layout.ID, Category: category})
	}

	if err := prompt.Save(input.OutputPath, records); err != nil {
		return nil, err
	}

	runID := ulid.Make().String()
	if db != nil {
		if err := ledger.RecordRun(db, ledger.Run{
			ID:         runID,
			Seed:       input.Seed,
			Requested:  input.Count,
			Generated:  len(records),
			OutputPath: input.OutputPath,
		}); err != nil {
			return nil, errors.NewInternal(err)
		}
		if err := ledger.RecordPromptIDs(db, runID, refs); err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	return &GenerateOutput{
		RunID:            runID,
		Requested:        input.Count,
		Generated:        len(records),
		CollisionRetries: collisionRetries,
		OutputPath:       input.OutputPath,
	}, nil
}
