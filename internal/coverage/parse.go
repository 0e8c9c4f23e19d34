// Package coverage reverse-parses rendered prompts back into structured
// fields and audits the corpus against target distributions. The parser
// is the other side of the assembler's wire format; it is best-effort and
// skips records it cannot read rather than failing the pass.
package coverage

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/kmorand/tarotgen/internal/deck"
)

// ParsedCard is one card entry recovered from a rendered prompt.
type ParsedCard struct {
	Name     string
	Position string
	Reversed bool
}

// Example is one completed training example in structured form.
type Example struct {
	Cards      []ParsedCard
	Question   string
	Category   string // empty when the question is not in the master list
	SpreadName string
	SpreadID   string // empty when the spread name is unknown
	SpreadSize int
	PhaseName  string
}

var (
	// "1. Past: The Fool (Upright)"
	cardLineRe = regexp.MustCompile(`(?m)^(\d+)\. (.+?): (.+?) \((Upright|Reversed)\)$`)
	// `Question: "Will I find love?"`
	questionRe = regexp.MustCompile(`(?m)^Question: "(.*)"$`)
	// "Spread: Three Card (3 cards)"
	spreadRe = regexp.MustCompile(`(?m)^Spread: (.+?) \((\d+) cards?\)$`)
	// "Timing: Full Moon 🌕 — a time of ..."
	timingRe = regexp.MustCompile(`(?m)^Timing: (.+?) \S+ — `)
)

// Parse extracts the structured fields from one rendered prompt.
// An example with no recognizable card entries or no timing line is
// malformed; the caller logs and skips it.
func Parse(text string) (*Example, error) {
	ex := &Example{}

	cardMatches := cardLineRe.FindAllStringSubmatch(text, -1)
	if len(cardMatches) == 0 {
		return nil, fmt.Errorf("no card entries found")
	}
	for _, m := range cardMatches {
		ex.Cards = append(ex.Cards, ParsedCard{
			Name:     m[3],
			Position: m[2],
			Reversed: m[4] == "Reversed",
		})
	}

	timing := timingRe.FindStringSubmatch(text)
	if timing == nil {
		return nil, fmt.Errorf("no timing line found")
	}
	ex.PhaseName = timing[1]
	if _, ok := deck.MoonPhaseByName(ex.PhaseName); !ok {
		return nil, fmt.Errorf("unknown moon phase %q", ex.PhaseName)
	}

	if q := questionRe.FindStringSubmatch(text); q != nil {
		ex.Question = q[1]
		if cat, ok := deck.CategoryOf(ex.Question); ok {
			ex.Category = cat
		}
	}

	if s := spreadRe.FindStringSubmatch(text); s != nil {
		ex.SpreadName = s[1]
		n, err := strconv.Atoi(s[2])
		if err == nil {
			ex.SpreadSize = n
		}
		if layout, ok := deck.SpreadByName(ex.SpreadName); ok {
			ex.SpreadID = layout.ID
		}
	} else {
		ex.SpreadSize = len(ex.Cards)
	}

	if ex.SpreadSize != len(ex.Cards) {
		return nil, fmt.Errorf("spread header says %d cards, found %d entries", ex.SpreadSize, len(ex.Cards))
	}

	return ex, nil
}
