// Package draw is the sampler: every function takes an explicit RNG so a
// seeded source reproduces the exact same sequence of draws. Nothing here
// touches global random state.
package draw

import (
	"github.com/kmorand/tarotgen/internal/deck"
)

// DrawnCard is one card dealt into one position with a chosen orientation.
type DrawnCard struct {
	Card     deck.Card
	Position deck.Position
	Reversed bool
}

// Orientation returns the display tag for the card's orientation.
func (d DrawnCard) Orientation() string {
	if d.Reversed {
		return "Reversed"
	}
	return "Upright"
}

// Cards samples len(layout.Positions) distinct cards without replacement
// and zips them with the layout's positions in order. Orientation is an
// independent fair coin per card.
func Cards(layout deck.SpreadLayout, rng deck.RNG) []DrawnCard {
	universe := deck.Cards()
	n := layout.Size()

	// Fisher-Yates partial shuffle over card indices; only the first n matter.
	indices := make([]int, len(universe))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	drawn := make([]DrawnCard, n)
	for i := 0; i < n; i++ {
		drawn[i] = DrawnCard{
			Card:     universe[indices[i]],
			Position: layout.Positions[i],
			Reversed: rng.Intn(2) == 1,
		}
	}
	return drawn
}

// Question draws a category by target weight, then a question uniformly
// within that category. Returns (question, category). The weights are
// aggregate corpus targets, not per-draw guarantees; convergence is what
// the coverage analyzer audits.
func Question(rng deck.RNG) (string, string) {
	total := 0
	for _, cat := range deck.Categories() {
		total += deck.CategoryWeight(cat)
	}

	pick := rng.Intn(total)
	category := deck.Categories()[0]
	for _, cat := range deck.Categories() {
		w := deck.CategoryWeight(cat)
		if pick < w {
			category = cat
			break
		}
		pick -= w
	}

	questions := deck.QuestionsFor(category)
	return questions[rng.Intn(len(questions))], category
}

// MoonPhase draws a phase uniformly. This is the training-mode draw;
// the calendar path is deck.MoonPhaseForDate and stays separate.
func MoonPhase(rng deck.RNG) deck.MoonPhase {
	phases := deck.MoonPhases()
	return phases[rng.Intn(len(phases))]
}

// Spread draws a layout by the corpus spread weights.
func Spread(rng deck.RNG) deck.SpreadLayout {
	total := 0
	for _, s := range deck.Spreads() {
		total += deck.SpreadWeight(s.ID)
	}

	pick := rng.Intn(total)
	for _, s := range deck.Spreads() {
		w := deck.SpreadWeight(s.ID)
		if pick < w {
			return s
		}
		pick -= w
	}
	return deck.Spreads()[0]
}
