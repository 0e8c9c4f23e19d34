package coverage

import (
	"sort"

	"github.com/kmorand/tarotgen/internal/deck"
)

// Targets holds the tolerances and floors the analyzer compares against.
type Targets struct {
	CardFloor            int     // minimum per-card appearances
	CategoryTolerancePct float64 // percentage points, categories and spreads
	PhaseToleranceFrac   float64 // relative deviation from uniform
	ReversedMin          float64
	ReversedMax          float64
}

// Share is one realized-vs-target row in a distribution report.
type Share struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Share   float64 `json:"share_pct"`
	Target  float64 `json:"target_pct"`
	Flagged bool    `json:"flagged"`
}

// CardGap is a card below the coverage floor.
type CardGap struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// QuestionUse pairs a question with its usage count.
type QuestionUse struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

// PairGap is a (card, position) combination at or below the near-zero
// threshold.
type PairGap struct {
	Card     string `json:"card"`
	Position string `json:"position"`
	Count    int    `json:"count"`
}

// nearZeroPairMax is the count at or below which a (card, position)
// combination is listed as sparse.
const nearZeroPairMax = 1

// Report is the full multi-dimension coverage report.
type Report struct {
	Examples      int `json:"examples"`
	ParseFailures int `json:"parse_failures"`

	CardCounts        map[string]int `json:"card_counts"`
	MissingCards      []string       `json:"missing_cards"`
	UnderCoveredCards []CardGap      `json:"under_covered_cards"`

	PairCounts    map[string]map[string]int `json:"-"`
	SparsePairs   []PairGap                 `json:"-"`
	ZeroPairCount int                       `json:"zero_pair_count"`
	TotalPairs    int                       `json:"total_pairs"`

	CategoryShares []Share `json:"category_shares"`
	SpreadShares   []Share `json:"spread_shares"`
	PhaseShares    []Share `json:"phase_shares"`

	ReversedCount   int     `json:"reversed_count"`
	TotalCards      int     `json:"total_cards"`
	ReversedRatio   float64 `json:"reversed_ratio"`
	ReversedFlagged bool    `json:"reversed_flagged"`

	QuestionCounts  map[string]int `json:"-"`
	UnusedQuestions []string       `json:"unused_questions"`
	MostUsed        QuestionUse    `json:"most_used_question"`
	LeastUsed       QuestionUse    `json:"least_used_question"`

	targets Targets
}

// Analyze tabulates the seven coverage dimensions over parsed examples.
// parseFailures is carried through for the report header; the analyzer
// itself never fails.
func Analyze(examples []*Example, parseFailures int, targets Targets) *Report {
	r := &Report{
		Examples:       len(examples),
		ParseFailures:  parseFailures,
		CardCounts:     make(map[string]int),
		PairCounts:     make(map[string]map[string]int),
		QuestionCounts: make(map[string]int),
		targets:        targets,
	}

	categoryCounts := make(map[string]int)
	spreadCounts := make(map[string]int)
	phaseCounts := make(map[string]int)

	for _, ex := range examples {
		for _, c := range ex.Cards {
			r.CardCounts[c.Name]++
			if r.PairCounts[c.Name] == nil {
				r.PairCounts[c.Name] = make(map[string]int)
			}
			r.PairCounts[c.Name][c.Position]++
			r.TotalCards++
			if c.Reversed {
				r.ReversedCount++
			}
		}
		if ex.Category != "" {
			categoryCounts[ex.Category]++
		}
		if ex.SpreadID != "" {
			spreadCounts[ex.SpreadID]++
		}
		phaseCounts[ex.PhaseName]++
		if ex.Question != "" {
			r.QuestionCounts[ex.Question]++
		}
	}

	// 1. Per-card totals against the absolute floor.
	for _, card := range deck.Cards() {
		count := r.CardCounts[card.Name]
		if count == 0 {
			r.MissingCards = append(r.MissingCards, card.Name)
		} else if count < targets.CardFloor {
			r.UnderCoveredCards = append(r.UnderCoveredCards, CardGap{Name: card.Name, Count: count})
		}
	}
	sort.Slice(r.UnderCoveredCards, func(i, j int) bool {
		if r.UnderCoveredCards[i].Count != r.UnderCoveredCards[j].Count {
			return r.UnderCoveredCards[i].Count < r.UnderCoveredCards[j].Count
		}
		return r.UnderCoveredCards[i].Name < r.UnderCoveredCards[j].Name
	})

	// 2. Card × position joint coverage. Sparse by construction; zero
	// and near-zero pairs are reported, not treated as a defect.
	for _, layout := range deck.Spreads() {
		for _, pos := range layout.Positions {
			for _, card := range deck.Cards() {
				r.TotalPairs++
				count := r.PairCounts[card.Name][pos.Name]
				if count == 0 {
					r.ZeroPairCount++
				}
				if count <= nearZeroPairMax {
					r.SparsePairs = append(r.SparsePairs, PairGap{Card: card.Name, Position: pos.Name, Count: count})
				}
			}
		}
	}
	sort.Slice(r.SparsePairs, func(i, j int) bool {
		a, b := r.SparsePairs[i], r.SparsePairs[j]
		if a.Count != b.Count {
			return a.Count < b.Count
		}
		if a.Card != b.Card {
			return a.Card < b.Card
		}
		return a.Position < b.Position
	})

	// 3. Category distribution vs targets.
	r.CategoryShares = shares(categoryCounts, deck.Categories(), func(cat string) float64 {
		return float64(deck.CategoryWeight(cat))
	}, targets.CategoryTolerancePct)

	// 4. Spread distribution vs targets.
	spreadIDs := make([]string, 0, 5)
	for _, s := range deck.Spreads() {
		spreadIDs = append(spreadIDs, s.ID)
	}
	r.SpreadShares = shares(spreadCounts, spreadIDs, func(id string) float64 {
		return float64(deck.SpreadWeight(id))
	}, targets.CategoryTolerancePct)

	// 5. Phase distribution vs uniform, with relative tolerance.
	phaseNames := make([]string, 0, 8)
	for _, p := range deck.MoonPhases() {
		phaseNames = append(phaseNames, p.Name)
	}
	uniform := 100.0 / float64(len(phaseNames))
	r.PhaseShares = shares(phaseCounts, phaseNames, func(string) float64 {
		return uniform
	}, uniform*targets.PhaseToleranceFrac)

	// 6. Global reversed ratio against the target band.
	if r.TotalCards > 0 {
		r.ReversedRatio = float64(r.ReversedCount) / float64(r.TotalCards)
	}
	r.ReversedFlagged = r.ReversedRatio < targets.ReversedMin || r.ReversedRatio > targets.ReversedMax

	// 7. Question usage histogram.
	for _, q := range deck.AllQuestions() {
		if r.QuestionCounts[q] == 0 {
			r.UnusedQuestions = append(r.UnusedQuestions, q)
		}
	}
	for _, q := range deck.AllQuestions() {
		count := r.QuestionCounts[q]
		if count == 0 {
			continue
		}
		if r.MostUsed.Question == "" || count > r.MostUsed.Count {
			r.MostUsed = QuestionUse{Question: q, Count: count}
		}
		if r.LeastUsed.Question == "" || count < r.LeastUsed.Count {
			r.LeastUsed = QuestionUse{Question: q, Count: count}
		}
	}

	return r
}

// shares computes realized percentage shares with flagging for one
// dimension. Denominator is the sum of counted examples in that
// dimension, so unparseable fields don't skew the others.
func shares(counts map[string]int, names []string, target func(string) float64, tolerancePct float64) []Share {
	total := 0
	for _, name := range names {
		total += counts[name]
	}

	out := make([]Share, 0, len(names))
	for _, name := range names {
		s := Share{
			Name:   name,
			Count:  counts[name],
			Target: target(name),
		}
		if total > 0 {
			s.Share = float64(counts[name]) / float64(total) * 100
		}
		diff := s.Share - s.Target
		if diff < 0 {
			diff = -diff
		}
		s.Flagged = total > 0 && diff > tolerancePct
		out = append(out, s)
	}
	return out
}

// Recommendation says how many more examples a category needs to reach
// its target share of a stated corpus total.
type Recommendation struct {
	Category   string `json:"category"`
	Additional int    `json:"additional"`
}

// Recommendations derives the gap-filling plan: cards to prioritize and
// per-category counts needed to close on targetTotal examples.
func (r *Report) Recommendations(targetTotal int) ([]CardGap, []Recommendation) {
	priority := make([]CardGap, 0, len(r.MissingCards)+len(r.UnderCoveredCards))
	for _, name := range r.MissingCards {
		priority = append(priority, CardGap{Name: name, Count: 0})
	}
	priority = append(priority, r.UnderCoveredCards...)

	var recs []Recommendation
	for _, s := range r.CategoryShares {
		want := int(float64(targetTotal) * s.Target / 100)
		if gap := want - s.Count; gap > 0 {
			recs = append(recs, Recommendation{Category: s.Name, Additional: gap})
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Additional != recs[j].Additional {
			return recs[i].Additional > recs[j].Additional
		}
		return recs[i].Category < recs[j].Category
	})

	return priority, recs
}
