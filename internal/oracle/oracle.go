// Package oracle loads the external card-meaning tables: base meanings,
// position-specific modifiers, and card combinations. The files are a
// required dependency at startup but individual entries may be missing;
// lookups degrade silently rather than erroring.
package oracle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/kmorand/tarotgen/internal/errors"
)

// FallbackMeaning is returned when no base meaning exists for a card.
// Downstream consumers depend on this exact literal.
const FallbackMeaning = "Meaning not available"

// File names expected inside the data directory.
const (
	BaseMeaningsFile      = "base-meanings.json"
	PositionModifiersFile = "position-modifiers.json"
	CombinationsFile      = "combinations.json"
)

// orientedMeaning holds the upright/reversed text pair for one card.
type orientedMeaning struct {
	Upright  string `json:"upright"`
	Reversed string `json:"reversed"`
}

// baseMeaningsDoc mirrors base-meanings.json.
type baseMeaningsDoc struct {
	Major map[string]orientedMeaning `json:"major"`
	Minor map[string]orientedMeaning `json:"minor"`
}

// modifiersDoc mirrors position-modifiers.json.
type modifiersDoc struct {
	Modifiers map[string]struct {
		Upright  map[string]string `json:"upright"`
		Reversed map[string]string `json:"reversed"`
	} `json:"modifiers"`
}

// Combination is a rule that fires when all its cards co-occur in a draw.
type Combination struct {
	Cards   []string `json:"cards"`
	Meaning string   `json:"meaning"`
}

// combinationsDoc mirrors combinations.json.
type combinationsDoc struct {
	Combinations []Combination `json:"combinations"`
}

// Oracle is the loaded, immutable meaning tables.
type Oracle struct {
	base         baseMeaningsDoc
	modifiers    modifiersDoc
	combinations []Combination
}

// Load reads the three oracle files from dataDir. A missing or malformed
// file is fatal; the pipeline cannot run without its data model.
func Load(dataDir string) (*Oracle, error) {
	o := &Oracle{}

	if err := loadJSON(filepath.Join(dataDir, BaseMeaningsFile), &o.base); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dataDir, PositionModifiersFile), &o.modifiers); err != nil {
		return nil, err
	}
	var combos combinationsDoc
	if err := loadJSON(filepath.Join(dataDir, CombinationsFile), &combos); err != nil {
		return nil, err
	}
	o.combinations = combos.Combinations

	return o, nil
}

// loadJSON reads and unmarshals one oracle file with the fatal-at-startup
// error semantics.
func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewOracleMissing(path)
		}
		return errors.NewInternal(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.NewOracleMalformed(path, err)
	}
	return nil
}

// BaseMeaning returns the meaning text for a card and orientation.
// Missing entries degrade to FallbackMeaning; this is intentional and
// not an error.
func (o *Oracle) BaseMeaning(cardName string, reversed bool) string {
	entry, ok := o.base.Major[cardName]
	if !ok {
		entry, ok = o.base.Minor[cardName]
	}
	if !ok {
		return FallbackMeaning
	}

	text := entry.Upright
	if reversed {
		text = entry.Reversed
	}
	if text == "" {
		return FallbackMeaning
	}
	return text
}

// PositionModifier returns the position-specific override for a card, if
// one is defined. ok=false means the caller omits the line entirely.
func (o *Oracle) PositionModifier(cardName, positionID string, reversed bool) (string, bool) {
	entry, ok := o.modifiers.Modifiers[cardName]
	if !ok {
		return "", false
	}

	table := entry.Upright
	if reversed {
		table = entry.Reversed
	}
	text, ok := table[positionID]
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

// FindCombinations returns every rule whose full card set is a subset of
// the given names, in file order. A card may participate in several fired
// rules; overlap is allowed.
func (o *Oracle) FindCombinations(names map[string]bool) []Combination {
	var fired []Combination
	for _, rule := range o.combinations {
		if len(rule.Cards) < 2 {
			continue
		}
		all := true
		for _, card := range rule.Cards {
			if !names[card] {
				all = false
				break
			}
		}
		if all {
			fired = append(fired, rule)
		}
	}
	return fired
}

// Label returns a stable display label for a combination: its card names
// in rule order joined with " + ".
func (c Combination) Label() string {
	label := ""
	for i, name := range c.Cards {
		if i > 0 {
			label += " + "
		}
		label += name
	}
	return label
}

// KnownCards returns the sorted set of card names with a base meaning,
// used by the validate operation to report oracle coverage.
func (o *Oracle) KnownCards() []string {
	names := make([]string, 0, len(o.base.Major)+len(o.base.Minor))
	for name := range o.base.Major {
		names = append(names, name)
	}
	for name := range o.base.Minor {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CombinationCount returns the number of loaded combination rules.
func (o *Oracle) CombinationCount() int {
	return len(o.combinations)
}
