package ops

import (
	"github.com/kmorand/tarotgen/internal/deck"
	"github.com/kmorand/tarotgen/internal/oracle"
)

// ValidateOutput summarizes the static tables and oracle data.
type ValidateOutput struct {
	Cards            int `json:"cards"`
	Spreads          int `json:"spreads"`
	MoonPhases       int `json:"moon_phases"`
	Questions        int `json:"questions"`
	KnownMeanings    int `json:"known_meanings"`
	CombinationRules int `json:"combination_rules"`
}

// Validate checks the static tables for internal consistency and loads
// the oracle data files, reporting what a generate run would see.
// Oracle load failures surface as ORACLE_MISSING or ORACLE_MALFORMED.
func Validate(dataDir string) (*ValidateOutput, error) {
	if err := deck.Validate(); err != nil {
		return nil, err
	}

	meanings, err := oracle.Load(dataDir)
	if err != nil {
		return nil, err
	}

	return &ValidateOutput{
		Cards:            len(deck.Cards()),
		Spreads:          len(deck.Spreads()),
		MoonPhases:       len(deck.MoonPhases()),
		Questions:        len(deck.AllQuestions()),
		KnownMeanings:    len(meanings.KnownCards()),
		CombinationRules: meanings.CombinationCount(),
	}, nil
}
