package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kmorand/tarotgen/internal/errors"
	"github.com/kmorand/tarotgen/internal/oracle"
)

func TestValidate_ReportsCounts(t *testing.T) {
	dir := testOracleDir(t)

	out, err := Validate(dir)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if out.Cards != 78 {
		t.Errorf("Cards = %d, want 78", out.Cards)
	}
	if out.Spreads != 5 {
		t.Errorf("Spreads = %d, want 5", out.Spreads)
	}
	if out.MoonPhases != 8 {
		t.Errorf("MoonPhases = %d, want 8", out.MoonPhases)
	}
	if out.Questions != 50 {
		t.Errorf("Questions = %d, want 50", out.Questions)
	}
	// The fixture defines two cards and no combination rules.
	if out.KnownMeanings != 2 {
		t.Errorf("KnownMeanings = %d, want 2", out.KnownMeanings)
	}
	if out.CombinationRules != 0 {
		t.Errorf("CombinationRules = %d, want 0", out.CombinationRules)
	}
}

func TestValidate_MissingOracle(t *testing.T) {
	_, err := Validate(t.TempDir())
	if !errors.Is(err, errors.ErrOracleMissing) {
		t.Errorf("got %v, want ORACLE_MISSING", err)
	}
}

func TestValidate_MalformedOracle(t *testing.T) {
	dir := testOracleDir(t)
	if err := os.WriteFile(filepath.Join(dir, oracle.CombinationsFile), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Validate(dir)
	if !errors.Is(err, errors.ErrOracleMalformed) {
		t.Errorf("got %v, want ORACLE_MALFORMED", err)
	}
}
