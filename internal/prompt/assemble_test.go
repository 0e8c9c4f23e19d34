package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kmorand/tarotgen/internal/deck"
	"github.com/kmorand/tarotgen/internal/draw"
	"github.com/kmorand/tarotgen/internal/oracle"
)

// loadTestOracle writes minimal oracle fixtures and loads them.
func loadTestOracle(t *testing.T) *oracle.Oracle {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		oracle.BaseMeaningsFile: `{
			"major": {
				"The Fool": {"upright": "A leap of faith awaits.", "reversed": "Recklessness clouds judgment."},
				"The Magician": {"upright": "You hold every tool you need.", "reversed": "Talents scattered."}
			},
			"minor": {}
		}`,
		oracle.PositionModifiersFile: `{
			"modifiers": {
				"The Fool": {
					"upright": {"past": "An impulsive start set this in motion."},
					"reversed": {}
				}
			}
		}`,
		oracle.CombinationsFile: `{
			"combinations": [
				{"cards": ["The Fool", "The Magician"], "meaning": "Raw potential meets skill."}
			]
		}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	o, err := oracle.Load(dir)
	if err != nil {
		t.Fatalf("oracle.Load failed: %v", err)
	}
	return o
}

// mustCard fetches a card from the deck tables.
func mustCard(t *testing.T, name string) deck.Card {
	t.Helper()
	c, ok := deck.CardByName(name)
	if !ok {
		t.Fatalf("card %q not in deck", name)
	}
	return c
}

// threeCardDraw builds a fixed three-card draw for rendering tests.
func threeCardDraw(t *testing.T) (deck.SpreadLayout, []draw.DrawnCard) {
	t.Helper()
	layout, ok := deck.SpreadByID("threeCard")
	if !ok {
		t.Fatal("threeCard layout missing")
	}
	cards := []draw.DrawnCard{
		{Card: mustCard(t, "The Fool"), Position: layout.Positions[0], Reversed: false},
		{Card: mustCard(t, "The Magician"), Position: layout.Positions[1], Reversed: true},
		{Card: mustCard(t, "Ace of Cups"), Position: layout.Positions[2], Reversed: false},
	}
	return layout, cards
}

func TestRender_Structure(t *testing.T) {
	o := loadTestOracle(t)
	layout, cards := threeCardDraw(t)
	phase, _ := deck.MoonPhaseByName("Full Moon")

	text := Render(RenderInput{
		Spread:   layout,
		Cards:    cards,
		Question: "Will I find love?",
		Style:    StyleBalanced,
		Phase:    phase,
		Meanings: o,
	})

	// Position names render in layout order.
	past := strings.Index(text, "Past")
	present := strings.Index(text, "Present")
	future := strings.Index(text, "Future")
	if past < 0 || present < 0 || future < 0 {
		t.Fatalf("missing position names in:\n%s", text)
	}
	if !(past < present && present < future) {
		t.Errorf("position order wrong: Past@%d Present@%d Future@%d", past, present, future)
	}

	for _, want := range []string{
		`Question: "Will I find love?"`,
		"Full Moon",
		"Spread: Three Card (3 cards)",
		"1. Past: The Fool (Upright)",
		"2. Present: The Magician (Reversed)",
		"   Meaning: A leap of faith awaits.",
		"   In this position: An impulsive start set this in motion.",
		"Card combinations:",
		"- The Fool + The Magician: Raw potential meets skill.",
		"<|im_start|>system",
		"<|im_start|>user",
		"<|im_start|>assistant",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered prompt missing %q", want)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	o := loadTestOracle(t)
	layout, cards := threeCardDraw(t)
	phase, _ := deck.MoonPhaseByName("New Moon")

	in := RenderInput{Spread: layout, Cards: cards, Question: "Should I change careers?", Style: StyleMystical, Phase: phase, Meanings: o}
	if Render(in) != Render(in) {
		t.Error("Render is not byte-deterministic for identical inputs")
	}
}

func TestRender_QuestionOmitted(t *testing.T) {
	o := loadTestOracle(t)
	layout, cards := threeCardDraw(t)
	phase, _ := deck.MoonPhaseByName("New Moon")

	text := Render(RenderInput{Spread: layout, Cards: cards, Style: StyleBalanced, Phase: phase, Meanings: o})
	if strings.Contains(text, "Question:") {
		t.Error("question line rendered for empty question, want omitted")
	}
}

func TestRender_MeaningFallback(t *testing.T) {
	o := loadTestOracle(t)
	layout, cards := threeCardDraw(t)
	phase, _ := deck.MoonPhaseByName("New Moon")

	// Ace of Cups has no entry in the fixture tables.
	text := Render(RenderInput{Spread: layout, Cards: cards, Style: StyleBalanced, Phase: phase, Meanings: o})
	if !strings.Contains(text, "Meaning not available") {
		t.Error("missing fallback meaning literal for uncovered card")
	}
}

func TestRender_NoCombinationsSectionWhenNoneFire(t *testing.T) {
	o := loadTestOracle(t)
	layout, _ := deck.SpreadByID("single")
	cards := []draw.DrawnCard{
		{Card: mustCard(t, "The Tower"), Position: layout.Positions[0]},
	}
	phase, _ := deck.MoonPhaseByName("New Moon")

	text := Render(RenderInput{Spread: layout, Cards: cards, Style: StyleBalanced, Phase: phase, Meanings: o})
	if strings.Contains(text, "Card combinations:") {
		t.Error("combinations section rendered when no rule fired")
	}
}

func TestElementalBalance_StrictMajority(t *testing.T) {
	fire := deck.Card{Name: "f", Element: deck.Fire}
	water := deck.Card{Name: "w", Element: deck.Water}
	air := deck.Card{Name: "a", Element: deck.Air}

	// 2 of 4 is a plurality, not a strict majority: stays Balanced.
	balanced := []draw.DrawnCard{{Card: fire}, {Card: fire}, {Card: water}, {Card: air}}
	if got := elementalBalance(balanced); got != "Balanced" {
		t.Errorf("elementalBalance(2/4 Fire) = %q, want Balanced", got)
	}

	// 3 of 4 crosses n/2: dominant.
	dominant := []draw.DrawnCard{{Card: fire}, {Card: fire}, {Card: fire}, {Card: water}}
	if got := elementalBalance(dominant); got != "Dominant: Fire energy" {
		t.Errorf("elementalBalance(3/4 Fire) = %q, want Dominant: Fire energy", got)
	}

	// Exactly half is not a majority either.
	half := []draw.DrawnCard{{Card: fire}, {Card: fire}, {Card: water}, {Card: water}}
	if got := elementalBalance(half); got != "Balanced" {
		t.Errorf("elementalBalance(2/4 vs 2/4) = %q, want Balanced", got)
	}
}

func TestStyleInstruction_UnknownFallsBack(t *testing.T) {
	if styleInstruction(Style("cosmic")) != styleInstructions[StyleBalanced] {
		t.Error("unknown style did not fall back to balanced")
	}
	if styleInstruction(StylePractical) == styleInstructions[StyleBalanced] {
		t.Error("practical style resolved to balanced instruction")
	}
}
