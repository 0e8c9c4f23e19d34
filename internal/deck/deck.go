// Package deck holds the static tarot domain tables: the 78-card deck,
// spread layouts, moon phases, and the question bank. All tables are
// process-wide constants loaded at init and never mutated.
package deck

import "fmt"

// RNG abstracts random number generation for deterministic sampling.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Element is the elemental association of a card.
type Element string

const (
	Fire  Element = "Fire"
	Water Element = "Water"
	Air   Element = "Air"
	Earth Element = "Earth"
)

// Arcana distinguishes major from minor arcana.
type Arcana string

const (
	Major Arcana = "major"
	Minor Arcana = "minor"
)

// Suit is the minor arcana suit. Major arcana cards have no suit.
type Suit string

const (
	Wands     Suit = "Wands"
	Cups      Suit = "Cups"
	Swords    Suit = "Swords"
	Pentacles Suit = "Pentacles"
)

// suitElement maps each minor suit to its element.
var suitElement = map[Suit]Element{
	Wands:     Fire,
	Cups:      Water,
	Swords:    Air,
	Pentacles: Earth,
}

// Card is a single tarot card. Name is the natural key used for meaning
// lookups, combination matching, and id hashing.
type Card struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Element  Element  `json:"element"`
	Arcana   Arcana   `json:"arcana"`
	Suit     Suit     `json:"suit,omitempty"`
}

// majorCards lists the 22 major arcana with traditional elemental attributions.
var majorCards = []Card{
	{Name: "The Fool", Keywords: []string{"beginnings", "spontaneity", "faith"}, Element: Air, Arcana: Major},
	{Name: "The Magician", Keywords: []string{"manifestation", "willpower", "skill"}, Element: Air, Arcana: Major},
	{Name: "The High Priestess", Keywords: []string{"intuition", "mystery", "inner voice"}, Element: Water, Arcana: Major},
	{Name: "The Empress", Keywords: []string{"abundance", "nurturing", "creation"}, Element: Earth, Arcana: Major},
	{Name: "The Emperor", Keywords: []string{"authority", "structure", "stability"}, Element: Fire, Arcana: Major},
	{Name: "The Hierophant", Keywords: []string{"tradition", "guidance", "belief"}, Element: Earth, Arcana: Major},
	{Name: "The Lovers", Keywords: []string{"union", "choice", "alignment"}, Element: Air, Arcana: Major},
	{Name: "The Chariot", Keywords: []string{"determination", "control", "victory"}, Element: Water, Arcana: Major},
	{Name: "Strength", Keywords: []string{"courage", "patience", "inner power"}, Element: Fire, Arcana: Major},
	{Name: "The Hermit", Keywords: []string{"introspection", "solitude", "wisdom"}, Element: Earth, Arcana: Major},
	{Name: "Wheel of Fortune", Keywords: []string{"cycles", "fate", "turning point"}, Element: Fire, Arcana: Major},
	{Name: "Justice", Keywords: []string{"fairness", "truth", "accountability"}, Element: Air, Arcana: Major},
	{Name: "The Hanged Man", Keywords: []string{"surrender", "new perspective", "pause"}, Element: Water, Arcana: Major},
	{Name: "Death", Keywords: []string{"endings", "transformation", "release"}, Element: Water, Arcana: Major},
	{Name: "Temperance", Keywords: []string{"balance", "moderation", "blending"}, Element: Fire, Arcana: Major},
	{Name: "The Devil", Keywords: []string{"attachment", "shadow", "temptation"}, Element: Earth, Arcana: Major},
	{Name: "The Tower", Keywords: []string{"upheaval", "revelation", "collapse"}, Element: Fire, Arcana: Major},
	{Name: "The Star", Keywords: []string{"hope", "renewal", "inspiration"}, Element: Air, Arcana: Major},
	{Name: "The Moon", Keywords: []string{"illusion", "dreams", "uncertainty"}, Element: Water, Arcana: Major},
	{Name: "The Sun", Keywords: []string{"joy", "vitality", "success"}, Element: Fire, Arcana: Major},
	{Name: "Judgement", Keywords: []string{"awakening", "reckoning", "renewal"}, Element: Fire, Arcana: Major},
	{Name: "The World", Keywords: []string{"completion", "integration", "wholeness"}, Element: Earth, Arcana: Major},
}

// minorKeywords lists keywords per rank and suit, in rank order
// Ace, Two..Ten, Page, Knight, Queen, King.
var minorKeywords = map[Suit][][]string{
	Wands: {
		{"inspiration", "new venture", "spark"},
		{"planning", "decisions", "first steps"},
		{"expansion", "foresight", "momentum"},
		{"celebration", "homecoming", "milestone"},
		{"competition", "friction", "testing"},
		{"recognition", "progress", "confidence"},
		{"defense", "perseverance", "standing ground"},
		{"swiftness", "movement", "news"},
		{"resilience", "last stand", "guardedness"},
		{"burden", "overload", "responsibility"},
		{"enthusiasm", "exploration", "messages"},
		{"adventure", "impulsiveness", "passion"},
		{"warmth", "magnetism", "determination"},
		{"leadership", "vision", "boldness"},
	},
	Cups: {
		{"new love", "compassion", "openness"},
		{"partnership", "attraction", "mutuality"},
		{"friendship", "community", "celebration"},
		{"apathy", "contemplation", "missed offers"},
		{"loss", "regret", "mourning"},
		{"nostalgia", "memories", "innocence"},
		{"choices", "fantasy", "wishful thinking"},
		{"walking away", "disillusionment", "seeking more"},
		{"contentment", "wishes fulfilled", "satisfaction"},
		{"harmony", "family joy", "emotional fulfillment"},
		{"curiosity", "creative messages", "sensitivity"},
		{"romance", "idealism", "invitation"},
		{"empathy", "emotional depth", "calm"},
		{"emotional mastery", "diplomacy", "composure"},
	},
	Swords: {
		{"clarity", "breakthrough", "truth"},
		{"stalemate", "difficult choice", "avoidance"},
		{"heartbreak", "sorrow", "painful truth"},
		{"rest", "recovery", "stillness"},
		{"conflict", "hollow victory", "discord"},
		{"transition", "moving on", "passage"},
		{"strategy", "stealth", "cunning"},
		{"restriction", "self-imposed limits", "feeling trapped"},
		{"anxiety", "sleepless worry", "dread"},
		{"ending", "rock bottom", "painful conclusion"},
		{"curiosity", "vigilance", "new ideas"},
		{"haste", "ambition", "directness"},
		{"perception", "independence", "clear boundaries"},
		{"intellect", "authority", "impartiality"},
	},
	Pentacles: {
		{"opportunity", "prosperity", "new resources"},
		{"juggling", "adaptability", "balance"},
		{"collaboration", "craftsmanship", "learning"},
		{"security", "control", "holding on"},
		{"hardship", "exclusion", "worry"},
		{"generosity", "giving and receiving", "support"},
		{"patience", "assessment", "long-term view"},
		{"diligence", "mastery", "steady work"},
		{"independence", "self-sufficiency", "luxury"},
		{"legacy", "family wealth", "lasting success"},
		{"study", "ambition", "practical beginnings"},
		{"routine", "reliability", "methodical effort"},
		{"nurturing", "practical care", "groundedness"},
		{"wealth", "stewardship", "accomplishment"},
	},
}

// rankNames lists the 14 minor ranks in order.
var rankNames = []string{
	"Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
	"Eight", "Nine", "Ten", "Page", "Knight", "Queen", "King",
}

var (
	allCards   []Card
	cardByName map[string]Card
)

func init() {
	allCards = make([]Card, 0, 78)
	allCards = append(allCards, majorCards...)
	for _, suit := range []Suit{Wands, Cups, Swords, Pentacles} {
		for i, rank := range rankNames {
			allCards = append(allCards, Card{
				Name:     fmt.Sprintf("%s of %s", rank, suit),
				Keywords: minorKeywords[suit][i],
				Element:  suitElement[suit],
				Arcana:   Minor,
				Suit:     suit,
			})
		}
	}

	cardByName = make(map[string]Card, len(allCards))
	for _, c := range allCards {
		cardByName[c.Name] = c
	}
}

// Cards returns the full 78-card deck in canonical order
// (majors first, then Wands, Cups, Swords, Pentacles by rank).
func Cards() []Card {
	return allCards
}

// CardByName looks up a card by its natural key.
func CardByName(name string) (Card, bool) {
	c, ok := cardByName[name]
	return c, ok
}

// Validate checks the static tables for internal consistency.
// Called once at startup; any failure is a programming error in the tables.
func Validate() error {
	if len(allCards) != 78 {
		return fmt.Errorf("deck has %d cards, want 78", len(allCards))
	}
	if len(cardByName) != 78 {
		return fmt.Errorf("deck has duplicate card names: %d unique of 78", len(cardByName))
	}

	for _, layout := range Spreads() {
		if len(layout.Positions) == 0 {
			return fmt.Errorf("spread %s has no positions", layout.ID)
		}
		if len(layout.Positions) > len(allCards) {
			return fmt.Errorf("spread %s needs %d cards, deck has %d", layout.ID, len(layout.Positions), len(allCards))
		}
		seen := make(map[string]bool, len(layout.Positions))
		for _, p := range layout.Positions {
			if seen[p.ID] {
				return fmt.Errorf("spread %s has duplicate position id %s", layout.ID, p.ID)
			}
			seen[p.ID] = true
		}
	}

	if got := weightTotal(categoryWeights); got != 100 {
		return fmt.Errorf("category weights sum to %d, want 100", got)
	}
	if got := weightTotal(spreadWeights); got != 100 {
		return fmt.Errorf("spread weights sum to %d, want 100", got)
	}

	if len(moonPhases) != 8 {
		return fmt.Errorf("moon phase table has %d entries, want 8", len(moonPhases))
	}

	return nil
}

func weightTotal(weights map[string]int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	return total
}
