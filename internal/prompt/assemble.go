// Package prompt renders structured draws into the fixed chat-markup
// training prompt, computes stable prompt ids, and persists prompt
// records. Rendering is pure: identical inputs yield identical bytes,
// which is what makes the id hash meaningful.
package prompt

import (
	"fmt"
	"strings"

	"github.com/kmorand/tarotgen/internal/deck"
	"github.com/kmorand/tarotgen/internal/draw"
	"github.com/kmorand/tarotgen/internal/oracle"
)

// Style selects the reading instruction appended to the prompt.
type Style string

const (
	StyleBalanced  Style = "balanced"
	StyleMystical  Style = "mystical"
	StylePractical Style = "practical"
)

// styleInstructions maps each style to its fixed instruction line.
// Unknown styles fall back to balanced.
var styleInstructions = map[Style]string{
	StyleBalanced:  "Give a balanced reading that blends practical guidance with intuitive insight.",
	StyleMystical:  "Give a mystical, symbol-rich reading that leans into imagery, archetype, and intuition.",
	StylePractical: "Give a practical, grounded reading focused on concrete advice the querent can act on.",
}

// systemTurn is the fixed system message of the three-turn template.
const systemTurn = "You are an experienced tarot reader. Interpret the spread below with warmth and honesty, weaving the cards into one coherent reading."

// Chat-markup delimiters. These are a wire-format contract with the
// downstream training consumer and with the coverage parser; change them
// and every existing corpus file stops parsing.
const (
	turnStart = "<|im_start|>"
	turnEnd   = "<|im_end|>"
)

// RenderInput carries one fully resolved draw. All randomness has already
// happened by the time it reaches the assembler.
type RenderInput struct {
	Spread   deck.SpreadLayout
	Cards    []draw.DrawnCard
	Question string
	Style    Style
	Phase    deck.MoonPhase
	Meanings *oracle.Oracle
}

// Render produces the complete prompt text for one draw.
func Render(in RenderInput) string {
	var b strings.Builder

	b.WriteString(turnStart)
	b.WriteString("system\n")
	b.WriteString(systemTurn)
	b.WriteString(turnEnd)
	b.WriteString("\n")

	b.WriteString(turnStart)
	b.WriteString("user\n")

	b.WriteString("Timing: ")
	b.WriteString(in.Phase.Timing())
	b.WriteString("\n")

	// Question line is omitted entirely, not emitted empty.
	if in.Question != "" {
		fmt.Fprintf(&b, "Question: %q\n", in.Question)
	}

	fmt.Fprintf(&b, "Spread: %s (%d cards)\n\n", in.Spread.Name, len(in.Cards))

	for i, d := range in.Cards {
		fmt.Fprintf(&b, "%d. %s: %s (%s)\n", i+1, d.Position.Name, d.Card.Name, d.Orientation())
		fmt.Fprintf(&b, "   Keywords: %s\n", strings.Join(d.Card.Keywords, ", "))
		fmt.Fprintf(&b, "   Meaning: %s\n", in.Meanings.BaseMeaning(d.Card.Name, d.Reversed))
		if mod, ok := in.Meanings.PositionModifier(d.Card.Name, d.Position.ID, d.Reversed); ok {
			fmt.Fprintf(&b, "   In this position: %s\n", mod)
		}
	}

	if fired := in.Meanings.FindCombinations(cardNameSet(in.Cards)); len(fired) > 0 {
		b.WriteString("\nCard combinations:\n")
		for _, c := range fired {
			fmt.Fprintf(&b, "- %s: %s\n", c.Label(), c.Meaning)
		}
	}

	b.WriteString("\nElemental balance: ")
	b.WriteString(elementalBalance(in.Cards))
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(styleInstruction(in.Style))
	b.WriteString(turnEnd)
	b.WriteString("\n")

	b.WriteString(turnStart)
	b.WriteString("assistant\n")

	return b.String()
}

// elementalBalance applies the strict-majority rule: an element is
// dominant only when its count exceeds half the draw size. Ties and
// pluralities stay "Balanced" (2 of 4 is not dominant).
func elementalBalance(cards []draw.DrawnCard) string {
	counts := make(map[deck.Element]int, 4)
	for _, d := range cards {
		counts[d.Card.Element]++
	}

	n := len(cards)
	for _, el := range []deck.Element{deck.Fire, deck.Water, deck.Air, deck.Earth} {
		if counts[el]*2 > n {
			return fmt.Sprintf("Dominant: %s energy", el)
		}
	}
	return "Balanced"
}

// styleInstruction resolves a style to its instruction, defaulting to
// balanced for unknown values.
func styleInstruction(s Style) string {
	if text, ok := styleInstructions[s]; ok {
		return text
	}
	return styleInstructions[StyleBalanced]
}

// cardNameSet collects the drawn card names for combination matching.
func cardNameSet(cards []draw.DrawnCard) map[string]bool {
	names := make(map[string]bool, len(cards))
	for _, d := range cards {
		names[d.Card.Name] = true
	}
	return names
}
