package coverage

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// flag returns the advisory marker for a dimension row. These are
// output, not errors; the report always completes.
func flag(flagged bool) string {
	if flagged {
		return "⚠️"
	}
	return "✅"
}

// Markdown renders the printable coverage report.
func (r *Report) Markdown(targetTotal int) string {
	var b strings.Builder

	b.WriteString("# Coverage Report\n\n")
	fmt.Fprintf(&b, "Examples analyzed: %d (parse failures skipped: %d)\n\n", r.Examples, r.ParseFailures)

	b.WriteString("## Card coverage\n\n")
	fmt.Fprintf(&b, "- Cards appearing at least once: %d / 78\n", 78-len(r.MissingCards))
	if len(r.MissingCards) > 0 {
		fmt.Fprintf(&b, "- %s Missing cards (%d): %s\n", flag(true), len(r.MissingCards), strings.Join(r.MissingCards, ", "))
	} else {
		fmt.Fprintf(&b, "- %s No missing cards\n", flag(false))
	}
	if len(r.UnderCoveredCards) > 0 {
		fmt.Fprintf(&b, "- %s Under-covered cards (below %d):\n", flag(true), r.targets.CardFloor)
		for _, gap := range r.UnderCoveredCards {
			fmt.Fprintf(&b, "  - %s: %d\n", gap.Name, gap.Count)
		}
	} else {
		fmt.Fprintf(&b, "- %s All covered cards meet the floor of %d\n", flag(false), r.targets.CardFloor)
	}
	b.WriteString("\n")

	b.WriteString("## Card × position\n\n")
	fmt.Fprintf(&b, "- Zero-occurrence pairs: %d / %d (sparse by construction; informational)\n", r.ZeroPairCount, r.TotalPairs)
	if len(r.SparsePairs) > 0 {
		limit := len(r.SparsePairs)
		if limit > 10 {
			limit = 10
		}
		fmt.Fprintf(&b, "- Sparsest combinations (%d at or below %d occurrences, showing %d):\n",
			len(r.SparsePairs), nearZeroPairMax, limit)
		for _, p := range r.SparsePairs[:limit] {
			fmt.Fprintf(&b, "  - %s @ %s: %d\n", p.Card, p.Position, p.Count)
		}
	}
	b.WriteString("\n")

	writeShares(&b, "Question categories", r.CategoryShares)
	writeShares(&b, "Spread types", r.SpreadShares)
	writeShares(&b, "Moon phases", r.PhaseShares)

	b.WriteString("## Reversal ratio\n\n")
	fmt.Fprintf(&b, "- %s Reversed: %.1f%% of %d cards (target band %.0f–%.0f%%)\n\n",
		flag(r.ReversedFlagged), r.ReversedRatio*100, r.TotalCards,
		r.targets.ReversedMin*100, r.targets.ReversedMax*100)

	b.WriteString("## Question usage\n\n")
	if len(r.UnusedQuestions) > 0 {
		fmt.Fprintf(&b, "- %s Unused questions (%d):\n", flag(true), len(r.UnusedQuestions))
		for _, q := range r.UnusedQuestions {
			fmt.Fprintf(&b, "  - %q\n", q)
		}
	} else {
		fmt.Fprintf(&b, "- %s Every question in the master list appears at least once\n", flag(false))
	}
	if r.MostUsed.Question != "" {
		fmt.Fprintf(&b, "- Most used: %q (%d)\n", r.MostUsed.Question, r.MostUsed.Count)
		fmt.Fprintf(&b, "- Least used: %q (%d)\n", r.LeastUsed.Question, r.LeastUsed.Count)
	}
	b.WriteString("\n")

	priority, recs := r.Recommendations(targetTotal)
	fmt.Fprintf(&b, "## Recommendations (toward %d examples)\n\n", targetTotal)
	if len(priority) > 0 {
		b.WriteString("Prioritize these cards in upcoming generation runs:\n")
		limit := len(priority)
		if limit > 15 {
			limit = 15
		}
		for _, gap := range priority[:limit] {
			fmt.Fprintf(&b, "- %s (%d so far)\n", gap.Name, gap.Count)
		}
		b.WriteString("\n")
	}
	if len(recs) > 0 {
		b.WriteString("Additional examples needed per category:\n")
		for _, rec := range recs {
			fmt.Fprintf(&b, "- %s: %d\n", rec.Category, rec.Additional)
		}
	} else {
		b.WriteString("All categories meet their target counts.\n")
	}

	return b.String()
}

// writeShares renders one realized-vs-target table section.
func writeShares(b *strings.Builder, title string, shares []Share) {
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, s := range shares {
		fmt.Fprintf(b, "- %s %s: %d (%.1f%%, target %.1f%%)\n", flag(s.Flagged), s.Name, s.Count, s.Share, s.Target)
	}
	b.WriteString("\n")
}

// RenderHTML converts a markdown report to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
