package prompt

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/kmorand/tarotgen/internal/draw"
)

// idHexLen is the truncated id length: 12 hex chars ≈ 2^48 ids, small
// enough to read in filenames, large enough that collisions are rare and
// handled by re-sampling.
const idHexLen = 12

// ID computes the stable prompt id from the canonical draw key
// "{spreadID}|{question}|{card}:{reversed}|…" in draw order. Order is
// part of the key: the same multiset of cards in different positions is
// a different prompt.
func ID(spreadID, question string, cards []draw.DrawnCard) string {
	var key strings.Builder
	key.WriteString(spreadID)
	key.WriteString("|")
	key.WriteString(question)
	for _, d := range cards {
		key.WriteString("|")
		key.WriteString(d.Card.Name)
		key.WriteString(":")
		key.WriteString(strconv.FormatBool(d.Reversed))
	}

	sum := sha256.Sum256([]byte(key.String()))
	return hex.EncodeToString(sum[:])[:idHexLen]
}
