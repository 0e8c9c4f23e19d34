package deck

// Position is one labeled slot in a spread layout. Ordering within a
// layout drives the narrative (past before future) and is preserved
// everywhere cards are zipped against positions.
type Position struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SpreadLayout is a named layout of labeled positions.
type SpreadLayout struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Positions []Position `json:"positions"`
}

// Size returns the number of cards the layout takes.
func (s SpreadLayout) Size() int {
	return len(s.Positions)
}

// spreadWeights are the corpus-level target shares per spread, in percent.
var spreadWeights = map[string]int{
	"single":      15,
	"threeCard":   30,
	"situation":   20,
	"horseshoe":   20,
	"celticCross": 15,
}

var spreads = []SpreadLayout{
	{
		ID:   "single",
		Name: "Single Card",
		Positions: []Position{
			{ID: "focus", Name: "Focus", Description: "The heart of the matter right now"},
		},
	},
	{
		ID:   "threeCard",
		Name: "Three Card",
		Positions: []Position{
			{ID: "past", Name: "Past", Description: "Influences that shaped the situation"},
			{ID: "present", Name: "Present", Description: "Where things stand now"},
			{ID: "future", Name: "Future", Description: "The direction events are heading"},
		},
	},
	{
		ID:   "situation",
		Name: "Situation, Action, Outcome",
		Positions: []Position{
			{ID: "situation", Name: "Situation", Description: "The circumstances being asked about"},
			{ID: "action", Name: "Action", Description: "What the querent can do"},
			{ID: "outcome", Name: "Outcome", Description: "The likely result of that action"},
		},
	},
	{
		ID:   "horseshoe",
		Name: "Horseshoe",
		Positions: []Position{
			{ID: "past", Name: "Past", Description: "What led here"},
			{ID: "present", Name: "Present", Description: "The current state"},
			{ID: "hidden", Name: "Hidden Influences", Description: "Forces at work beneath the surface"},
			{ID: "obstacles", Name: "Obstacles", Description: "What stands in the way"},
			{ID: "environment", Name: "Environment", Description: "The attitudes of people around the querent"},
			{ID: "advice", Name: "Advice", Description: "The recommended approach"},
			{ID: "outcome", Name: "Outcome", Description: "Where this is heading"},
		},
	},
	{
		ID:   "celticCross",
		Name: "Celtic Cross",
		Positions: []Position{
			{ID: "present", Name: "Present", Description: "The heart of the situation"},
			{ID: "challenge", Name: "Challenge", Description: "What crosses the querent"},
			{ID: "foundation", Name: "Foundation", Description: "The root of the matter"},
			{ID: "past", Name: "Recent Past", Description: "What is passing away"},
			{ID: "crown", Name: "Crown", Description: "The best that can be achieved"},
			{ID: "future", Name: "Near Future", Description: "What is coming into play"},
			{ID: "self", Name: "Self", Description: "The querent's own attitude"},
			{ID: "external", Name: "External Influences", Description: "How others affect the situation"},
			{ID: "hopes", Name: "Hopes and Fears", Description: "What the querent hopes for or dreads"},
			{ID: "outcome", Name: "Outcome", Description: "The final synthesis"},
		},
	},
}

var spreadByID = func() map[string]SpreadLayout {
	m := make(map[string]SpreadLayout, len(spreads))
	for _, s := range spreads {
		m[s.ID] = s
	}
	return m
}()

// Spreads returns all five spread layouts in canonical order.
func Spreads() []SpreadLayout {
	return spreads
}

// SpreadByID looks up a layout by id.
func SpreadByID(id string) (SpreadLayout, bool) {
	s, ok := spreadByID[id]
	return s, ok
}

// SpreadWeight returns the corpus target share for a spread id, in percent.
func SpreadWeight(id string) int {
	return spreadWeights[id]
}

// SpreadWeights returns the full spread-id → percent target table.
func SpreadWeights() map[string]int {
	out := make(map[string]int, len(spreadWeights))
	for k, v := range spreadWeights {
		out[k] = v
	}
	return out
}

// SpreadByName resolves a layout from its display name, used by the
// coverage parser when reading rendered prompts back.
func SpreadByName(name string) (SpreadLayout, bool) {
	for _, s := range spreads {
		if s.Name == name {
			return s, true
		}
	}
	return SpreadLayout{}, false
}
