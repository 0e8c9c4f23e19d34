package deck

// categoryWeights are the corpus-level target shares per question
// category, in percent.
var categoryWeights = map[string]int{
	"love":      20,
	"career":    20,
	"growth":    20,
	"health":    10,
	"family":    10,
	"money":     10,
	"decisions": 10,
}

// categoryOrder fixes iteration order for deterministic weighted sampling.
var categoryOrder = []string{"love", "career", "growth", "health", "family", "money", "decisions"}

// questionBank maps each category to its literal question list.
// Category → question is many-to-one and static.
var questionBank = map[string][]string{
	"love": {
		"Will I find love?",
		"Is my current relationship built to last?",
		"What is blocking me from deeper intimacy?",
		"How can I heal after my breakup?",
		"What should I know about my romantic future?",
		"Is this person right for me?",
		"How can I attract a healthy relationship?",
		"What does my partner need from me right now?",
		"Should I give this relationship another chance?",
		"What lesson is my love life trying to teach me?",
	},
	"career": {
		"Should I change careers?",
		"What is holding me back at work?",
		"Will my current project succeed?",
		"How can I find work that fulfills me?",
		"Is it time to ask for a promotion?",
		"What should I know about this job offer?",
		"How can I improve my relationship with my boss?",
		"What direction should my career take next?",
		"Will my business idea work out?",
		"How can I stand out in my field?",
	},
	"growth": {
		"What do I need to learn about myself?",
		"How can I become more confident?",
		"What old patterns should I release?",
		"What is my next step in personal growth?",
		"How can I find more meaning in my life?",
		"What strengths am I not using?",
		"How can I be more present?",
		"What is my intuition trying to tell me?",
		"How can I move past my fear?",
		"What change would serve me most right now?",
	},
	"health": {
		"What does my body need from me?",
		"How can I restore my energy?",
		"What is the root of my stress?",
		"How can I better care for my wellbeing?",
		"What habits should I change for my health?",
	},
	"family": {
		"How can I improve my relationship with my family?",
		"What does my child need from me right now?",
		"How can I set better boundaries with relatives?",
		"How can I heal this family conflict?",
		"What role do I play in my family's wellbeing?",
	},
	"money": {
		"Will my financial situation improve?",
		"What is blocking my abundance?",
		"Should I make this investment?",
		"How can I build financial security?",
		"What should I know about this purchase?",
	},
	"decisions": {
		"Should I take this opportunity?",
		"What should I consider before deciding?",
		"Which path should I choose?",
		"Is now the right time to act?",
		"What am I not seeing about this choice?",
	},
}

// categoryByQuestion is the reverse lookup, built once at init.
var categoryByQuestion = func() map[string]string {
	m := make(map[string]string)
	for cat, qs := range questionBank {
		for _, q := range qs {
			m[q] = cat
		}
	}
	return m
}()

// Categories returns the 7 question categories in canonical order.
func Categories() []string {
	return categoryOrder
}

// CategoryWeight returns the target share for a category, in percent.
func CategoryWeight(category string) int {
	return categoryWeights[category]
}

// CategoryWeights returns the full category → percent target table.
func CategoryWeights() map[string]int {
	out := make(map[string]int, len(categoryWeights))
	for k, v := range categoryWeights {
		out[k] = v
	}
	return out
}

// QuestionsFor returns the literal question list for a category.
func QuestionsFor(category string) []string {
	return questionBank[category]
}

// AllQuestions returns every question in the master list, category order
// first, question order within category.
func AllQuestions() []string {
	out := make([]string, 0, 64)
	for _, cat := range categoryOrder {
		out = append(out, questionBank[cat]...)
	}
	return out
}

// CategoryOf resolves the category a literal question belongs to.
// ok=false means the question is not in the master list.
func CategoryOf(question string) (string, bool) {
	cat, ok := categoryByQuestion[question]
	return cat, ok
}
