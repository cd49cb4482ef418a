package chatbot

import "strings"

// Category buckets drive which follow-up questions the widget offers next.
type Category string

const (
	CategorySymptoms  Category = "symptoms"
	CategoryTreatment Category = "treatment"
	CategoryDiagnosis Category = "diagnosis"
	CategoryDefault   Category = "default"
)

// categoryRules is the ordered (keyword, category) table; the first matching
// row wins, so precedence lives in the data rather than in control flow.
var categoryRules = []struct {
	keyword  string
	category Category
}{
	{"symptom", CategorySymptoms},
	{"treatment", CategoryTreatment},
	{"diagnos", CategoryDiagnosis},
}

var suggestionsByCategory = map[Category][]string{
	CategorySymptoms: {
		"How are symptoms different in men and women?",
		"At what stage do symptoms appear?",
		"What is the risk assessment tool?",
		"When should I see a doctor?",
	},
	CategoryTreatment: {
		"What treatment options exist?",
		"Is surgery always needed?",
		"What about radioactive iodine?",
		"What's the recovery process like?",
	},
	CategoryDiagnosis: {
		"How accurate are thyroid biopsies?",
		"What blood tests are needed?",
		"What's involved in a thyroid scan?",
		"How long do results take?",
	},
	CategoryDefault: {
		"What are risk factors?",
		"How is thyroid cancer diagnosed?",
		"Tell me about treatment options",
		"What does the dashboard show?",
	},
}

// ClassifyCategory derives the suggestion bucket from a user utterance.
func ClassifyCategory(text string) Category {
	m := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range categoryRules {
		if strings.Contains(m, rule.keyword) {
			return rule.category
		}
	}
	return CategoryDefault
}

// SuggestionsFor returns the fixed follow-up list for a category. The slice
// is a copy; callers may hold it across transitions.
func SuggestionsFor(c Category) []string {
	list, ok := suggestionsByCategory[c]
	if !ok {
		list = suggestionsByCategory[CategoryDefault]
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
