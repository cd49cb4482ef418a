package chatbot

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is a canonical question/answer pair.
type Entry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Rule maps a set of trigger keywords to a fixed answer. Rules are evaluated
// in order; the first rule with any matching keyword wins.
type Rule struct {
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// KnowledgeBase is the static FAQ corpus used for offline response
// resolution. It is immutable after construction.
type KnowledgeBase struct {
	Entries    []Entry `yaml:"faq"`
	Rules      []Rule  `yaml:"rules"`
	Disclaimer string  `yaml:"disclaimer"`
}

// DefaultKnowledgeBase returns the built-in thyroid cancer corpus.
func DefaultKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		Entries: []Entry{
			{
				Question: "What is thyroid cancer?",
				Answer:   "Thyroid cancer is a type of cancer that starts in the thyroid gland, which is located at the base of your neck. The thyroid produces hormones that regulate heart rate, blood pressure, body temperature, and weight.",
			},
			{
				Question: "What are the risk factors for thyroid cancer?",
				Answer:   "Risk factors include exposure to high levels of radiation, family history of thyroid cancer, certain genetic syndromes, being female, and age (thyroid cancer can occur at any age).",
			},
			{
				Question: "How does the risk assessment tool work?",
				Answer:   "Our AI-powered risk assessment tool analyzes various factors such as age, gender, family history, and symptoms to provide a personalized risk assessment. It's important to note that this is not a diagnosis but a tool to help you understand potential risks.",
			},
			{
				Question: "Where can I find more information about treatment options?",
				Answer:   "You can check our 'Learn About Thyroid Cancer' section or visit the dashboard for comprehensive information about treatment options, including surgery, radioactive iodine therapy, hormone therapy, and targeted drug therapy.",
			},
		},
		Rules: []Rule{
			{
				Keywords: []string{"symptom"},
				Answer:   "Common symptoms of thyroid cancer include a lump in the neck, swollen lymph nodes, pain in the neck or throat, voice changes, and difficulty swallowing. However, many people with thyroid cancer don't have symptoms at early stages.",
			},
			{
				Keywords: []string{"test", "diagnos"},
				Answer:   "Thyroid cancer is typically diagnosed through physical examination, blood tests, imaging tests (ultrasound, CT scan), and biopsy. Our risk assessment tool can help identify if you should consider speaking with a healthcare provider.",
			},
			{
				Keywords: []string{"prevent"},
				Answer:   "While you can't prevent thyroid cancer, you can reduce risk by avoiding unnecessary radiation exposure and maintaining a healthy lifestyle. Regular neck checks and medical check-ups can help with early detection.",
			},
			{
				Keywords: []string{"dashboard", "data"},
				Answer:   "Our dashboard provides visualizations of thyroid cancer statistics and trends. You can access it from the main menu or by clicking on 'View Dashboard' in the tools section.",
			},
			{
				Keywords: []string{"assessment", "risk"},
				Answer:   "You can assess your thyroid cancer risk using our AI tool. Click on 'Check Thyroid Cancer Risk' from the main page to get started. The assessment is confidential and takes about 5 minutes to complete.",
			},
			{
				Keywords: []string{"hello", "hi"},
				Answer:   "Hello! I'm here to help answer your questions about thyroid cancer and guide you through our platform. What would you like to know?",
			},
			{
				Keywords: []string{"thank"},
				Answer:   "You're welcome! If you have any more questions, feel free to ask. Your health matters to us.",
			},
		},
		Disclaimer: "I don't have specific information about that. For detailed medical advice, please consult a healthcare professional.",
	}
}

// LoadKnowledgeBase reads a YAML corpus from disk. Missing fields fall back
// to the built-in defaults so a partial override file stays usable.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var kb KnowledgeBase
	if err := yaml.Unmarshal(b, &kb); err != nil {
		return nil, err
	}
	def := DefaultKnowledgeBase()
	if len(kb.Entries) == 0 {
		kb.Entries = def.Entries
	}
	if len(kb.Rules) == 0 {
		kb.Rules = def.Rules
	}
	if strings.TrimSpace(kb.Disclaimer) == "" {
		kb.Disclaimer = def.Disclaimer
	}
	return &kb, nil
}

// LookupQuestion matches the input against the canonical FAQ questions.
// A hit occurs when either string contains the other, case-insensitively.
// The containment is deliberately loose (a short input can match several
// questions); it favors recall and matches the behavior users already see.
func (kb *KnowledgeBase) LookupQuestion(text string) (string, bool) {
	m := strings.ToLower(strings.TrimSpace(text))
	if m == "" {
		return "", false
	}
	for _, e := range kb.Entries {
		q := strings.ToLower(e.Question)
		if strings.Contains(m, q) || strings.Contains(q, m) {
			return e.Answer, true
		}
	}
	return "", false
}

// LookupKeyword scans the ordered rule list; the first rule with a matching
// keyword wins.
func (kb *KnowledgeBase) LookupKeyword(text string) (string, bool) {
	m := strings.ToLower(strings.TrimSpace(text))
	if m == "" {
		return "", false
	}
	for _, r := range kb.Rules {
		if containsAny(m, r.Keywords) {
			return r.Answer, true
		}
	}
	return "", false
}

// ResolveLocal resolves an utterance entirely offline: FAQ match first, then
// keyword rules, then the generic disclaimer. Always returns non-empty text.
func (kb *KnowledgeBase) ResolveLocal(text string) string {
	if answer, ok := kb.LookupQuestion(text); ok {
		return answer
	}
	if answer, ok := kb.LookupKeyword(text); ok {
		return answer
	}
	return kb.Disclaimer
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
