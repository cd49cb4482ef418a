package chatbot_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rajat933788/cancerdetect-backend/internal/chatbot"
)

func TestResolveLocalTotality(t *testing.T) {
	kb := chatbot.DefaultKnowledgeBase()
	inputs := []string{
		"What is thyroid cancer?",
		"symptom",
		"tell me about the weather",
		"x",
		"THANK YOU SO MUCH",
	}
	for _, in := range inputs {
		if got := kb.ResolveLocal(in); got == "" {
			t.Fatalf("ResolveLocal(%q) returned empty answer", in)
		}
	}
}

func TestLookupKeywordMatches(t *testing.T) {
	kb := chatbot.DefaultKnowledgeBase()

	answer, ok := kb.LookupKeyword("do I have any symptom to worry about")
	if !ok {
		t.Fatal("expected symptom keyword to match")
	}
	if !strings.Contains(answer, "Common symptoms of thyroid cancer") {
		t.Fatalf("unexpected symptom answer: %q", answer)
	}

	answer, ok = kb.LookupKeyword("thank you")
	if !ok {
		t.Fatal("expected thank keyword to match")
	}
	if !strings.Contains(answer, "You're welcome!") {
		t.Fatalf("unexpected thanks answer: %q", answer)
	}
}

func TestLookupKeywordFirstRuleWins(t *testing.T) {
	kb := chatbot.DefaultKnowledgeBase()

	// "symptom" precedes "diagnos" in the rule list; both keywords appear.
	answer, ok := kb.LookupKeyword("how are symptoms diagnosed")
	if !ok {
		t.Fatal("expected a keyword match")
	}
	if !strings.Contains(answer, "Common symptoms") {
		t.Fatalf("expected the symptoms rule to win, got %q", answer)
	}
}

func TestLookupQuestionBidirectionalContainment(t *testing.T) {
	kb := chatbot.DefaultKnowledgeBase()

	// Full question contained in a longer input.
	answer, ok := kb.LookupQuestion("Please explain: what is thyroid cancer? I'm worried.")
	if !ok {
		t.Fatal("expected FAQ match for input containing the question")
	}
	if !strings.Contains(answer, "starts in the thyroid gland") {
		t.Fatalf("unexpected answer: %q", answer)
	}

	// Short input contained in a question.
	if _, ok := kb.LookupQuestion("risk factors for thyroid"); !ok {
		t.Fatal("expected FAQ match for input contained in a question")
	}
}

func TestResolveLocalDisclaimerFallback(t *testing.T) {
	kb := chatbot.DefaultKnowledgeBase()
	got := kb.ResolveLocal("qqqqzzzz")
	if !strings.Contains(got, "I don't have specific information about that") {
		t.Fatalf("expected disclaimer, got %q", got)
	}
}

func TestLoadKnowledgeBaseOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.yaml")
	contents := `
faq:
  - question: "What is iodine?"
    answer: "Iodine is a trace element the thyroid needs."
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write knowledge file: %v", err)
	}

	kb, err := chatbot.LoadKnowledgeBase(path)
	if err != nil {
		t.Fatalf("LoadKnowledgeBase err: %v", err)
	}

	if _, ok := kb.LookupQuestion("what is iodine?"); !ok {
		t.Fatal("expected override FAQ entry to match")
	}
	// Rules and disclaimer fall back to defaults when omitted.
	if _, ok := kb.LookupKeyword("symptom"); !ok {
		t.Fatal("expected default rules to survive a partial override")
	}
	if kb.Disclaimer == "" {
		t.Fatal("expected default disclaimer to survive a partial override")
	}
}
