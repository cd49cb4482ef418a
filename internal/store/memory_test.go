package store_test

import (
	"context"
	"testing"

	"github.com/rajat933788/cancerdetect-backend/internal/store"
)

func TestConversationSeededPerSession(t *testing.T) {
	ms := store.NewMemoryStore(true)

	conv := ms.Conversation("s_1")
	if conv == nil {
		t.Fatal("expected a conversation")
	}
	if got := len(conv.History()); got != 2 {
		t.Fatalf("new conversation history = %d, want 2 greeting messages", got)
	}
	if ms.Conversation("s_1") != conv {
		t.Fatal("same session must return the same conversation")
	}
	if ms.Conversation("s_2") == conv {
		t.Fatal("different sessions must not share a conversation")
	}
}

func TestConversationSeedRemoteFlag(t *testing.T) {
	if !store.NewMemoryStore(true).Conversation("s_1").RemoteEnabled() {
		t.Fatal("store seeded enabled must create conversations with remote enabled")
	}
	if store.NewMemoryStore(false).Conversation("s_1").RemoteEnabled() {
		t.Fatal("store seeded disabled must create conversations with remote disabled")
	}
}

func TestRecordQuestionFallback(t *testing.T) {
	ms := store.NewMemoryStore(true)
	if err := ms.RecordQuestion(context.Background(), "what are risk factors?"); err != nil {
		t.Fatalf("RecordQuestion err: %v", err)
	}
	qs := ms.Questions()
	if len(qs) != 1 || qs[0].Question != "what are risk factors?" {
		t.Fatalf("questions = %+v", qs)
	}
	if qs[0].Timestamp.IsZero() {
		t.Fatal("timestamp must be server-assigned")
	}
}

func TestTestimonialFallback(t *testing.T) {
	ms := store.NewMemoryStore(true)
	ms.SaveTestimonial(store.Testimonial{Name: "Asha", Message: "The tool helped me talk to my doctor."})

	list := ms.Testimonials()
	if len(list) != 1 {
		t.Fatalf("testimonials = %d, want 1", len(list))
	}
	if list[0].Name != "Asha" || list[0].Timestamp.IsZero() {
		t.Fatalf("unexpected testimonial: %+v", list[0])
	}
}

func TestOAuthStateRoundTrip(t *testing.T) {
	ms := store.NewMemoryStore(true)
	ms.SetOAuthState("s_1", "state-abc")

	if got := ms.GetOAuthState("s_1"); got != "state-abc" {
		t.Fatalf("GetOAuthState = %q", got)
	}
	if got := ms.GetSessionByOAuthState("state-abc"); got != "s_1" {
		t.Fatalf("GetSessionByOAuthState = %q", got)
	}

	ms.ClearOAuthState("s_1")
	if ms.GetOAuthState("s_1") != "" || ms.GetSessionByOAuthState("state-abc") != "" {
		t.Fatal("state must be fully cleared")
	}
}
