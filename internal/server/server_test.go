package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rajat933788/cancerdetect-backend/internal/config"
	"github.com/rajat933788/cancerdetect-backend/internal/server"
	"github.com/rajat933788/cancerdetect-backend/internal/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	return newTestServerWithConfig(t, config.Config{
		Port:          "0",
		AllowedOrigin: "*",
		ChatMinDelay:  0,
		RemoteEnabled: true,
	})
}

func newTestServerWithConfig(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	s, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer err: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, sessionID string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Fatalf("health = %v", body)
	}
}

func TestChatEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	const sid = "s_test_chat"

	resp := postJSON(t, ts.URL+"/api/chat", sid, types.ChatRequest{Message: "What is thyroid cancer?"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat status = %d", resp.StatusCode)
	}

	var chat types.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		t.Fatalf("decode chat response: %v", err)
	}
	if chat.SessionID != sid {
		t.Fatalf("sessionId = %s, want %s", chat.SessionID, sid)
	}
	if chat.Reply.Origin != "bot" || chat.Reply.IsError {
		t.Fatalf("unexpected reply: %+v", chat.Reply)
	}
	// No remote token configured, so the FAQ answer comes back verbatim.
	if !strings.Contains(chat.Reply.Text, "starts in the thyroid gland") {
		t.Fatalf("reply = %q, want the FAQ definition", chat.Reply.Text)
	}
	if len(chat.Suggestions) != 4 {
		t.Fatalf("suggestions = %d, want 4", len(chat.Suggestions))
	}

	// History now holds 2 greetings + user + bot.
	histReq, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/chat/history", nil)
	histReq.Header.Set("X-Session-Id", sid)
	histResp, err := http.DefaultClient.Do(histReq)
	if err != nil {
		t.Fatalf("history request: %v", err)
	}
	defer histResp.Body.Close()
	var hist types.HistoryResponse
	if err := json.NewDecoder(histResp.Body).Decode(&hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(hist.Messages) != 4 {
		t.Fatalf("history length = %d, want 4", len(hist.Messages))
	}
	if hist.Messages[len(hist.Messages)-1].Origin != "bot" {
		t.Fatal("last message must be bot-origin")
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/chat", "s_empty", types.ChatRequest{Message: "   "})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRemoteToggleRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	const sid = "s_toggle"

	toggle := func() types.RemoteToggleResponse {
		resp := postJSON(t, ts.URL+"/api/chat/remote", sid, nil)
		defer resp.Body.Close()
		var out types.RemoteToggleResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode toggle: %v", err)
		}
		return out
	}

	if first := toggle(); first.RemoteEnabled {
		t.Fatal("first toggle should disable remote")
	}
	if second := toggle(); !second.RemoteEnabled {
		t.Fatal("second toggle should restore remote")
	}
}

func TestRemoteDisabledByConfig(t *testing.T) {
	ts := newTestServerWithConfig(t, config.Config{
		Port:          "0",
		AllowedOrigin: "*",
		ChatMinDelay:  0,
		RemoteEnabled: false,
	})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/chat/history", nil)
	req.Header.Set("X-Session-Id", "s_remote_off")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("history request: %v", err)
	}
	defer resp.Body.Close()

	var hist types.HistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if hist.RemoteEnabled {
		t.Fatal("new session must start with remote disabled when the config says so")
	}
}

func TestTestimonialsMemoryFallback(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/testimonials", "", types.TestimonialRequest{
		Name:    "Ravi",
		Message: "Early screening made all the difference.",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	listResp, err := http.Get(ts.URL + "/api/testimonials")
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	defer listResp.Body.Close()
	var list []map[string]any
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0]["name"] != "Ravi" {
		t.Fatalf("testimonials = %v", list)
	}
}

func TestTestimonialRequiresFields(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/testimonials", "", types.TestimonialRequest{Name: "", Message: "hi"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestNewsletterValidation(t *testing.T) {
	ts := newTestServer(t)

	bad := postJSON(t, ts.URL+"/api/newsletter", "", types.NewsletterRequest{Email: "not-an-email"})
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid email status = %d, want 400", bad.StatusCode)
	}

	good := postJSON(t, ts.URL+"/api/newsletter", "", types.NewsletterRequest{Email: "reader@example.com"})
	defer good.Body.Close()
	if good.StatusCode != http.StatusOK {
		t.Fatalf("subscribe status = %d, want 200", good.StatusCode)
	}
}

func TestAuthLoginUnconfigured(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/auth/login")
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when the provider is unconfigured", resp.StatusCode)
	}
}

func TestPredictValidation(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/predict", "", map[string]string{"age": "45"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for an incomplete profile", resp.StatusCode)
	}
}
