package types

import "github.com/rajat933788/cancerdetect-backend/internal/chatbot"

type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID     string          `json:"sessionId"`
	Reply         chatbot.Message `json:"reply"`
	Suggestions   []string        `json:"suggestions"`
	RemoteEnabled bool            `json:"remoteEnabled"`
}

type HistoryResponse struct {
	SessionID     string            `json:"sessionId"`
	Messages      []chatbot.Message `json:"messages"`
	Suggestions   []string          `json:"suggestions"`
	RemoteEnabled bool              `json:"remoteEnabled"`
}

type RemoteToggleResponse struct {
	SessionID     string `json:"sessionId"`
	RemoteEnabled bool   `json:"remoteEnabled"`
}

type TestimonialRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
