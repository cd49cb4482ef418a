package server

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rajat933788/cancerdetect-backend/internal/store"
)

// GET /api/auth/status
// Returns { authenticated: bool, email?: string }
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	sid := getSessionID(r)

	var authed bool
	var email string

	if s.databaseStore != nil && sid != "" {
		auth, err := s.databaseStore.GetAuthSession(sid)
		if err == nil && auth != nil {
			authed = true
			email = auth.Email
		}
	} else {
		tok, _ := s.tokenStore.Read()
		authed = tok != nil
		if tok != nil {
			email = tok.Email
		}
		if email == "" && sid != "" {
			email = s.store.GetEmail(sid)
		}
	}

	resp := map[string]any{"authenticated": authed}
	if email != "" {
		resp["email"] = email
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// GET /api/auth/login
// Initiates the OAuth flow and returns { url } to redirect the browser
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil || s.oauthCfg.ClientID == "" || s.oauthCfg.ClientSecret == "" {
		s.writeError(w, http.StatusBadRequest, "identity provider not configured")
		return
	}
	sid := getOrCreateSessionID(r, w)
	state := randomState()
	s.store.SetOAuthState(sid, state)
	url := s.oauthCfg.AuthCodeURL(state)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(map[string]string{"url": url, "sessionId": sid})
}

// GET /api/auth/callback?code=...&state=...
// Exchanges the code for a token, persists it, and redirects to the frontend
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		s.writeError(w, http.StatusBadRequest, "identity provider not configured")
		return
	}
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		s.writeError(w, http.StatusBadRequest, "missing state or code")
		return
	}
	sid := s.store.GetSessionByOAuthState(state)
	if sid == "" || s.store.GetOAuthState(sid) != state {
		s.writeError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}

	tok, err := s.oauthCfg.Exchange(r.Context(), code)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	email := s.fetchAccountEmail(tok.AccessToken)

	if s.databaseStore != nil {
		if err := s.databaseStore.SaveAuthSession(sid, tok.AccessToken, email); err != nil {
			s.writeError(w, http.StatusInternalServerError, "failed to save auth session")
			return
		}
	} else {
		if err := s.tokenStore.Write(&store.IdentityToken{AccessToken: tok.AccessToken, TokenType: tok.TokenType, Email: email}); err != nil {
			s.writeError(w, http.StatusInternalServerError, "token persist failed")
			return
		}
	}

	s.store.SetEmail(sid, email)
	s.store.ClearOAuthState(sid)
	SetSessionCookie(w, sid)

	http.Redirect(w, r, fmt.Sprintf("%s?auth=success", s.cfg.FrontendURL), http.StatusFound)
}

// POST /api/auth/logout
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	sid := getSessionID(r)
	if sid != "" {
		if s.databaseStore != nil {
			_ = s.databaseStore.DeleteAuthSession(sid)
		}
		s.store.ClearEmail(sid)
	}
	_ = s.tokenStore.Clear()
	ClearSessionCookie(w)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "logged_out"})
}

func randomState() string {
	var b [24]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// fetchAccountEmail asks the provider's userinfo endpoint for the account
// email; empty on any failure since the email is informational only.
func (s *Server) fetchAccountEmail(accessToken string) string {
	if s.cfg.AuthUserinfoURL == "" {
		return ""
	}
	req, err := http.NewRequest(http.MethodGet, s.cfg.AuthUserinfoURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Email)
}
