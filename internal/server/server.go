package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/oauth2"

	"github.com/rajat933788/cancerdetect-backend/internal/chatbot"
	"github.com/rajat933788/cancerdetect-backend/internal/config"
	"github.com/rajat933788/cancerdetect-backend/internal/db"
	"github.com/rajat933788/cancerdetect-backend/internal/news"
	"github.com/rajat933788/cancerdetect-backend/internal/predict"
	"github.com/rajat933788/cancerdetect-backend/internal/store"
	"github.com/rajat933788/cancerdetect-backend/internal/types"
)

type Server struct {
	router        *chi.Mux
	cfg           config.Config
	store         *store.MemoryStore
	controller    *chatbot.Controller
	predictor     *predict.Client
	newsClient    *news.Client
	oauthCfg      *oauth2.Config
	tokenStore    *store.FileTokenStore
	database      *db.DB
	databaseStore *store.DatabaseStore
}

func NewServer(cfg config.Config) (*Server, error) {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true, // Enable credentials for cookies
		MaxAge:           300,
	}))

	ms := store.NewMemoryStore(cfg.RemoteEnabled)

	// Initialize database if DB_URL is provided
	var database *db.DB
	var databaseStore *store.DatabaseStore
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Println("database connection established")

		if err := database.RunMigrations(cfg.MigrationsDir); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		databaseStore = store.NewDatabaseStore(database)
	} else {
		log.Println("warning: DB_URL not provided, using in-memory storage only")
	}

	kb := chatbot.DefaultKnowledgeBase()
	if cfg.KnowledgeFile != "" {
		loaded, err := chatbot.LoadKnowledgeBase(cfg.KnowledgeFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load knowledge file: %w", err)
		}
		kb = loaded
		log.Printf("[chatbot] knowledge base loaded from %s", cfg.KnowledgeFile)
	}

	var remote chatbot.RemoteResponder
	if cfg.HFAPIToken != "" {
		remote = chatbot.NewHFResponder(cfg.HFAPIToken, cfg.HFBaseURL, cfg.HFModel)
	}

	var recorder chatbot.QuestionRecorder = ms
	if databaseStore != nil {
		recorder = databaseStore
	}

	oCfg := &oauth2.Config{
		ClientID:     cfg.AuthClientID,
		ClientSecret: cfg.AuthClientSecret,
		RedirectURL:  cfg.AuthRedirectURL,
		Scopes:       cfg.AuthScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.AuthTokenURL,
		},
	}

	s := &Server{
		router:        r,
		cfg:           cfg,
		store:         ms,
		controller:    chatbot.NewController(chatbot.NewResolver(remote, kb), recorder, cfg.ChatMinDelay),
		predictor:     predict.NewClient(cfg.PredictionAPI),
		newsClient:    news.NewClient(cfg.GNewsAPIKey, cfg.GNewsBaseURL),
		oauthCfg:      oCfg,
		tokenStore:    store.NewFileTokenStore(cfg.AuthTokenFile),
		database:      database,
		databaseStore: databaseStore,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	// Chat widget
	s.router.Post("/api/chat", s.handleChat)
	s.router.Get("/api/chat/history", s.handleChatHistory)
	s.router.Post("/api/chat/remote", s.handleRemoteToggle)
	// Risk prediction proxy
	s.router.Post("/api/predict", s.handlePredict)
	// Community content
	s.router.Get("/api/testimonials", s.handleListTestimonials)
	s.router.Post("/api/testimonials", s.handleAddTestimonial)
	s.router.Post("/api/newsletter", s.handleNewsletterSubscribe)
	s.router.Get("/api/news", s.handleNews)
	// Identity provider
	s.router.Get("/api/auth/status", s.handleAuthStatus)
	s.router.Get("/api/auth/login", s.handleAuthLogin)
	s.router.Get("/api/auth/callback", s.handleAuthCallback)
	s.router.Post("/api/auth/logout", s.handleAuthLogout)
}

func (s *Server) Router() http.Handler { return s.router }

// Close releases server resources (currently just the database handle).
func (s *Server) Close() error {
	if s.database != nil {
		return s.database.Close()
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if s.database != nil {
		if err := s.database.HealthCheck(); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		} else {
			status["database"] = "ok"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sid := getOrCreateSessionID(r, w)
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	conv := s.store.Conversation(sid)
	reply, err := s.controller.Submit(r.Context(), conv, req.Message)
	if err != nil {
		switch err {
		case chatbot.ErrBusy:
			s.writeError(w, http.StatusTooManyRequests, "a response is already in progress")
		case chatbot.ErrEmptyMessage:
			s.writeError(w, http.StatusBadRequest, "message is required")
		default:
			log.Printf("[chat] submit failed for session=%s: %v", sid, err)
			s.writeError(w, http.StatusInternalServerError, "failed to process message")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(types.ChatResponse{
		SessionID:     sid,
		Reply:         reply,
		Suggestions:   conv.Suggestions(),
		RemoteEnabled: conv.RemoteEnabled(),
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	conv := s.store.Conversation(sid)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(types.HistoryResponse{
		SessionID:     sid,
		Messages:      conv.History(),
		Suggestions:   conv.Suggestions(),
		RemoteEnabled: conv.RemoteEnabled(),
	})
}

func (s *Server) handleRemoteToggle(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	conv := s.store.Conversation(sid)
	conv.Apply(chatbot.Command{Kind: chatbot.CmdToggleRemote})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Session-Id", sid)
	_ = json.NewEncoder(w).Encode(types.RemoteToggleResponse{
		SessionID:     sid,
		RemoteEnabled: conv.RemoteEnabled(),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var profile predict.PatientProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := profile.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.predictor.Predict(r.Context(), profile)
	if err != nil {
		log.Printf("[predict] upstream call failed: %v", err)
		s.writeError(w, http.StatusBadGateway, "prediction service is unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}

func newSessionID() string {
	return fmt.Sprintf("s_%d", time.Now().UnixNano())
}

// getSessionID retrieves the session ID from cookie, header, or query param.
func getSessionID(r *http.Request) string {
	if cookie, err := GetSessionCookie(r); err == nil && cookie != "" {
		return cookie
	}
	if sid := r.Header.Get("X-Session-Id"); sid != "" {
		return sid
	}
	if sid := r.URL.Query().Get("sessionId"); sid != "" {
		return sid
	}
	return ""
}

// getOrCreateSessionID gets the existing session ID or creates a new one,
// setting the cookie.
func getOrCreateSessionID(r *http.Request, w http.ResponseWriter) string {
	sid := getSessionID(r)
	if sid == "" {
		sid = newSessionID()
		SetSessionCookie(w, sid)
	}
	return sid
}
