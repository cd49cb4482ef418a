package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	FrontendURL   string
	// Remote text generation
	HFAPIToken    string
	HFBaseURL     string
	HFModel       string
	RemoteEnabled bool
	ChatMinDelay  time.Duration
	KnowledgeFile string
	// External services
	PredictionAPI string
	GNewsAPIKey   string
	GNewsBaseURL  string
	// Database
	DatabaseURL   string
	MigrationsDir string
	// Identity provider (OAuth2)
	AuthClientID     string
	AuthClientSecret string
	AuthRedirectURL  string
	AuthScopes       []string
	AuthURL          string
	AuthTokenURL     string
	AuthUserinfoURL  string
	AuthTokenFile    string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:          getEnvDefault("PORT", "8080"),
		AllowedOrigin: getEnvDefault("ALLOWED_ORIGIN", "*"),
		FrontendURL:   getEnvDefault("FRONTEND_URL", "http://localhost:5173"),

		HFAPIToken:    os.Getenv("HUGGINGFACE_API_TOKEN"),
		HFBaseURL:     getEnvDefault("HUGGINGFACE_BASE_URL", "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.2/v1"),
		HFModel:       getEnvDefault("HUGGINGFACE_MODEL", "mistralai/Mistral-7B-Instruct-v0.2"),
		RemoteEnabled: getEnvBoolDefault("CHAT_REMOTE_ENABLED", true),
		ChatMinDelay:  getEnvDurationDefault("CHAT_MIN_DELAY", time.Second),
		KnowledgeFile: os.Getenv("KNOWLEDGE_FILE"),

		PredictionAPI: os.Getenv("PREDICTION_API"),
		GNewsAPIKey:   os.Getenv("GNEWS_API_KEY"),
		GNewsBaseURL:  os.Getenv("GNEWS_BASE_URL"),

		DatabaseURL:   os.Getenv("DB_URL"),
		MigrationsDir: getEnvDefault("MIGRATIONS_DIR", "./migrations"),

		AuthClientID:     os.Getenv("AUTH_CLIENT_ID"),
		AuthClientSecret: os.Getenv("AUTH_CLIENT_SECRET"),
		AuthRedirectURL:  getEnvDefault("AUTH_REDIRECT_URL", "http://localhost:8080/api/auth/callback"),
		AuthScopes:       getEnvListDefault("AUTH_SCOPES", []string{"openid", "email", "profile"}),
		AuthURL:          getEnvDefault("AUTH_URL", "https://accounts.google.com/o/oauth2/auth"),
		AuthTokenURL:     getEnvDefault("AUTH_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		AuthUserinfoURL:  getEnvDefault("AUTH_USERINFO_URL", "https://www.googleapis.com/oauth2/v2/userinfo"),
		AuthTokenFile:    getEnvDefault("AUTH_TOKEN_FILE", "data/auth_token.json"),
	}
	if cfg.HFAPIToken == "" {
		log.Println("warning: HUGGINGFACE_API_TOKEN is not set; chat will answer from the local knowledge base only")
	}
	if cfg.PredictionAPI == "" {
		log.Println("warning: PREDICTION_API is not set; risk prediction requests will fail until provided")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvListDefault(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getEnvDurationDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d >= 0 {
			return d
		}
		log.Printf("warning: invalid %s value %q, using default %s", key, v, def)
	}
	return def
}
