package config

import (
	"os"
)

type Config struct {
	Port          string
	APIBaseURL    string
	SessionDSN    string
	SessionSecret string
	Env           string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.APIBaseURL = getEnv("API_BASE_URL", "http://127.0.0.1:8000/api")
	cfg.SessionDSN = getEnv("SESSION_DSN", "file:sicea-sessions.db")
	cfg.SessionSecret = getEnv("SESSION_SECRET", "devsessionsecret")
	cfg.Env = getEnv("APP_ENV", "development")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
