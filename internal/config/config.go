package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	DatabaseURL string

	// Firebase
	FirebaseProjectID string

	// Claude API
	ClaudeAPIKey   string
	ClaudeBaseURL  string
	ClaudeModel    string
	LLMEnabled     bool
	LLMMinInterval time.Duration

	// Analysis pipeline
	KeepPreamble bool
	BatchLimit   int

	// Rate Limiting
	RateLimitRPS int

	// CORS
	AllowedOrigins []string
}

// ErrMissingDatabaseURL is returned by RequireDatabase when DATABASE_URL is unset
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		ClaudeAPIKey:      getEnv("CLAUDE_API_KEY", ""),
		ClaudeBaseURL:     getEnv("CLAUDE_BASE_URL", "https://api.anthropic.com"),
		ClaudeModel:       getEnv("CLAUDE_MODEL", ""),
		LLMEnabled:        getEnvBool("LLM_ENABLED", true),
		LLMMinInterval:    getEnvDuration("LLM_MIN_INTERVAL", 5*time.Second),
		KeepPreamble:      getEnvBool("KEEP_PREAMBLE", false),
		BatchLimit:        getEnvInt("BATCH_LIMIT", 4),
		RateLimitRPS:      getEnvInt("RATE_LIMIT_RPS", 10),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"https://resumeiq.app",
		}),
	}
}

// RequireDatabase fails when no database is configured. Only the server
// needs one; the CLI runs without it.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

// AssistantEnabled reports whether the Claude collaborator should be wired
func (c *Config) AssistantEnabled() bool {
	return c.LLMEnabled && c.ClaudeAPIKey != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("750ms") or plain seconds ("5")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(val, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
