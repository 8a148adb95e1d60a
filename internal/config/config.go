package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	AdvanceDelay      time.Duration
	SessionTTL        time.Duration
	ReapInterval      time.Duration
	ResultWorkerCount int
	ResultQueueSize   int
	CORSOrigins       []string
	RemoteDecksURL    string
	RemoteTimeout     time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:torii.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		AdvanceDelay:      envDurationOr("ADVANCE_DELAY", time.Second),
		SessionTTL:        envDurationOr("SESSION_TTL", 30*time.Minute),
		ReapInterval:      envDurationOr("REAP_INTERVAL", time.Minute),
		ResultWorkerCount: envIntOr("RESULT_WORKER_COUNT", 2),
		ResultQueueSize:   envIntOr("RESULT_QUEUE_SIZE", 64),
		CORSOrigins:       csvOr("CORS_ORIGINS", "http://localhost:3000"),
		RemoteDecksURL:    envOr("REMOTE_DECKS_URL", ""),
		RemoteTimeout:     envDurationOr("REMOTE_TIMEOUT", 15*time.Second),
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.AdvanceDelay < 0 || c.AdvanceDelay > time.Minute {
		problems = append(problems, fmt.Sprintf("ADVANCE_DELAY must be between 0s and 1m (got %s)", c.AdvanceDelay))
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	if c.ReapInterval <= 0 {
		problems = append(problems, "REAP_INTERVAL must be positive")
	}
	if c.ResultWorkerCount <= 0 {
		problems = append(problems, "RESULT_WORKER_COUNT must be positive")
	}
	if c.ResultQueueSize <= 0 {
		problems = append(problems, "RESULT_QUEUE_SIZE must be positive")
	}
	if c.RemoteDecksURL != "" {
		if u, err := url.Parse(c.RemoteDecksURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, fmt.Sprintf("REMOTE_DECKS_URL must be an http(s) URL (got %q)", c.RemoteDecksURL))
		}
	}
	if c.RemoteTimeout <= 0 {
		problems = append(problems, "REMOTE_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func csvOr(key, def string) []string {
	parts := strings.Split(envOr(key, def), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
