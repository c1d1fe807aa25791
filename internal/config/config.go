package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration read from the environment.
type Config struct {
	Port            string
	DataDir         string
	ChromePath      string
	BackendURL      string
	JobsDatabaseURL string
	GeminiModel     string
	GeminiFallback  string
	RenderTimeout   time.Duration
	DebounceDelay   time.Duration
	SettleDelay     time.Duration
}

// Load reads configuration from environment variables with defaults that
// work for local development.
func Load() Config {
	return Config{
		Port:            getEnv("PORT", "3000"),
		DataDir:         getEnv("DATA_DIR", "cv-data"),
		ChromePath:      os.Getenv("CHROME_PATH"),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:4000"),
		JobsDatabaseURL: os.Getenv("JOBS_DATABASE_URL"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiFallback:  getEnv("GEMINI_FALLBACK_MODEL", "gemini-1.5-flash-8b"),
		RenderTimeout:   getDuration("RENDER_TIMEOUT_SECONDS", 60*time.Second),
		DebounceDelay:   getDuration("PREVIEW_DEBOUNCE_MS", 250*time.Millisecond),
		SettleDelay:     getDuration("SETTLE_DELAY_MS", 100*time.Millisecond),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	// _MS keys are milliseconds, _SECONDS keys are seconds.
	if len(key) > 3 && key[len(key)-3:] == "_MS" {
		return time.Duration(n) * time.Millisecond
	}
	return time.Duration(n) * time.Second
}
