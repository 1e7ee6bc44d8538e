package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort   string
	GinMode      string
	LogLevel     string
	LogFormat    string
	LogFile      string
	LogMaxSizeMB int

	// ModelPath points at the serialized regression artifact, relative to the
	// working directory unless absolute.
	ModelPath string
	// ModelRequired makes a failed artifact load fatal instead of starting
	// the server in unavailable mode.
	ModelRequired bool

	PredictRateLimit int
	MetricsEnabled   bool

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "pretty"),
		LogFile:          getEnv("LOG_FILE", ""),
		LogMaxSizeMB:     getEnvInt("LOG_MAX_SIZE_MB", 50),
		ModelPath:        getEnv("MODEL_PATH", "./student_grade_lr.json"),
		ModelRequired:    getEnvBool("MODEL_REQUIRED", false),
		PredictRateLimit: getEnvInt("PREDICT_RATE_LIMIT", 60),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
		AllowedOrigins:   parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
