package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Completion backend (vision inference and chat).
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration

	// Reverse geocoding.
	NominatimBaseURL string
	NominatimTimeout time.Duration
	GeocodeLanguage  string
	GeocodeCacheSize int

	// Sessions and conversation.
	SessionTTL         time.Duration
	SessionPruneEvery  time.Duration
	MaxContextTurns    int
	MaxUploadBytes     int64
	DialectSamplesPath string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	openAITimeout, err := durationOrDefault("OPENAI_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	nominatimTimeout, err := durationOrDefault("NOMINATIM_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := durationOrDefault("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	pruneEvery, err := durationOrDefault("SESSION_PRUNE_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	maxContextTurns, err := intOrDefault("MAX_CONTEXT_TURNS", 20)
	if err != nil {
		return nil, err
	}
	cacheSize, err := intOrDefault("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	maxUpload, err := intOrDefault("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout: openAITimeout,

		NominatimBaseURL: envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimTimeout: nominatimTimeout,
		GeocodeLanguage:  envOrDefault("GEOCODE_LANGUAGE", "tr"),
		GeocodeCacheSize: cacheSize,

		SessionTTL:         sessionTTL,
		SessionPruneEvery:  pruneEvery,
		MaxContextTurns:    maxContextTurns,
		MaxUploadBytes:     int64(maxUpload),
		DialectSamplesPath: os.Getenv("DIALECT_SAMPLES_PATH"),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}
	if cfg.MaxContextTurns < 0 {
		return nil, errors.New("MAX_CONTEXT_TURNS must not be negative")
	}
	if cfg.GeocodeCacheSize <= 0 {
		return nil, errors.New("GEOCODE_CACHE_SIZE must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func intOrDefault(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
