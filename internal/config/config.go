// Package config loads bloom server configuration from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spetersoncode/bloom"
	"github.com/spetersoncode/bloom/gateway"
	"github.com/spetersoncode/bloom/provider"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// Provider selection
	Provider string
	Model    string

	// API Keys
	GeminiKey string
	OpenAIKey string

	// Vertex AI (uses ADC for auth)
	VertexProject  string
	VertexLocation string

	// Request handling
	UpstreamTimeout time.Duration
	MaxBodyBytes    int64
	RateLimit       float64 // generation requests per second per IP, 0 = unlimited
	RateBurst       int
	TrustProxy      bool // take client IPs from X-Forwarded-For / X-Real-IP

	// Generation parameters
	SafetyThreshold string
	Temperature     *float32
}

// Load loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func Load() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the configuration without loading .env or validating.
func FromEnv() *Config {
	return &Config{
		Port:            getEnvOrDefault("BLOOM_PORT", "8080"),
		LogLevel:        getEnvOrDefault("BLOOM_LOG_LEVEL", "info"),
		Provider:        getEnvOrDefault("BLOOM_PROVIDER", string(bloom.ProviderGoogle)),
		Model:           os.Getenv("BLOOM_MODEL"),
		GeminiKey:       getEnvOrDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		VertexProject:   os.Getenv("VERTEX_PROJECT"),
		VertexLocation:  os.Getenv("VERTEX_LOCATION"),
		UpstreamTimeout: getEnvDurationOrDefault("BLOOM_UPSTREAM_TIMEOUT", gateway.DefaultTimeout),
		MaxBodyBytes:    getEnvInt64OrDefault("BLOOM_MAX_BODY_BYTES", gateway.DefaultMaxBodyBytes),
		RateLimit:       getEnvFloatOrDefault("BLOOM_RATE_LIMIT", 0),
		RateBurst:       int(getEnvInt64OrDefault("BLOOM_RATE_BURST", 3)),
		TrustProxy:      getEnvBoolOrDefault("BLOOM_TRUST_PROXY", false),
		SafetyThreshold: os.Getenv("BLOOM_SAFETY_THRESHOLD"),
		Temperature:     getEnvFloat32(os.Getenv("BLOOM_TEMPERATURE")),
	}
}

// Validate checks the configuration. A missing credential is not an error:
// the server starts and answers generation requests with a Misconfigured error.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("BLOOM_PORT must not be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("BLOOM_UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("BLOOM_MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("BLOOM_RATE_LIMIT must not be negative, got %g", c.RateLimit)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("BLOOM_TEMPERATURE must be between 0 and 2, got %g", *c.Temperature)
	}
	return c.ProviderConfig().Validate()
}

// ProviderConfig returns the upstream generator configuration.
func (c *Config) ProviderConfig() provider.Config {
	p := bloom.Provider(strings.ToLower(c.Provider))
	pc := provider.Config{
		Provider:        p,
		Project:         c.VertexProject,
		Location:        c.VertexLocation,
		Model:           c.Model,
		SafetyThreshold: c.SafetyThreshold,
		Temperature:     c.Temperature,
	}
	switch p {
	case bloom.ProviderOpenAI:
		pc.APIKey = c.OpenAIKey
	case bloom.ProviderGoogle:
		pc.APIKey = c.GeminiKey
	}
	return pc
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level: %q (must be debug, info, warn, or error)", s)
	}
	return level, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvFloat32(value string) *float32 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return nil
	}
	f32 := float32(f)
	return &f32
}
