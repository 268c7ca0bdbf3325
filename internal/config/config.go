package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Development fallbacks. Refused when ENVIRONMENT=production.
const (
	devSessionSecret = "dev-session-secret-change-me-0000"
	devTokenSecret   = "dev-token-secret-change-me"
	devCSRFKey       = "dev-csrf-key-32-bytes-long-00000"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string
	RedisURL       string

	SessionSecret string
	TokenSecret   string
	CSRFKey       string
	CSRFEnabled   bool
	SecureCookies bool

	// SimulatedLatency keeps the artificial delays that stand in for network calls
	SimulatedLatency bool
	OTPCountdown     time.Duration
	FaceScanTick     time.Duration
	FaceSuccessRate  float64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		AllowedOrigins:   parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		RedisURL:         getEnv("REDIS_URL", ""),
		SessionSecret:    getEnv("SESSION_SECRET", devSessionSecret),
		TokenSecret:      getEnv("TOKEN_SECRET", devTokenSecret),
		CSRFKey:          getEnv("CSRF_KEY", devCSRFKey),
		CSRFEnabled:      getBoolEnv("CSRF_ENABLED", true),
		SecureCookies:    getBoolEnv("SECURE_COOKIES", false),
		SimulatedLatency: getBoolEnv("SIMULATED_LATENCY", true),
		OTPCountdown:     getDurationEnv("OTP_COUNTDOWN", 60*time.Second),
		FaceScanTick:     getDurationEnv("FACE_SCAN_TICK", time.Second),
		FaceSuccessRate:  getFloatEnv("FACE_SUCCESS_RATE", 0.8),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a handler
func (c *Config) Validate() error {
	if len(c.CSRFKey) != 32 && c.CSRFEnabled {
		return fmt.Errorf("CSRF_KEY must be exactly 32 bytes, got %d", len(c.CSRFKey))
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET is required")
	}
	if c.OTPCountdown <= 0 {
		return fmt.Errorf("OTP_COUNTDOWN must be positive")
	}
	if c.FaceSuccessRate < 0 || c.FaceSuccessRate > 1 {
		return fmt.Errorf("FACE_SUCCESS_RATE must be within [0, 1]")
	}
	if c.IsProduction() {
		switch {
		case c.SessionSecret == devSessionSecret:
			return fmt.Errorf("SESSION_SECRET must be set in production")
		case c.TokenSecret == devTokenSecret:
			return fmt.Errorf("TOKEN_SECRET must be set in production")
		case c.CSRFEnabled && c.CSRFKey == devCSRFKey:
			return fmt.Errorf("CSRF_KEY must be set in production")
		}
	}
	return nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
