package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_URL", "OTP_COUNTDOWN", "FACE_SUCCESS_RATE", "SIMULATED_LATENCY", "CSRF_ENABLED", "CSRF_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 60*time.Second, cfg.OTPCountdown)
	assert.Equal(t, time.Second, cfg.FaceScanTick)
	assert.InDelta(t, 0.8, cfg.FaceSuccessRate, 1e-9)
	assert.True(t, cfg.SimulatedLatency)
	assert.True(t, cfg.CSRFEnabled)
	assert.Len(t, cfg.CSRFKey, 32)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OTP_COUNTDOWN", "5s")
	t.Setenv("SIMULATED_LATENCY", "false")
	t.Setenv("FACE_SUCCESS_RATE", "1")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.OTPCountdown)
	assert.False(t, cfg.SimulatedLatency)
	assert.InDelta(t, 1.0, cfg.FaceSuccessRate, 1e-9)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("OTP_COUNTDOWN", "soon")
	t.Setenv("SIMULATED_LATENCY", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.OTPCountdown)
	assert.True(t, cfg.SimulatedLatency)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			SessionSecret:   "s",
			TokenSecret:     "t",
			CSRFKey:         "0123456789abcdef0123456789abcdef",
			CSRFEnabled:     true,
			OTPCountdown:    time.Minute,
			FaceSuccessRate: 0.8,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"short csrf key", func(c *Config) { c.CSRFKey = "short" }, true},
		{"short csrf key ignored when disabled", func(c *Config) { c.CSRFKey = ""; c.CSRFEnabled = false }, false},
		{"missing session secret", func(c *Config) { c.SessionSecret = "" }, true},
		{"missing token secret", func(c *Config) { c.TokenSecret = "" }, true},
		{"zero countdown", func(c *Config) { c.OTPCountdown = 0 }, true},
		{"rate above one", func(c *Config) { c.FaceSuccessRate = 1.5 }, true},
		{"production with real secrets", func(c *Config) { c.Environment = "production" }, false},
		{"production with dev session secret", func(c *Config) { c.Environment = "production"; c.SessionSecret = devSessionSecret }, true},
		{"production with dev token secret", func(c *Config) { c.Environment = "production"; c.TokenSecret = devTokenSecret }, true},
		{"production with dev csrf key", func(c *Config) { c.Environment = "production"; c.CSRFKey = devCSRFKey }, true},
		{"dev csrf key ignored when csrf disabled", func(c *Config) { c.Environment = "production"; c.CSRFKey = devCSRFKey; c.CSRFEnabled = false }, false},
		{"dev secrets fine outside production", func(c *Config) { c.SessionSecret = devSessionSecret; c.TokenSecret = devTokenSecret }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_ProductionRefusesDefaults(t *testing.T) {
	for _, key := range []string{"SESSION_SECRET", "TOKEN_SECRET", "CSRF_KEY"} {
		t.Setenv(key, "")
	}
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("SESSION_SECRET", "prod-session-secret")
	t.Setenv("TOKEN_SECRET", "prod-token-secret")
	t.Setenv("CSRF_KEY", "abcdefghijklmnopqrstuvwxyz012345")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{}, parseOrigins(""))
	assert.Equal(t, []string{"a", "b"}, parseOrigins("a,b"))
}
