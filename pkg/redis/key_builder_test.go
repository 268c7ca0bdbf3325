package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyBuilder(t *testing.T) {
	tests := []struct {
		environment string
		expected    string
	}{
		{"production", "prod"},
		{"", "prod"},
		{"development", "staging"},
		{"staging", "staging"},
		{"test", "test"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.expected+":otp:challenge:s", kb.KeyOTPChallenge("s"))
		})
	}
}

func TestKeyBuilder_KeyOTPChallenge(t *testing.T) {
	kb := NewKeyBuilder("development")
	assert.Equal(t, "staging:otp:challenge:abc-123", kb.KeyOTPChallenge("abc-123"))
	assert.Equal(t, "staging:custom", kb.BuildKey("custom"))
}
