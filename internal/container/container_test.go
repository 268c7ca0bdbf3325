package container

import (
	"context"
	"testing"
	"time"

	"evote/internal/config"
	"evote/internal/domain"
	"evote/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(redisURL string) *config.Config {
	return &config.Config{
		Environment:     "test",
		RedisURL:        redisURL,
		SessionSecret:   "session-secret",
		TokenSecret:     "token-secret",
		OTPCountdown:    time.Minute,
		FaceScanTick:    time.Millisecond,
		FaceSuccessRate: 1,
	}
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name        string
		config      *config.Config
		expectRedis bool
	}{
		{
			name:        "Container with Redis configured",
			config:      testConfig("redis://" + mr.Addr()),
			expectRedis: true,
		},
		{
			name:        "Container without Redis configured",
			config:      testConfig(""),
			expectRedis: false,
		},
		{
			name:        "Container with invalid Redis URL",
			config:      testConfig("invalid://redis-url"),
			expectRedis: false, // Redis client initialization fails but container creation succeeds
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.config, logger.NewNop())
			require.NoError(t, err)
			require.NotNil(t, c)
			t.Cleanup(func() {
				if c.HasRedis() {
					_ = c.GetRedisClient().Close()
				}
			})

			assert.Equal(t, tt.expectRedis, c.HasRedis())
			assert.Equal(t, tt.config, c.GetConfig())
			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetAuthService())
			assert.NotNil(t, c.GetOTPService())
			assert.NotNil(t, c.GetFaceService())
			assert.NotNil(t, c.GetElectionService())
			assert.NotNil(t, c.GetSessionManager())
		})
	}
}

func TestNew_OTPChallengesGoToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := New(testConfig("redis://"+mr.Addr()), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.GetRedisClient().Close() })

	_, err = c.GetOTPService().Request(context.Background(), "sess-1", "voter@example.edu", domain.ChannelEmail)
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:otp:challenge:sess-1"))
}

func TestNew_ServicesAreWired(t *testing.T) {
	c, err := New(testConfig(""), logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Len(t, c.GetElectionService().List(ctx), 3)

	state, err := c.GetFaceService().Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.FaceSuccess, state)

	token, err := c.GetAuthService().IssueToken(&domain.Identity{ID: "admin1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	id, err := c.GetAuthService().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin1", id.ID)
}
