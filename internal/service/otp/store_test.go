package otp

import (
	"context"
	"testing"
	"time"

	"evote/internal/domain"
	"evote/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client)
}

func TestStores(t *testing.T) {
	_, redisStore := newRedisStore(t)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}

	issued := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "sess")
			assert.ErrorIs(t, err, ErrNoChallenge)

			want := &domain.Challenge{Code: "123456", Contact: "voter@example.edu", Channel: domain.ChannelEmail, IssuedAt: issued}
			require.NoError(t, store.Put(ctx, "sess", want))

			got, err := store.Get(ctx, "sess")
			require.NoError(t, err)
			assert.Equal(t, want.Code, got.Code)
			assert.Equal(t, want.Contact, got.Contact)
			assert.Equal(t, want.Channel, got.Channel)
			assert.True(t, want.IssuedAt.Equal(got.IssuedAt))

			require.NoError(t, store.Put(ctx, "sess", &domain.Challenge{Code: "999999"}))
			got, err = store.Get(ctx, "sess")
			require.NoError(t, err)
			assert.Equal(t, "999999", got.Code)

			require.NoError(t, store.Delete(ctx, "sess"))
			_, err = store.Get(ctx, "sess")
			assert.ErrorIs(t, err, ErrNoChallenge)

			assert.NoError(t, store.Delete(ctx, "never-existed"))
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sess", &domain.Challenge{Code: "123456"}))
	got, err := store.Get(ctx, "sess")
	require.NoError(t, err)
	got.Code = "000000"

	again, err := store.Get(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, "123456", again.Code)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	clock := &fakeClock{now: time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)}
	store.now = clock.Now
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "old-1", &domain.Challenge{Code: "111111"}))
	require.NoError(t, store.Put(ctx, "old-2", &domain.Challenge{Code: "222222"}))

	clock.Advance(ChallengeTTL - time.Second)
	_, err := store.Get(ctx, "old-1")
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = store.Get(ctx, "old-1")
	assert.ErrorIs(t, err, ErrNoChallenge)

	// a later Put sweeps what has expired
	require.NoError(t, store.Put(ctx, "fresh", &domain.Challenge{Code: "333333"}))
	assert.Len(t, store.challenges, 1)
	got, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "333333", got.Code)
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	mr, store := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", &domain.Challenge{Code: "123456"}))

	key := "test:otp:challenge:abc"
	assert.True(t, mr.Exists(key))
	assert.Equal(t, redis.TTLOTPChallenge, mr.TTL(key))

	mr.FastForward(redis.TTLOTPChallenge + time.Second)
	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNoChallenge)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, store := newRedisStore(t)
	require.NoError(t, mr.Set("test:otp:challenge:bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoChallenge)
}
