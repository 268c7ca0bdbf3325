package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"evote/internal/domain"
	"evote/pkg/redis"
)

// ErrNoChallenge is returned when a session has no pending code
var ErrNoChallenge = errors.New("no pending challenge")

// Store keeps at most one challenge per session id
type Store interface {
	Get(ctx context.Context, sessionID string) (*domain.Challenge, error)
	Put(ctx context.Context, sessionID string, ch *domain.Challenge) error
	Delete(ctx context.Context, sessionID string) error
}

// ChallengeTTL is how long an unverified challenge is kept by either store
const ChallengeTTL = redis.TTLOTPChallenge

type memoryEntry struct {
	challenge domain.Challenge
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Entries expire after ChallengeTTL like
// their Redis counterparts; expired ones are swept on Put.
type MemoryStore struct {
	mu         sync.RWMutex
	challenges map[string]memoryEntry
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{challenges: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*domain.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.challenges[sessionID]
	if !ok || !s.now().Before(entry.expiresAt) {
		return nil, ErrNoChallenge
	}
	ch := entry.challenge
	return &ch, nil
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, ch *domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.challenges {
		if !now.Before(entry.expiresAt) {
			delete(s.challenges, id)
		}
	}
	s.challenges[sessionID] = memoryEntry{challenge: *ch, expiresAt: now.Add(ChallengeTTL)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.challenges, sessionID)
	return nil
}

// RedisStore keeps challenges as JSON under an expiring key so that several
// server instances share them
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*domain.Challenge, error) {
	raw, err := s.client.Get(ctx, s.client.KeyBuilder.KeyOTPChallenge(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoChallenge
		}
		return nil, fmt.Errorf("failed to read challenge: %w", err)
	}

	var ch domain.Challenge
	if err := json.Unmarshal([]byte(raw), &ch); err != nil {
		return nil, fmt.Errorf("failed to decode challenge: %w", err)
	}
	return &ch, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, ch *domain.Challenge) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to encode challenge: %w", err)
	}
	if err := s.client.Set(ctx, s.client.KeyBuilder.KeyOTPChallenge(sessionID), data, redis.TTLOTPChallenge); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Delete(ctx, s.client.KeyBuilder.KeyOTPChallenge(sessionID)); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}
