// Package face simulates the camera check voters pass before voting.
package face

import (
	"context"
	"math/rand/v2"
	"time"

	"evote/internal/domain"
	"evote/internal/service"

	"go.uber.org/zap"
)

// CountdownTicks is how many ticks the scan counts down before deciding
const CountdownTicks = 3

// Decider reports whether a finished scan matched
type Decider func() bool

// RandomDecider succeeds with the given probability
func RandomDecider(rate float64) Decider {
	return func() bool {
		return rand.Float64() < rate
	}
}

// Service implements service.FaceService
type Service struct {
	tick   time.Duration
	decide Decider
	logger *zap.Logger
}

// NewService creates a face scan service. A nil decider succeeds 80% of the time.
func NewService(tick time.Duration, decide Decider, logger *zap.Logger) service.FaceService {
	if decide == nil {
		decide = RandomDecider(0.8)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{tick: tick, decide: decide, logger: logger}
}

// Scan counts down and then returns FaceSuccess or FaceFailed. A cancelled
// context stops the countdown and leaves the scan undecided.
func (s *Service) Scan(ctx context.Context) (domain.FaceState, error) {
	if s.tick > 0 {
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()

		for remaining := CountdownTicks; remaining > 0; remaining-- {
			select {
			case <-ctx.Done():
				return domain.FaceInitial, ctx.Err()
			case <-ticker.C:
			}
		}
	} else if err := ctx.Err(); err != nil {
		return domain.FaceInitial, err
	}

	if s.decide() {
		s.logger.Debug("Face scan matched")
		return domain.FaceSuccess, nil
	}
	s.logger.Debug("Face scan did not match")
	return domain.FaceFailed, nil
}
