// Package otp implements the simulated one-time code sign-in for voters.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"evote/internal/domain"
	"evote/internal/service"
	apperrors "evote/pkg/errors"
	"evote/pkg/latency"
	"evote/pkg/utils"

	"go.uber.org/zap"
)

const (
	codeMin = 100000
	codeMax = 999999
)

// VoterID and VoterName are the fixed identity every verified voter receives
const (
	VoterID   = "voter1"
	VoterName = "Voter User"
)

// CodeGenerator returns a six digit code
type CodeGenerator func() (string, error)

// RandomCode draws a code uniformly from [100000, 999999]
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return big.NewInt(0).Add(n, big.NewInt(codeMin)).String(), nil
}

// Option customises a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCodeGenerator replaces RandomCode
func WithCodeGenerator(gen CodeGenerator) Option {
	return func(s *Service) { s.generate = gen }
}

// WithDelay sets the simulated latency of request and verify calls
func WithDelay(delay latency.Simulator) Option {
	return func(s *Service) { s.delay = delay }
}

// Service implements service.OTPService on top of a Store
type Service struct {
	store     Store
	countdown time.Duration
	delay     latency.Simulator
	generate  CodeGenerator
	now       func() time.Time
	logger    *zap.Logger

	// serialises read-compare-delete so a code verifies at most once
	mu sync.Mutex
}

// NewService creates the OTP service. countdown is how long a resend is blocked.
func NewService(store Store, countdown time.Duration, logger *zap.Logger, opts ...Option) service.OTPService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:     store,
		countdown: countdown,
		generate:  RandomCode,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateContact checks the contact against the channel's format and returns
// the message the login page shows when it does not match
func ValidateContact(contact string, channel domain.Channel) error {
	if !channel.Valid() {
		return apperrors.NewValidationError("Please choose email or mobile", nil)
	}
	if strings.TrimSpace(contact) == "" {
		return apperrors.NewValidationError("Please enter your "+string(channel), nil)
	}
	switch channel {
	case domain.ChannelEmail:
		if !utils.ValidateEmail(contact) {
			return apperrors.NewValidationError("Please enter a valid email address", nil)
		}
	case domain.ChannelMobile:
		if !utils.ValidateMobile(contact) {
			return apperrors.NewValidationError("Please enter a valid 10-digit mobile number", nil)
		}
	}
	return nil
}

// Request validates the contact and issues a fresh code for the session
func (s *Service) Request(ctx context.Context, sessionID, contact string, channel domain.Channel) (*domain.Challenge, error) {
	if err := ValidateContact(contact, channel); err != nil {
		return nil, err
	}
	if err := s.delay.Wait(ctx, latency.OTPRequest); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issue(ctx, sessionID, contact, channel)
}

// Resend replaces the pending code once the countdown has elapsed
func (s *Service) Resend(ctx context.Context, sessionID string) (*domain.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.pending(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Remaining(current) > 0 {
		return nil, apperrors.NewValidationError("Please wait before requesting a new code", map[string]interface{}{
			"retry_after_seconds": int(s.Remaining(current).Round(time.Second).Seconds()),
		})
	}
	return s.issue(ctx, sessionID, current.Contact, current.Channel)
}

// Verify checks the six entered digits against the pending code. A match
// consumes the code and returns the voter identity.
func (s *Service) Verify(ctx context.Context, sessionID string, digits []string) (*domain.Identity, error) {
	code, ok := joinDigits(digits)
	if !ok {
		return nil, apperrors.NewValidationError("Please enter a complete 6-digit OTP", nil)
	}
	if err := s.delay.Wait(ctx, latency.OTPVerify); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.pending(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if ch.Code != code {
		s.logger.Info("OTP mismatch", zap.String("channel", string(ch.Channel)))
		return nil, apperrors.NewAuthenticationError("Invalid OTP. Please try again.").WithTitle("Verification failed")
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return nil, apperrors.NewInternalError("An error occurred during verification", err)
	}

	s.logger.Info("OTP verified", zap.String("channel", string(ch.Channel)))
	identity := &domain.Identity{ID: VoterID, Name: VoterName, Role: domain.RoleVoter}
	if ch.Channel == domain.ChannelEmail {
		identity.Email = ch.Contact
	} else {
		identity.Mobile = ch.Contact
	}
	return identity, nil
}

// Pending returns the session's unexpired challenge
func (s *Service) Pending(ctx context.Context, sessionID string) (*domain.Challenge, error) {
	return s.pending(ctx, sessionID)
}

// Remaining is zero once the countdown has elapsed. The code itself stays valid.
func (s *Service) Remaining(ch *domain.Challenge) time.Duration {
	if ch == nil {
		return 0
	}
	left := ch.IssuedAt.Add(s.countdown).Sub(s.now())
	if left < 0 {
		return 0
	}
	return left
}

func (s *Service) pending(ctx context.Context, sessionID string) (*domain.Challenge, error) {
	ch, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNoChallenge) {
			return nil, apperrors.NewNotFoundError("No verification code has been requested")
		}
		return nil, apperrors.NewInternalError("Failed to load verification code", err)
	}
	if !s.now().Before(ch.IssuedAt.Add(ChallengeTTL)) {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("Failed to drop expired challenge", zap.Error(err))
		}
		return nil, apperrors.NewNotFoundError("No verification code has been requested")
	}
	return ch, nil
}

func (s *Service) issue(ctx context.Context, sessionID, contact string, channel domain.Channel) (*domain.Challenge, error) {
	code, err := s.generate()
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to send OTP. Please try again later.", err)
	}

	ch := &domain.Challenge{
		Code:     code,
		Contact:  contact,
		Channel:  channel,
		IssuedAt: s.now(),
	}
	if err := s.store.Put(ctx, sessionID, ch); err != nil {
		return nil, apperrors.NewInternalError("Failed to send OTP. Please try again later.", err)
	}

	// There is no delivery channel; the log is where the code can be read.
	s.logger.Debug("OTP issued",
		zap.String("channel", string(channel)),
		zap.String("contact", utils.MaskContact(contact)),
		zap.String("code", code))
	return ch, nil
}

// joinDigits accepts exactly six single-character 0-9 entries
func joinDigits(digits []string) (string, bool) {
	if len(digits) != domain.OTPLength {
		return "", false
	}
	var b strings.Builder
	for _, d := range digits {
		if len(d) != 1 || d[0] < '0' || d[0] > '9' {
			return "", false
		}
		b.WriteString(d)
	}
	return b.String(), true
}
