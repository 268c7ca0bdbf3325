package service

import (
	"context"
	"time"

	"evote/internal/domain"
)

// AuthService covers admin sign-up/sign-in and the signed session identity
type AuthService interface {
	// ValidateRegistration checks the admin sign-up form field by field
	ValidateRegistration(reg domain.AdminRegistration) error

	// Register accepts a valid sign-up form. Nothing is stored.
	Register(ctx context.Context, reg domain.AdminRegistration) error

	// Login accepts any non-empty credentials and returns the admin identity
	Login(ctx context.Context, creds domain.AdminCredentials) (*domain.Identity, error)

	// IssueToken signs an identity for storage in the session cookie
	IssueToken(identity *domain.Identity) (string, error)

	// ParseToken verifies a token produced by IssueToken
	ParseToken(token string) (*domain.Identity, error)
}

// OTPService drives the voter one-time code flow for a browser session
type OTPService interface {
	// Request validates the contact and issues a fresh challenge
	Request(ctx context.Context, sessionID, contact string, channel domain.Channel) (*domain.Challenge, error)

	// Resend replaces the pending code once the countdown has run out
	Resend(ctx context.Context, sessionID string) (*domain.Challenge, error)

	// Verify compares six entered digits with the pending code
	Verify(ctx context.Context, sessionID string, digits []string) (*domain.Identity, error)

	// Pending returns the current challenge, if any
	Pending(ctx context.Context, sessionID string) (*domain.Challenge, error)

	// Remaining is the countdown left before a resend is allowed
	Remaining(ch *domain.Challenge) time.Duration
}

// FaceService runs the simulated face scan
type FaceService interface {
	// Scan counts down and then decides the outcome
	Scan(ctx context.Context) (domain.FaceState, error)
}

// Services aggregates all services
type Services struct {
	Auth      AuthService
	OTP       OTPService
	Face      FaceService
	Elections *ElectionService
}
