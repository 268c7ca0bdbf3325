package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evote/internal/domain"
	"evote/internal/service"
	"evote/pkg/errors"
	"evote/pkg/latency"
	"evote/pkg/logger"
	"evote/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "evote"

// Fixed identity handed to every admin who signs in
const (
	AdminID   = "admin1"
	AdminName = "Admin User"
)

// IdentityClaims carries a session identity inside a signed token
type IdentityClaims struct {
	Name   string      `json:"name"`
	Email  string      `json:"email,omitempty"`
	Mobile string      `json:"mobile,omitempty"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service implements the AuthService interface
type Service struct {
	secret []byte
	delay  latency.Simulator
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new auth service
func NewService(secret string, delay latency.Simulator, logger *logger.Logger) service.AuthService {
	return &Service{
		secret: []byte(secret),
		delay:  delay,
		logger: logger,
		now:    time.Now,
	}
}

// ValidateRegistration checks every field and reports all problems at once
func (s *Service) ValidateRegistration(reg domain.AdminRegistration) error {
	details := map[string]interface{}{}

	if strings.TrimSpace(reg.Name) == "" {
		details["name"] = "Name is required"
	}

	if strings.TrimSpace(reg.Email) == "" {
		details["email"] = "Email is required"
	} else if !utils.ValidateEmail(reg.Email) {
		details["email"] = "Email is invalid"
	}

	if reg.Password == "" {
		details["password"] = "Password is required"
	} else if len(reg.Password) < 6 {
		details["password"] = "Password must be at least 6 characters"
	}

	if reg.Password != reg.ConfirmPassword {
		details["confirm_password"] = "Passwords do not match"
	}

	if len(details) > 0 {
		return errors.NewValidationError("Please correct the highlighted fields", details)
	}
	return nil
}

// Register validates the form and waits out the simulated sign-up call
func (s *Service) Register(ctx context.Context, reg domain.AdminRegistration) error {
	if err := s.ValidateRegistration(reg); err != nil {
		return err
	}
	if err := s.delay.Wait(ctx, latency.AdminRegister); err != nil {
		return err
	}

	s.logger.WithField("email", reg.Email).Info("Admin registered")
	return nil
}

// Login accepts any non-empty email and password
func (s *Service) Login(ctx context.Context, creds domain.AdminCredentials) (*domain.Identity, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return nil, errors.NewValidationError("Please enter both email and password", nil)
	}
	if err := s.delay.Wait(ctx, latency.AdminLogin); err != nil {
		return nil, err
	}

	s.logger.WithField("email", creds.Email).Info("Admin signed in")
	return &domain.Identity{
		ID:    AdminID,
		Name:  AdminName,
		Email: creds.Email,
		Role:  domain.RoleAdmin,
	}, nil
}

// IssueToken signs the identity with HS256
func (s *Service) IssueToken(identity *domain.Identity) (string, error) {
	if identity == nil || !identity.Role.Valid() {
		return "", errors.NewValidationError("Invalid identity", nil)
	}

	claims := IdentityClaims{
		Name:   identity.Name,
		Email:  identity.Email,
		Mobile: identity.Mobile,
		Role:   identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			Subject:  identity.ID,
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.NewInternalError("Failed to sign identity", err)
	}
	return signed, nil
}

// ParseToken verifies the signature and returns the identity it carries
func (s *Service) ParseToken(tokenString string) (*domain.Identity, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		s.logger.WithError(err).Debug("Rejected identity token")
		return nil, errors.NewAuthenticationError("Invalid identity token")
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, errors.NewAuthenticationError("Invalid identity token")
	}

	return &domain.Identity{
		ID:     claims.Subject,
		Name:   claims.Name,
		Email:  claims.Email,
		Mobile: claims.Mobile,
		Role:   claims.Role,
	}, nil
}
