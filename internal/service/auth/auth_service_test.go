package auth

import (
	"context"
	"testing"

	"evote/internal/domain"
	"evote/pkg/errors"
	"evote/pkg/latency"
	"evote/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("test-secret", latency.New(false), logger.NewNop()).(*Service)
}

func TestValidateRegistration(t *testing.T) {
	s := newTestService()

	valid := domain.AdminRegistration{
		Name:            "Jane Admin",
		Email:           "jane@example.edu",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}

	tests := []struct {
		name       string
		mutate     func(r *domain.AdminRegistration)
		wantFields map[string]string
	}{
		{
			name:   "valid",
			mutate: func(r *domain.AdminRegistration) {},
		},
		{
			name:       "blank name",
			mutate:     func(r *domain.AdminRegistration) { r.Name = "   " },
			wantFields: map[string]string{"name": "Name is required"},
		},
		{
			name:       "missing email",
			mutate:     func(r *domain.AdminRegistration) { r.Email = "" },
			wantFields: map[string]string{"email": "Email is required"},
		},
		{
			name:       "invalid email",
			mutate:     func(r *domain.AdminRegistration) { r.Email = "jane@example" },
			wantFields: map[string]string{"email": "Email is invalid"},
		},
		{
			name: "short password",
			mutate: func(r *domain.AdminRegistration) {
				r.Password = "abc"
				r.ConfirmPassword = "abc"
			},
			wantFields: map[string]string{"password": "Password must be at least 6 characters"},
		},
		{
			name:       "mismatched confirmation",
			mutate:     func(r *domain.AdminRegistration) { r.ConfirmPassword = "secret2" },
			wantFields: map[string]string{"confirm_password": "Passwords do not match"},
		},
		{
			name: "everything wrong",
			mutate: func(r *domain.AdminRegistration) {
				*r = domain.AdminRegistration{ConfirmPassword: "x"}
			},
			wantFields: map[string]string{
				"name":             "Name is required",
				"email":            "Email is required",
				"password":         "Password is required",
				"confirm_password": "Passwords do not match",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := valid
			tt.mutate(&reg)

			err := s.ValidateRegistration(reg)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			appErr := errors.AsAppError(err)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
			assert.Len(t, appErr.Details, len(tt.wantFields))
			for field, msg := range tt.wantFields {
				assert.Equal(t, msg, appErr.Details[field])
			}
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	id, err := s.Login(ctx, domain.AdminCredentials{Email: "who@ever.org", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, &domain.Identity{ID: AdminID, Name: AdminName, Email: "who@ever.org", Role: domain.RoleAdmin}, id)

	_, err = s.Login(ctx, domain.AdminCredentials{Email: "who@ever.org"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = s.Login(ctx, domain.AdminCredentials{Password: "x"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestLogin_ContextCancelled(t *testing.T) {
	s := NewService("k", latency.New(true), logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Login(ctx, domain.AdminCredentials{Email: "a@b.co", Password: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestService()

	voter := &domain.Identity{ID: "voter1", Name: "Voter User", Mobile: "5551234567", Role: domain.RoleVoter}
	token, err := s.IssueToken(voter)
	require.NoError(t, err)

	got, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, voter, got)
}

func TestParseToken_Rejects(t *testing.T) {
	s := newTestService()
	token, err := s.IssueToken(&domain.Identity{ID: AdminID, Name: AdminName, Role: domain.RoleAdmin})
	require.NoError(t, err)

	other := NewService("another-secret", latency.New(false), logger.NewNop())
	_, err = other.ParseToken(token)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication), "wrong secret")

	_, err = s.ParseToken(token + "x")
	assert.Error(t, err, "tampered signature")

	_, err = s.ParseToken("")
	assert.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, IdentityClaims{
		Role:             domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer, Subject: AdminID},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.ParseToken(none)
	assert.Error(t, err, "unsigned token")

	_, err = s.IssueToken(&domain.Identity{ID: "x", Role: "root"})
	assert.Error(t, err)
}
