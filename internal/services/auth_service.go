package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	pkgjwt "github.com/ArowuTest/bridgetunes-raffle/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// ErrInvalidAccessCode is returned when the entered access code does not match
var ErrInvalidAccessCode = errors.New("invalid access code")

const operatorSubject = "operator"

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl gates the operator pages behind a shared event access code
type AuthServiceImpl struct {
	accessHash []byte
	tokens     *pkgjwt.SessionTokenService
}

// NewAuthService hashes the configured access code. An empty code disables the gate.
func NewAuthService(accessCode string, tokens *pkgjwt.SessionTokenService) (*AuthServiceImpl, error) {
	s := &AuthServiceImpl{tokens: tokens}
	if accessCode == "" {
		slog.Warn("No access code configured, draw operations are not protected")
		return s, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(accessCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash access code: %w", err)
	}
	s.accessHash = hash
	return s, nil
}

// Enabled reports whether an access code is required
func (s *AuthServiceImpl) Enabled() bool {
	return len(s.accessHash) > 0
}

// Login checks the access code and issues a session token
func (s *AuthServiceImpl) Login(_ context.Context, accessCode string) (*models.LoginResponse, error) {
	if s.Enabled() {
		if err := bcrypt.CompareHashAndPassword(s.accessHash, []byte(accessCode)); err != nil {
			slog.Warn("Rejected login with wrong access code")
			return nil, ErrInvalidAccessCode
		}
	}
	token, expiresAt, err := s.tokens.Issue(operatorSubject, operatorSubject)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}

// ValidateToken verifies a session token issued by Login
func (s *AuthServiceImpl) ValidateToken(token string) error {
	if !s.Enabled() {
		return nil
	}
	_, err := s.tokens.Verify(token)
	return err
}
