package services

import (
	"context"
	"testing"
	"time"

	pkgjwt "github.com/ArowuTest/bridgetunes-raffle/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginAndValidate(t *testing.T) {
	svc, err := NewAuthService("letmein", pkgjwt.NewSessionTokenService("secret", time.Hour))
	require.NoError(t, err)
	require.True(t, svc.Enabled())

	_, err = svc.Login(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrInvalidAccessCode)

	resp, err := svc.Login(context.Background(), "letmein")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())

	assert.NoError(t, svc.ValidateToken(resp.Token))
	assert.ErrorIs(t, svc.ValidateToken("garbage"), pkgjwt.ErrInvalidToken)
}

func TestAuthService_DisabledGate(t *testing.T) {
	svc, err := NewAuthService("", pkgjwt.NewSessionTokenService("secret", time.Hour))
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	assert.NoError(t, svc.ValidateToken(""))
	resp, err := svc.Login(context.Background(), "anything")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}
