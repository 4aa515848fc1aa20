package auth

import (
	"testing"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-at-least-32-characters!!",
		Expiration: expiration,
		Issuer:     "sodpa-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	service := newTestService(time.Hour)
	actorID := uuid.New()

	token, expiresAt, err := service.GenerateToken(actorID, "Maria Silva", "FINANCE_OFFICE")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actorID.String(), claims.ActorID)
	assert.Equal(t, "Maria Silva", claims.Name)
	assert.Equal(t, "FINANCE_OFFICE", claims.Role)

	parsed, err := claims.GetActorUUID()
	require.NoError(t, err)
	assert.Equal(t, actorID, parsed)
}

func TestValidateToken_Expired(t *testing.T) {
	service := newTestService(-time.Minute)

	token, _, err := service.GenerateToken(uuid.New(), "", "")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service := newTestService(time.Hour)
	other := NewJWTService(config.JWTConfig{
		Secret:     "another-secret-with-32-characters!!!",
		Expiration: time.Hour,
		Issuer:     "sodpa-test",
	})

	token, _, err := service.GenerateToken(uuid.New(), "", "")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	service := newTestService(time.Hour)

	_, err := service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
