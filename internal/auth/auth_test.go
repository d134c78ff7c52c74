package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", "ponto", 24*time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "maria@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, "ponto", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", "ponto", -time.Minute)

	token, err := svc.GenerateToken(uuid.New(), "maria@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", "ponto", 24*time.Hour)
	other := NewJWTService("other-secret", "ponto", 24*time.Hour)

	token, err := svc.GenerateToken(uuid.New(), "maria@example.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", "ponto", 24*time.Hour)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestHashToken(t *testing.T) {
	first := HashToken("token-a")
	second := HashToken("token-a")
	other := HashToken("token-b")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestDefaultPassword(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"maria@example.com", "maria123"},
		{"joao.souza@corp.example.com", "joao.souza123"},
		{"no-at-sign", "no-at-sign123"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultPassword(tt.email))
		})
	}
}
