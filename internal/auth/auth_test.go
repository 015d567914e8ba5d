package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uskudu/books-cont/internal/config"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("test_password")
	require.NoError(t, err)
	assert.NotEqual(t, "test_password", hash)

	assert.True(t, CheckPassword("test_password", hash))
	assert.False(t, CheckPassword("wrong_password", hash))
	assert.False(t, CheckPassword("test_password", "not-a-bcrypt-hash"))
}

func TestNewAccountID(t *testing.T) {
	a, b := NewAccountID(), NewAccountID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", TTL: time.Hour}

	token, err := GenerateToken(cfg, "uid-1", "test_user1", RoleUser)
	require.NoError(t, err)

	claims, err := VerifyCredential(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.ID)
	assert.Equal(t, "test_user1", claims.Username)
	assert.Equal(t, RoleUser, claims.Role)
}

func TestVerifyCredentialRejects(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", TTL: time.Hour}

	_, err := VerifyCredential(cfg, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// 换密钥签发的令牌不可信
	other := &config.JWTConfig{Secret: "other-secret", TTL: time.Hour}
	token, err := GenerateToken(other, "uid-1", "test_user1", RoleUser)
	require.NoError(t, err)
	_, err = VerifyCredential(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// 已过期的令牌
	expired := &config.JWTConfig{Secret: "test-secret", TTL: time.Nanosecond}
	token, err = GenerateToken(expired, "uid-1", "test_user1", RoleUser)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = VerifyCredential(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
