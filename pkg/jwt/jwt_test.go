package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func newTestManager(t *testing.T) (*Manager, *clock) {
	t.Helper()

	m, err := NewManager("secret", time.Hour, 24*time.Hour, "foodgram")
	require.NoError(t, err)

	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m.now = c.now
	return m, c
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour, time.Hour, "foodgram")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestTokenTypes(t *testing.T) {
	m, _ := newTestManager(t)

	pair, err := m.GenerateTokenPair("u1", "a@example.com", "alice", []string{"user"})
	require.NoError(t, err)

	claims, err := m.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{"user"}, claims.Roles)

	_, err = m.ValidateToken(pair.AccessToken, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = m.RefreshTokens(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	refreshed, claims, err := m.RefreshTokens(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestForeignTokensRejected(t *testing.T) {
	m, _ := newTestManager(t)

	other, err := NewManager("other-secret", time.Hour, time.Hour, "foodgram")
	require.NoError(t, err)
	pair, err := other.GenerateTokenPair("u1", "", "", nil)
	require.NoError(t, err)
	_, err = m.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer, err := NewManager("secret", time.Hour, time.Hour, "elsewhere")
	require.NoError(t, err)
	pair, err = issuer.GenerateTokenPair("u1", "", "", nil)
	require.NoError(t, err)
	_, err = m.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("not-a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiry(t *testing.T) {
	m, c := newTestManager(t)

	pair, err := m.GenerateTokenPair("u1", "", "", nil)
	require.NoError(t, err)

	c.t = c.t.Add(2 * time.Hour)
	_, err = m.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = m.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestRevocation(t *testing.T) {
	m, c := newTestManager(t)

	before, err := m.GenerateTokenPair("u1", "", "", nil)
	require.NoError(t, err)
	other, err := m.GenerateTokenPair("u2", "", "", nil)
	require.NoError(t, err)

	c.t = c.t.Add(time.Minute)
	m.RevokeUserTokens("u1")

	_, err = m.ValidateToken(before.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrRevokedToken)
	_, _, err = m.RefreshTokens(before.RefreshToken)
	assert.ErrorIs(t, err, ErrRevokedToken)

	_, err = m.ValidateToken(other.AccessToken, TokenTypeAccess)
	assert.NoError(t, err)

	// Same second as the revocation: still rejected.
	sameSecond, err := m.GenerateTokenPair("u1", "", "", nil)
	require.NoError(t, err)
	_, err = m.ValidateToken(sameSecond.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrRevokedToken)

	c.t = c.t.Add(time.Second)
	after, err := m.GenerateTokenPair("u1", "", "", nil)
	require.NoError(t, err)
	_, err = m.ValidateToken(after.AccessToken, TokenTypeAccess)
	assert.NoError(t, err)
}

func TestCleanupExpiredRevocations(t *testing.T) {
	m, c := newTestManager(t)

	m.RevokeUserTokens("u1")
	c.t = c.t.Add(time.Hour)
	m.RevokeUserTokens("u2")

	c.t = c.t.Add(24*time.Hour - 30*time.Minute)
	m.CleanupExpiredRevocations()

	m.mu.RLock()
	defer m.mu.RUnlock()
	assert.NotContains(t, m.revokedBefore, "u1")
	assert.Contains(t, m.revokedBefore, "u2")
}
