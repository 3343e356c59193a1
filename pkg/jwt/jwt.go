package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrRevokedToken = errors.New("token has been revoked")
	ErrEmptySecret  = errors.New("jwt secret must not be empty")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"user_id"`
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Type     string   `json:"type"` // "access" or "refresh"
}

// TokenPair is the result of issuing tokens for a user.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  int64
	RefreshExpiresAt int64
}

// Manager signs and validates HS256 tokens with a shared secret.
type Manager struct {
	secret          []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	issuer          string
	now             func() time.Time

	// userID -> instant of the last logout; tokens issued before it are rejected.
	revokedBefore map[string]time.Time
	mu            sync.RWMutex
}

// NewManager creates a new JWT manager.
func NewManager(secret string, accessDuration, refreshDuration time.Duration, issuer string) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &Manager{
		secret:          []byte(secret),
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		issuer:          issuer,
		now:             time.Now,
		revokedBefore:   make(map[string]time.Time),
	}, nil
}

// GenerateTokenPair creates access and refresh tokens.
func (m *Manager) GenerateTokenPair(userID, email, username string, roles []string) (*TokenPair, error) {
	now := m.now()

	access := &Claims{
		RegisteredClaims: m.registered(userID, now, m.accessDuration),
		UserID:           userID,
		Email:            email,
		Username:         username,
		Roles:            roles,
		Type:             TokenTypeAccess,
	}
	accessToken, err := m.sign(access)
	if err != nil {
		return nil, err
	}

	refresh := &Claims{
		RegisteredClaims: m.registered(userID, now, m.refreshDuration),
		UserID:           userID,
		Email:            email,
		Username:         username,
		Roles:            roles,
		Type:             TokenTypeRefresh,
	}
	refreshToken, err := m.sign(refresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  access.ExpiresAt.Unix(),
		RefreshExpiresAt: refresh.ExpiresAt.Unix(),
	}, nil
}

// ValidateToken validates a token of the expected type and returns its claims.
func (m *Manager) ValidateToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != tokenType {
		return nil, ErrInvalidToken
	}

	if m.isRevoked(claims) {
		return nil, ErrRevokedToken
	}

	return claims, nil
}

// RefreshTokens creates a new token pair from a valid refresh token.
func (m *Manager) RefreshTokens(refreshToken string) (*TokenPair, *Claims, error) {
	claims, err := m.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, nil, err
	}

	pair, err := m.GenerateTokenPair(claims.UserID, claims.Email, claims.Username, claims.Roles)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

// RevokeUserTokens rejects every token issued to userID up to now.
func (m *Manager) RevokeUserTokens(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revokedBefore[userID] = m.now()
}

// CleanupExpiredRevocations drops revocation marks older than the refresh
// lifetime: every token they could reject has expired anyway.
func (m *Manager) CleanupExpiredRevocations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.refreshDuration)
	for userID, at := range m.revokedBefore {
		if at.Before(cutoff) {
			delete(m.revokedBefore, userID)
		}
	}
}

func (m *Manager) isRevoked(claims *Claims) bool {
	m.mu.RLock()
	at, ok := m.revokedBefore[claims.UserID]
	m.mu.RUnlock()
	if !ok || claims.IssuedAt == nil {
		return ok
	}
	// IssuedAt has second precision; a token minted in the logout second is
	// treated as revoked.
	return !claims.IssuedAt.Time.After(at.Truncate(time.Second))
}

func (m *Manager) registered(userID string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (m *Manager) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}
