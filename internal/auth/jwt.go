package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"CampusHire-backend/internal/config"
)

var (
	// ErrInvalidIssuer is returned for tokens signed by another issuer
	ErrInvalidIssuer = errors.New("invalid token issuer")
	// ErrEmptySecret is returned when no signing key is configured
	ErrEmptySecret = errors.New("token signing key is not configured")
)

// TokenManager signs and validates HS256 access tokens
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager from the auth config
func NewTokenManager(cfg config.Auth) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTTL,
	}
}

// GenerateToken issues an access token for the user with the configured lifetime
func (m *TokenManager) GenerateToken(userID uuid.UUID) (string, error) {
	return m.GenerateTokenWithDuration(userID, m.ttl)
}

// GenerateTokenWithDuration issues an access token valid for d.
// Every token carries a unique ID so it can be revoked on logout.
func (m *TokenManager) GenerateTokenWithDuration(userID uuid.UUID, d time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrEmptySecret
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    m.issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("Failed to sign token: %s", err)
	}
	return signedToken, nil
}

// ValidatedToken parses the token, checks its signature, expiry and issuer
func (m *TokenManager) ValidatedToken(encodedToken string) (*jwt.Token, *jwt.RegisteredClaims, error) {
	if len(m.secret) == 0 {
		return nil, nil, ErrEmptySecret
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(encodedToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !claims.VerifyIssuer(m.issuer, true) {
		return nil, nil, ErrInvalidIssuer
	}
	return token, claims, nil
}
