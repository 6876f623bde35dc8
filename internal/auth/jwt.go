// internal/auth/jwt.go
package auth

import (
	"errors"
	"log/slog"
	"time"

	"planora/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

// TokenService issues and checks anonymous session tokens. A session id keys
// a visitor's drafts and results; it carries no identity.
type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		expiresIn: cfg.JWTExpiresIn,
		now:       time.Now,
	}
}

// NewSession starts a session and returns its id, token and expiry.
func (s *TokenService) NewSession() (string, string, time.Time, error) {
	id := uuid.NewString()
	token, exp, err := s.GenerateToken(id)
	return id, token, exp, err
}

func (s *TokenService) GenerateToken(sessionID string) (string, time.Time, error) {
	now := s.now()
	expTime := now.Add(s.expiresIn)
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expTime),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	slog.Debug("session token generated", "session_id", sessionID, "expires_at", expTime.Format(time.RFC3339))
	return tokenStr, expTime, nil
}

// ParseToken returns the session id carried by a valid token.
func (s *TokenService) ParseToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.Join(ErrInvalidToken, errors.New("malformed session id"))
	}
	return claims.Subject, nil
}
