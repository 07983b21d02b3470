package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long a session token stays valid.
const TokenTTL = 24 * time.Hour

type service struct {
	secret       []byte
	operator     string
	passwordHash []byte
	now          func() time.Time
}

// NewService creates a new auth service. An empty secret disables auth.
func NewService(cfg Config) Service {
	return &service{
		secret:       []byte(cfg.Secret),
		operator:     cfg.Operator,
		passwordHash: []byte(cfg.PasswordHash),
		now:          time.Now,
	}
}

func (s *service) Enabled() bool { return len(s.secret) > 0 }

func (s *service) Login(ctx context.Context, name, password string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}
	if name != s.operator || len(s.passwordHash) == 0 {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	issued := s.now()
	claims := &jwt.StandardClaims{
		Subject:   name,
		IssuedAt:  issued.Unix(),
		ExpiresAt: issued.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

func (s *service) Verify(tokenString string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject != s.operator {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
