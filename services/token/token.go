package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"event-guard/config"
	userModel "event-guard/models/user"
)

// Claims is the recognized session token payload. Subject carries the user
// id as a decimal string.
type Claims struct {
	Name      string         `json:"name"`
	Role      userModel.Role `json:"role"`
	AvatarURL string         `json:"avatar_url"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens with a process-wide HS256 secret.
type Service struct {
	secret   []byte
	ttl      time.Duration
	shortTTL time.Duration
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.TokenTTL,
		shortTTL: cfg.ShortTokenTTL,
	}
}

// Sign issues a session token for the user with the default lifetime.
func (s *Service) Sign(u *userModel.User) (string, error) {
	return s.signWithTTL(u, s.ttl)
}

// SignShort issues a session token with the reduced lifetime used by
// OTP-only flows.
func (s *Service) SignShort(u *userModel.User) (string, error) {
	return s.signWithTTL(u, s.shortTTL)
}

func (s *Service) signWithTTL(u *userModel.User, ttl time.Duration) (string, error) {
	expTime := time.Now().Add(ttl)

	claims := &Claims{
		Name:      u.Name,
		Role:      u.Role,
		AvatarURL: u.Avatar(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return t, nil
}

// Verify checks the signature and expiry of a session token and returns its
// claims. Any mismatch, malformed structure or expiry is an error.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// UserID extracts the numeric user id from the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}
	return uint(id), nil
}
