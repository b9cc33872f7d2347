package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/otp-verify-api/internal/config"
)

// Token type claim values.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims holds the JWT payload fields. Subject carries the user id.
type Claims struct {
	PhoneNumber string `json:"phone_number"`
	TokenType   string `json:"type"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a shared server-held secret.
type Provider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &Provider{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

// AccessTTL is the access-token lifetime, exposed for expires_in responses.
func (p *Provider) AccessTTL() time.Duration { return p.accessTTL }

// SignAccess mints a short-lived access token bound to the user and phone.
func (p *Provider) SignAccess(userID, phone string) (string, error) {
	return p.sign(userID, phone, TypeAccess, p.accessTTL)
}

// SignRefresh mints the long-lived refresh token.
func (p *Provider) SignRefresh(userID, phone string) (string, error) {
	return p.sign(userID, phone, TypeRefresh, p.refreshTTL)
}

func (p *Provider) sign(userID, phone, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		PhoneNumber: phone,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify parses and validates a token of the expected type.
func (p *Provider) Verify(tokenStr, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("expected %s token, got %s", expectedType, claims.TokenType)
	}
	return claims, nil
}
