// Package session resolves user accounts by verified phone number and mints
// access/refresh token pairs.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/otp-verify-api/internal/domain"
	jwtinfra "github.com/otp-verify-api/internal/infrastructure/jwt"
	"github.com/otp-verify-api/internal/pkg/id"
)

// UserStore is the minimal user persistence the issuer needs.
type UserStore interface {
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	CreateIfAbsent(ctx context.Context, u *domain.User) (*domain.User, error)
}

// TokenSigner mints and validates the JWT pair.
type TokenSigner interface {
	SignAccess(userID, phone string) (string, error)
	SignRefresh(userID, phone string) (string, error)
	Verify(token, expectedType string) (*jwtinfra.Claims, error)
	AccessTTL() time.Duration
}

type Service interface {
	// Issue resolves (or creates) the user for a verified phone number and
	// mints a fresh token pair.
	Issue(ctx context.Context, phone string) (*domain.Session, *domain.User, error)
	// Refresh validates a refresh token and mints a fresh pair for the same
	// user. The old refresh token is not revoked; there is no server-side
	// token state.
	Refresh(ctx context.Context, refreshToken string) (*domain.Session, error)
}

type ServiceDeps struct {
	UserRepo UserStore
	Signer   TokenSigner
	Now      func() time.Time
}

type service struct {
	users  UserStore
	signer TokenSigner
	now    func() time.Time
}

func NewService(d ServiceDeps) Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &service{users: d.UserRepo, signer: d.Signer, now: d.Now}
}

func (s *service) Issue(ctx context.Context, phone string) (*domain.Session, *domain.User, error) {
	u, err := s.users.GetByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		now := s.now().UTC()
		u, err = s.users.CreateIfAbsent(ctx, &domain.User{
			PhoneNumber: phone,
			UserID:      id.New(),
			Role:        domain.RolePatient,
			Status:      domain.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("resolve user: %w", err)
	}

	sess, err := s.mint(u.UserID, u.PhoneNumber)
	if err != nil {
		return nil, nil, err
	}
	return sess, u, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	claims, err := s.signer.Verify(refreshToken, jwtinfra.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", domain.ErrUnauthorized)
	}
	// Re-resolve the user so a deleted account cannot keep refreshing.
	u, err := s.users.GetByPhone(ctx, claims.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrUnauthorized)
	}
	return s.mint(u.UserID, u.PhoneNumber)
}

func (s *service) mint(userID, phone string) (*domain.Session, error) {
	access, err := s.signer.SignAccess(userID, phone)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.signer.SignRefresh(userID, phone)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &domain.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.signer.AccessTTL().Seconds()),
	}, nil
}
