// Package otp implements the phone verification state machine: send a
// challenge through a delivery provider, track the pending record, gate on
// rate limits and attempt ceilings, and hand successful verifications to the
// session issuer. Every send and verify call leaves exactly one row in the
// attempt ledger.
package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/otp-verify-api/internal/domain"
	"github.com/otp-verify-api/internal/pkg/id"
)

// VerificationStore persists the per-phone challenge records.
type VerificationStore interface {
	CreatePending(ctx context.Context, v *domain.OTPVerification) error
	GetPending(ctx context.Context, phone string) (*domain.OTPVerification, error)
	UpdateStatus(ctx context.Context, phone string, status domain.VerificationStatus, verifiedAt *time.Time) error
	IncrementAttempts(ctx context.Context, phone string) error
}

// AttemptStore is the append-only ledger plus the windowed count the rate
// limiter needs.
type AttemptStore interface {
	Put(ctx context.Context, a *domain.OTPAttempt) error
	CountSendsSince(ctx context.Context, phone string, since time.Time) (int, error)
}

// ChallengeProvider is the delivery backend: originate a challenge, check a
// submitted code. Check reports a wrong/stale code as (false, nil); an error
// carries the provider's own message for ledgering and pass-through.
type ChallengeProvider interface {
	Start(ctx context.Context, phone string) (*domain.Challenge, error)
	Check(ctx context.Context, phone, code, codeSecret string) (bool, error)
}

// SessionIssuer turns a verified phone number into an account and token pair.
type SessionIssuer interface {
	Issue(ctx context.Context, phone string) (*domain.Session, *domain.User, error)
}

type SendResult struct {
	ProviderRef string
	ExpiresAt   time.Time
}

type VerifyResult struct {
	UserID  string
	Session *domain.Session
	User    *domain.User
}

type Service interface {
	Send(ctx context.Context, phone, ip string) (*SendResult, error)
	Verify(ctx context.Context, phone, code, ip string) (*VerifyResult, error)
}

type ServiceDeps struct {
	VerificationRepo VerificationStore
	AttemptRepo      AttemptStore
	Provider         ChallengeProvider
	Sessions         SessionIssuer

	OTPTTL         time.Duration
	MaxAttempts    int
	SendRateWindow time.Duration
	SendRateMax    int

	// Now is injected so expiry decisions are testable against a fixed clock.
	Now func() time.Time
}

type service struct {
	verifications VerificationStore
	attempts      AttemptStore
	provider      ChallengeProvider
	sessions      SessionIssuer

	otpTTL      time.Duration
	maxAttempts int
	rateWindow  time.Duration
	rateMax     int

	now func() time.Time
}

func NewService(d ServiceDeps) Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.OTPTTL == 0 {
		d.OTPTTL = 10 * time.Minute
	}
	if d.MaxAttempts == 0 {
		d.MaxAttempts = 3
	}
	if d.SendRateWindow == 0 {
		d.SendRateWindow = time.Hour
	}
	if d.SendRateMax == 0 {
		d.SendRateMax = 5
	}
	return &service{
		verifications: d.VerificationRepo,
		attempts:      d.AttemptRepo,
		provider:      d.Provider,
		sessions:      d.Sessions,
		otpTTL:        d.OTPTTL,
		maxAttempts:   d.MaxAttempts,
		rateWindow:    d.SendRateWindow,
		rateMax:       d.SendRateMax,
		now:           d.Now,
	}
}

// Send originates a new challenge for the phone. The caller must pass an
// already-normalized E.164 number.
func (s *service) Send(ctx context.Context, phone, ip string) (*SendResult, error) {
	blocked, err := s.sendRateExceeded(ctx, phone)
	if err != nil {
		return nil, err
	}
	if blocked {
		s.recordAttempt(ctx, phone, ip, domain.AttemptSend, domain.AttemptBlocked, "rate limit exceeded")
		return nil, fmt.Errorf("Too many OTP requests. Please try again later: %w", domain.ErrRateLimited)
	}

	challenge, err := s.provider.Start(ctx, phone)
	if err != nil {
		s.recordAttempt(ctx, phone, ip, domain.AttemptSend, domain.AttemptFailed, err.Error())
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrProvider)
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.otpTTL)
	rec := &domain.OTPVerification{
		PhoneNumber: phone,
		Status:      domain.StatusPending,
		ProviderRef: challenge.ProviderRef,
		CodeSecret:  challenge.CodeSecret,
		MaxAttempts: s.maxAttempts,
		ExpiresAt:   expiresAt.Unix(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.verifications.CreatePending(ctx, rec); err != nil {
		s.recordAttempt(ctx, phone, ip, domain.AttemptSend, domain.AttemptFailed, err.Error())
		return nil, fmt.Errorf("store pending verification: %w", err)
	}

	s.recordAttempt(ctx, phone, ip, domain.AttemptSend, domain.AttemptSuccess, "")
	return &SendResult{ProviderRef: challenge.ProviderRef, ExpiresAt: expiresAt}, nil
}

// Verify checks a submitted code against the phone's pending challenge.
func (s *service) Verify(ctx context.Context, phone, code, ip string) (*VerifyResult, error) {
	rec, err := s.verifications.GetPending(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordAttempt(ctx, phone, ip, domain.AttemptVerify, domain.AttemptFailed, "No pending OTP verification found")
			return nil, fmt.Errorf("No pending OTP verification. Please request a new one: %w", domain.ErrBadRequest)
		}
		return nil, err
	}

	if rec.ExpiredAt(s.now()) {
		s.updateStatus(ctx, phone, domain.StatusExpired, nil)
		s.recordAttempt(ctx, phone, ip, domain.AttemptVerify, domain.AttemptFailed, "OTP code expired")
		return nil, fmt.Errorf("OTP code has expired. Please request a new one: %w", domain.ErrBadRequest)
	}

	// The ceiling is checked before the provider so an exhausted caller
	// cannot burn further provider calls.
	if rec.AttemptsCount >= rec.MaxAttempts {
		s.updateStatus(ctx, phone, domain.StatusFailed, nil)
		s.recordAttempt(ctx, phone, ip, domain.AttemptVerify, domain.AttemptBlocked, "Max verification attempts exceeded")
		return nil, fmt.Errorf("Too many failed attempts. Please request a new OTP: %w", domain.ErrRateLimited)
	}

	approved, err := s.provider.Check(ctx, phone, code, rec.CodeSecret)
	if err != nil || !approved {
		// The record stays PENDING even when this increment reaches the
		// ceiling; the next call's pre-check flips it.
		if incErr := s.verifications.IncrementAttempts(ctx, phone); incErr != nil {
			slog.Warn("failed to increment attempts count", "phone", phone, "err", incErr)
		}
		reason := "Invalid or expired OTP code"
		if err != nil {
			reason = err.Error()
		}
		s.recordAttempt(ctx, phone, ip, domain.AttemptVerify, domain.AttemptFailed, reason)
		return nil, fmt.Errorf("%s: %w", reason, domain.ErrBadRequest)
	}

	verifiedAt := s.now().UTC()
	if err := s.verifications.UpdateStatus(ctx, phone, domain.StatusVerified, &verifiedAt); err != nil {
		slog.Warn("failed to mark verification as VERIFIED", "phone", phone, "err", err)
	}

	// Session issuance is not rolled back against verification state: a
	// failure here leaves the record VERIFIED and surfaces a server error.
	sess, user, err := s.sessions.Issue(ctx, phone)
	if err != nil {
		s.recordAttempt(ctx, phone, ip, domain.AttemptVerify, domain.AttemptFailed, err.Error())
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.recordAttempt(ctx, phone, ip, domain.AttemptVerify, domain.AttemptSuccess, "")
	return &VerifyResult{UserID: user.UserID, Session: sess, User: user}, nil
}

func (s *service) sendRateExceeded(ctx context.Context, phone string) (bool, error) {
	count, err := s.attempts.CountSendsSince(ctx, phone, s.now().Add(-s.rateWindow))
	if err != nil {
		return false, fmt.Errorf("rate limit lookup: %w", err)
	}
	return count >= s.rateMax, nil
}

// recordAttempt appends one ledger row. Ledger failures are logged and
// swallowed; they must never mask the primary outcome.
func (s *service) recordAttempt(ctx context.Context, phone, ip string, t domain.AttemptType, st domain.AttemptStatus, errMsg string) {
	a := &domain.OTPAttempt{
		AttemptID:    id.New(),
		PhoneNumber:  phone,
		IPAddress:    ip,
		Type:         t,
		Status:       st,
		ErrorMessage: errMsg,
		CreatedAt:    s.now().Unix(),
	}
	if err := s.attempts.Put(ctx, a); err != nil {
		slog.Warn("failed to record OTP attempt", "phone", phone, "type", t, "err", err)
	}
}

func (s *service) updateStatus(ctx context.Context, phone string, status domain.VerificationStatus, verifiedAt *time.Time) {
	if err := s.verifications.UpdateStatus(ctx, phone, status, verifiedAt); err != nil {
		slog.Warn("failed to update verification status", "phone", phone, "status", status, "err", err)
	}
}
