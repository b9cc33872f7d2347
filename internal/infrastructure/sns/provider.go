package sns

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/otp-verify-api/internal/domain"
	"github.com/otp-verify-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// CodeProvider is the self-hosted alternative to a verification API: it
// generates the 6-digit code locally, delivers it over SNS, and later checks
// submissions against a bcrypt hash. Only the hash leaves this package — it
// is stored on the pending record as the challenge's CodeSecret.
type CodeProvider struct {
	sms SMSSender
}

func NewCodeProvider(sms SMSSender) *CodeProvider {
	return &CodeProvider{sms: sms}
}

func (p *CodeProvider) Start(ctx context.Context, phone string) (*domain.Challenge, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return nil, err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := p.sms.SendSMS(ctx, phone, "Your verification code: "+code); err != nil {
		return nil, fmt.Errorf("sms delivery failed: %w", err)
	}
	return &domain.Challenge{ProviderRef: id.New(), CodeSecret: string(hash)}, nil
}

// Check compares the submitted code against the hash captured at Start.
// A mismatch is a rejection, not an error.
func (p *CodeProvider) Check(_ context.Context, _ string, code, codeSecret string) (bool, error) {
	if codeSecret == "" {
		return false, errors.New("no local code on record")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(codeSecret), []byte(code)); err != nil {
		return false, nil
	}
	return true, nil
}
