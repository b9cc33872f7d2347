package domain

import "time"

// VerificationStatus is the lifecycle state of an OTP challenge.
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "PENDING"
	StatusVerified VerificationStatus = "VERIFIED"
	StatusExpired  VerificationStatus = "EXPIRED"
	StatusFailed   VerificationStatus = "FAILED"
)

// OTPVerification is the current challenge for a phone number.
// PK: phone_number — a new send overwrites the previous challenge, so the
// latest one always wins. Terminal records (VERIFIED/EXPIRED/FAILED) are
// never reused; ExpiresAt doubles as the DynamoDB TTL attribute.
type OTPVerification struct {
	PhoneNumber   string             `json:"phone_number" dynamodbav:"phone_number"`
	Status        VerificationStatus `json:"verification_status" dynamodbav:"verification_status"`
	ProviderRef   string             `json:"provider_ref" dynamodbav:"provider_ref"`
	CodeSecret    string             `json:"-" dynamodbav:"code_secret"` // bcrypt hash, set only by the local SMS provider
	AttemptsCount int                `json:"attempts_count" dynamodbav:"attempts_count"`
	MaxAttempts   int                `json:"max_attempts" dynamodbav:"max_attempts"`
	ExpiresAt     int64              `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds
	VerifiedAt    *time.Time         `json:"verified_at,omitempty" dynamodbav:"verified_at"`
	CreatedAt     time.Time          `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" dynamodbav:"updated_at"`
}

// ExpiredAt reports whether the challenge is past its expiry at the given
// instant. Expiry is evaluated lazily at read time; the stored status may
// still say PENDING.
func (v *OTPVerification) ExpiredAt(now time.Time) bool {
	return v.ExpiresAt < now.Unix()
}

// Challenge is what a delivery provider hands back after originating an OTP.
// CodeSecret is empty for hosted-verification providers (the provider holds
// the code); the local SMS provider returns a bcrypt hash to be stored on
// the pending record.
type Challenge struct {
	ProviderRef string
	CodeSecret  string
}
