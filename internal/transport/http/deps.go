package http

import (
	"github.com/otp-verify-api/internal/application/otp"
	"github.com/otp-verify-api/internal/application/session"
	jwtinfra "github.com/otp-verify-api/internal/infrastructure/jwt"
)

// Deps holds all infrastructure dependencies for the router. Stores are
// accepted through the application-layer interfaces so tests can swap them.
type Deps struct {
	VerificationRepo otp.VerificationStore
	AttemptRepo      otp.AttemptStore
	UserRepo         session.UserStore
	Provider         otp.ChallengeProvider
	JWTProvider      *jwtinfra.Provider
}
