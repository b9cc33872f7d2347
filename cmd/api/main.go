package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/otp-verify-api/internal/application/otp"
	"github.com/otp-verify-api/internal/config"
	"github.com/otp-verify-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/otp-verify-api/internal/infrastructure/jwt"
	"github.com/otp-verify-api/internal/infrastructure/sns"
	"github.com/otp-verify-api/internal/infrastructure/twilio"
	transporthttp "github.com/otp-verify-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// The JWT secret is mandatory: without it no session can ever be minted.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	provider, err := newChallengeProvider(cfg)
	if err != nil {
		log.Fatalf("OTP provider: %v", err)
	}

	deps := &transporthttp.Deps{
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.OTPVerifications),
		AttemptRepo:      dynamo.NewAttemptRepo(dynamoClient, cfg.DynamoTables.OTPAttempts),
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		Provider:         provider,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, provider=%s)", cfg.AppPort, cfg.AppEnv, cfg.OTPProvider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// newChallengeProvider selects the delivery backend from config: the hosted
// Twilio Verify API, or locally generated codes delivered over SNS.
func newChallengeProvider(cfg *config.Config) (otp.ChallengeProvider, error) {
	switch cfg.OTPProvider {
	case "twilio":
		return twilio.NewClient(cfg)
	case "sns":
		sender, err := sns.NewSender(cfg)
		if err != nil {
			return nil, err
		}
		return sns.NewCodeProvider(sender), nil
	default:
		return nil, fmt.Errorf("unknown OTP_PROVIDER %q", cfg.OTPProvider)
	}
}
