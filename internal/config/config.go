package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// OTPProvider selects the delivery backend: "twilio" (hosted Verify
	// API) or "sns" (locally generated codes sent via AWS SNS).
	OTPProvider string

	TwilioAccountSID       string
	TwilioAuthToken        string
	TwilioVerifyServiceSID string
	TwilioBaseURL          string

	SNSRegion string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	OTPTTL         time.Duration
	OTPMaxAttempts int

	// Per-phone send rate limit computed over the attempt ledger.
	SendRateWindow time.Duration
	SendRateMax    int

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users            string
	OTPVerifications string
	OTPAttempts      string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:            getEnv("DYNAMO_TABLE_USERS", "users"),
			OTPVerifications: getEnv("DYNAMO_TABLE_OTP_VERIFICATIONS", "otp_verifications"),
			OTPAttempts:      getEnv("DYNAMO_TABLE_OTP_ATTEMPTS", "otp_attempts"),
		},

		OTPProvider: getEnv("OTP_PROVIDER", "twilio"),

		TwilioAccountSID:       getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:        getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioVerifyServiceSID: getEnv("TWILIO_VERIFY_SERVICE_SID", ""),
		TwilioBaseURL:          getEnv("TWILIO_BASE_URL", "https://verify.twilio.com/v2"),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		AccessTokenTTL:  time.Duration(getEnvInt("ACCESS_TOKEN_TTL_HOURS", 24)) * time.Hour,
		RefreshTokenTTL: time.Duration(getEnvInt("REFRESH_TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,

		OTPTTL:         time.Duration(getEnvInt("OTP_TTL_MINUTES", 10)) * time.Minute,
		OTPMaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 3),

		SendRateWindow: time.Duration(getEnvInt("OTP_SEND_WINDOW_MINUTES", 60)) * time.Minute,
		SendRateMax:    getEnvInt("OTP_SEND_MAX_PER_WINDOW", 5),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
