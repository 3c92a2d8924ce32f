package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the whole process configuration, loaded once at startup and
// injected. Business logic never reads the environment.
type Config struct {
	DatabaseURL string
	HTTPAddr    string

	JWTSecret       string
	JWTIssuer       string
	SessionTokenTTL time.Duration
	OTPTTL          time.Duration
	ResetTokenTTL   time.Duration

	ResendAPIKey string
	MailFrom     string
	AppName      string
	AppBaseURL   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       os.Getenv("JWT_ISSUER"),
		SessionTokenTTL: envDuration("SESSION_TOKEN_TTL_HOURS", time.Hour, 7*24*time.Hour),
		OTPTTL:          envDuration("OTP_TTL_MINUTES", time.Minute, 15*time.Minute),
		ResetTokenTTL:   envDuration("RESET_TOKEN_TTL_MINUTES", time.Minute, 60*time.Minute),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		MailFrom:        os.Getenv("MAIL_FROM"),
		AppName:         envOr("APP_NAME", "OpsVault"),
		AppBaseURL:      os.Getenv("APP_BASE_URL"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}

func envOr(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, unit time.Duration, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return time.Duration(value) * unit
}
