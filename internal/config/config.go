package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds process-wide runtime configuration sourced from env vars.
// It is loaded once in main and passed explicitly to the components that
// need it.
type Config struct {
	ServerPort       string
	JWTSecret        string
	JWTTTLMinutes    int64
	AdminAccessCode  string
	DoctorAccessCode string
	SendGridAPIKey   string // Optional; empty degrades email to logged simulation
	EmailFrom        string
	MeetBaseURL      string
}

// Load reads application configuration from the environment and performs
// minimal validation. Database settings live in LoadDBConfig.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:       fallback(os.Getenv("SERVER_PORT"), "8080"),
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET_KEY")),
		AdminAccessCode:  os.Getenv("ADMIN_ACCESS_CODE"),
		DoctorAccessCode: os.Getenv("DOCTOR_ACCESS_CODE"),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:        fallback(os.Getenv("EMAIL_FROM"), "no-reply@swiftcare.app"),
		MeetBaseURL:      fallback(os.Getenv("MEET_BASE_URL"), "https://meet.swiftcare.app"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET_KEY is required")
	}

	minutes := fallback(os.Getenv("JWT_EXPIRATION_MINUTES"), "60")
	ttl, err := strconv.ParseInt(minutes, 10, 64)
	if err != nil || ttl <= 0 {
		ttl = 60
	}
	cfg.JWTTTLMinutes = ttl

	return cfg, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
