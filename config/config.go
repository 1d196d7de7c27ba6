package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CORSModeFixed   = "fixed"
	CORSModeReflect = "reflect"

	DefaultMailerSendEndpoint = "https://api.mailersend.com/v1/email"
)

type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	ServiceName string
	// Mail identities. None of these may come from the submitter.
	FromEmail string
	FromName  string
	ToEmail   string
	ToName    string
	// MailerSend
	MailerSendAPIKey   string
	MailerSendEndpoint string
	SubjectPrefix      string
	ProviderTimeout    time.Duration
	// CORS
	CORSMode           string
	CORSAllowedOrigins []string
	// Inbound request limits
	MaxBodyBytes int64
}

func LoadConfig() (*Config, error) {
	// Load .env file (local only; missing file is fine in production)
	_ = godotenv.Load()

	fromName := getEnv("FROM_NAME", "Contact Form")
	corsMode, corsOrigins := CORSFromEnv()

	timeout, err := getEnvDuration("PROVIDER_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	maxBody, err := getEnvInt64("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ServiceName:        getEnv("SERVICE_NAME", "contact-relay"),
		FromEmail:          strings.TrimSpace(getEnv("FROM_EMAIL", "")),
		FromName:           fromName,
		ToEmail:            strings.TrimSpace(getEnv("TO_EMAIL", "")),
		ToName:             getEnv("TO_NAME", fromName),
		MailerSendAPIKey:   strings.TrimSpace(getEnv("MAILERSEND_API_KEY", "")),
		MailerSendEndpoint: getEnv("MAILERSEND_ENDPOINT", DefaultMailerSendEndpoint),
		SubjectPrefix:      getEnv("SUBJECT_PREFIX", "Contact: "),
		ProviderTimeout:    timeout,
		CORSMode:           corsMode,
		CORSAllowedOrigins: corsOrigins,
		MaxBodyBytes:       maxBody,
	}

	return cfg, nil
}

// CORSFromEnv reads only CORS_MODE and CORS_ALLOWED_ORIGIN. Shells use it
// to keep answering with the configured origin when LoadConfig fails.
// Unknown modes fall back to fixed.
func CORSFromEnv() (mode string, origins []string) {
	mode = strings.ToLower(getEnv("CORS_MODE", CORSModeFixed))
	if mode != CORSModeReflect {
		mode = CORSModeFixed
	}
	return mode, getEnvList("CORS_ALLOWED_ORIGIN")
}

// Missing lists the required environment variables that are not set.
// An incomplete config still serves traffic; the contact endpoint answers
// 503 until these are provided.
func (c *Config) Missing() []string {
	var missing []string
	if c.MailerSendAPIKey == "" {
		missing = append(missing, "MAILERSEND_API_KEY")
	}
	if c.FromEmail == "" {
		missing = append(missing, "FROM_EMAIL")
	}
	if c.ToEmail == "" {
		missing = append(missing, "TO_EMAIL")
	}
	return missing
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt64 returns a non-negative integer environment variable, or
// fallback when it is unset or empty.
func getEnvInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: want a non-negative integer", key, value)
	}
	return n, nil
}

// getEnvDuration accepts Go durations ("10s") or bare seconds ("10").
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		secs, convErr := strconv.Atoi(value)
		if convErr != nil {
			return 0, fmt.Errorf("invalid %s %q: want a duration like 15s", key, value)
		}
		d = time.Duration(secs) * time.Second
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, value)
	}
	return d, nil
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
