package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   int

	// OTP lifecycle
	OTPTTL        time.Duration
	SweepInterval time.Duration

	// SMS provider: "fast2sms" or "noop"
	SMSProvider    string
	SMSAPIKey      string
	SMSBaseURL     string
	SMSRoute       string
	SMSSendTimeout time.Duration

	// Redis (optional; empty addr disables send rate limiting)
	RedisAddr string
	RedisPass string
	RedisDB   int

	// Rate limit
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	// Logging
	LogLevel string

	// Metrics endpoint toggle
	MetricsEnabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.Port = getInt("PORT", 8080)

	cfg.OTPTTL = getDuration("OTP_TTL", 5*time.Minute)
	cfg.SweepInterval = getDuration("OTP_SWEEP_INTERVAL", time.Minute)

	cfg.SMSProvider = getEnv("SMS_PROVIDER", "fast2sms")
	cfg.SMSAPIKey = getEnv("SMS_API_KEY", "")
	cfg.SMSBaseURL = getEnv("SMS_BASE_URL", "")
	cfg.SMSRoute = getEnv("SMS_ROUTE", "otp")
	cfg.SMSSendTimeout = getDuration("SMS_SEND_TIMEOUT", 10*time.Second)

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPass = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = getInt("REDIS_DB", 0)

	cfg.RLEnabled = getBool("RL_ENABLED", true)
	cfg.RLLimit = getInt("RL_REQUESTS_LIMIT", 5)
	cfg.RLWindow = time.Duration(getInt("RL_WINDOW_SECONDS", 600)) * time.Second

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.MetricsEnabled = getBool("METRICS_ENABLED", true)

	// Fail fast: production must have a working transport (the delivery
	// policy never fabricates success there).
	switch cfg.SMSProvider {
	case "fast2sms", "noop":
	default:
		return nil, fmt.Errorf("unsupported SMS_PROVIDER: %s", cfg.SMSProvider)
	}
	if cfg.AppEnv == "production" && cfg.SMSProvider == "fast2sms" && cfg.SMSAPIKey == "" {
		return nil, fmt.Errorf("missing SMS_API_KEY (required when APP_ENV=production)")
	}
	if cfg.OTPTTL <= 0 {
		return nil, fmt.Errorf("OTP_TTL must be positive")
	}
	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("OTP_SWEEP_INTERVAL must be positive")
	}

	return cfg, nil
}

// IsProduction reports whether the runtime is flagged production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
