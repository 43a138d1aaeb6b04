package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"mainet/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	DatabaseURL   string
	JWTSecret     string
	DevMode       bool
	AllowedOrigin string
	AdminEmails   []string

	LogLevel string
	LogJSON  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Idle progression
	MaxOfflineElapsed time.Duration

	// Payment verification
	PaymentVerifyMode string // simulated | live
	PaymentTimeout    time.Duration
	PayeerAccount     string
	PayeerAPIID       string
	PayeerAPISecret   string
	FaucetPayAPIKey   string
	FaucetPayEmail    string

	// Rate limits, requests per window
	GameRateLimit  int
	GameRateWindow int
	APIRateLimit   int
	AuthRateLimit  int
}

const (
	PaymentModeSimulated = "simulated"
	PaymentModeLive      = "live"
)

// Load reads .env (if present) and the environment. Missing required keys are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, missing := FromEnv(os.Getenv)
	for _, key := range missing {
		logger.Fatal(key + " is not set")
	}
	return cfg
}

// FromEnv builds a Config from getenv and returns the names of required keys
// that were empty.
func FromEnv(getenv func(string) string) (*Config, []string) {
	var missing []string

	cfg := &Config{
		AppPort:       orDefault(getenv("APP_PORT"), "8080"),
		DatabaseURL:   getenv("DATABASE_URL"),
		JWTSecret:     getenv("JWT_SECRET"),
		DevMode:       getenv("DEV_MODE") == "true",
		AllowedOrigin: getenv("ALLOWED_ORIGIN"),

		LogLevel: orDefault(getenv("LOG_LEVEL"), "info"),
		LogJSON:  getenv("LOG_JSON") == "true",

		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		RedisDB:       positiveInt(getenv("REDIS_DB"), 0),

		MaxOfflineElapsed: time.Duration(positiveInt(getenv("MAX_OFFLINE_HOURS"), 24)) * time.Hour,

		PaymentVerifyMode: strings.ToLower(orDefault(getenv("PAYMENT_VERIFY_MODE"), PaymentModeSimulated)),
		PaymentTimeout:    time.Duration(positiveInt(getenv("PAYMENT_TIMEOUT_SECONDS"), 30)) * time.Second,
		PayeerAccount:     getenv("PAYEER_ACCOUNT"),
		PayeerAPIID:       getenv("PAYEER_API_ID"),
		PayeerAPISecret:   getenv("PAYEER_API_SECRET"),
		FaucetPayAPIKey:   getenv("FAUCETPAY_API_KEY"),
		FaucetPayEmail:    getenv("FAUCETPAY_EMAIL"),

		GameRateLimit:  positiveInt(getenv("GAME_RATE_LIMIT"), 60),
		GameRateWindow: positiveInt(getenv("GAME_RATE_WINDOW"), 60),
		APIRateLimit:   positiveInt(getenv("API_RATE_LIMIT"), 300),
		AuthRateLimit:  positiveInt(getenv("AUTH_RATE_LIMIT"), 20),
	}

	// admin emails, comma separated
	for _, e := range strings.Split(getenv("ADMIN_EMAILS"), ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			cfg.AdminEmails = append(cfg.AdminEmails, e)
		}
	}

	if cfg.DatabaseURL == "" && !cfg.DevMode {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		if cfg.DevMode {
			cfg.JWTSecret = "dev-secret"
		} else {
			missing = append(missing, "JWT_SECRET")
		}
	}
	if cfg.PaymentVerifyMode != PaymentModeLive {
		cfg.PaymentVerifyMode = PaymentModeSimulated
	}

	return cfg, missing
}

// IsAdmin reports whether email belongs to ADMIN_EMAILS.
func (c *Config) IsAdmin(email string) bool {
	email = strings.ToLower(email)
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func positiveInt(v string, def int) int {
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return def
}
