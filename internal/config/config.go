package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration settings
type Config struct {
	Port int

	WhatsApp struct {
		AccessToken   string
		PhoneNumberID string
		VerifyToken   string
		BaseURL       string
		APIVersion    string
		Timeout       time.Duration
	}

	Database struct {
		Driver string
		URL    string
	}

	DefaultTenantID int64

	Followup struct {
		Interval time.Duration
		After    time.Duration
	}

	JWTSecret string

	Telegram struct {
		BotToken    string
		AlertChatID int64
		Timeout     time.Duration
	}

	Logging struct {
		Level string
		File  string
	}

	RateLimit struct {
		PerSecond float64
		Burst     int
	}
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	var errs []error

	cfg.Port = intOr(getenv, "PORT", 3000, &errs)

	cfg.WhatsApp.AccessToken = getenv("WHATSAPP_ACCESS_TOKEN")
	cfg.WhatsApp.PhoneNumberID = getenv("WHATSAPP_PHONE_NUMBER_ID")
	cfg.WhatsApp.VerifyToken = getenv("WHATSAPP_VERIFY_TOKEN")
	cfg.WhatsApp.BaseURL = stringOr(getenv, "WHATSAPP_API_BASE_URL", "https://graph.facebook.com")
	cfg.WhatsApp.APIVersion = stringOr(getenv, "WHATSAPP_API_VERSION", "v19.0")
	cfg.WhatsApp.Timeout = durationOr(getenv, "WHATSAPP_TIMEOUT", 10*time.Second, &errs)

	cfg.Database.Driver = stringOr(getenv, "DB_DRIVER", DriverSQLite)
	cfg.Database.URL = stringOr(getenv, "DATABASE_URL", "crm.db")

	cfg.DefaultTenantID = int64(intOr(getenv, "DEFAULT_TENANT_ID", 1, &errs))

	cfg.Followup.Interval = durationOr(getenv, "FOLLOWUP_INTERVAL", time.Hour, &errs)
	cfg.Followup.After = durationOr(getenv, "FOLLOWUP_AFTER", 24*time.Hour, &errs)

	cfg.JWTSecret = getenv("JWT_SECRET")

	cfg.Telegram.BotToken = getenv("TELEGRAM_BOT_TOKEN")
	if v := getenv("TELEGRAM_ALERT_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("TELEGRAM_ALERT_CHAT_ID: %w", err))
		}
		cfg.Telegram.AlertChatID = id
	}
	cfg.Telegram.Timeout = durationOr(getenv, "TELEGRAM_TIMEOUT", 5*time.Second, &errs)

	cfg.Logging.Level = stringOr(getenv, "LOG_LEVEL", "info")
	cfg.Logging.File = getenv("LOG_FILE")

	cfg.RateLimit.PerSecond = floatOr(getenv, "API_RATE_LIMIT", 5, &errs)
	cfg.RateLimit.Burst = intOr(getenv, "API_RATE_BURST", 10, &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.WhatsApp.AccessToken == "" {
		errs = append(errs, errors.New("WHATSAPP_ACCESS_TOKEN is required"))
	}
	if c.WhatsApp.PhoneNumberID == "" {
		errs = append(errs, errors.New("WHATSAPP_PHONE_NUMBER_ID is required"))
	}
	if c.WhatsApp.VerifyToken == "" {
		errs = append(errs, errors.New("WHATSAPP_VERIFY_TOKEN is required"))
	}
	if c.WhatsApp.Timeout <= 0 {
		errs = append(errs, errors.New("WHATSAPP_TIMEOUT must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of sqlite, postgres", c.Database.Driver))
	}
	if c.DefaultTenantID <= 0 {
		errs = append(errs, errors.New("DEFAULT_TENANT_ID must be positive"))
	}
	if c.Followup.Interval <= 0 || c.Followup.After <= 0 {
		errs = append(errs, errors.New("FOLLOWUP_INTERVAL and FOLLOWUP_AFTER must be positive"))
	}
	if c.Telegram.Timeout <= 0 {
		errs = append(errs, errors.New("TELEGRAM_TIMEOUT must be positive"))
	}
	if c.Telegram.BotToken != "" && c.Telegram.AlertChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_ALERT_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set"))
	}
	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("API_RATE_LIMIT and API_RATE_BURST must be positive"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func stringOr(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(getenv func(string) string, key string, def int, errs *[]error) int {
	v := getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func floatOr(getenv func(string) string, key string, def float64, errs *[]error) float64 {
	v := getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func durationOr(getenv func(string) string, key string, def time.Duration, errs *[]error) time.Duration {
	v := getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
