package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every recognized environment option, read once at startup and
// passed down explicitly. Handlers never consult the environment themselves.
type Config struct {
	AppHost     string
	AppPort     string
	FrontendURL string

	// Production is true when APP_ENV=production. It controls the Secure
	// flag on session cookies.
	Production bool

	// BaseURL is used to build absolute links for uploaded assets.
	BaseURL   string
	UploadDir string

	// JWTSecret signs session tokens. Absence is a startup error.
	JWTSecret     string
	TokenTTL      time.Duration
	ShortTokenTTL time.Duration

	OTPLength int
	OTPExpiry time.Duration

	DB    DBConfig
	SMTP  SMTPConfig
	Redis RedisConfig
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// SMTPConfig carries the email sender credentials. Host and From are
// required; the dispatcher refuses to start without them.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads the environment into a Config. It returns an error for any
// missing required option so the caller can fail fast at startup.
func Load() (*Config, error) {
	cfg := &Config{
		AppHost:       getenv("APP_HOST", "0.0.0.0"),
		AppPort:       getenv("APP_PORT", "5000"),
		FrontendURL:   getenv("FRONTEND_URL", "http://localhost:3000"),
		Production:    getenv("APP_ENV", "development") == "production",
		BaseURL:       getenv("BASE_URL", "http://localhost:5000"),
		UploadDir:     getenv("UPLOAD_DIR", "uploads"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      48 * time.Hour,
		ShortTokenTTL: 30 * time.Minute,
		OTPLength:     getenvInt("OTP_LENGTH", 6),
		OTPExpiry:     time.Duration(getenvInt("OTP_EXP_MINUTES", 10)) * time.Minute,
		DB: DBConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			Name:     getenv("DB_DATABASE", "event_guard"),
			User:     getenv("DB_USERNAME", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getenvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("EMAIL_FROM"),
			FromName: getenv("EMAIL_FROM_NAME", "Events App"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvInt("REDIS_DB", 0),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.SMTP.Host == "" || cfg.SMTP.From == "" {
		return nil, fmt.Errorf("SMTP_HOST and EMAIL_FROM are not set")
	}
	if cfg.OTPLength < 4 || cfg.OTPLength > 10 {
		return nil, fmt.Errorf("OTP_LENGTH must be between 4 and 10, got %d", cfg.OTPLength)
	}

	return cfg, nil
}

// DSN builds the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
