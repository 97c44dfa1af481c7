package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL_FROM", "noreply@example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.AppHost)
	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, 6, cfg.OTPLength)
	assert.Equal(t, 10*time.Minute, cfg.OTPExpiry)
	assert.Equal(t, 48*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "Events App", cfg.SMTP.FromName)
	assert.False(t, cfg.Production)
}

func TestLoadProductionFlag(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Production)

	t.Setenv("APP_ENV", "staging")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.Production)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresSMTPSettings(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadOTPLength(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OTP_LENGTH", "2")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("OTP_LENGTH", "12")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadReadsOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OTP_LENGTH", "8")
	t.Setenv("OTP_EXP_MINUTES", "5")
	t.Setenv("APP_PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.OTPLength)
	assert.Equal(t, 5*time.Minute, cfg.OTPExpiry)
	assert.Equal(t, "8080", cfg.AppPort)
}

func TestDSN(t *testing.T) {
	d := DBConfig{
		Host:     "db.internal",
		Port:     "5433",
		Name:     "events",
		User:     "svc",
		Password: "pw",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=svc password=pw dbname=events sslmode=disable",
		d.DSN())
}
