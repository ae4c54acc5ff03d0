package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDecodeDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 168*time.Hour, cfg.TokenTTL)
	require.Equal(t, 15*time.Minute, cfg.OTPTTL)
	require.Equal(t, 587, cfg.SMTPPort)
	require.Empty(t, cfg.SMTPHost)
	require.False(t, cfg.MailLogCodes)
}

func TestDecodeEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("MAIL_LOG_CODES", "true")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg, err := decode(v)
	require.NoError(t, err)
	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.Equal(t, 5*time.Minute, cfg.OTPTTL)
	require.Equal(t, "smtp.example.com", cfg.SMTPHost)
	require.Equal(t, 2525, cfg.SMTPPort)
	require.True(t, cfg.MailLogCodes)
}
