package config

import (
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL string        `mapstructure:"DATABASE_URL"`
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	Port        string        `mapstructure:"PORT"`
	GinMode     string        `mapstructure:"GIN_MODE"`
	LogLevel    string        `mapstructure:"LOG_LEVEL"`
	LogFormat   string        `mapstructure:"LOG_FORMAT"`
	TokenTTL    time.Duration `mapstructure:"TOKEN_TTL"`
	OTPTTL      time.Duration `mapstructure:"OTP_TTL"`

	// Outgoing mail for one-time codes. Without SMTP_HOST codes are not delivered,
	// unless MAIL_LOG_CODES is set for local development.
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
	MailLogCodes bool   `mapstructure:"MAIL_LOG_CODES"`
}

var AppConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("OTP_TTL", "15m")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM", "no-reply@immo.local")
	v.SetDefault("MAIL_LOG_CODES", false)
	// Registered so AutomaticEnv picks them up during Unmarshal.
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")
	setDefaults(v)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		slog.Warn(".env file not found, loading from environment variables")
	}

	cfg, err := decode(v)
	if err != nil {
		slog.Error("unable to decode config", "error", err)
		panic(err)
	}
	AppConfig = cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
