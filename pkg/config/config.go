package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// insecureDevSecret is only ever used outside production when JWT_SECRET is unset.
const insecureDevSecret = "change-me-in-development-only-please"

// Config holds application configuration loaded from environment variables or config files.
type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER" validate:"required,oneof=postgres sqlite"`
	DatabaseURL    string `mapstructure:"DATABASE_URL" validate:"required"`

	JWTSecret            string        `mapstructure:"JWT_SECRET" validate:"required,min=16"`
	JWTAlgorithm         string        `mapstructure:"JWT_ALGORITHM" validate:"required,oneof=HS256 HS384 HS512"`
	AccessTokenTTL       time.Duration `mapstructure:"ACCESS_TOKEN_TTL" validate:"gt=0"`
	RefreshTokenTTL      time.Duration `mapstructure:"REFRESH_TOKEN_TTL" validate:"gt=0"`
	VerificationTokenTTL time.Duration `mapstructure:"VERIFICATION_TOKEN_TTL" validate:"gt=0"`
	BcryptCost           int           `mapstructure:"BCRYPT_COST" validate:"gte=4,lte=31"`

	FrontendURL string `mapstructure:"FRONTEND_URL" validate:"required,url"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	MailDriver   string `mapstructure:"MAIL_DRIVER" validate:"required,oneof=smtp queue log"`
	MailFrom     string `mapstructure:"MAIL_FROM" validate:"required,email"`
	SMTPHost     string `mapstructure:"SMTP_HOST" validate:"required_if=MailDriver smtp"`
	SMTPPort     int    `mapstructure:"SMTP_PORT" validate:"gte=1,lte=65535"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	RedisAddr     string `mapstructure:"REDIS_ADDR" validate:"required_if=MailDriver queue"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	AsynqConcurrency int `mapstructure:"ASYNQ_CONCURRENCY" validate:"gte=1,lte=1000"`

	GoMaxProcs int `mapstructure:"GOMAXPROCS" validate:"gte=0,lte=4096"`

	// InsecureSecret is set when the development fallback secret is in use.
	InsecureSecret bool `mapstructure:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var keys = []string{
	"APP_ENV",
	"HTTP_ADDR",
	"SHUTDOWN_TIMEOUT",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"DATABASE_DRIVER",
	"DATABASE_URL",
	"JWT_SECRET",
	"JWT_ALGORITHM",
	"ACCESS_TOKEN_TTL",
	"REFRESH_TOKEN_TTL",
	"VERIFICATION_TOKEN_TTL",
	"BCRYPT_COST",
	"FRONTEND_URL",
	"CORS_ORIGINS",
	"MAIL_DRIVER",
	"MAIL_FROM",
	"SMTP_HOST",
	"SMTP_PORT",
	"SMTP_USERNAME",
	"SMTP_PASSWORD",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"ASYNQ_CONCURRENCY",
	"GOMAXPROCS",
}

var durationKeys = map[string]func(*Config) *time.Duration{
	"SHUTDOWN_TIMEOUT":       func(c *Config) *time.Duration { return &c.ShutdownTimeout },
	"ACCESS_TOKEN_TTL":       func(c *Config) *time.Duration { return &c.AccessTokenTTL },
	"REFRESH_TOKEN_TTL":      func(c *Config) *time.Duration { return &c.RefreshTokenTTL },
	"VERIFICATION_TOKEN_TTL": func(c *Config) *time.Duration { return &c.VerificationTokenTTL },
}

// Load initializes configuration using Viper. It loads from .env if present,
// applies defaults, binds env vars, and validates the result.
func Load() (*Config, error) {
	// Load .env if present (non-fatal)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	// Defaults
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", "0.0.0.0:8000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("ACCESS_TOKEN_TTL", "30m")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("VERIFICATION_TOKEN_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAIL_DRIVER", "log")
	v.SetDefault("MAIL_FROM", "support@bearister.ai")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("ASYNQ_CONCURRENCY", 10)
	v.SetDefault("GOMAXPROCS", 0)

	// Optional config file
	_ = v.ReadInConfig()

	// Bind env without prefix for convenience
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	// Parse duration types that may come as string
	for key, field := range durationKeys {
		if s := v.GetString(key); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", key, err)
			}
			*field(&c) = d
		}
	}

	if c.JWTSecret == "" && c.AppEnv != "production" {
		c.JWTSecret = insecureDevSecret
		c.InsecureSecret = true
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if c.GoMaxProcs > 0 {
		runtime.GOMAXPROCS(c.GoMaxProcs)
	}

	return &c, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
