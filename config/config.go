package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Billing  BillingConfig
	Log      LogConfig
}

type AppConfig struct {
	Env             string
	Port            string
	BodyLimitMB     int
	AllowedOrigins  string
	RateLimitMax    int
	RateLimitWindow time.Duration
	Timezone        string
	// RequestTimeout bounds every request's store calls. Zero disables it.
	RequestTimeout time.Duration
}

// Location resolves the configured time zone, falling back to time.Local.
func (a AppConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	SlowQuery    time.Duration
}

// DSN builds a postgres connection string. Times are stored as epoch millis
// so the session time zone is pinned to UTC.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type AuthConfig struct {
	JWTSecret string
}

// Enabled reports whether bearer tokens are required on the API.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

type BillingConfig struct {
	// BulkDeletePasswordHash is a bcrypt hash. Empty disables bulk delete.
	BulkDeletePasswordHash string
	BulkDeleteConcurrency  int
}

type LogConfig struct {
	Level  string
	Format string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("BODY_LIMIT_MB", 4)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_MAX", 60)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("APP_TIMEZONE", "")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "billing")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_SLOW_QUERY_MS", 200)

	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("BULK_DELETE_PASSWORD_HASH", "")
	v.SetDefault("BULK_DELETE_CONCURRENCY", 8)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
}

// Load reads .env (if present) and the process environment.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	secret := v.GetString("JWT_SECRET_KEY")
	if secret == "" {
		secret = v.GetString("JWT_SECRET")
	}

	cfg := &Config{
		App: AppConfig{
			Env:             strings.ToLower(v.GetString("APP_ENV")),
			Port:            v.GetString("PORT"),
			BodyLimitMB:     v.GetInt("BODY_LIMIT_MB"),
			AllowedOrigins:  v.GetString("ALLOWED_ORIGINS"),
			RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
			RateLimitWindow: time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
			Timezone:        v.GetString("APP_TIMEZONE"),
			RequestTimeout:  time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			SlowQuery:    time.Duration(v.GetInt("DB_SLOW_QUERY_MS")) * time.Millisecond,
		},
		Auth: AuthConfig{JWTSecret: secret},
		Billing: BillingConfig{
			BulkDeletePasswordHash: v.GetString("BULK_DELETE_PASSWORD_HASH"),
			BulkDeleteConcurrency:  v.GetInt("BULK_DELETE_CONCURRENCY"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.App.BodyLimitMB <= 0 {
		return fmt.Errorf("BODY_LIMIT_MB must be positive, got %d", c.App.BodyLimitMB)
	}
	if c.App.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.App.RateLimitMax)
	}
	if c.App.Timezone != "" {
		if _, err := time.LoadLocation(c.App.Timezone); err != nil {
			return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
		}
	}
	if c.App.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must not be negative")
	}
	if c.Billing.BulkDeleteConcurrency <= 0 {
		return fmt.Errorf("BULK_DELETE_CONCURRENCY must be positive, got %d", c.Billing.BulkDeleteConcurrency)
	}
	return nil
}
