package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	Database  DatabaseConfig  `yaml:"database"`
	AWS       AWSConfig       `yaml:"aws"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int    `yaml:"port" env:"ADMIN_PORT,overwrite"`
	Host           string `yaml:"host" env:"ADMIN_HOST,overwrite"`
	PageSize       int    `yaml:"page_size" env:"ADMIN_PAGE_SIZE,overwrite"`
	LoginPerMinute int    `yaml:"login_per_minute" env:"ADMIN_LOGIN_PER_MINUTE,overwrite"`
}

// UpstreamConfig describes the remote admin API.
type UpstreamConfig struct {
	BaseURL    string        `yaml:"base_url" env:"ADMIN_UPSTREAM_BASE_URL,overwrite"`
	PathPrefix string        `yaml:"path_prefix" env:"ADMIN_UPSTREAM_PATH_PREFIX,overwrite"`
	Timeout    time.Duration `yaml:"timeout" env:"ADMIN_UPSTREAM_TIMEOUT,overwrite"`
}

// SessionConfig holds cookie and signing settings for admin sessions
type SessionConfig struct {
	Secret       string        `yaml:"secret" env:"ADMIN_SESSION_SECRET,overwrite"`
	CookieName   string        `yaml:"cookie_name" env:"ADMIN_SESSION_COOKIE,overwrite"`
	CookieSecure bool          `yaml:"cookie_secure" env:"ADMIN_SESSION_COOKIE_SECURE,overwrite"`
	TTL          time.Duration `yaml:"ttl" env:"ADMIN_SESSION_TTL,overwrite"`
}

// RedisConfig holds the session backend address. Empty Addr selects the in-memory backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADMIN_REDIS_ADDR,overwrite"`
	Password string `yaml:"password" env:"ADMIN_REDIS_PASSWORD,overwrite"`
	DB       int    `yaml:"db" env:"ADMIN_REDIS_DB,overwrite"`
}

// DatabaseConfig holds database configuration for the moderation audit log.
// An empty Host disables the audit log.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"ADMIN_DB_HOST,overwrite"`
	Port     int    `yaml:"port" env:"ADMIN_DB_PORT,overwrite"`
	User     string `yaml:"user" env:"ADMIN_DB_USER,overwrite"`
	Password string `yaml:"password" env:"ADMIN_DB_PASSWORD,overwrite"`
	DBName   string `yaml:"dbname" env:"ADMIN_DB_NAME,overwrite"`
	SSLMode  string `yaml:"sslmode" env:"ADMIN_DB_SSLMODE,overwrite"`
}

// AWSConfig holds S3 settings used to presign private moderation media.
// An empty S3Bucket disables presigning.
type AWSConfig struct {
	Region    string        `yaml:"region" env:"ADMIN_AWS_REGION,overwrite"`
	S3Bucket  string        `yaml:"s3_bucket" env:"ADMIN_AWS_S3_BUCKET,overwrite"`
	AccessKey string        `yaml:"access_key" env:"ADMIN_AWS_ACCESS_KEY,overwrite"`
	SecretKey string        `yaml:"secret_key" env:"ADMIN_AWS_SECRET_KEY,overwrite"`
	Endpoint  string        `yaml:"endpoint" env:"ADMIN_AWS_ENDPOINT,overwrite"`
	URLExpiry time.Duration `yaml:"url_expiry" env:"ADMIN_AWS_URL_EXPIRY,overwrite"`
}

// TelemetryConfig holds tracing settings
type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT,overwrite"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level" env:"ADMIN_LOG_LEVEL,overwrite"`
}

// Default returns the configuration used when neither the file nor the environment set a value.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			PageSize:       10,
			LoginPerMinute: 10,
		},
		Upstream: UpstreamConfig{
			BaseURL:    "https://sggsapp.co.in",
			PathPrefix: "/beemine/admin",
			Timeout:    15 * time.Second,
		},
		Session: SessionConfig{
			CookieName: "beemine_admin",
			TTL:        7 * 24 * time.Hour,
		},
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "disable",
		},
		AWS: AWSConfig{
			Region:    "us-east-1",
			URLExpiry: 15 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file, then applies .env and environment overrides.
// A missing file is not an error; defaults and the environment are used instead.
func Load(ctx context.Context, path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required")
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Server.PageSize <= 0 {
		c.Server.PageSize = 10
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Enabled reports whether the audit database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}
