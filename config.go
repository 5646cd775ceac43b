package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"socialFeed/database"
)

// devSecretKey signs tokens in development. Production configs must replace it.
const devSecretKey = "dev-secret-key-change-me"

type Config struct {
	Port           int      `yaml:"port" env:"PORT"`
	Env            string   `yaml:"env" env:"ENV"`
	SecretKey      string   `yaml:"secret_key" env:"SECRET_KEY"`
	Pepper         string   `yaml:"pepper" env:"PEPPER"`
	BcryptCost     int      `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`

	Tokens   TokensConfig   `yaml:"tokens"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
}

type TokensConfig struct {
	Issuer     string        `yaml:"issuer" env:"TOKENS_ISSUER"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"TOKENS_ACCESS_TTL"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"TOKENS_REFRESH_TTL"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

type DatabaseConfig struct {
	Dialect string `yaml:"dialect" env:"DATABASE_DIALECT"`
	// DSN is used as is when set. Otherwise sqlite opens Path and
	// postgres connects with the fields below.
	DSN      string `yaml:"dsn" env:"DATABASE_DSN"`
	Path     string `yaml:"path" env:"DATABASE_PATH"`
	Host     string `yaml:"host" env:"DATABASE_HOST"`
	Port     int    `yaml:"port" env:"DATABASE_PORT"`
	User     string `yaml:"user" env:"DATABASE_USER"`
	Password string `yaml:"password" env:"DATABASE_PASSWORD"`
	Name     string `yaml:"name" env:"DATABASE_NAME"`

	MaxOpenConns int           `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
	Timeout      time.Duration `yaml:"timeout" env:"DATABASE_TIMEOUT"`
	// The circuit breaker opens once BreakerFailureRatio of at least
	// BreakerMinRequests calls failed, and probes again after BreakerOpenTimeout.
	BreakerMinRequests  uint32        `yaml:"breaker_min_requests" env:"DATABASE_BREAKER_MIN_REQUESTS"`
	BreakerFailureRatio float64       `yaml:"breaker_failure_ratio" env:"DATABASE_BREAKER_FAILURE_RATIO"`
	BreakerOpenTimeout  time.Duration `yaml:"breaker_open_timeout" env:"DATABASE_BREAKER_OPEN_TIMEOUT"`
}

// ConnectionInfo returns what database.NewDB expects for the configured dialect.
func (dc DatabaseConfig) ConnectionInfo() string {
	if dc.DSN != "" {
		return dc.DSN
	}
	if dc.Dialect == database.SQLite {
		return dc.Path
	}
	if dc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", dc.Host, dc.Port, dc.User, dc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", dc.Host, dc.Port, dc.User, dc.Password, dc.Name)
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func DefaultConfig() Config {
	return Config{
		Port:           8000,
		Env:            "dev",
		SecretKey:      devSecretKey,
		Pepper:         "secret-random-string",
		AllowedOrigins: []string{"*"},
		Tokens: TokensConfig{
			Issuer:     "social-feed",
			AccessTTL:  5 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DefaultDatabaseConfig(),
	}
}

func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Dialect:             database.SQLite,
		Path:                "feed.db",
		Host:                "localhost",
		Port:                5432,
		User:                "postgres",
		Name:                "social_feed",
		Timeout:             5 * time.Second,
		BreakerMinRequests:  10,
		BreakerFailureRatio: 0.6,
		BreakerOpenTimeout:  30 * time.Second,
	}
}

// LoadConfig starts from DefaultConfig, applies the yaml file at path if present
// and finally the environment. If required is true, a missing file is an error.
func LoadConfig(path string, required bool) (Config, error) {
	c := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
	case err != nil:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&c); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.SecretKey == "":
		return errors.New("secret_key is required")
	case c.IsProd() && c.SecretKey == devSecretKey:
		return errors.New("secret_key must be changed in production")
	case c.Database.Dialect != database.Postgres && c.Database.Dialect != database.SQLite:
		return fmt.Errorf("unsupported database dialect %q", c.Database.Dialect)
	case c.Database.ConnectionInfo() == "":
		return errors.New("database connection info is required")
	}
	return nil
}
