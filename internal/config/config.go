// Package config loads runtime configuration from an optional YAML file and environment variables.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration
type Config struct {
	Env                     string    `yaml:"env"`
	Port                    int       `yaml:"port"`
	AllowOrigins            []string  `yaml:"allow_origins"`
	ApplicationStatusPolicy string    `yaml:"application_status_policy"`
	Database                Database  `yaml:"database"`
	Auth                    Auth      `yaml:"auth"`
	RateLimit               RateLimit `yaml:"rate_limit"`
	Redis                   Redis     `yaml:"redis"`
	Logging                 Logging   `yaml:"logging"`
}

// Database holds the parameters for connecting to the record store
type Database struct {
	Driver           string `yaml:"driver"`
	Host             string `yaml:"host"`
	Port             string `yaml:"port"`
	User             string `yaml:"user"`
	Password         string `yaml:"password"`
	Name             string `yaml:"name"`
	UseConnectionStr bool   `yaml:"use_connection_str"`
	ConnectionStr    string `yaml:"connection_str"`
	SQLitePath       string `yaml:"sqlite_path"`
}

// Auth holds token signing and revocation settings
type Auth struct {
	SecretKey        string        `yaml:"secret_key"`
	Issuer           string        `yaml:"issuer"`
	AccessTTL        time.Duration `yaml:"access_ttl"`
	BlacklistBackend string        `yaml:"blacklist_backend"`
}

// RateLimit holds request throttling settings
type RateLimit struct {
	RequestsPerSecond int    `yaml:"requests_per_second"`
	Backend           string `yaml:"backend"`
}

// Redis holds the redis connection used by the redis backed stores
type Redis struct {
	URL string `yaml:"url"`
}

// Logging holds logger settings
type Logging struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	AuthLog     bool   `yaml:"auth_log"`
	AuthLogFile string `yaml:"auth_log_file"`
}

// DefaultAllowOrigin is the frontend dev server allowed by CORS when ALLOW_ORIGIN is unset
const DefaultAllowOrigin = "http://localhost:3000"

// Backend names shared by the rate limiter and the token blacklist
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Env:                     "dev",
		Port:                    8080,
		AllowOrigins:            []string{DefaultAllowOrigin},
		ApplicationStatusPolicy: "permissive",
		Database: Database{
			Driver:     "postgres",
			SQLitePath: "data/campushire.db",
		},
		Auth: Auth{
			Issuer:           "CampusHire",
			AccessTTL:        time.Hour,
			BlacklistBackend: BackendMemory,
		},
		RateLimit: RateLimit{
			RequestsPerSecond: 5,
			Backend:           BackendMemory,
		},
		Redis: Redis{URL: "redis://localhost:6379/0"},
		Logging: Logging{
			Level:       "info",
			Format:      "text",
			AuthLogFile: "log/auth.log",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE if any, then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	// Tokens signed with a random key stop validating after a restart.
	if cfg.Auth.SecretKey == "" && !cfg.IsProduction() {
		key, err := randomSecret()
		if err != nil {
			return cfg, err
		}
		cfg.Auth.SecretKey = key
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.Port = intEnv("PORT", cfg.Port)
	if origins := os.Getenv("ALLOW_ORIGIN"); origins != "" {
		cfg.AllowOrigins = splitList(origins)
	}
	cfg.ApplicationStatusPolicy = getEnv("APPLICATION_STATUS_POLICY", cfg.ApplicationStatusPolicy)

	db := &cfg.Database
	db.Driver = getEnv("DB_DRIVER", db.Driver)
	db.Host = getEnv("DB_HOST", db.Host)
	db.Port = getEnv("DB_PORT", db.Port)
	db.User = getEnv("DB_USERNAME", db.User)
	db.Password = getEnv("DB_PASSWORD", db.Password)
	db.Name = getEnv("DB_DATABASE", db.Name)
	db.UseConnectionStr = boolEnv("USE_CONNECTION_STR", db.UseConnectionStr)
	db.ConnectionStr = getEnv("DB_CONNECTION_STR", db.ConnectionStr)
	db.SQLitePath = getEnv("SQLITE_PATH", db.SQLitePath)

	cfg.Auth.SecretKey = getEnv("SECRET_KEY", cfg.Auth.SecretKey)
	cfg.Auth.Issuer = getEnv("JWT_ISSUER", cfg.Auth.Issuer)
	cfg.Auth.AccessTTL = durationEnv("ACCESS_TTL", cfg.Auth.AccessTTL)
	cfg.Auth.BlacklistBackend = getEnv("BLACKLIST_BACKEND", cfg.Auth.BlacklistBackend)

	cfg.RateLimit.RequestsPerSecond = intEnv("RATE_LIMIT_REQUESTS_PER_SECOND", cfg.RateLimit.RequestsPerSecond)
	cfg.RateLimit.Backend = getEnv("RATE_LIMIT_BACKEND", cfg.RateLimit.Backend)

	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.AuthLog = boolEnv("LOGGING", cfg.Logging.AuthLog)
	cfg.Logging.AuthLogFile = getEnv("AUTH_LOG_FILE", cfg.Logging.AuthLogFile)
}

// Validate rejects configurations the server cannot start with
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if len(c.AllowOrigins) == 0 {
		return fmt.Errorf("ALLOW_ORIGIN must name at least one origin")
	}
	if c.Auth.AccessTTL <= 0 {
		return fmt.Errorf("ACCESS_TTL must be positive")
	}
	for _, backend := range []string{c.RateLimit.Backend, c.Auth.BlacklistBackend} {
		if backend != BackendMemory && backend != BackendRedis {
			return fmt.Errorf("unknown store backend %q", backend)
		}
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS_PER_SECOND must be positive")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate dev secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// IsProduction reports whether the server runs in release mode
func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
