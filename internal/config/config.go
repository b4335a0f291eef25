// Package config assembles runtime settings from defaults, an optional YAML
// file, environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret signs tokens when no secret is configured. It is public,
// so deployments must override it.
const DefaultJWTSecret = "microblog-insecure-default-secret-change-me-0123456789abcdef"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds runtime settings for the microblog server.
type Config struct {
	Port           string        `yaml:"port"`
	DatabaseDriver string        `yaml:"database_driver"`
	DatabaseDSN    string        `yaml:"database_dsn"`
	JWTSecret      string        `yaml:"jwt_secret"`
	JWTTTL         time.Duration `yaml:"jwt_ttl"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

// LoadDefaults populates Config with development defaults. JWTSecret is left
// empty so callers can tell that the built-in secret is in use.
func (c *Config) LoadDefaults() {
	c.Port = "8080"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "microblog.db"
	c.JWTSecret = ""
	c.JWTTTL = 24 * time.Hour
	c.BcryptCost = 12
	c.LogLevel = "info"
	c.LogFormat = "multi"
}

// Load builds a Config from args (without the program name) and the
// environment as seen through getenv. The YAML file is named by --config or
// MICROBLOG_CONFIG.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs := pflag.NewFlagSet("microblog", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", getenv("MICROBLOG_CONFIG"), "path to a YAML config file")
	port := fs.StringP("port", "p", cfg.Port, "HTTP listen port")
	driver := fs.String("database-driver", cfg.DatabaseDriver, "database driver (sqlite or postgres)")
	dsn := fs.String("database-dsn", cfg.DatabaseDSN, "SQLite file path or PostgreSQL DSN")
	secret := fs.String("jwt-secret", "", "HMAC secret for signing tokens (at least 32 characters)")
	ttl := fs.Duration("jwt-ttl", cfg.JWTTTL, "token lifetime")
	cost := fs.Int("bcrypt-cost", cfg.BcryptCost, "bcrypt cost factor (4-14)")
	level := fs.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	format := fs.String("log-format", cfg.LogFormat, "log format (multi, text, json)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if *configPath != "" {
		if err := cfg.loadFile(*configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(getenv); err != nil {
		return nil, err
	}

	if fs.Changed("port") {
		cfg.Port = *port
	}
	if fs.Changed("database-driver") {
		cfg.DatabaseDriver = *driver
	}
	if fs.Changed("database-dsn") {
		cfg.DatabaseDSN = *dsn
	}
	if fs.Changed("jwt-secret") {
		cfg.JWTSecret = *secret
	}
	if fs.Changed("jwt-ttl") {
		cfg.JWTTTL = *ttl
	}
	if fs.Changed("bcrypt-cost") {
		cfg.BcryptCost = *cost
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *level
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = *format
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("DATABASE_DRIVER"); v != "" {
		c.DatabaseDriver = v
	}
	if v := getenv("DATABASE_DSN"); v != "" {
		c.DatabaseDSN = v
	}
	if v := getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_TTL: %w", err)
		}
		c.JWTTTL = d
	}
	if v := getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		c.BcryptCost = n
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("jwt secret must be at least 32 characters"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("jwt ttl must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("bcrypt cost must be between 4 and 14, got %d", c.BcryptCost))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "multi", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Secret returns the signing secret and whether it is the built-in default.
func (c *Config) Secret() (string, bool) {
	if c.JWTSecret == "" {
		return DefaultJWTSecret, true
	}
	return c.JWTSecret, false
}
