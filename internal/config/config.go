package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Auth modes
const (
	AuthModeAuthorizer = "authorizer"
	AuthModeHeader     = "header"
)

// NotesColumnLength is the width of the notes columns.
const NotesColumnLength = 1024

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"3000"`

	// Database configuration
	DBType            string `envconfig:"DB_TYPE" default:"sqlite-go"` // sqlite, sqlite-go, mysql, mariadb, postgres, sqlserver
	DBHost            string `envconfig:"DB_HOST" default:"localhost"`
	DBPort            string `envconfig:"DB_PORT" default:"3306"`
	DBDatabase        string `envconfig:"DB_DATABASE"`
	DBUser            string `envconfig:"DB_USER"`
	DBPassword        string `envconfig:"DB_PASSWORD"`
	DBConnectionLimit int    `envconfig:"DB_CONNECTION_LIMIT" default:"5"`
	DBLogLevel        string `envconfig:"DB_LOG_LEVEL" default:"warn"`

	// Authorizer configuration
	AuthMode      string `envconfig:"AUTH_MODE" default:"authorizer"`
	AuthzURL      string `envconfig:"AUTHZ_URL"`
	AuthzClientID string `envconfig:"AUTHZ_CLIENT_ID"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Maximum entry and record notes length, longer notes are rejected
	NotesMaxLength int `envconfig:"NOTES_MAX_LENGTH" default:"500"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields for the selected database and auth modes
func (c *Config) Validate() error {
	if c.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}

	switch c.DBType {
	case "sqlite", "sqlite-go":
	case "mysql", "mariadb", "postgres", "postgresql", "sqlserver", "mssql":
		if c.DBUser == "" {
			return fmt.Errorf("DB_USER is required for DB_TYPE %s", c.DBType)
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", c.DBType)
	}

	switch c.AuthMode {
	case AuthModeAuthorizer:
		if c.AuthzURL == "" {
			return fmt.Errorf("AUTHZ_URL is required")
		}
		if c.AuthzClientID == "" {
			return fmt.Errorf("AUTHZ_CLIENT_ID is required")
		}
	case AuthModeHeader:
	default:
		return fmt.Errorf("unsupported AUTH_MODE: %s", c.AuthMode)
	}

	if c.NotesMaxLength <= 0 || c.NotesMaxLength > NotesColumnLength {
		return fmt.Errorf("NOTES_MAX_LENGTH must be between 1 and %d", NotesColumnLength)
	}

	return nil
}

// IsSQLite reports whether the configured database is a file backed SQLite database
func (c *Config) IsSQLite() bool {
	return c.DBType == "sqlite" || c.DBType == "sqlite-go"
}
