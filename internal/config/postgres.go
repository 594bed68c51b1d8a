package config

import (
	"fmt"
)

// PostgresConfig holds the connection settings of the results database
type PostgresConfig struct {
	User     string
	Password string
	Database string
	Host     string
	SSLMode  string
}

// LoadPostgresConfig loads results database configuration from environment
// variables. A nil config without error means recording is disabled.
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	config := &PostgresConfig{
		User:     getenv("POSTGRES_USER"),
		Password: getenv("POSTGRES_PASSWORD"),
		Database: getenv("POSTGRES_DB"),
		Host:     getenv("POSTGRES_HOSTNAME"),
		SSLMode:  getenv("POSTGRES_SSLMODE"),
	}

	if config.Host == "" {
		return nil, nil
	}

	// The remaining fields are only required once a host is configured
	if config.User == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required when POSTGRES_HOSTNAME is set")
	}
	if config.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required when POSTGRES_HOSTNAME is set")
	}
	if config.Database == "" {
		return nil, fmt.Errorf("POSTGRES_DB is required when POSTGRES_HOSTNAME is set")
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Database, c.SSLMode)
}
