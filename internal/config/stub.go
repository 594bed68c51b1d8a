package config

import (
	"fmt"
	"time"
)

// StubConfig holds settings for the local storefront replica
type StubConfig struct {
	Port string
	// GlitchDelay is how long the storefront stalls for the performance
	// glitch account
	GlitchDelay time.Duration
}

// LoadStubConfig loads stub storefront configuration from environment variables
func LoadStubConfig(getenv func(string) string) (StubConfig, error) {
	config := StubConfig{
		Port:        getenv("SWAG_STUB_PORT"),
		GlitchDelay: 500 * time.Millisecond,
	}
	if config.Port == "" {
		config.Port = "8080"
	}

	if v := getenv("SWAG_STUB_GLITCH_DELAY"); v != "" {
		delay, err := time.ParseDuration(v)
		if err != nil {
			return config, fmt.Errorf("SWAG_STUB_GLITCH_DELAY must be a duration: %w", err)
		}
		config.GlitchDelay = delay
	}

	return config, nil
}
