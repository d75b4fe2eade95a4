// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. In development an
optional .env file is loaded first through 'joho/godotenv'.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (API client, session manager) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Profile Failure Policies

const (
	// ProfileFailureKeep leaves the user authenticated with zero grants.
	ProfileFailureKeep = "keep"

	// ProfileFailureLogout ends the session when the profile cannot be fetched.
	ProfileFailureLogout = "logout"
)

// # Configuration Schema

// Config holds all runtime configuration for the Realty web server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Backend REST API
	APIBaseURL string        `env:"API_BASE_URL,required,notEmpty"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// The backend serves departments under two spellings.
	APIDepartmentsPath string `env:"API_DEPARTMENTS_PATH" envDefault:"/api/departaments"`

	// Key-Value store for persisted bearer tokens. Empty means in-memory.
	RedisURL string `env:"REDIS_URL"`

	// Browser session settings
	SessionCookie string        `env:"SESSION_COOKIE" envDefault:"realty_sid"`
	SessionTTL    time.Duration `env:"SESSION_TTL"    envDefault:"24h"`
	SessionWait   time.Duration `env:"SESSION_WAIT"   envDefault:"2s"`
	CookieSecure  bool          `env:"COOKIE_SECURE"  envDefault:"false"`

	// Profile rehydration
	ProfileTimeout       time.Duration `env:"PROFILE_TIMEOUT"        envDefault:"5s"`
	ProfileFailurePolicy string        `env:"PROFILE_FAILURE_POLICY" envDefault:"keep"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ProfileFailurePolicy {
	case ProfileFailureKeep, ProfileFailureLogout:
	default:
		return fmt.Errorf("config: PROFILE_FAILURE_POLICY must be %q or %q, got %q",
			ProfileFailureKeep, ProfileFailureLogout, c.ProfileFailurePolicy)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LogLevel returns the minimum log level: debug in development or with
// DEBUG set, info otherwise.
func (c *Config) LogLevel() slog.Level {
	if c.Debug || c.IsDevelopment() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// SecureCookies reports whether cookies carry the Secure flag. Production
// always does, whatever COOKIE_SECURE says.
func (c *Config) SecureCookies() bool {
	return c.CookieSecure || c.IsProduction()
}

// LogoutOnProfileFailure reports whether a failed profile fetch ends the session.
func (c *Config) LogoutOnProfileFailure() bool {
	return c.ProfileFailurePolicy == ProfileFailureLogout
}
