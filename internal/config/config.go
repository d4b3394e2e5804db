package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPAddr       = ":8080"
	defaultSessionTTL     = "12h"
	defaultCookieName     = "wp_session"
	defaultCookieSecure   = "false"
	defaultCookieSameSite = "Lax"
	defaultStorageDir     = "./storage"
	defaultStorageURLBase = "/storage"
	defaultSessionSecret  = "change-me-session-secret"
)

// Config is the full runtime configuration, read from the environment once
// at startup. DATABASE_URL and CORE_DATABASE_URL are the only required keys.
type Config struct {
	AppEnv          string
	HTTPAddr        string
	DatabaseURL     string
	CoreDatabaseURL string

	SessionSecret  string
	SessionTTL     time.Duration
	CookieName     string
	CookieSecure   bool
	CookieSameSite string

	StorageDir     string
	StorageURLBase string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = envOr("HTTP_ADDR", defaultHTTPAddr)

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	cfg.CoreDatabaseURL = strings.TrimSpace(os.Getenv("CORE_DATABASE_URL"))
	if cfg.CoreDatabaseURL == "" {
		return nil, fmt.Errorf("CORE_DATABASE_URL is required")
	}

	cfg.SessionSecret = envOr("SESSION_SECRET", defaultSessionSecret)
	if cfg.AppEnv == "prod" && cfg.SessionSecret == defaultSessionSecret {
		return nil, fmt.Errorf("SESSION_SECRET must be set in prod")
	}

	ttl, err := time.ParseDuration(envOr("SESSION_TTL", defaultSessionTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	cfg.CookieName = envOr("SESSION_COOKIE_NAME", defaultCookieName)
	secure, err := strconv.ParseBool(envOr("SESSION_COOKIE_SECURE", defaultCookieSecure))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_COOKIE_SECURE: %w", err)
	}
	cfg.CookieSecure = secure
	cfg.CookieSameSite = envOr("SESSION_COOKIE_SAMESITE", defaultCookieSameSite)

	cfg.StorageDir = envOr("STORAGE_DIR", defaultStorageDir)
	cfg.StorageURLBase = envOr("STORAGE_URL_BASE", defaultStorageURLBase)

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
