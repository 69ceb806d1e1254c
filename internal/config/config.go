// Package config loads the dashboard settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the public Open-Meteo endpoints.
const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// Config contains all runtime settings.
type Config struct {
	Port                  string
	Origin                string
	GeocodingURL          string
	ForecastURL           string
	DisplayLocale         string
	HTTPTimeout           time.Duration
	UpstreamRPS           float64
	UpstreamBurst         int
	MaxConcurrentSearches int64
	SessionTTL            time.Duration
	LogLevel              string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Origin:        getEnv("ORIGIN", "*"),
		GeocodingURL:  getEnv("GEOCODING_URL", DefaultGeocodingURL),
		ForecastURL:   getEnv("FORECAST_URL", DefaultForecastURL),
		DisplayLocale: getEnv("DISPLAY_LOCALE", "pt-BR"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	var err error

	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	rps := getEnv("UPSTREAM_RPS", "5")
	if cfg.UpstreamRPS, err = strconv.ParseFloat(rps, 64); err != nil || cfg.UpstreamRPS <= 0 {
		return nil, fmt.Errorf("UPSTREAM_RPS must be a positive number, got %q", rps)
	}

	burst := getEnv("UPSTREAM_BURST", "10")
	if cfg.UpstreamBurst, err = strconv.Atoi(burst); err != nil || cfg.UpstreamBurst < 1 {
		return nil, fmt.Errorf("UPSTREAM_BURST must be a positive integer, got %q", burst)
	}

	maxSearches := getEnv("MAX_CONCURRENT_SEARCHES", "16")
	if cfg.MaxConcurrentSearches, err = strconv.ParseInt(maxSearches, 10, 64); err != nil || cfg.MaxConcurrentSearches < 1 {
		return nil, fmt.Errorf("MAX_CONCURRENT_SEARCHES must be a positive integer, got %q", maxSearches)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}

	return d, nil
}
