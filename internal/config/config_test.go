package config

import (
	"testing"
	"time"

	"github.com/tj/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ORIGIN", "GEOCODING_URL", "FORECAST_URL", "DISPLAY_LOCALE", "LOG_LEVEL",
		"HTTP_TIMEOUT", "SESSION_TTL", "UPSTREAM_RPS", "UPSTREAM_BURST", "MAX_CONCURRENT_SEARCHES",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	assert.Nil(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "*", cfg.Origin)
	assert.Equal(t, DefaultGeocodingURL, cfg.GeocodingURL)
	assert.Equal(t, DefaultForecastURL, cfg.ForecastURL)
	assert.Equal(t, "pt-BR", cfg.DisplayLocale)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5.0, cfg.UpstreamRPS)
	assert.Equal(t, 10, cfg.UpstreamBurst)
	assert.Equal(t, int64(16), cfg.MaxConcurrentSearches)
}

func TestFromEnvInvalid(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad timeout", key: "HTTP_TIMEOUT", value: "soon"},
		{name: "negative ttl", key: "SESSION_TTL", value: "-1m"},
		{name: "zero rps", key: "UPSTREAM_RPS", value: "0"},
		{name: "bad burst", key: "UPSTREAM_BURST", value: "many"},
		{name: "zero searches", key: "MAX_CONCURRENT_SEARCHES", value: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := FromEnv()
			assert.NotNil(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}
