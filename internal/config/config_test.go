package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hazard-fusion/internal/config"
	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

// clearEnv unsets every variable Load reads so a developer's shell doesn't
// bleed into the defaults under test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_TIMEOUT",
		"POLL_INTERVAL", "SOURCE_TIMEOUT",
		"SEISMIC_ENABLED", "SEISMIC_URL", "WEATHER_ENABLED", "WEATHER_URL",
		"FIRE_ENABLED", "FIRE_URL",
		"NEWS_ENABLED", "NEWS_FEEDS",
		"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_SINK_TOPIC",
		"STORAGE_DRIVER", "STORAGE_DSN", "RULES_FILE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key) //nolint:errcheck
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.SourceTimeout)

	assert.True(t, cfg.SeismicEnabled)
	assert.True(t, cfg.WeatherEnabled)
	assert.True(t, cfg.FireEnabled)
	assert.False(t, cfg.NewsEnabled)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.StorageDriver)

	assert.Equal(t, domain.DefaultRules(), cfg.Rules)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("POLL_INTERVAL", "90s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "hazards")
	t.Setenv("NEWS_ENABLED", "true")
	t.Setenv("NEWS_FEEDS", "https://a.example/rss,https://b.example/rss")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.PollInterval)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "hazards", cfg.KafkaSinkTopic)
	assert.Equal(t, []string{"https://a.example/rss", "https://b.example/rss"}, cfg.NewsFeeds)
}

func TestLoad_RulesFileOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"min_magnitude: 5.0\nfire_min_confidence: 90\n"), 0o600))
	t.Setenv("RULES_FILE", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Rules.MinMagnitude)
	assert.Equal(t, 90.0, cfg.Rules.FireMinConfidence)
	// Untouched fields keep their defaults.
	assert.Equal(t, domain.DefaultRules().FireMinFRP, cfg.Rules.FireMinFRP)
	assert.Equal(t, domain.DefaultRules().WarningEventKinds, cfg.Rules.WarningEventKinds)
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid poll interval", map[string]string{"POLL_INTERVAL": "soon"}},
		{"negative shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "-5s"}},
		{"all sources disabled", map[string]string{
			"SEISMIC_ENABLED": "false", "WEATHER_ENABLED": "false", "FIRE_ENABLED": "false",
		}},
		{"news enabled without feeds", map[string]string{"NEWS_ENABLED": "true"}},
		{"kafka enabled with blank broker list", map[string]string{
			"KAFKA_ENABLED": "true", "KAFKA_BROKERS": " , ",
		}},
		{"unknown storage driver", map[string]string{
			"STORAGE_DRIVER": "dynamo", "STORAGE_DSN": "x",
		}},
		{"storage driver without dsn", map[string]string{"STORAGE_DRIVER": "sqlite"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_AcceptsEveryStorageDriverAlias(t *testing.T) {
	// Every name storage.NewStore accepts must pass validation here too.
	for _, driver := range []string{"sqlite", "postgres", "postgresql", "POSTGRESQL"} {
		t.Run(driver, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("STORAGE_DRIVER", driver)
			t.Setenv("STORAGE_DSN", ":memory:")
			_, err := config.Load()
			require.NoError(t, err)
		})
	}
}

func TestLoad_InvalidRulesFileIsFatal(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_magnitude: -2\n"), 0o600))
	t.Setenv("RULES_FILE", path)

	_, err := config.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}
