package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/hazard-fusion/internal/domain"
)

// Config holds all service settings, populated from environment variables.
// Fusion rules may additionally be overridden from a YAML file via RULES_FILE.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	PollInterval  time.Duration
	SourceTimeout time.Duration

	// Per-feed toggles and endpoint overrides.
	SeismicEnabled bool
	SeismicURL     string
	WeatherEnabled bool
	WeatherURL     string
	FireEnabled    bool
	FireURL        string

	NewsEnabled bool
	NewsFeeds   []string

	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	// StorageDriver selects the persistence backend: "sqlite", "postgres",
	// or empty to disable persistence.
	StorageDriver string
	StorageDSN    string

	RulesFile string
	Rules     domain.Rules
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parseDuration("POLL_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	sourceTimeout, err := parseDuration("SOURCE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		PollInterval:    pollInterval,
		SourceTimeout:   sourceTimeout,

		SeismicEnabled: envBool("SEISMIC_ENABLED", true),
		SeismicURL:     os.Getenv("SEISMIC_URL"),
		WeatherEnabled: envBool("WEATHER_ENABLED", true),
		WeatherURL:     os.Getenv("WEATHER_URL"),
		FireEnabled:    envBool("FIRE_ENABLED", true),
		FireURL:        os.Getenv("FIRE_URL"),

		NewsEnabled: envBool("NEWS_ENABLED", false),
		NewsFeeds:   splitList(os.Getenv("NEWS_FEEDS")),

		KafkaEnabled:   envBool("KAFKA_ENABLED", false),
		KafkaBrokers:   splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "fused-hazard-events"),

		StorageDriver: os.Getenv("STORAGE_DRIVER"),
		StorageDSN:    os.Getenv("STORAGE_DSN"),

		RulesFile: os.Getenv("RULES_FILE"),
		Rules:     domain.DefaultRules(),
	}

	if cfg.RulesFile != "" {
		if err := loadRules(cfg.RulesFile, &cfg.Rules); err != nil {
			return nil, err
		}
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}

	if !cfg.SeismicEnabled && !cfg.WeatherEnabled && !cfg.FireEnabled {
		return nil, errors.New("at least one event source must be enabled")
	}
	if cfg.NewsEnabled && len(cfg.NewsFeeds) == 0 {
		return nil, errors.New("NEWS_ENABLED is true but NEWS_FEEDS is not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
		}
	}
	// Accepted drivers mirror storage.NewStore.
	switch strings.ToLower(cfg.StorageDriver) {
	case "", "sqlite", "postgres", "postgresql":
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.StorageDriver != "" && cfg.StorageDSN == "" {
		return nil, errors.New("STORAGE_DRIVER is set but STORAGE_DSN is not")
	}

	return cfg, nil
}

// loadRules overlays rule settings from a YAML file onto the defaults.
func loadRules(path string, rules *domain.Rules) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
