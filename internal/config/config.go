package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// weatherapi.com client configuration.
	WeatherAPIKey     string
	WeatherAPIBaseURL string
	WeatherAPILang    string
	WeatherAPITimeout time.Duration

	// Snapshot cache; a zero TTL disables it.
	CacheTTL  time.Duration
	CacheSize int

	EnforceLocations bool

	// Lookup event publishing; disabled when KafkaBrokers is empty.
	KafkaBrokers     []string
	KafkaLookupTopic string

	ZipkinURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("WEATHERAPI_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid WEATHERAPI_TIMEOUT")
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("WEATHER_CACHE_TTL", "0s"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid WEATHER_CACHE_TTL")
	}

	port, err := parsePort(sharedcfg.EnvOrDefault("PORT", "8000"))
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        ":" + port,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WeatherAPIKey:     os.Getenv("WEATHERAPI_KEY"),
		WeatherAPIBaseURL: sharedcfg.EnvOrDefault("WEATHERAPI_BASE_URL", "https://api.weatherapi.com/v1"),
		WeatherAPILang:    sharedcfg.EnvOrDefault("WEATHERAPI_LANG", "pl"),
		WeatherAPITimeout: timeout,

		CacheTTL:  cacheTTL,
		CacheSize: parseCacheSize(),

		EnforceLocations: os.Getenv("ENFORCE_LOCATIONS") == "true",

		KafkaBrokers:     brokers,
		KafkaLookupTopic: sharedcfg.EnvOrDefault("KAFKA_LOOKUP_TOPIC", "weather-lookups"),

		ZipkinURL: os.Getenv("ZIPKIN_URL"),
	}

	if cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHERAPI_KEY is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaLookupTopic == "" {
		return nil, errors.New("KAFKA_LOOKUP_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// EventsEnabled reports whether lookup events should be published.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePort(s string) (string, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return "", errors.New("invalid PORT")
	}
	return strconv.Itoa(n), nil
}

func parseCacheSize() int {
	if s := os.Getenv("WEATHER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
