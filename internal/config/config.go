// Package config loads service settings from the environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultOEMSourceURL is NASA's public ISS ephemeris feed.
const DefaultOEMSourceURL = "https://nasa-public-data.s3.amazonaws.com/iss-coords/current/ISS_OEM/ISS.OEM_J2K_EPH.xml"

// DefaultGeocodeURL is the public Nominatim instance.
const DefaultGeocodeURL = "https://nominatim.openstreetmap.org"

// Config holds all service settings, populated from environment
// variables and optionally overridden by a YAML config file.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	Debug           bool

	// Ephemeris feed configuration.
	OEMSourceURL    string
	FetchTimeout    time.Duration
	FetchOnStart    bool
	RefreshInterval time.Duration // zero disables periodic refresh

	// Nominatim reverse geocoding configuration.
	GeocodeEnabled   bool
	GeocodeURL       string
	GeocodeTimeout   time.Duration
	GeocodeCacheSize int
	GeocodeLanguage  string
	GeocodeZoom      int
	GeocodeUserAgent string

	// Kafka refresh announcement configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset, then layers the optional config file on top.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	geocodeTimeout, err := parsePositiveDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	refreshInterval, err := time.ParseDuration(envOrDefault("REFRESH_INTERVAL", "0s"))
	if err != nil || refreshInterval < 0 {
		return nil, errors.New("invalid REFRESH_INTERVAL")
	}

	kafkaBrokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		Debug:           os.Getenv("DEBUG") == "true",

		OEMSourceURL:    envOrDefault("OEM_SOURCE_URL", DefaultOEMSourceURL),
		FetchTimeout:    fetchTimeout,
		FetchOnStart:    envOrDefault("FETCH_ON_START", "true") == "true",
		RefreshInterval: refreshInterval,

		GeocodeEnabled:   envOrDefault("GEOCODE_ENABLED", "true") == "true",
		GeocodeURL:       envOrDefault("GEOCODE_URL", DefaultGeocodeURL),
		GeocodeTimeout:   geocodeTimeout,
		GeocodeCacheSize: parsePositiveInt("GEOCODE_CACHE_SIZE", 1000),
		GeocodeLanguage:  envOrDefault("GEOCODE_LANG", "en"),
		GeocodeZoom:      parsePositiveInt("GEOCODE_ZOOM", 18),
		GeocodeUserAgent: envOrDefault("GEOCODE_USER_AGENT", "surfwax-iss/1.0 (github.com/dhannywi/surfwax-iss)"),

		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "iss-ephemeris-refresh"),
		KafkaEnabled: kafkaEnabled,
	}

	if err := applyFile(cfg, envOrDefault("CONFIG_FILE", "surfwax.yaml")); err != nil {
		return nil, err
	}

	if cfg.OEMSourceURL == "" {
		return nil, errors.New("OEM_SOURCE_URL is required")
	}
	if cfg.GeocodeEnabled && cfg.GeocodeURL == "" {
		return nil, errors.New("GEOCODE_ENABLED is true but GEOCODE_URL is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// fileConfig mirrors the optional YAML config file. Values set in the
// file take precedence over environment variables.
type fileConfig struct {
	Debug     *bool  `yaml:"debug"`
	HTTPAddr  string `yaml:"http_addr"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// applyFile layers the config file over cfg. The file is optional: a
// missing or unreadable file keeps the environment values. A file that
// exists but does not parse is an error.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	if fc.HTTPAddr != "" {
		cfg.HTTPAddr = fc.HTTPAddr
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
