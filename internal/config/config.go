package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Log output formats accepted by LOG_FORMAT.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	CrimeCSV     string
	WeatherCSV   string
	BuildingsCSV string
	OutDir       string

	HolidayYears []string
	Materialize  bool
	Charts       bool

	DiagAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	LoaderCacheSize int
}

// DiagEnabled reports whether the diagnostics HTTP server should run.
// An empty DIAG_ADDR leaves it off.
func (c *Config) DiagEnabled() bool {
	return c.DiagAddr != ""
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("LOADER_CACHE_SIZE", 8)
	if err != nil {
		return nil, err
	}

	holidayYears, err := parseHolidayYears(envOrDefault("HOLIDAY_YEARS", "2016"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CrimeCSV:     envOrDefault("CRIME_CSV", "data/modified_boston_crime.csv"),
		WeatherCSV:   envOrDefault("WEATHER_CSV", "data/boston_weather.csv"),
		BuildingsCSV: envOrDefault("BUILDINGS_CSV", "data/boston_buildings.csv"),
		OutDir:       envOrDefault("OUT_DIR", "out"),

		HolidayYears: holidayYears,
		Materialize:  envFlag("MATERIALIZE", true),
		Charts:       envFlag("CHARTS_ENABLED", true),

		DiagAddr:        os.Getenv("DIAG_ADDR"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", LogFormatJSON),
		ShutdownTimeout: shutdownTimeout,

		LoaderCacheSize: cacheSize,
	}

	if cfg.CrimeCSV == "" {
		return nil, errors.New("CRIME_CSV is required")
	}
	if cfg.WeatherCSV == "" {
		return nil, errors.New("WEATHER_CSV is required")
	}
	if cfg.BuildingsCSV == "" {
		return nil, errors.New("BUILDINGS_CSV is required")
	}
	if cfg.OutDir == "" {
		return nil, errors.New("OUT_DIR is required")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case LogFormatJSON, LogFormatText:
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envFlag reads a boolean env var; anything other than "true" disables when
// the variable is set, and absence keeps the default.
func envFlag(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true"
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return n, nil
}

// parseHolidayYears splits the comma-separated year list and insists on
// four-digit years, since date filtering matches on the ISO year prefix.
func parseHolidayYears(raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	years := make([]string, 0, len(parts))
	for _, p := range parts {
		year := strings.TrimSpace(p)
		if year == "" {
			continue
		}
		if len(year) != 4 {
			return nil, fmt.Errorf("invalid HOLIDAY_YEARS entry %q", year)
		}
		if _, err := strconv.Atoi(year); err != nil {
			return nil, fmt.Errorf("invalid HOLIDAY_YEARS entry %q", year)
		}
		years = append(years, year)
	}
	if len(years) == 0 {
		return nil, errors.New("HOLIDAY_YEARS is required")
	}
	return years, nil
}
