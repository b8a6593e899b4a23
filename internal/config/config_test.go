package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/modified_boston_crime.csv", cfg.CrimeCSV)
	assert.Equal(t, "data/boston_weather.csv", cfg.WeatherCSV)
	assert.Equal(t, "data/boston_buildings.csv", cfg.BuildingsCSV)
	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, []string{"2016"}, cfg.HolidayYears)
	assert.True(t, cfg.Materialize)
	assert.True(t, cfg.Charts)
	assert.Empty(t, cfg.DiagAddr)
	assert.False(t, cfg.DiagEnabled())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 8, cfg.LoaderCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("CRIME_CSV", "/data/crime.csv")
	t.Setenv("WEATHER_CSV", "/data/weather.csv")
	t.Setenv("BUILDINGS_CSV", "/data/buildings.csv")
	t.Setenv("OUT_DIR", "/tmp/artifacts")
	t.Setenv("HOLIDAY_YEARS", "2016, 2017,2018")
	t.Setenv("MATERIALIZE", "false")
	t.Setenv("CHARTS_ENABLED", "false")
	t.Setenv("DIAG_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("LOADER_CACHE_SIZE", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/crime.csv", cfg.CrimeCSV)
	assert.Equal(t, "/data/weather.csv", cfg.WeatherCSV)
	assert.Equal(t, "/data/buildings.csv", cfg.BuildingsCSV)
	assert.Equal(t, "/tmp/artifacts", cfg.OutDir)
	assert.Equal(t, []string{"2016", "2017", "2018"}, cfg.HolidayYears)
	assert.False(t, cfg.Materialize)
	assert.False(t, cfg.Charts)
	assert.Equal(t, ":9090", cfg.DiagAddr)
	assert.True(t, cfg.DiagEnabled())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 3, cfg.LoaderCacheSize)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidLoaderCacheSize(t *testing.T) {
	t.Setenv("LOADER_CACHE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOADER_CACHE_SIZE")
}

func TestLoad_InvalidHolidayYears(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"two digit year", "16"},
		{"not a number", "twenty"},
		{"only separators", ", ,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOLIDAY_YEARS", tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "HOLIDAY_YEARS")
		})
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}
