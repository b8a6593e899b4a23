package csvfile

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

const crimeCSV = `OCCURRED_ON_DATE,OFFENSE_CODE,OFFENSE_CODE_GROUP,OFFENSE_DESCRIPTION,STREET,YEAR,HOUR,DAY_OF_WEEK
2016-01-01,00619,Larceny,LARCENY ALL OTHERS,WASHINGTON ST,2016,09,Friday
2016-01-02,03114,Investigate Property,INVESTIGATE PROPERTY,CENTRE ST,2016,14,Saturday
`

const weatherCSV = `STATION,NAME,DATE,PRCP,SNOW,TAVG
USW00014739,"BOSTON, MA US",2016-01-01,0.00,0.0,41
USW00014739,"BOSTON, MA US",2016-01-02,0.15,0.0,26
`

const buildingsCSV = `ID,TYPOLOGY,ST_NAME,ST_NAME_SUF,PCT_INCOME_LOW,PCT_INCOME_MID,PCT_INCOME_HIGH
B1,Residential,WASHINGTON,ST,40.5,35,24.5
B2,Commercial,CENTRE,ST,55,30,15
`

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadCrime(t *testing.T) {
	l := NewLoader(slog.Default())

	df, err := l.LoadCrime(context.Background(), writeDataset(t, "crime.csv", crimeCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, domain.CrimeColumns(), df.Names())

	// Codes and hours keep their leading zeros: nothing is type-detected.
	assert.Equal(t, []string{"00619", "03114"}, df.Col(domain.CrimeOffenseCode).Records())
	assert.Equal(t, []string{"09", "14"}, df.Col(domain.CrimeHour).Records())
}

func TestLoader_LoadCrime_MissingColumn(t *testing.T) {
	l := NewLoader(slog.Default())
	path := writeDataset(t, "crime.csv", "OCCURRED_ON_DATE,OFFENSE_CODE\n2016-01-01,619\n")

	_, err := l.LoadCrime(context.Background(), path)

	var missing *domain.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "crime", missing.Table)
	assert.Equal(t, domain.CrimeOffenseGroup, missing.Column)
}

func TestLoader_LoadWeather(t *testing.T) {
	l := NewLoader(slog.Default())

	df, err := l.LoadWeather(context.Background(), writeDataset(t, "weather.csv", weatherCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, df.Nrow())
	// Measures are strings exactly as read, including the bare-integer TAVG.
	assert.Equal(t, series.String, df.Col(domain.WeatherAvgTemp).Type())
	assert.Equal(t, []string{"41", "26"}, df.Col(domain.WeatherAvgTemp).Records())
	assert.Equal(t, []string{"0.00", "0.15"}, df.Col(domain.WeatherPrecip).Records())
}

func TestLoader_LoadBuildings(t *testing.T) {
	l := NewLoader(slog.Default())

	df, err := l.LoadBuildings(context.Background(), writeDataset(t, "buildings.csv", buildingsCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, series.String, df.Col(domain.BuildingID).Type())

	// Income shares load as floats for the bucket arithmetic.
	assert.Equal(t, series.Float, df.Col(domain.BuildingPctLow).Type())
	assert.Equal(t, []float64{40.5, 55}, df.Col(domain.BuildingPctLow).Float())
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader(slog.Default())

	_, err := l.LoadCrime(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}

func TestLoader_ContextCancelled(t *testing.T) {
	l := NewLoader(slog.Default())
	path := writeDataset(t, "crime.csv", crimeCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.LoadCrime(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}
