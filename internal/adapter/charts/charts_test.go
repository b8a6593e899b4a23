package charts

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/analysis"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), len(pngMagic))
	assert.Equal(t, pngMagic, data[:len(pngMagic)])
}

func TestRenderer_RenderDaily(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, slog.Default())

	daily := dataframe.New(
		series.New([]string{"2017-01-01", "2017-01-02", "2017-01-03", "2017-01-04"}, series.String, domain.CrimeDate),
		series.New([]float64{12, 7, 15, 9}, series.Float, domain.ColCount),
	)

	// New Year's Day is in the data and gets a holiday mark; the rest of the
	// civic calendar falls outside it and is skipped.
	path, err := r.RenderDaily(daily, "2017", domain.Holidays("2017"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "daily_counts_2017.png"), path)
	assertPNG(t, path)
}

func TestRenderer_RenderDaily_Empty(t *testing.T) {
	r := NewRenderer(t.TempDir(), slog.Default())

	daily := dataframe.New(
		series.New([]string{}, series.String, domain.CrimeDate),
		series.New([]float64{}, series.Float, domain.ColCount),
	)

	path, err := r.RenderDaily(daily, "1990", domain.Holidays("1990"))
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestRenderer_RenderDaily_MissingColumn(t *testing.T) {
	r := NewRenderer(t.TempDir(), slog.Default())

	broken := dataframe.New(series.New([]string{"2017-01-01"}, series.String, domain.CrimeDate))
	_, err := r.RenderDaily(broken, "2017", nil)

	var missing *domain.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, domain.ColCount, missing.Column)
}

func TestRenderer_RenderHeatmap(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, slog.Default())

	pivot := analysis.PivotTable{
		Unit:    domain.UnitYear,
		Rows:    []string{"Investigate Property", "Larceny"},
		Columns: []string{"2015", "2016"},
		Cells: [][]float64{
			{math.NaN(), 1},
			{1, 2},
		},
	}

	path, err := r.RenderHeatmap(pivot)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pivot_year.png"), path)
	assertPNG(t, path)
}

func TestRenderer_RenderHeatmap_Empty(t *testing.T) {
	r := NewRenderer(t.TempDir(), slog.Default())

	path, err := r.RenderHeatmap(analysis.PivotTable{Unit: domain.UnitHour})
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestRenderer_RenderBuckets(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, slog.Default())

	buckets := dataframe.New(
		series.New([]int{6, 8, 11}, series.Int, domain.ColBucket),
		series.New([]float64{50, 25, 30}, series.Float, domain.ColCrimeCount),
	)

	path, err := r.RenderBuckets(buckets, domain.BuildingPctLow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "income_buckets_low.png"), path)
	assertPNG(t, path)
}

func TestRenderer_RenderShares(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, slog.Default())

	shares := analysis.ShareSeries{
		Years: []string{"2015", "2016", "2017", "2018", "2019", "2020"},
		Names: []string{"LARCENY ALL OTHERS", "TOWED MOTOR VEHICLE"},
		Series: map[string][]float64{
			"LARCENY ALL OTHERS":  {8.1, 7.9, 7.5, 7.2, 6.8, 6.1},
			"TOWED MOTOR VEHICLE": {4.2, 4.0, 3.8, 3.9, 3.1, 2.4},
		},
	}

	path, err := r.RenderShares(shares)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "offense_shares.png"), path)
	assertPNG(t, path)
}
