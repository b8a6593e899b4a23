// Package csvfile keeps all dataset file I/O behind the pipeline's loader and
// writer interfaces: gota-backed CSV reads with schema validation on the way
// in, artifact CSV writes on the way out.
package csvfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// Loader reads the source datasets from disk. Columns load as strings unless
// the dataset schema says otherwise, so values survive joins unchanged.
// It implements pipeline.DatasetLoader.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a dataset loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadCrime reads the crime incident dataset and validates its schema.
func (l *Loader) LoadCrime(ctx context.Context, path string) (dataframe.DataFrame, error) {
	df, err := l.load(ctx, path, stringOptions()...)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := domain.RequireColumns(df, "crime", domain.CrimeColumns()...); err != nil {
		return dataframe.DataFrame{}, err
	}
	return df, nil
}

// LoadWeather reads the daily weather dataset and validates its schema.
// Measures stay strings; the distribution check parses them itself.
func (l *Loader) LoadWeather(ctx context.Context, path string) (dataframe.DataFrame, error) {
	df, err := l.load(ctx, path, stringOptions()...)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := domain.RequireColumns(df, "weather", domain.WeatherColumns()...); err != nil {
		return dataframe.DataFrame{}, err
	}
	return df, nil
}

// LoadBuildings reads the building inventory. The income share columns load
// as floats because the bucket analysis does arithmetic on them directly.
func (l *Loader) LoadBuildings(ctx context.Context, path string) (dataframe.DataFrame, error) {
	opts := append(stringOptions(), dataframe.WithTypes(map[string]series.Type{
		domain.BuildingPctLow:  series.Float,
		domain.BuildingPctMid:  series.Float,
		domain.BuildingPctHigh: series.Float,
	}))
	df, err := l.load(ctx, path, opts...)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := domain.RequireColumns(df, "buildings", domain.BuildingColumns()...); err != nil {
		return dataframe.DataFrame{}, err
	}
	return df, nil
}

func (l *Loader) load(ctx context.Context, path string, opts ...dataframe.LoadOption) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, opts...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", filepath.Base(path), df.Err)
	}

	l.logger.Debug("dataset loaded", "path", path, "rows", df.Nrow(), "columns", df.Ncol())
	return df, nil
}

func stringOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	}
}
