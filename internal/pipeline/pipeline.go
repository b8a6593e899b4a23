// Package pipeline orchestrates the analytics run: an explicit ordered list
// of stages over shared artifacts, fail-fast on the first error.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/analysis"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/observability"
)

// DatasetLoader reads the three source datasets.
type DatasetLoader interface {
	LoadCrime(ctx context.Context, path string) (dataframe.DataFrame, error)
	LoadWeather(ctx context.Context, path string) (dataframe.DataFrame, error)
	LoadBuildings(ctx context.Context, path string) (dataframe.DataFrame, error)
}

// TableWriter materializes one derived table and returns the artifact path.
type TableWriter interface {
	WriteTable(df dataframe.DataFrame, name string) (string, error)
}

// Renderer draws charts for run outputs and returns the written file path.
type Renderer interface {
	RenderDaily(daily dataframe.DataFrame, year string, holidays []domain.Holiday) (string, error)
	RenderHeatmap(pivot analysis.PivotTable) (string, error)
	RenderBuckets(buckets dataframe.DataFrame, incomeCol string) (string, error)
	RenderShares(shares analysis.ShareSeries) (string, error)
}

// Sources points at the dataset files for one run.
type Sources struct {
	CrimePath     string
	WeatherPath   string
	BuildingsPath string
}

// Options configure a run.
type Options struct {
	Sources      Sources
	HolidayYears []string
}

// StageResult records one completed stage.
type StageResult struct {
	Stage     string
	Rows      int
	Duration  time.Duration
	Artifacts []string
}

// RunSummary describes one pipeline run end to end.
type RunSummary struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Stages       []StageResult
	Distribution []string
}

// ArtifactCount sums materialized tables and rendered charts across stages.
func (s *RunSummary) ArtifactCount() int {
	var n int
	for _, st := range s.Stages {
		n += len(st.Artifacts)
	}
	return n
}

// Artifacts carries every table and summary a run produces, filled in stage
// by stage.
type Artifacts struct {
	Crime     dataframe.DataFrame
	Weather   dataframe.DataFrame
	Buildings dataframe.DataFrame

	NormalizedBuildings dataframe.DataFrame
	Combined            dataframe.DataFrame
	Distribution        []analysis.DistributionReport
	Daily               map[string]dataframe.DataFrame
	Pivots              map[domain.TimeUnit]analysis.PivotTable
	StreetCounts        dataframe.DataFrame
	StreetJoined        dataframe.DataFrame
	IncomeBuckets       map[string]dataframe.DataFrame
	TypologyShares      dataframe.DataFrame
	OffenseShares       analysis.ShareSeries
}

// Pipeline runs the ordered analysis stages. A nil writer disables table
// materialization and a nil renderer disables charts; the analysis itself
// always runs.
type Pipeline struct {
	loader   DatasetLoader
	writer   TableWriter
	renderer Renderer
	opts     Options
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// New creates a Pipeline with the given collaborators and observability.
func New(loader DatasetLoader, writer TableWriter, renderer Renderer, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:   loader,
		writer:   writer,
		renderer: renderer,
		opts:     opts,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once at least one stage has completed, or an
// error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed any stage yet")
	}
	return nil
}

// stage is one named unit of work over the shared artifacts.
type stage struct {
	name string
	run  func(ctx context.Context, arts *Artifacts) (rows int, artifacts []string, err error)
}

// Run executes every stage in order and stops at the first failure. There are
// no retries: rerunning the binary is the recovery path for a batch job.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: clock.Now(),
	}
	p.logger.Info("pipeline started",
		"run_id", summary.RunID,
		"holiday_years", strings.Join(p.opts.HolidayYears, ","),
		"materialize", p.writer != nil,
		"charts", p.renderer != nil,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	arts := &Artifacts{
		Daily:         make(map[string]dataframe.DataFrame),
		Pivots:        make(map[domain.TimeUnit]analysis.PivotTable),
		IncomeBuckets: make(map[string]dataframe.DataFrame),
	}
	stages := []stage{
		{"load datasets", p.loadDatasets},
		{"normalize buildings", p.normalizeBuildings},
		{"combine weather", p.combineWeather},
		{"check distribution", func(ctx context.Context, a *Artifacts) (int, []string, error) {
			return p.checkDistribution(a, summary)
		}},
		{"daily counts", p.dailyCounts},
		{"pivot counts", p.pivotCounts},
		{"street joins", p.streetJoins},
		{"income buckets", p.incomeBuckets},
		{"typology shares", p.typologyShares},
		{"offense shares", p.offenseShares},
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			p.logger.Info("pipeline stopping", "reason", err)
			return summary, err
		}
		if err := p.runStage(ctx, s, arts, summary); err != nil {
			return summary, err
		}
	}

	summary.FinishedAt = clock.Now()
	p.logger.Info("pipeline finished",
		"run_id", summary.RunID,
		"stages", len(summary.Stages),
		"artifacts", summary.ArtifactCount(),
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)
	return summary, nil
}

func (p *Pipeline) runStage(ctx context.Context, s stage, arts *Artifacts, summary *RunSummary) error {
	start := clock.Now()
	p.logger.Info("stage started", "stage", s.name)

	rows, artifacts, err := s.run(ctx, arts)
	duration := clock.Since(start)
	p.metrics.StageDuration.WithLabelValues(s.name).Observe(duration.Seconds())
	if err != nil {
		p.metrics.StageErrors.WithLabelValues(s.name).Inc()
		p.logger.Error("stage failed", "stage", s.name, "error", err)
		return fmt.Errorf("stage %s: %w", s.name, err)
	}

	summary.Stages = append(summary.Stages, StageResult{
		Stage:     s.name,
		Rows:      rows,
		Duration:  duration,
		Artifacts: artifacts,
	})
	p.ready.Store(true)
	p.logger.Info("stage finished", "stage", s.name, "rows", rows, "duration", duration)
	return nil
}

func (p *Pipeline) loadDatasets(ctx context.Context, arts *Artifacts) (int, []string, error) {
	crime, err := p.loader.LoadCrime(ctx, p.opts.Sources.CrimePath)
	if err != nil {
		return 0, nil, err
	}
	p.metrics.RowsLoaded.WithLabelValues("crime").Add(float64(crime.Nrow()))

	weather, err := p.loader.LoadWeather(ctx, p.opts.Sources.WeatherPath)
	if err != nil {
		return 0, nil, err
	}
	p.metrics.RowsLoaded.WithLabelValues("weather").Add(float64(weather.Nrow()))

	buildings, err := p.loader.LoadBuildings(ctx, p.opts.Sources.BuildingsPath)
	if err != nil {
		return 0, nil, err
	}
	p.metrics.RowsLoaded.WithLabelValues("buildings").Add(float64(buildings.Nrow()))

	arts.Crime = crime
	arts.Weather = weather
	arts.Buildings = buildings
	return crime.Nrow() + weather.Nrow() + buildings.Nrow(), nil, nil
}

func (p *Pipeline) normalizeBuildings(_ context.Context, arts *Artifacts) (int, []string, error) {
	normalized, err := analysis.NormalizeBuildings(arts.Buildings)
	if err != nil {
		return 0, nil, err
	}
	arts.NormalizedBuildings = normalized

	artifacts, err := p.materialize(normalized, "buildings_normalized")
	return normalized.Nrow(), artifacts, err
}

func (p *Pipeline) combineWeather(_ context.Context, arts *Artifacts) (int, []string, error) {
	combined, err := analysis.CombineWeather(arts.Crime, arts.Weather)
	if err != nil {
		return 0, nil, err
	}
	arts.Combined = combined

	artifacts, err := p.materialize(combined, "weather_crime")
	return combined.Nrow(), artifacts, err
}

func (p *Pipeline) checkDistribution(arts *Artifacts, summary *RunSummary) (int, []string, error) {
	reports, err := analysis.CheckDistribution(arts.Combined)
	if err != nil {
		return 0, nil, err
	}
	arts.Distribution = reports

	for _, r := range reports {
		line := r.Summary()
		summary.Distribution = append(summary.Distribution, line)
		p.logger.Info("distribution checked", "measure", r.Label, "summary", line)
	}
	return len(reports), nil, nil
}

func (p *Pipeline) dailyCounts(_ context.Context, arts *Artifacts) (int, []string, error) {
	var rows int
	var artifacts []string
	for _, year := range p.opts.HolidayYears {
		daily, err := analysis.DailyCounts(arts.Crime, year)
		if err != nil {
			return 0, nil, err
		}
		arts.Daily[year] = daily
		rows += daily.Nrow()

		written, err := p.materialize(daily, "daily_counts_"+year)
		if err != nil {
			return 0, nil, err
		}
		artifacts = append(artifacts, written...)

		if p.renderer != nil {
			path, err := p.renderer.RenderDaily(daily, year, domain.Holidays(year))
			if err != nil {
				return 0, nil, err
			}
			p.metrics.ChartsRendered.Inc()
			artifacts = append(artifacts, path)
		}
	}
	return rows, artifacts, nil
}

func (p *Pipeline) pivotCounts(_ context.Context, arts *Artifacts) (int, []string, error) {
	var rows int
	var artifacts []string
	for _, unit := range []domain.TimeUnit{domain.UnitYear, domain.UnitDay, domain.UnitHour} {
		pivot, err := analysis.PivotCounts(arts.Crime, unit)
		if err != nil {
			return 0, nil, err
		}
		arts.Pivots[unit] = pivot
		rows += len(pivot.Rows)

		written, err := p.materialize(pivot.Frame(), "pivot_"+string(unit))
		if err != nil {
			return 0, nil, err
		}
		artifacts = append(artifacts, written...)

		if p.renderer != nil {
			path, err := p.renderer.RenderHeatmap(pivot)
			if err != nil {
				return 0, nil, err
			}
			p.metrics.ChartsRendered.Inc()
			artifacts = append(artifacts, path)
		}
	}
	return rows, artifacts, nil
}

func (p *Pipeline) streetJoins(_ context.Context, arts *Artifacts) (int, []string, error) {
	counts, err := analysis.CrimeCountsByStreet(arts.Crime, "")
	if err != nil {
		return 0, nil, err
	}
	arts.StreetCounts = counts

	joined, err := analysis.JoinStreets(counts, arts.NormalizedBuildings)
	if err != nil {
		return 0, nil, err
	}
	arts.StreetJoined = joined

	artifacts, err := p.materialize(counts, "street_crime_counts")
	if err != nil {
		return 0, nil, err
	}
	more, err := p.materialize(joined, "street_crime_buildings")
	if err != nil {
		return 0, nil, err
	}
	return joined.Nrow(), append(artifacts, more...), nil
}

func (p *Pipeline) incomeBuckets(_ context.Context, arts *Artifacts) (int, []string, error) {
	var rows int
	var artifacts []string
	for _, col := range domain.IncomeColumns() {
		buckets, err := analysis.BucketBySum(arts.StreetJoined, col, domain.ColCrimeCount)
		if err != nil {
			return 0, nil, err
		}
		arts.IncomeBuckets[col] = buckets
		rows += buckets.Nrow()

		written, err := p.materialize(buckets, "income_buckets_"+domain.IncomeBand(col))
		if err != nil {
			return 0, nil, err
		}
		artifacts = append(artifacts, written...)

		if p.renderer != nil {
			path, err := p.renderer.RenderBuckets(buckets, col)
			if err != nil {
				return 0, nil, err
			}
			p.metrics.ChartsRendered.Inc()
			artifacts = append(artifacts, path)
		}
	}
	return rows, artifacts, nil
}

func (p *Pipeline) typologyShares(_ context.Context, arts *Artifacts) (int, []string, error) {
	var stacked dataframe.DataFrame
	first := true
	for _, year := range analysis.WindowYears() {
		byType, err := analysis.CrimeCountsByTypology(arts.Crime, arts.Buildings, year)
		if err != nil {
			return 0, nil, err
		}
		if byType.Nrow() == 0 {
			continue
		}

		renamed := byType.Rename(year, domain.ColCrimeCount)
		if renamed.Err != nil {
			return 0, nil, fmt.Errorf("label typology counts %s: %w", year, renamed.Err)
		}
		pct, err := analysis.PercentagesFromYearColumn(renamed, domain.BuildingTypology, year)
		if err != nil {
			return 0, nil, err
		}

		if first {
			stacked = pct
			first = false
			continue
		}
		stacked = stacked.Concat(pct)
		if stacked.Err != nil {
			return 0, nil, fmt.Errorf("stack typology shares: %w", stacked.Err)
		}
	}
	if first {
		stacked = dataframe.New(
			series.New([]string{}, series.String, domain.BuildingTypology),
			series.New([]float64{}, series.Float, domain.ColPercentage),
			series.New([]string{}, series.String, domain.CrimeYear),
		)
	}
	arts.TypologyShares = stacked

	artifacts, err := p.materialize(stacked, "typology_shares")
	return stacked.Nrow(), artifacts, err
}

func (p *Pipeline) offenseShares(_ context.Context, arts *Artifacts) (int, []string, error) {
	shares, err := analysis.OffenseShares(arts.Crime)
	if err != nil {
		return 0, nil, err
	}
	arts.OffenseShares = shares

	artifacts, err := p.materialize(shares.Frame(), "offense_shares")
	if err != nil {
		return 0, nil, err
	}
	if p.renderer != nil {
		path, err := p.renderer.RenderShares(shares)
		if err != nil {
			return 0, nil, err
		}
		p.metrics.ChartsRendered.Inc()
		artifacts = append(artifacts, path)
	}
	return len(shares.Names), artifacts, nil
}

func (p *Pipeline) materialize(df dataframe.DataFrame, name string) ([]string, error) {
	if p.writer == nil {
		return nil, nil
	}
	path, err := p.writer.WriteTable(df, name)
	if err != nil {
		return nil, err
	}
	p.metrics.ArtifactsWritten.Inc()
	return []string{path}, nil
}
