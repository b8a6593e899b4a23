// Package charts renders pipeline outputs as PNG files with gonum/plot. It
// implements pipeline.Renderer.
package charts

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/analysis"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// Renderer writes charts into one output directory, alongside the CSV
// artifacts they belong to.
type Renderer struct {
	dir    string
	logger *slog.Logger
}

// NewRenderer creates a chart renderer rooted at dir. Like the table writer,
// it creates the directory on first use.
func NewRenderer(dir string, logger *slog.Logger) *Renderer {
	return &Renderer{dir: dir, logger: logger}
}

// RenderDaily draws the per-day incident counts for one year as a line, with
// holidays marked as red verticals where the day appears in the data.
func (r *Renderer) RenderDaily(daily dataframe.DataFrame, year string, holidays []domain.Holiday) (string, error) {
	if err := domain.RequireColumns(daily, "daily counts", domain.CrimeDate, domain.ColCount); err != nil {
		return "", err
	}
	dates := daily.Col(domain.CrimeDate).Records()
	counts := daily.Col(domain.ColCount).Float()

	pts := make(plotter.XYs, len(counts))
	var maxCount float64
	for i, v := range counts {
		pts[i].X = float64(i)
		pts[i].Y = v
		if v > maxCount {
			maxCount = v
		}
	}

	p := plot.New()
	p.Title.Text = "Crimes per day, " + year
	p.X.Label.Text = "date"
	p.Y.Label.Text = "crimes"
	p.X.Tick.Marker = dateTicks(dates)

	line, err := plotter.NewLine(pts)
	if err != nil {
		return "", fmt.Errorf("daily line %s: %w", year, err)
	}
	line.Color = plotutil.Color(0)
	p.Add(line)

	index := make(map[string]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}
	var marks plotter.XYLabels
	for _, h := range holidays {
		i, ok := index[h.Date]
		if !ok {
			continue
		}
		vert, err := plotter.NewLine(plotter.XYs{{X: float64(i), Y: 0}, {X: float64(i), Y: maxCount}})
		if err != nil {
			return "", fmt.Errorf("holiday mark %s: %w", h.Date, err)
		}
		vert.Color = color.RGBA{R: 0xc0, A: 0xff}
		vert.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(vert)
		marks.XYs = append(marks.XYs, plotter.XY{X: float64(i), Y: maxCount})
		marks.Labels = append(marks.Labels, h.Label)
	}
	if len(marks.Labels) > 0 {
		labels, err := plotter.NewLabels(marks)
		if err != nil {
			return "", fmt.Errorf("holiday labels %s: %w", year, err)
		}
		p.Add(labels)
	}

	return r.save(p, "daily_counts_"+year+".png", 12*vg.Inch, 5*vg.Inch)
}

// RenderHeatmap draws an offense-group by time-bucket pivot as a heat map.
// NaN cells stay unpainted.
func (r *Renderer) RenderHeatmap(pivot analysis.PivotTable) (string, error) {
	p := plot.New()
	p.Title.Text = "Incidents by offense group and " + string(pivot.Unit)
	p.X.Label.Text = string(pivot.Unit)

	if len(pivot.Rows) > 0 && len(pivot.Columns) > 0 {
		p.Add(plotter.NewHeatMap(pivotGrid{pivot}, palette.Heat(12, 255)))
	}
	p.NominalX(pivot.Columns...)
	p.NominalY(pivot.Rows...)

	return r.save(p, "pivot_"+string(pivot.Unit)+".png", 12*vg.Inch, 8*vg.Inch)
}

// RenderBuckets draws crime totals per 5% income-share bucket as bars.
func (r *Renderer) RenderBuckets(buckets dataframe.DataFrame, incomeCol string) (string, error) {
	if err := domain.RequireColumns(buckets, "income buckets", domain.ColBucket, domain.ColCrimeCount); err != nil {
		return "", err
	}
	band := domain.IncomeBand(incomeCol)

	p := plot.New()
	p.Title.Text = "Crimes by " + band + " income share"
	p.X.Label.Text = incomeCol + " bucket (5% bands)"
	p.Y.Label.Text = "crimes"

	counts := buckets.Col(domain.ColCrimeCount).Float()
	if len(counts) > 0 {
		bars, err := plotter.NewBarChart(plotter.Values(counts), vg.Points(24))
		if err != nil {
			return "", fmt.Errorf("bucket bars %s: %w", incomeCol, err)
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(1)
		p.Add(bars)
	}
	p.NominalX(buckets.Col(domain.ColBucket).Records()...)

	return r.save(p, "income_buckets_"+band+".png", 8*vg.Inch, 5*vg.Inch)
}

// RenderShares draws one percentage line per offense over the share window,
// with the offense names in the legend.
func (r *Renderer) RenderShares(shares analysis.ShareSeries) (string, error) {
	p := plot.New()
	p.Title.Text = "Offense share of yearly incidents"
	p.X.Label.Text = "year"
	p.Y.Label.Text = "% of incidents"
	p.Legend.Top = true
	p.NominalX(shares.Years...)

	for i, name := range shares.Names {
		vals := shares.Series[name]
		pts := make(plotter.XYs, len(vals))
		for j, v := range vals {
			pts[j].X = float64(j)
			pts[j].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", fmt.Errorf("share line %s: %w", name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	return r.save(p, "offense_shares.png", 10*vg.Inch, 6*vg.Inch)
}

func (r *Renderer) save(p *plot.Plot, name string, w, h vg.Length) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(r.dir, name)
	if err := p.Save(w, h, path); err != nil {
		return "", fmt.Errorf("save chart %s: %w", name, err)
	}
	r.logger.Debug("chart rendered", "path", path)
	return path, nil
}

// dateTicks labels roughly eight evenly spaced dates so a year of daily
// points stays readable.
func dateTicks(dates []string) plot.ConstantTicks {
	if len(dates) == 0 {
		return plot.ConstantTicks{}
	}
	step := len(dates) / 8
	if step < 1 {
		step = 1
	}
	var ticks []plot.Tick
	for i := 0; i < len(dates); i += step {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: dates[i]})
	}
	return plot.ConstantTicks(ticks)
}

// pivotGrid adapts a PivotTable to the heat map's grid interface. X is the
// time bucket, Y the offense group.
type pivotGrid struct {
	pivot analysis.PivotTable
}

func (g pivotGrid) Dims() (c, r int)   { return len(g.pivot.Columns), len(g.pivot.Rows) }
func (g pivotGrid) Z(c, r int) float64 { return g.pivot.At(r, c) }
func (g pivotGrid) X(c int) float64    { return float64(c) }
func (g pivotGrid) Y(r int) float64    { return float64(r) }
