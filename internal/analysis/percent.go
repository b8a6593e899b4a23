package analysis

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// PercentagesFromYearColumn turns one year's count column into shares of that
// year's total. The count column is named after the year it covers; the
// output keeps the category column, replaces counts with
// percentage = count/total*100, and attaches a YEAR column holding the source
// column name so per-year tables can be stacked. A zero or NaN total divides
// through to NaN for every row rather than failing.
func PercentagesFromYearColumn(df dataframe.DataFrame, categoryCol, yearCol string) (dataframe.DataFrame, error) {
	if err := domain.RequireColumns(df, "percentages", categoryCol, yearCol); err != nil {
		return dataframe.DataFrame{}, err
	}

	counts := df.Col(yearCol).Float()
	var total float64
	for _, v := range counts {
		total += v
	}

	pct := make([]float64, len(counts))
	years := make([]string, len(counts))
	for i, v := range counts {
		pct[i] = v / total * 100
		years[i] = yearCol
	}

	out := df.Select([]string{categoryCol}).
		Mutate(series.New(pct, series.Float, domain.ColPercentage)).
		Mutate(series.New(years, series.String, domain.CrimeYear))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("percentages from %s: %w", yearCol, out.Err)
	}
	return out, nil
}
