package analysis

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/stats"
)

// CombineWeather joins daily crime counts onto the weather table by date.
// Crime rows are counted per OCCURRED_ON_DATE, the counts become a
// crime_count column keyed by DATE, and the station identity columns are
// dropped. Join semantics are inner: dates present in only one input do not
// appear in the result. Weather values pass through as the strings they were
// loaded as.
func CombineWeather(crime, weather dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := domain.RequireColumns(weather, "weather", domain.WeatherColumns()...); err != nil {
		return dataframe.DataFrame{}, err
	}

	counts, err := groupCount(crime, "crime", domain.CrimeDate, domain.ColCrimeCount)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	counts = counts.Rename(domain.WeatherDate, domain.CrimeDate)
	if counts.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("combine weather: %w", counts.Err)
	}

	joined := weather.InnerJoin(counts, domain.WeatherDate)
	if joined.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("combine weather: join on %s: %w", domain.WeatherDate, joined.Err)
	}
	joined = joined.
		Drop([]string{domain.WeatherStation, domain.WeatherName}).
		Arrange(dataframe.Sort(domain.WeatherDate))
	if joined.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("combine weather: %w", joined.Err)
	}
	return joined, nil
}

// distributionColumns lists the combined-table columns the distribution check
// covers, with the labels the run log uses, in report order.
var distributionColumns = []struct {
	column string
	label  string
}{
	{domain.WeatherPrecip, "rainfall"},
	{domain.WeatherSnow, "snowfall"},
	{domain.WeatherAvgTemp, "average temperature"},
	{domain.ColCrimeCount, "crime amount"},
}

// DistributionReport is the normality-check outcome for one combined column.
type DistributionReport struct {
	Column string
	Label  string
	Result stats.KSResult
}

// Summary renders the report as the single line the run log prints. NaN
// moments from degenerate samples (an all-zero snowfall column, say) are
// reported verbatim.
func (r DistributionReport) Summary() string {
	verdict := "is not a normal distribution"
	if r.Result.Normal(0.05) {
		verdict = "looks like a normal distribution"
	}
	return fmt.Sprintf("the mean of %s is %.4f and the standard deviation is %.4f; KS statistic %.4f (p=%.4g), so %s %s",
		r.Label, r.Result.Mean, r.Result.StdDev, r.Result.Statistic, r.Result.PValue, r.Label, verdict)
}

// CheckDistribution tests each weather measure and the daily crime count in
// the combined table against a normal distribution fitted from the column
// itself. Values that fail to parse as numbers enter the test as NaN and
// poison that column's result, which is reported rather than treated as an
// error.
func CheckDistribution(combined dataframe.DataFrame) ([]DistributionReport, error) {
	cols := make([]string, len(distributionColumns))
	for i, dc := range distributionColumns {
		cols[i] = dc.column
	}
	if err := domain.RequireColumns(combined, "combined weather", cols...); err != nil {
		return nil, err
	}

	reports := make([]DistributionReport, 0, len(distributionColumns))
	for _, dc := range distributionColumns {
		reports = append(reports, DistributionReport{
			Column: dc.column,
			Label:  dc.label,
			Result: stats.KolmogorovSmirnov(combined.Col(dc.column).Float()),
		})
	}
	return reports, nil
}
