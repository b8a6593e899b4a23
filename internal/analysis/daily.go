package analysis

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// DailyCounts counts incidents per day within one calendar year, matched on
// the ISO date prefix. The result has the date column plus a count column,
// sorted by date; a year with no incidents gives an empty table with the same
// columns.
func DailyCounts(crime dataframe.DataFrame, year string) (dataframe.DataFrame, error) {
	if err := domain.RequireColumns(crime, "crime", domain.CrimeDate); err != nil {
		return dataframe.DataFrame{}, err
	}

	prefix := year + "-"
	filtered := crime.Filter(dataframe.F{
		Colname:    domain.CrimeDate,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool { return strings.HasPrefix(el.String(), prefix) },
	})
	if filtered.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("daily counts %s: %w", year, filtered.Err)
	}
	return groupCount(filtered, "crime", domain.CrimeDate, domain.ColCount)
}
