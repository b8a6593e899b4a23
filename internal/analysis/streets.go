package analysis

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// meanName is the column name a gota MEAN aggregation gives col.
func meanName(col string) string {
	return col + "_MEAN"
}

// NormalizeBuildings attaches the street_location join key to the building
// inventory and drops rows whose key normalizes to empty. Running it over an
// already-normalized table changes nothing.
func NormalizeBuildings(buildings dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := domain.RequireColumns(buildings, "buildings", domain.BuildingStName, domain.BuildingStSuffix); err != nil {
		return dataframe.DataFrame{}, err
	}

	names := buildings.Col(domain.BuildingStName).Records()
	suffixes := buildings.Col(domain.BuildingStSuffix).Records()
	keys := make([]string, len(names))
	for i := range names {
		keys[i] = domain.StreetLocation(names[i], suffixes[i])
	}

	out := buildings.Mutate(series.New(keys, series.String, domain.ColStreetLocation))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("normalize buildings: %w", out.Err)
	}
	out = out.Filter(dataframe.F{Colname: domain.ColStreetLocation, Comparator: series.Neq, Comparando: ""})
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("normalize buildings: %w", out.Err)
	}
	return out, nil
}

// NormalizeCrimeStreets attaches street_location (the trimmed STREET value)
// to crime rows and drops rows with no street.
func NormalizeCrimeStreets(crime dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := domain.RequireColumns(crime, "crime", domain.CrimeStreet); err != nil {
		return dataframe.DataFrame{}, err
	}

	streets := crime.Col(domain.CrimeStreet).Records()
	keys := make([]string, len(streets))
	for i := range streets {
		keys[i] = domain.StreetLocation(streets[i], "")
	}

	out := crime.Mutate(series.New(keys, series.String, domain.ColStreetLocation))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("normalize crime streets: %w", out.Err)
	}
	out = out.Filter(dataframe.F{Colname: domain.ColStreetLocation, Comparator: series.Neq, Comparando: ""})
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("normalize crime streets: %w", out.Err)
	}
	return out, nil
}

// CrimeCountsByStreet counts incidents per normalized street key. A non-empty
// year restricts counting to incidents from that YEAR.
func CrimeCountsByStreet(crime dataframe.DataFrame, year string) (dataframe.DataFrame, error) {
	normalized, err := NormalizeCrimeStreets(crime)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if year != "" {
		if err := domain.RequireColumns(normalized, "crime", domain.CrimeYear); err != nil {
			return dataframe.DataFrame{}, err
		}
		normalized = normalized.Filter(dataframe.F{Colname: domain.CrimeYear, Comparator: series.Eq, Comparando: year})
		if normalized.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("street counts %s: %w", year, normalized.Err)
		}
	}
	return groupCount(normalized, "crime", domain.ColStreetLocation, domain.ColCrimeCount)
}

// JoinStreets inner-joins per-street crime counts with the normalized
// building inventory. Streets known to only one side drop out; an empty
// result is a valid outcome, not an error.
func JoinStreets(counts, buildings dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := domain.RequireColumns(counts, "street counts", domain.ColStreetLocation); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := domain.RequireColumns(buildings, "buildings", domain.ColStreetLocation); err != nil {
		return dataframe.DataFrame{}, err
	}

	joined := counts.InnerJoin(buildings, domain.ColStreetLocation)
	if joined.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("join streets: %w", joined.Err)
	}
	joined = joined.Arrange(dataframe.Sort(domain.ColStreetLocation))
	if joined.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("join streets: %w", joined.Err)
	}
	return joined, nil
}

// MeanByStreet averages a numeric building column per street key. The output
// keeps gota's aggregation name for the averaged column (for example
// PCT_INCOME_LOW_MEAN) and is sorted by street.
func MeanByStreet(buildings dataframe.DataFrame, col string) (dataframe.DataFrame, error) {
	if err := domain.RequireColumns(buildings, "buildings", domain.ColStreetLocation, col); err != nil {
		return dataframe.DataFrame{}, err
	}
	if buildings.Nrow() == 0 {
		return dataframe.New(
			series.New([]string{}, series.String, domain.ColStreetLocation),
			series.New([]float64{}, series.Float, meanName(col)),
		), nil
	}

	out := buildings.GroupBy(domain.ColStreetLocation).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN},
		[]string{col},
	)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("mean %s by street: %w", col, out.Err)
	}
	out = out.
		Select([]string{domain.ColStreetLocation, meanName(col)}).
		Arrange(dataframe.Sort(domain.ColStreetLocation))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("mean %s by street: %w", col, out.Err)
	}
	return out, nil
}

// CrimeCountsByTypology sums per-street crime counts by building typology for
// one calendar year. Years with no incidents or no matching streets produce
// an empty table with the output columns.
func CrimeCountsByTypology(crime, buildings dataframe.DataFrame, year string) (dataframe.DataFrame, error) {
	counts, err := CrimeCountsByStreet(crime, year)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	normalized, err := NormalizeBuildings(buildings)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := domain.RequireColumns(normalized, "buildings", domain.BuildingTypology); err != nil {
		return dataframe.DataFrame{}, err
	}

	joined := counts.InnerJoin(normalized, domain.ColStreetLocation)
	if joined.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("typology counts %s: %w", year, joined.Err)
	}
	if joined.Nrow() == 0 {
		return dataframe.New(
			series.New([]string{}, series.String, domain.BuildingTypology),
			series.New([]float64{}, series.Float, domain.ColCrimeCount),
		), nil
	}

	out := joined.GroupBy(domain.BuildingTypology).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM},
		[]string{domain.ColCrimeCount},
	)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("typology counts %s: %w", year, out.Err)
	}
	out = out.
		Rename(domain.ColCrimeCount, domain.ColCrimeCount+"_SUM").
		Arrange(dataframe.Sort(domain.BuildingTypology))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("typology counts %s: %w", year, out.Err)
	}
	return out, nil
}
