// Package analysis implements the join, group, and aggregate operations the
// crime analytics pipeline is built from. Every function takes tables in and
// returns a new table (or summary values) out; nothing here keeps state,
// touches files, or renders anything.
package analysis

import (
	"fmt"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// countName is the column name a gota COUNT aggregation gives col.
func countName(col string) string {
	return col + "_COUNT"
}

// emptyCounts is the zero-row (group, count) table gota cannot build itself:
// Aggregation fails on an empty group set, but an empty count table is a
// valid result here.
func emptyCounts(groupCol, out string) dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{}, series.String, groupCol),
		series.New([]float64{}, series.Float, out),
	)
}

// groupCount groups df by groupCol, counts rows per group into a column named
// out, and returns (groupCol, out) sorted ascending by group key.
func groupCount(df dataframe.DataFrame, table, groupCol, out string) (dataframe.DataFrame, error) {
	if err := domain.RequireColumns(df, table, groupCol); err != nil {
		return dataframe.DataFrame{}, err
	}
	if df.Nrow() == 0 {
		return emptyCounts(groupCol, out), nil
	}

	keyType := df.Col(groupCol).Type()
	counts := df.GroupBy(groupCol).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_COUNT},
		[]string{groupCol},
	)
	if counts.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: count by %s: %w", table, groupCol, counts.Err)
	}

	// Aggregation rebuilds the frame with type detection, which turns keys
	// like "2015" into ints; pin the key back so later joins on it match.
	if counts.Col(groupCol).Type() != keyType {
		counts = counts.Mutate(series.New(counts.Col(groupCol).Records(), keyType, groupCol))
	}
	counts = counts.Rename(out, countName(groupCol)).Arrange(dataframe.Sort(groupCol))
	if counts.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: count by %s: %w", table, groupCol, counts.Err)
	}
	return counts, nil
}

// dropIfPresent removes col when df carries it and leaves df untouched when
// it does not.
func dropIfPresent(df dataframe.DataFrame, col string) dataframe.DataFrame {
	if slices.Contains(df.Names(), col) {
		return df.Drop(col)
	}
	return df
}
