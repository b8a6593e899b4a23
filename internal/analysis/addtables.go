package analysis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// AddTables aligns two count tables on a key column and sums the numeric
// columns both sides share. OFFENSE_CODE_GROUP is dropped from either side
// first, the way the source tables discard it before adding. Keys present in
// only one table keep their row with NaN sums; columns only one table carries
// pass through unchanged. The result sorts ascending by key.
func AddTables(a, b dataframe.DataFrame, key string) (dataframe.DataFrame, error) {
	if err := domain.RequireColumns(a, "left table", key); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := domain.RequireColumns(b, "right table", key); err != nil {
		return dataframe.DataFrame{}, err
	}

	a = dropIfPresent(a, domain.CrimeOffenseGroup)
	b = dropIfPresent(b, domain.CrimeOffenseGroup)

	joined := a.OuterJoin(b, key)
	if joined.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("add tables on %s: %w", key, joined.Err)
	}

	// Shared non-key columns come out of the join as <col>_0/<col>_1 pairs.
	out := joined
	for _, name := range joined.Names() {
		if !strings.HasSuffix(name, "_0") {
			continue
		}
		base := strings.TrimSuffix(name, "_0")
		other := base + "_1"
		if !slices.Contains(joined.Names(), other) {
			continue
		}

		left := joined.Col(name).Float()
		right := joined.Col(other).Float()
		sums := make([]float64, len(left))
		for i := range left {
			sums[i] = left[i] + right[i]
		}
		out = out.
			Drop([]string{name, other}).
			Mutate(series.New(sums, series.Float, base))
		if out.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("add tables on %s: sum %s: %w", key, base, out.Err)
		}
	}

	out = out.Arrange(dataframe.Sort(key))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("add tables on %s: %w", key, out.Err)
	}
	return out, nil
}
