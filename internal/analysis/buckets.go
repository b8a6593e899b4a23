package analysis

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

// bucketWidth is the percentage-point span each income bucket covers.
const bucketWidth = 5

// BucketBySum groups a continuous column into width-5 buckets
// (bucket = floor(value/5)) and sums the count column within each bucket.
// Rows whose value is NaN are skipped. The output has an int bucket column
// and the summed count column, sorted ascending by bucket.
func BucketBySum(df dataframe.DataFrame, valueCol, countCol string) (dataframe.DataFrame, error) {
	if err := domain.RequireColumns(df, "buckets", valueCol, countCol); err != nil {
		return dataframe.DataFrame{}, err
	}

	kept := df.Filter(dataframe.F{
		Colname:    valueCol,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool { return !math.IsNaN(el.Float()) },
	})
	if kept.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("bucket %s: %w", valueCol, kept.Err)
	}
	if kept.Nrow() == 0 {
		return dataframe.New(
			series.New([]int{}, series.Int, domain.ColBucket),
			series.New([]float64{}, series.Float, countCol),
		), nil
	}

	values := kept.Col(valueCol).Float()
	buckets := make([]int, len(values))
	for i, v := range values {
		buckets[i] = int(math.Floor(v / bucketWidth))
	}

	out := kept.
		Mutate(series.New(buckets, series.Int, domain.ColBucket)).
		GroupBy(domain.ColBucket).
		Aggregation(
			[]dataframe.AggregationType{dataframe.Aggregation_SUM},
			[]string{countCol},
		)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("bucket %s: %w", valueCol, out.Err)
	}
	out = out.
		Rename(countCol, countCol+"_SUM").
		Arrange(dataframe.Sort(domain.ColBucket))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("bucket %s: %w", valueCol, out.Err)
	}
	return out, nil
}
