package analysis

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/domain"
)

func TestBucketBySum(t *testing.T) {
	t.Run("floor width five buckets, sums preserved", func(t *testing.T) {
		joined := dataframe.New(
			series.New([]float64{2.5, 7, 12.4, 4.9, 5.0}, series.Float, domain.BuildingPctLow),
			series.New([]float64{10, 20, 30, 40, 5}, series.Float, domain.ColCrimeCount),
		)

		buckets, err := BucketBySum(joined, domain.BuildingPctLow, domain.ColCrimeCount)
		require.NoError(t, err)

		assert.Equal(t, []string{domain.ColBucket, domain.ColCrimeCount}, buckets.Names())
		require.Equal(t, 3, buckets.Nrow())

		// 2.5 and 4.9 fall in bucket 0; 7 and the 5.0 boundary in bucket 1;
		// 12.4 in bucket 2.
		labels := buckets.Col(domain.ColBucket).Records()
		assert.Equal(t, []string{"0", "1", "2"}, labels)
		assert.Equal(t, []float64{50, 25, 30}, buckets.Col(domain.ColCrimeCount).Float())

		var total float64
		for _, v := range buckets.Col(domain.ColCrimeCount).Float() {
			total += v
		}
		assert.Equal(t, 105.0, total)
	})

	t.Run("buckets ascend", func(t *testing.T) {
		joined := dataframe.New(
			series.New([]float64{99, 1, 47, 23}, series.Float, domain.BuildingPctHigh),
			series.New([]float64{1, 1, 1, 1}, series.Float, domain.ColCrimeCount),
		)

		buckets, err := BucketBySum(joined, domain.BuildingPctHigh, domain.ColCrimeCount)
		require.NoError(t, err)

		vals := buckets.Col(domain.ColBucket).Float()
		for i := 1; i < len(vals); i++ {
			assert.Less(t, vals[i-1], vals[i])
		}
	})

	t.Run("NaN values are skipped", func(t *testing.T) {
		joined := dataframe.New(
			series.New([]float64{math.NaN(), 3, 8}, series.Float, domain.BuildingPctLow),
			series.New([]float64{100, 10, 20}, series.Float, domain.ColCrimeCount),
		)

		buckets, err := BucketBySum(joined, domain.BuildingPctLow, domain.ColCrimeCount)
		require.NoError(t, err)

		require.Equal(t, 2, buckets.Nrow())
		assert.Equal(t, []float64{10, 20}, buckets.Col(domain.ColCrimeCount).Float())
	})

	t.Run("all NaN gives empty table with shape", func(t *testing.T) {
		joined := dataframe.New(
			series.New([]float64{math.NaN()}, series.Float, domain.BuildingPctLow),
			series.New([]float64{5}, series.Float, domain.ColCrimeCount),
		)

		buckets, err := BucketBySum(joined, domain.BuildingPctLow, domain.ColCrimeCount)
		require.NoError(t, err)
		assert.Equal(t, 0, buckets.Nrow())
		assert.Equal(t, []string{domain.ColBucket, domain.ColCrimeCount}, buckets.Names())
	})

	t.Run("missing count column", func(t *testing.T) {
		joined := dataframe.New(
			series.New([]float64{1}, series.Float, domain.BuildingPctLow),
		)

		_, err := BucketBySum(joined, domain.BuildingPctLow, domain.ColCrimeCount)
		var missing *domain.MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, domain.ColCrimeCount, missing.Column)
	})
}
