package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKolmogorovSmirnov(t *testing.T) {
	t.Run("small sample against fitted normal", func(t *testing.T) {
		result := KolmogorovSmirnov([]float64{1, 2, 3, 4, 5})

		assert.Equal(t, 5, result.N)
		assert.InDelta(t, 3.0, result.Mean, 1e-12)
		assert.InDelta(t, math.Sqrt(2.5), result.StdDev, 1e-12)
		assert.InDelta(t, 0.1364, result.Statistic, 1e-3)
		assert.Greater(t, result.PValue, 0.9)
		assert.True(t, result.Normal(0.05))
	})

	t.Run("statistic bounded", func(t *testing.T) {
		result := KolmogorovSmirnov([]float64{0, 0, 0, 0, 100})
		assert.GreaterOrEqual(t, result.Statistic, 0.0)
		assert.LessOrEqual(t, result.Statistic, 1.0)
		assert.GreaterOrEqual(t, result.PValue, 0.0)
		assert.LessOrEqual(t, result.PValue, 1.0)
	})

	t.Run("skewed sample rejects harder than symmetric", func(t *testing.T) {
		symmetric := KolmogorovSmirnov([]float64{-2, -1, 0, 1, 2, -2, -1, 0, 1, 2})
		skewed := KolmogorovSmirnov([]float64{0, 0, 0, 0, 0, 0, 0, 1, 5, 40})
		assert.Greater(t, skewed.Statistic, symmetric.Statistic)
	})

	t.Run("zero variance sample", func(t *testing.T) {
		result := KolmogorovSmirnov([]float64{0, 0, 0, 0})

		assert.True(t, math.IsNaN(result.Statistic))
		assert.True(t, math.IsNaN(result.PValue))
		assert.Equal(t, 0.0, result.Mean)
		assert.Equal(t, 0.0, result.StdDev)
		assert.False(t, result.Normal(0.05))
	})

	t.Run("empty sample", func(t *testing.T) {
		result := KolmogorovSmirnov(nil)

		assert.Equal(t, 0, result.N)
		assert.True(t, math.IsNaN(result.Statistic))
		assert.True(t, math.IsNaN(result.PValue))
		assert.True(t, math.IsNaN(result.Mean))
	})

	t.Run("non-finite values poison the test", func(t *testing.T) {
		result := KolmogorovSmirnov([]float64{1, 2, math.NaN(), 4})
		assert.True(t, math.IsNaN(result.Statistic))
		assert.True(t, math.IsNaN(result.PValue))

		result = KolmogorovSmirnov([]float64{1, 2, math.Inf(1)})
		assert.True(t, math.IsNaN(result.Statistic))
	})

	t.Run("single value sample", func(t *testing.T) {
		result := KolmogorovSmirnov([]float64{7})
		require.Equal(t, 1, result.N)
		assert.Equal(t, 7.0, result.Mean)
		assert.True(t, math.IsNaN(result.Statistic))
	})
}

func TestKSPValue(t *testing.T) {
	t.Run("zero statistic", func(t *testing.T) {
		assert.Equal(t, 1.0, ksPValue(100, 0))
	})

	t.Run("large statistic vanishes", func(t *testing.T) {
		assert.InDelta(t, 0.0, ksPValue(1000, 0.9), 1e-9)
	})

	t.Run("monotone in statistic", func(t *testing.T) {
		small := ksPValue(50, 0.05)
		large := ksPValue(50, 0.25)
		assert.Greater(t, small, large)
	})
}
