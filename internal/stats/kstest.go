// Package stats provides the distribution checks the analytics pipeline runs
// over weather and crime-count series.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// KSResult holds a one-sample Kolmogorov-Smirnov test outcome together with
// the sample moments the reference normal was fitted from.
type KSResult struct {
	Statistic float64
	PValue    float64
	Mean      float64
	StdDev    float64
	N         int
}

// Normal reports whether the test failed to reject normality at the given
// significance level. A NaN p-value (degenerate sample) is never normal.
func (r KSResult) Normal(alpha float64) bool {
	return r.PValue > alpha
}

// KolmogorovSmirnov tests xs against the normal distribution parameterized by
// the sample's own mean and standard deviation. Degenerate samples (empty,
// zero variance, or containing non-finite values) produce NaN statistic and
// p-value rather than an error: an all-zero snowfall column is expected data,
// and the caller reports the NaN verbatim.
func KolmogorovSmirnov(xs []float64) KSResult {
	result := KSResult{
		Statistic: math.NaN(),
		PValue:    math.NaN(),
		Mean:      math.NaN(),
		StdDev:    math.NaN(),
		N:         len(xs),
	}
	if len(xs) == 0 {
		return result
	}
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return result
		}
	}

	result.Mean = stat.Mean(xs, nil)
	result.StdDev = stat.StdDev(xs, nil)
	if !(result.StdDev > 0) || math.IsInf(result.StdDev, 0) {
		return result
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	dist := distuv.Normal{Mu: result.Mean, Sigma: result.StdDev}
	n := float64(len(sorted))
	var d float64
	for i, x := range sorted {
		cdf := dist.CDF(x)
		if above := float64(i+1)/n - cdf; above > d {
			d = above
		}
		if below := cdf - float64(i)/n; below > d {
			d = below
		}
	}

	result.Statistic = d
	result.PValue = ksPValue(len(sorted), d)
	return result
}

// ksPValue approximates the two-sided p-value for statistic d on a sample of
// size n using the asymptotic Kolmogorov distribution with the
// Stephens small-sample correction for lambda.
func ksPValue(n int, d float64) float64 {
	sqrtN := math.Sqrt(float64(n))
	lambda := (sqrtN + 0.12 + 0.11/sqrtN) * d
	if lambda <= 0 {
		return 1
	}

	var sum float64
	sign := 1.0
	for j := 1; j <= 100; j++ {
		term := math.Exp(-2 * float64(j*j) * lambda * lambda)
		sum += sign * term
		if term < 1e-12 {
			break
		}
		sign = -sign
	}

	p := 2 * sum
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
