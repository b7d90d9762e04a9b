// Package stats provides the statistical primitives behind method selection:
// autocorrelation, seasonality detection, differencing, stationarity testing,
// and the z-score lookups used for confidence bounds.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultMaxPeriod is the largest seasonal period considered when scanning
// for a dominant periodicity.
const DefaultMaxPeriod = 12

// seasonalACFThreshold is the autocorrelation a lag must exceed to be
// declared a seasonal period.
const seasonalACFThreshold = 0.5

// ACF calculates the autocorrelation function of y for lags 0 to maxLag.
// Returns nil for a degenerate series with zero variance.
func ACF(y []float64, maxLag int) []float64 {
	n := len(y)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(y, nil)
	var variance float64
	for _, v := range y {
		diff := v - mean
		variance += diff * diff
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		var sum float64
		for i := k; i < n; i++ {
			sum += (y[i] - mean) * (y[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}

// DetectSeasonality estimates the dominant seasonal period of y by scanning
// autocorrelations at lags 2 through maxPeriod in increasing order and
// returning the first lag exceeding the significance threshold. Ties between
// multiple peaks resolve to the earliest lag. Returns false when the series
// is too short to cover two full candidate periods or when no lag qualifies.
// Detection is advisory, so degenerate input reports no seasonality rather
// than an error.
func DetectSeasonality(y []float64, maxPeriod int) (int, bool) {
	if maxPeriod < 2 {
		maxPeriod = DefaultMaxPeriod
	}
	if len(y) < 2*maxPeriod {
		return 0, false
	}

	acf := ACF(y, maxPeriod)
	if acf == nil {
		return 0, false
	}
	for lag := 2; lag <= maxPeriod && lag < len(acf); lag++ {
		if acf[lag] > seasonalACFThreshold {
			return lag, true
		}
	}
	return 0, false
}

// Diff returns the first difference of y.
func Diff(y []float64) []float64 {
	if len(y) <= 1 {
		return nil
	}
	res := make([]float64, len(y)-1)
	for i := 1; i < len(y); i++ {
		res[i-1] = y[i] - y[i-1]
	}
	return res
}

// SeasonalDiff returns the lag-period difference of y.
func SeasonalDiff(y []float64, period int) []float64 {
	if period <= 0 || len(y) <= period {
		return nil
	}
	res := make([]float64, len(y)-period)
	for i := period; i < len(y); i++ {
		res[i-period] = y[i] - y[i-period]
	}
	return res
}

// ZScore maps a confidence level to a fixed critical value: 1.96 for 95%
// confidence and 2.576 otherwise. This two-level lookup covers the two
// conventional confidence levels only; any other level silently gets the 99%
// critical value. Kept as-is for parity with downstream consumers rather
// than generalized to NormalQuantile.
func ZScore(confidence float64) float64 {
	if confidence == 0.95 {
		return 1.96
	}
	return 2.576
}

// NormalQuantile returns the standard normal quantile at probability p using
// the Abramowitz and Stegun 26.2.23 rational approximation.
func NormalQuantile(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	if p < 0.5 {
		return -NormalQuantile(1 - p)
	}

	t := math.Sqrt(-2 * math.Log(1-p))
	c0, c1, c2 := 2.515517, 0.802853, 0.010328
	d1, d2, d3 := 1.432788, 0.189269, 0.001308
	return t - (c0+c1*t+c2*t*t)/(1+d1*t+d2*t*t+d3*t*t*t)
}
