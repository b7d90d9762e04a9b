// Package linear implements ordinary least squares trend projection with
// analytic prediction intervals. It is the cheapest method in the module and
// serves as the universal fallback for the method selector.
package linear

import (
	"fmt"
	"math"

	"github.com/forecastlab/autoforecast/forecast"
	"github.com/forecastlab/autoforecast/stats"
	"gonum.org/v1/gonum/stat"
)

// MinObservations is the smallest series a trend line can be fit to.
const MinObservations = 2

type Options struct {
	ConfidenceLevel float64
}

func NewDefaultOptions() *Options {
	return &Options{
		ConfidenceLevel: 0.95,
	}
}

func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.ConfidenceLevel == 0 {
		o.ConfidenceLevel = 0.95
	}
	return o, nil
}

// Forecaster projects the OLS trend line of value against integer index.
type Forecaster struct {
	opt *Options
}

func New(opt *Options) (*Forecaster, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Forecaster{opt: opt}, nil
}

func (f *Forecaster) Method() forecast.Method {
	return forecast.MethodLinear
}

// Forecast extrapolates the fitted line to indices n..n+horizon-1. Bounds use
// the classical prediction-interval formula for a new observation,
//
//	se = s * sqrt(1 + 1/n + (xf-xbar)^2 / sum((xi-xbar)^2))
//
// scaled by the fixed two-level z-score table. A degenerate design matrix
// yields a constant forecast repeating the last observation with zero-width
// bounds.
func (f *Forecaster) Forecast(y []float64, horizon int) (*forecast.Result, error) {
	if err := forecast.ValidateSeries(y, horizon, MinObservations, f.opt.ConfidenceLevel); err != nil {
		return nil, fmt.Errorf("unable to fit linear trend, %w", err)
	}

	n := len(y)
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}

	xbar := stat.Mean(x, nil)
	var ssx float64
	for _, xi := range x {
		ssx += (xi - xbar) * (xi - xbar)
	}
	if ssx == 0 {
		return f.constantResult(y, horizon), nil
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	fitted := make([]float64, n)
	var rss float64
	for i := range x {
		fitted[i] = intercept + slope*x[i]
		resid := y[i] - fitted[i]
		rss += resid * resid
	}

	var s float64
	if n > 2 {
		s = math.Sqrt(rss / float64(n-2))
	}

	r2 := stat.RSquaredFrom(fitted, y, nil)
	if math.IsNaN(r2) {
		r2 = 1.0
	}

	z := stats.ZScore(f.opt.ConfidenceLevel)
	res := &forecast.Result{
		Method:          forecast.MethodLinear,
		Forecast:        make([]float64, horizon),
		Lower:           make([]float64, horizon),
		Upper:           make([]float64, horizon),
		ConfidenceLevel: f.opt.ConfidenceLevel,
		Linear: &forecast.LinearMetadata{
			Slope:          slope,
			Intercept:      intercept,
			RSquared:       r2,
			ResidualStdErr: s,
		},
	}
	for h := 0; h < horizon; h++ {
		xf := float64(n + h)
		point := intercept + slope*xf
		se := s * math.Sqrt(1.0+1.0/float64(n)+(xf-xbar)*(xf-xbar)/ssx)
		res.Forecast[h] = point
		res.Lower[h] = point - z*se
		res.Upper[h] = point + z*se
	}
	return res, nil
}

// constantResult repeats the last observation with zero-width bounds when
// the index design matrix has zero spread.
func (f *Forecaster) constantResult(y []float64, horizon int) *forecast.Result {
	last := y[len(y)-1]
	res := &forecast.Result{
		Method:          forecast.MethodLinear,
		Forecast:        make([]float64, horizon),
		Lower:           make([]float64, horizon),
		Upper:           make([]float64, horizon),
		ConfidenceLevel: f.opt.ConfidenceLevel,
		Linear: &forecast.LinearMetadata{
			Intercept: last,
			RSquared:  1.0,
		},
	}
	for h := 0; h < horizon; h++ {
		res.Forecast[h] = last
		res.Lower[h] = last
		res.Upper[h] = last
	}
	return res
}
