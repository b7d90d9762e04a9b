// Package sarima implements seasonal ARIMA forecasting with heuristically
// chosen orders. The non-seasonal differencing order comes from an Augmented
// Dickey-Fuller stationarity test, AR and MA orders are fixed at one, and the
// seasonal order is (1,1,1) at the detected or supplied period.
package sarima

import (
	"fmt"

	"github.com/forecastlab/autoforecast/forecast"
	"github.com/forecastlab/autoforecast/stats"
)

// MinObservations is the smallest series a seasonal ARIMA model will fit.
const MinObservations = 10

type Options struct {
	// SeasonalPeriod fixes the seasonal period. Zero means auto-detect via
	// the autocorrelation scan up to MaxPeriod.
	SeasonalPeriod  int
	MaxPeriod       int
	ConfidenceLevel float64
}

func NewDefaultOptions() *Options {
	return &Options{
		MaxPeriod:       stats.DefaultMaxPeriod,
		ConfidenceLevel: 0.95,
	}
}

func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.MaxPeriod == 0 {
		o.MaxPeriod = stats.DefaultMaxPeriod
	}
	if o.ConfidenceLevel == 0 {
		o.ConfidenceLevel = 0.95
	}
	return o, nil
}

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
	return forecast.MethodSarima
}

// Forecast fits ARIMA(1,d,1)x(1,1,1)m and predicts horizon steps ahead. Any
// fit failure surfaces to the caller; the method selector treats it as a
// signal to try the next method while direct callers receive the error.
func (f *Forecaster) Forecast(y []float64, horizon int) (*forecast.Result, error) {
	if err := forecast.ValidateSeries(y, horizon, MinObservations, f.opt.ConfidenceLevel); err != nil {
		return nil, fmt.Errorf("unable to fit seasonal arima, %w", err)
	}

	period := f.opt.SeasonalPeriod
	if period == 0 {
		period, _ = stats.DetectSeasonality(y, f.opt.MaxPeriod)
	}

	// difference once unless the level series already tests stationary
	d := 1
	if adf, err := stats.ADF(y, 0); err == nil && adf.Stationary {
		d = 0
	}

	o := order{p: 1, d: d, q: 1}
	if period > 1 {
		o.sp, o.sd, o.sq, o.m = 1, 1, 1, period
	}

	m := newModel(o)
	if err := m.fit(y); err != nil {
		return nil, fmt.Errorf("unable to fit seasonal arima with order (%d,%d,%d)x(%d,%d,%d,%d), %w",
			o.p, o.d, o.q, o.sp, o.sd, o.sq, o.m, err)
	}

	forecasts, lower, upper := m.predict(horizon, f.opt.ConfidenceLevel)
	return &forecast.Result{
		Method:          forecast.MethodSarima,
		Forecast:        forecasts,
		Lower:           lower,
		Upper:           upper,
		ConfidenceLevel: f.opt.ConfidenceLevel,
		Sarima: &forecast.SarimaMetadata{
			P:              o.p,
			D:              o.d,
			Q:              o.q,
			SeasonalP:      o.sp,
			SeasonalD:      o.sd,
			SeasonalQ:      o.sq,
			SeasonalPeriod: o.m,
			AIC:            m.aic,
		},
	}, nil
}
