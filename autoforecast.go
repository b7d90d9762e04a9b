// Package autoforecast selects among competing statistical forecasting
// methods based on series length and detected seasonality, degrading
// gracefully when a preferred method fails. Seasonal ARIMA is preferred for
// seasonal data with enough history, exponential smoothing for general
// trending data, and an OLS linear projection is the universal fallback.
package autoforecast

import (
	"fmt"

	"github.com/forecastlab/autoforecast/forecast"
	"github.com/forecastlab/autoforecast/holtwinters"
	"github.com/forecastlab/autoforecast/linear"
	"github.com/forecastlab/autoforecast/sarima"
	"github.com/forecastlab/autoforecast/stats"
	"github.com/rs/zerolog"
)

const (
	// MinAutoObservations is the series length below which the selector
	// goes straight to the linear method.
	MinAutoObservations = 10

	// MinSmoothingObservations gates the exponential smoothing attempt.
	MinSmoothingObservations = holtwinters.MinObservations
)

type Options struct {
	ConfidenceLevel float64

	// MaxPeriod caps the seasonal period scan.
	MaxPeriod int

	// Logger records fallback decisions when a preferred method fails. The
	// default is a no-op logger so the library stays silent.
	Logger zerolog.Logger
}

func NewDefaultOptions() *Options {
	return &Options{
		ConfidenceLevel: 0.95,
		MaxPeriod:       stats.DefaultMaxPeriod,
		Logger:          zerolog.Nop(),
	}
}

func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.ConfidenceLevel == 0 {
		o.ConfidenceLevel = 0.95
	}
	if o.MaxPeriod == 0 {
		o.MaxPeriod = stats.DefaultMaxPeriod
	}
	return o, nil
}

// Selector orchestrates the forecasting methods under a fixed priority
// policy. The strategy constructors are swappable so the fallback chain can
// be exercised with forced failures.
type Selector struct {
	opt *Options

	newSarima    func(period int) (forecast.Forecaster, error)
	newSmoothing func(period int) (forecast.Forecaster, error)
	newLinear    func() (forecast.Forecaster, error)
}

func NewSelector(opt *Options) (*Selector, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	s := &Selector{opt: opt}
	s.newSarima = func(period int) (forecast.Forecaster, error) {
		return sarima.New(&sarima.Options{
			SeasonalPeriod:  period,
			MaxPeriod:       opt.MaxPeriod,
			ConfidenceLevel: opt.ConfidenceLevel,
		})
	}
	s.newSmoothing = func(period int) (forecast.Forecaster, error) {
		return holtwinters.New(&holtwinters.Options{
			SeasonalPeriod:  period,
			ConfidenceLevel: opt.ConfidenceLevel,
		})
	}
	s.newLinear = func() (forecast.Forecaster, error) {
		return linear.New(&linear.Options{
			ConfidenceLevel: opt.ConfidenceLevel,
		})
	}
	return s, nil
}

// Forecast attempts the forecasting methods in priority order and returns
// the first successful result with its selection rationale populated.
//
// The policy is fixed: fewer than 10 observations goes straight to linear;
// a detected seasonal period covered by at least two full cycles attempts
// seasonal ARIMA; 8 or more observations attempts exponential smoothing with
// the detected period as a hint; linear is the final fallback. Failures of
// the seasonal methods are logged and swallowed, a failure of the fallback
// linear method is returned as a hard error.
func (s *Selector) Forecast(y []float64, horizon int) (*forecast.Result, error) {
	n := len(y)
	if n < MinAutoObservations {
		return s.linearForecast(y, horizon,
			fmt.Sprintf("too few points (%d) for seasonal methods, using linear trend", n))
	}

	period, seasonal := stats.DetectSeasonality(y, s.opt.MaxPeriod)

	if seasonal && n >= 2*period {
		res, err := s.attempt(func() (forecast.Forecaster, error) { return s.newSarima(period) }, y, horizon)
		if err == nil {
			res.SelectionRationale = fmt.Sprintf("seasonal pattern detected with period %d", period)
			return res, nil
		}
		s.opt.Logger.Warn().Err(err).Int("period", period).
			Msg("seasonal arima failed, trying next method")
	}

	if n >= MinSmoothingObservations {
		res, err := s.attempt(func() (forecast.Forecaster, error) { return s.newSmoothing(period) }, y, horizon)
		if err == nil {
			res.SelectionRationale = "trend + seasonality via exponential smoothing"
			return res, nil
		}
		s.opt.Logger.Warn().Err(err).
			Msg("exponential smoothing failed, trying next method")
	}

	return s.linearForecast(y, horizon, "fallback method: linear trend projection")
}

func (s *Selector) attempt(build func() (forecast.Forecaster, error), y []float64, horizon int) (*forecast.Result, error) {
	f, err := build()
	if err != nil {
		return nil, err
	}
	return f.Forecast(y, horizon)
}

func (s *Selector) linearForecast(y []float64, horizon int, rationale string) (*forecast.Result, error) {
	f, err := s.newLinear()
	if err != nil {
		return nil, err
	}
	res, err := f.Forecast(y, horizon)
	if err != nil {
		return nil, fmt.Errorf("fallback linear forecast failed, %w", err)
	}
	res.SelectionRationale = rationale
	return res, nil
}

// AutoSelect forecasts y with the default selection policy at the given
// confidence level.
func AutoSelect(y []float64, horizon int, confidenceLevel float64) (*forecast.Result, error) {
	opt := NewDefaultOptions()
	opt.ConfidenceLevel = confidenceLevel
	s, err := NewSelector(opt)
	if err != nil {
		return nil, err
	}
	return s.Forecast(y, horizon)
}
