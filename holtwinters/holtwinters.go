// Package holtwinters implements Holt-Winters exponential smoothing with an
// additive trend and an optional additive seasonal component. The seasonal
// term is included only when a period is known and the series covers at
// least two full cycles.
package holtwinters

import (
	"fmt"
	"math"

	"github.com/forecastlab/autoforecast/forecast"
	"github.com/forecastlab/autoforecast/stats"
	"gonum.org/v1/gonum/stat"
)

// MinObservations is the smallest series exponential smoothing will fit.
const MinObservations = 8

const (
	seasonalAdditive = "additive"
	seasonalNone     = "none"
)

type Options struct {
	// SeasonalPeriod is an advisory hint, typically from seasonality
	// detection. Zero or one disables the seasonal component.
	SeasonalPeriod  int
	ConfidenceLevel float64

	// Alpha, Beta, Gamma pin the smoothing parameters. When zero they are
	// chosen by minimizing the one-step-ahead sum of squared errors.
	Alpha float64
	Beta  float64
	Gamma float64
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
	return forecast.MethodHoltWinters
}

// Forecast fits the smoothing model and projects horizon steps ahead.
// Confidence bounds are the in-sample residual standard deviation scaled by
// the fixed two-level z-score table, applied symmetrically at every step.
// The bands do not widen with horizon; this mirrors the residual-based
// approximation the selector's consumers expect rather than a full state
// space interval.
func (f *Forecaster) Forecast(y []float64, horizon int) (*forecast.Result, error) {
	if err := forecast.ValidateSeries(y, horizon, MinObservations, f.opt.ConfidenceLevel); err != nil {
		return nil, fmt.Errorf("unable to fit exponential smoothing, %w", err)
	}

	period := f.opt.SeasonalPeriod
	seasonal := period > 1 && len(y) >= 2*period

	var fit *smoothingFit
	if seasonal {
		fit = fitSeasonal(y, period, f.opt)
	} else {
		fit = fitTrendOnly(y, f.opt)
	}

	forecasts := fit.forecast(horizon)

	var sd float64
	if len(fit.residuals) > 1 {
		sd = stat.StdDev(fit.residuals, nil)
	}
	z := stats.ZScore(f.opt.ConfidenceLevel)

	res := &forecast.Result{
		Method:          forecast.MethodHoltWinters,
		Forecast:        forecasts,
		Lower:           make([]float64, horizon),
		Upper:           make([]float64, horizon),
		ConfidenceLevel: f.opt.ConfidenceLevel,
		HoltWinters: &forecast.HoltWintersMetadata{
			SeasonalPeriod: fit.period,
			SeasonalType:   fit.seasonalType,
			Alpha:          fit.alpha,
			Beta:           fit.beta,
			Gamma:          fit.gamma,
			AIC:            fit.aic(),
		},
	}
	for h := 0; h < horizon; h++ {
		res.Lower[h] = forecasts[h] - z*sd
		res.Upper[h] = forecasts[h] + z*sd
	}
	return res, nil
}

// smoothingFit captures the terminal smoothing state after a pass over the
// training data.
type smoothingFit struct {
	level     float64
	trend     float64
	seasonals []float64
	period    int

	alpha, beta, gamma float64
	seasonalType       string

	n         int
	residuals []float64
	sse       float64
}

func (s *smoothingFit) forecast(horizon int) []float64 {
	out := make([]float64, horizon)
	for h := 1; h <= horizon; h++ {
		val := s.level + float64(h)*s.trend
		if len(s.seasonals) > 0 {
			val += s.seasonals[(s.n+h-1)%s.period]
		}
		out[h-1] = val
	}
	return out
}

// aic scores the fit with a Gaussian sum-of-squares likelihood penalized by
// the number of smoothing parameters.
func (s *smoothingFit) aic() float64 {
	n := float64(len(s.residuals))
	if n == 0 || s.sse <= 0 {
		return math.Inf(-1)
	}
	k := 2.0
	if s.seasonalType == seasonalAdditive {
		k = 3.0
	}
	return n*math.Log(s.sse/n) + 2*k
}

// fitTrendOnly runs Holt's linear method, optimizing alpha and beta over a
// coarse grid unless pinned in the options.
func fitTrendOnly(y []float64, opt *Options) *smoothingFit {
	if opt.Alpha > 0 && opt.Beta > 0 {
		return runTrendOnly(y, opt.Alpha, opt.Beta)
	}

	var best *smoothingFit
	for alpha := 0.1; alpha <= 0.91; alpha += 0.1 {
		for beta := 0.05; beta <= 0.51; beta += 0.05 {
			fit := runTrendOnly(y, alpha, beta)
			if best == nil || fit.sse < best.sse {
				best = fit
			}
		}
	}
	return best
}

func runTrendOnly(y []float64, alpha, beta float64) *smoothingFit {
	level := y[0]
	trend := y[1] - y[0]

	residuals := make([]float64, 0, len(y)-1)
	var sse float64
	for t := 1; t < len(y); t++ {
		predicted := level + trend
		resid := y[t] - predicted
		residuals = append(residuals, resid)
		sse += resid * resid

		prevLevel := level
		level = alpha*y[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}

	return &smoothingFit{
		level:        level,
		trend:        trend,
		alpha:        alpha,
		beta:         beta,
		seasonalType: seasonalNone,
		n:            len(y),
		residuals:    residuals,
		sse:          sse,
	}
}

// fitSeasonal runs additive Holt-Winters, optimizing alpha, beta, and gamma
// over a coarse grid unless pinned in the options.
func fitSeasonal(y []float64, period int, opt *Options) *smoothingFit {
	if opt.Alpha > 0 && opt.Beta > 0 && opt.Gamma > 0 {
		return runSeasonal(y, period, opt.Alpha, opt.Beta, opt.Gamma)
	}

	var best *smoothingFit
	for alpha := 0.1; alpha <= 0.91; alpha += 0.2 {
		for beta := 0.05; beta <= 0.51; beta += 0.1 {
			for gamma := 0.05; gamma <= 0.51; gamma += 0.1 {
				fit := runSeasonal(y, period, alpha, beta, gamma)
				if best == nil || fit.sse < best.sse {
					best = fit
				}
			}
		}
	}
	return best
}

func runSeasonal(y []float64, period int, alpha, beta, gamma float64) *smoothingFit {
	m := period
	n := len(y)

	// level seeds from the first full season, trend from the average
	// cross-season change
	var level float64
	for i := 0; i < m; i++ {
		level += y[i]
	}
	level /= float64(m)

	var trend float64
	for i := 0; i < m; i++ {
		trend += (y[m+i] - y[i]) / float64(m)
	}
	trend /= float64(m)

	seasonals := make([]float64, m)
	for i := 0; i < m; i++ {
		seasonals[i] = y[i] - level
	}
	var seasonalSum float64
	for _, s := range seasonals {
		seasonalSum += s
	}
	seasonalAvg := seasonalSum / float64(m)
	for i := range seasonals {
		seasonals[i] -= seasonalAvg
	}

	residuals := make([]float64, 0, n-m)
	var sse float64
	for t := m; t < n; t++ {
		idx := t % m
		predicted := level + trend + seasonals[idx]
		resid := y[t] - predicted
		residuals = append(residuals, resid)
		sse += resid * resid

		prevLevel := level
		level = alpha*(y[t]-seasonals[idx]) + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		seasonals[idx] = gamma*(y[t]-level) + (1-gamma)*seasonals[idx]
	}

	return &smoothingFit{
		level:        level,
		trend:        trend,
		seasonals:    seasonals,
		period:       m,
		alpha:        alpha,
		beta:         beta,
		gamma:        gamma,
		seasonalType: seasonalAdditive,
		n:            n,
		residuals:    residuals,
		sse:          sse,
	}
}
