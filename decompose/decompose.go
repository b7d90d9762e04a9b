// Package decompose implements a trend plus seasonality decomposition
// forecaster over a synthetic calendar. A linear trend is fit first, the
// seasonal shape is fit to the trend ratio with Fourier terms, and the two
// components multiply back together for the forecast. Yearly seasonality is
// always considered, weekly seasonality only at daily frequency, and daily
// seasonality is not modeled.
package decompose

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/forecastlab/autoforecast/forecast"
	"github.com/forecastlab/autoforecast/models"
	"github.com/forecastlab/autoforecast/stats"
	"github.com/rickar/cal/v2"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MinObservations is the smallest series the decomposition model will fit.
const MinObservations = 10

var ErrUnknownFrequency = errors.New("unknown calendar frequency")

// Frequency is the spacing of the synthetic calendar.
type Frequency string

const (
	Hourly  Frequency = "H"
	Daily   Frequency = "D"
	Weekly  Frequency = "W"
	Monthly Frequency = "M"
)

// referenceDate anchors the synthetic calendar. Only the relative spacing of
// the calendar matters to the model.
var referenceDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// yearlyPeriod returns the number of observations per year at the given
// frequency.
func (f Frequency) yearlyPeriod() float64 {
	switch f {
	case Hourly:
		return 24 * 365.25
	case Daily:
		return 365.25
	case Weekly:
		return 52.18
	case Monthly:
		return 12
	}
	return 0
}

type Options struct {
	Frequency       Frequency
	ConfidenceLevel float64

	// FourierOrder is the number of sin/cos harmonics per seasonal
	// component.
	FourierOrder int

	// Holidays adds an indicator regressor per holiday at daily frequency.
	Holidays []*cal.Holiday
}

func NewDefaultOptions() *Options {
	return &Options{
		Frequency:       Daily,
		ConfidenceLevel: 0.95,
		FourierOrder:    3,
	}
}

func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.Frequency == "" {
		o.Frequency = Daily
	}
	if o.Frequency.yearlyPeriod() == 0 {
		return nil, fmt.Errorf("got frequency %q, %w", o.Frequency, ErrUnknownFrequency)
	}
	if o.ConfidenceLevel == 0 {
		o.ConfidenceLevel = 0.95
	}
	if o.FourierOrder <= 0 {
		o.FourierOrder = 3
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
	return forecast.MethodDecomposition
}

// Forecast extends the synthetic calendar by horizon steps and predicts.
// Bounds are placed at the requested confidence level from the standard
// deviation of the fit residuals.
func (f *Forecaster) Forecast(y []float64, horizon int) (*forecast.Result, error) {
	if err := forecast.ValidateSeries(y, horizon, MinObservations, f.opt.ConfidenceLevel); err != nil {
		return nil, fmt.Errorf("unable to fit decomposition model, %w", err)
	}

	n := len(y)
	times := f.calendar(n + horizon)

	trend, err := fitTrend(y, n+horizon)
	if err != nil {
		return nil, fmt.Errorf("unable to fit trend component, %w", err)
	}

	// the seasonal shape is fit multiplicatively as y/trend when the trend
	// keeps one sign over the training window, additively on the detrended
	// series otherwise
	multiplicative := true
	for i := 0; i < n; i++ {
		if trend[i] <= 0 {
			multiplicative = false
			break
		}
	}

	target := make([]float64, n)
	for i := 0; i < n; i++ {
		if multiplicative {
			target[i] = y[i] / trend[i]
		} else {
			target[i] = y[i] - trend[i]
		}
	}

	seasonal, periods, err := f.fitSeasonal(target, times, n, horizon)
	if err != nil {
		return nil, fmt.Errorf("unable to fit seasonal component, %w", err)
	}

	fitted := make([]float64, n)
	forecasts := make([]float64, horizon)
	for i := 0; i < n+horizon; i++ {
		var v float64
		if multiplicative {
			v = trend[i] * seasonal[i]
		} else {
			v = trend[i] + seasonal[i]
		}
		if i < n {
			fitted[i] = v
		} else {
			forecasts[i-n] = v
		}
	}

	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		residuals[i] = y[i] - fitted[i]
	}
	var sd float64
	if n > 1 {
		sd = stat.StdDev(residuals, nil)
	}
	z := stats.NormalQuantile((1 + f.opt.ConfidenceLevel) / 2)

	var meanTrend float64
	for i := n; i < n+horizon; i++ {
		meanTrend += trend[i]
	}
	meanTrend /= float64(horizon)

	res := &forecast.Result{
		Method:          forecast.MethodDecomposition,
		Forecast:        forecasts,
		Lower:           make([]float64, horizon),
		Upper:           make([]float64, horizon),
		ConfidenceLevel: f.opt.ConfidenceLevel,
		Decomposition: &forecast.DecompositionMetadata{
			Frequency:       string(f.opt.Frequency),
			MeanTrend:       meanTrend,
			SeasonalPeriods: periods,
		},
	}
	for h := 0; h < horizon; h++ {
		res.Lower[h] = forecasts[h] - z*sd
		res.Upper[h] = forecasts[h] + z*sd
	}
	return res, nil
}

// calendar builds the synthetic observation times.
func (f *Forecaster) calendar(n int) []time.Time {
	times := make([]time.Time, n)
	switch f.opt.Frequency {
	case Monthly:
		for i := 0; i < n; i++ {
			times[i] = referenceDate.AddDate(0, i, 0)
		}
	default:
		var step time.Duration
		switch f.opt.Frequency {
		case Hourly:
			step = time.Hour
		case Daily:
			step = 24 * time.Hour
		case Weekly:
			step = 7 * 24 * time.Hour
		}
		for i := 0; i < n; i++ {
			times[i] = referenceDate.Add(time.Duration(i) * step)
		}
	}
	return times
}

// fitTrend fits a linear trend over the training indices and evaluates it
// out to total points.
func fitTrend(y []float64, total int) ([]float64, error) {
	n := len(y)
	xTrain := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		xTrain.Set(i, 0, float64(i))
	}
	yMx := mat.NewDense(n, 1, y)

	model, err := models.NewOLSRegression(nil)
	if err != nil {
		return nil, err
	}
	if err := model.Fit(xTrain, yMx); err != nil {
		return nil, err
	}

	xAll := mat.NewDense(total, 1, nil)
	for i := 0; i < total; i++ {
		xAll.Set(i, 0, float64(i))
	}
	return model.Predict(xAll)
}

// fitSeasonal fits Fourier harmonics and holiday indicators to the detrended
// target and evaluates the seasonal component over train plus horizon.
// Components whose period is not covered by at least one full cycle of
// training data are dropped as unidentifiable. With no usable regressors the
// seasonal component collapses to the target mean.
func (f *Forecaster) fitSeasonal(target []float64, times []time.Time, n, horizon int) ([]float64, []float64, error) {
	var periods []float64
	if yearly := f.opt.Frequency.yearlyPeriod(); float64(n) >= yearly {
		periods = append(periods, yearly)
	}
	if f.opt.Frequency == Daily && n >= 14 {
		periods = append(periods, 7)
	}

	var holidayCols [][]float64
	if f.opt.Frequency == Daily {
		for _, hol := range f.opt.Holidays {
			holidayCols = append(holidayCols, holidayIndicator(hol, times))
		}
	}

	total := n + horizon
	numCols := 2*f.opt.FourierOrder*len(periods) + len(holidayCols)
	if numCols == 0 {
		mean := stat.Mean(target, nil)
		seasonal := make([]float64, total)
		for i := range seasonal {
			seasonal[i] = mean
		}
		return seasonal, nil, nil
	}

	xAll := mat.NewDense(total, numCols, nil)
	col := 0
	for _, period := range periods {
		for k := 1; k <= f.opt.FourierOrder; k++ {
			for i := 0; i < total; i++ {
				angle := 2 * math.Pi * float64(k) * float64(i) / period
				xAll.Set(i, col, math.Sin(angle))
				xAll.Set(i, col+1, math.Cos(angle))
			}
			col += 2
		}
	}
	for _, hc := range holidayCols {
		for i := 0; i < total; i++ {
			xAll.Set(i, col, hc[i])
		}
		col++
	}

	model, err := models.NewOLSRegression(nil)
	if err != nil {
		return nil, nil, err
	}
	xTrain := xAll.Slice(0, n, 0, numCols)
	if err := model.Fit(xTrain, mat.NewDense(n, 1, target)); err != nil {
		return nil, nil, err
	}
	seasonal, err := model.Predict(xAll)
	if err != nil {
		return nil, nil, err
	}
	return seasonal, periods, nil
}

// holidayIndicator marks calendar dates falling on the observed holiday.
func holidayIndicator(hol *cal.Holiday, times []time.Time) []float64 {
	indicator := make([]float64, len(times))
	if len(times) == 0 {
		return indicator
	}

	observed := make(map[string]struct{})
	for year := times[0].Year(); year <= times[len(times)-1].Year(); year++ {
		_, obs := hol.Calc(year)
		observed[obs.Format(time.DateOnly)] = struct{}{}
	}
	for i, t := range times {
		if _, ok := observed[t.Format(time.DateOnly)]; ok {
			indicator[i] = 1.0
		}
	}
	return indicator
}
