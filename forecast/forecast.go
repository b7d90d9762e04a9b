// Package forecast defines the result record, metadata payloads, and error
// taxonomy shared by every forecasting method in this module.
package forecast

import (
	"errors"
	"fmt"
)

var (
	ErrNoSeries          = errors.New("no observations in series")
	ErrInsufficientData  = errors.New("insufficient observations for this method")
	ErrInvalidHorizon    = errors.New("forecast horizon must be a positive integer")
	ErrInvalidConfidence = errors.New("confidence level must be between 0 and 1 exclusive")
	ErrFitFailed         = errors.New("model fit failed")
)

// Method identifies which forecasting strategy produced a Result.
type Method string

const (
	MethodLinear        Method = "linear"
	MethodSarima        Method = "sarima"
	MethodHoltWinters   Method = "holt_winters"
	MethodDecomposition Method = "decomposition"
)

// Forecaster is the capability every forecasting strategy implements. A
// strategy validates its own preconditions and returns a fully populated
// Result or an error. Strategies never fall back on their own; ordered
// fallback is the method selector's job.
type Forecaster interface {
	Method() Method
	Forecast(y []float64, horizon int) (*Result, error)
}

// Result holds the point forecast, confidence bounds, and method-specific
// metadata for a single forecast call. Exactly one of the metadata pointers
// is set, matching Method. Forecast, Lower, and Upper all have length equal
// to the requested horizon with Lower[i] <= Forecast[i] <= Upper[i].
type Result struct {
	Method             Method    `json:"method"`
	Forecast           []float64 `json:"forecast"`
	Lower              []float64 `json:"lower_bound"`
	Upper              []float64 `json:"upper_bound"`
	ConfidenceLevel    float64   `json:"confidence_level"`
	SelectionRationale string    `json:"selection_rationale,omitempty"`

	Linear        *LinearMetadata        `json:"linear,omitempty"`
	Sarima        *SarimaMetadata        `json:"sarima,omitempty"`
	HoltWinters   *HoltWintersMetadata   `json:"holt_winters,omitempty"`
	Decomposition *DecompositionMetadata `json:"decomposition,omitempty"`
}

// LinearMetadata reports the fitted trend line and its goodness of fit.
type LinearMetadata struct {
	Slope          float64 `json:"slope"`
	Intercept      float64 `json:"intercept"`
	RSquared       float64 `json:"r_squared"`
	ResidualStdErr float64 `json:"residual_std_err"`
}

// SarimaMetadata reports the chosen model orders and fit quality.
type SarimaMetadata struct {
	P              int     `json:"p"`
	D              int     `json:"d"`
	Q              int     `json:"q"`
	SeasonalP      int     `json:"seasonal_p"`
	SeasonalD      int     `json:"seasonal_d"`
	SeasonalQ      int     `json:"seasonal_q"`
	SeasonalPeriod int     `json:"seasonal_period"`
	AIC            float64 `json:"aic"`
}

// HoltWintersMetadata reports the smoothing configuration used for the fit.
type HoltWintersMetadata struct {
	SeasonalPeriod int     `json:"seasonal_period"`
	SeasonalType   string  `json:"seasonal_type"`
	Alpha          float64 `json:"alpha"`
	Beta           float64 `json:"beta"`
	Gamma          float64 `json:"gamma,omitempty"`
	AIC            float64 `json:"aic"`
}

// DecompositionMetadata reports the synthetic calendar configuration and the
// mean of the trend component over the forecast horizon.
type DecompositionMetadata struct {
	Frequency       string    `json:"frequency"`
	MeanTrend       float64   `json:"mean_trend"`
	SeasonalPeriods []float64 `json:"seasonal_periods,omitempty"`
}

// ValidateSeries checks the common preconditions shared by every method.
// minObs is the method-specific minimum sample size.
func ValidateSeries(y []float64, horizon, minObs int, confidence float64) error {
	if len(y) == 0 {
		return ErrNoSeries
	}
	if len(y) < minObs {
		return fmt.Errorf("got %d observations but need at least %d, %w", len(y), minObs, ErrInsufficientData)
	}
	if horizon < 1 {
		return fmt.Errorf("got horizon of %d, %w", horizon, ErrInvalidHorizon)
	}
	if confidence <= 0.0 || confidence >= 1.0 {
		return fmt.Errorf("got confidence level of %f, %w", confidence, ErrInvalidConfidence)
	}
	return nil
}
