package forecast

import (
	"errors"
	"fmt"
	"math"
)

var ErrLenMismatch = errors.New("actual and predicted have different lengths")

// Metrics tracks forecast accuracy between an actual and predicted series.
// MAPE is averaged only over points with a non-zero actual value since the
// percent error is undefined at zero; it reports 0.0 when no such points
// exist.
type Metrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

// NewMetrics calculates accuracy metrics given paired actual and predicted
// slice values. An empty pair of slices yields all-zero metrics.
func NewMetrics(actual, predicted []float64) (*Metrics, error) {
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrLenMismatch)
	}
	if len(actual) == 0 {
		return &Metrics{}, nil
	}

	var mae, mse, mape float64
	var nonZero int
	for i := 0; i < len(actual); i++ {
		diff := actual[i] - predicted[i]
		mae += math.Abs(diff)
		mse += diff * diff
		if actual[i] != 0 {
			mape += math.Abs(diff / actual[i])
			nonZero++
		}
	}
	mae /= float64(len(actual))
	mse /= float64(len(actual))
	if nonZero > 0 {
		mape /= float64(nonZero)
	}

	return &Metrics{
		MAE:  mae,
		RMSE: math.Sqrt(mse),
		MAPE: mape,
	}, nil
}
