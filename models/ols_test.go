package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestOLSOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *OLSOptions
		expected *OLSOptions
	}{
		"nil": {nil, NewDefaultOLSOptions()},
		"valid": {
			&OLSOptions{FitIntercept: true},
			&OLSOptions{FitIntercept: true},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestOLSRegression(t *testing.T) {
	tol := 1e-5
	testData := map[string]struct {
		x         []float64
		rows      int
		cols      int
		y         []float64
		opt       *OLSOptions
		intercept float64
		coef      []float64
	}{
		"ols model intercept": {
			x: []float64{
				0, 0,
				3, 5,
				9, 20,
				12, 6,
				15, 10,
			},
			rows:      5,
			cols:      2,
			y:         []float64{2, 31, 109, 62, 87},
			intercept: 2.0,
			coef:      []float64{3.0, 4.0},
		},
		"ols model no intercept": {
			x: []float64{
				1, 0, 0,
				1, 3, 5,
				1, 9, 20,
				1, 12, 6,
				1, 15, 10,
			},
			rows: 5,
			cols: 3,
			y:    []float64{2, 31, 109, 62, 87},
			opt: &OLSOptions{
				FitIntercept: false,
			},
			intercept: 0.0,
			coef:      []float64{2.0, 3.0, 4.0},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x := mat.NewDense(td.rows, td.cols, td.x)
			y := mat.NewDense(len(td.y), 1, td.y)

			model, err := NewOLSRegression(td.opt)
			require.Nil(t, err)

			require.Nil(t, model.Fit(x, y))
			assert.InDelta(t, td.intercept, model.Intercept(), tol)
			require.Len(t, model.Coef(), len(td.coef))
			for i, c := range td.coef {
				assert.InDelta(t, c, model.Coef()[i], tol)
			}

			predicted, err := model.Predict(x)
			require.Nil(t, err)
			for i, v := range td.y {
				assert.InDelta(t, v, predicted[i], tol)
			}

			score, err := model.Score(x, y)
			require.Nil(t, err)
			assert.InDelta(t, 1.0, score, tol)
		})
	}
}

func TestOLSRegressionErrors(t *testing.T) {
	model, err := NewOLSRegression(nil)
	require.Nil(t, err)

	x := mat.NewDense(3, 1, []float64{0, 1, 2})
	y := mat.NewDense(2, 1, []float64{1, 2})

	assert.ErrorIs(t, model.Fit(nil, y), ErrNoTrainingMatrix)
	assert.ErrorIs(t, model.Fit(x, nil), ErrNoTargetMatrix)
	assert.ErrorIs(t, model.Fit(x, y), ErrTargetLenMismatch)

	_, err = model.Predict(nil)
	assert.ErrorIs(t, err, ErrNoDesignMatrix)
}
