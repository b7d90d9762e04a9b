package sarima

import (
	"math"
	"testing"

	"github.com/forecastlab/autoforecast/forecast"
	"github.com/forecastlab/autoforecast/seriesgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastInsufficientData(t *testing.T) {
	f, err := New(nil)
	require.Nil(t, err)

	_, err = f.Forecast(seriesgen.Line(9, 0, 1), 3)
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)
}

func TestForecastSeasonal(t *testing.T) {
	f, err := New(&Options{SeasonalPeriod: 12})
	require.Nil(t, err)

	y := seriesgen.Line(48, 100, 0.5).Add(seriesgen.Wave(48, 10, 12))
	res, err := f.Forecast(y, 6)
	require.Nil(t, err)

	assert.Equal(t, forecast.MethodSarima, res.Method)
	require.Len(t, res.Forecast, 6)
	require.Len(t, res.Lower, 6)
	require.Len(t, res.Upper, 6)
	for i := range res.Forecast {
		assert.LessOrEqual(t, res.Lower[i], res.Forecast[i])
		assert.GreaterOrEqual(t, res.Upper[i], res.Forecast[i])
		assert.False(t, math.IsNaN(res.Forecast[i]))
	}

	require.NotNil(t, res.Sarima)
	assert.Equal(t, 1, res.Sarima.P)
	assert.Equal(t, 1, res.Sarima.Q)
	assert.Equal(t, 12, res.Sarima.SeasonalPeriod)
	assert.Equal(t, 1, res.Sarima.SeasonalD)
	assert.False(t, math.IsNaN(res.Sarima.AIC))

	// forecasts stay in the neighborhood of the recent series level
	for _, v := range res.Forecast {
		assert.Greater(t, v, 50.0)
		assert.Less(t, v, 200.0)
	}
}

func TestForecastNonSeasonal(t *testing.T) {
	f, err := New(&Options{SeasonalPeriod: 1})
	require.Nil(t, err)

	y := seriesgen.Line(40, 10, 1).Add(seriesgen.Noise(40, 1.0, 21))
	res, err := f.Forecast(y, 3)
	require.Nil(t, err)

	require.NotNil(t, res.Sarima)
	assert.Equal(t, 0, res.Sarima.SeasonalP)
	assert.Equal(t, 0, res.Sarima.SeasonalD)
	assert.Equal(t, 0, res.Sarima.SeasonalQ)
	assert.Equal(t, 0, res.Sarima.SeasonalPeriod)
	require.Len(t, res.Forecast, 3)
}

func TestForecastAutoDetectPeriod(t *testing.T) {
	f, err := New(nil)
	require.Nil(t, err)

	y := seriesgen.Repeat([]float64{4, 8, 12, 8}, 44)
	res, err := f.Forecast(y, 4)
	require.Nil(t, err)

	require.NotNil(t, res.Sarima)
	assert.Equal(t, 4, res.Sarima.SeasonalPeriod)
}

func TestForecastTooShortAfterDifferencing(t *testing.T) {
	// 12 observations with a period-10 seasonal order leaves nothing to fit
	f, err := New(&Options{SeasonalPeriod: 10})
	require.Nil(t, err)

	_, err = f.Forecast(seriesgen.Line(12, 0, 1), 2)
	assert.ErrorIs(t, err, forecast.ErrFitFailed)
}

func TestForecastHorizonInvariant(t *testing.T) {
	y := seriesgen.Line(36, 50, 0.2).Add(seriesgen.Wave(36, 5, 12))
	for _, horizon := range []int{1, 3, 12} {
		f, err := New(&Options{SeasonalPeriod: 12})
		require.Nil(t, err)

		res, err := f.Forecast(y, horizon)
		require.Nil(t, err)
		assert.Len(t, res.Forecast, horizon)
		assert.Len(t, res.Lower, horizon)
		assert.Len(t, res.Upper, horizon)
	}
}
