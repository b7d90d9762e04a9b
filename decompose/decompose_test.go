package decompose

import (
	"testing"
	"time"

	"github.com/forecastlab/autoforecast/forecast"
	"github.com/forecastlab/autoforecast/seriesgen"
	"github.com/rickar/cal/v2/us"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnknownFrequency(t *testing.T) {
	_, err := New(&Options{Frequency: "Q"})
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}

func TestForecastInsufficientData(t *testing.T) {
	f, err := New(nil)
	require.Nil(t, err)

	_, err = f.Forecast(seriesgen.Line(5, 0, 1), 3)
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)
}

func TestForecastTrendOnly(t *testing.T) {
	// too little weekly data to identify a yearly cycle, so the forecast
	// collapses to the linear trend and tracks a pure line exactly
	tol := 1e-6
	f, err := New(&Options{Frequency: Weekly})
	require.Nil(t, err)

	res, err := f.Forecast(seriesgen.Line(20, 10, 2), 5)
	require.Nil(t, err)

	assert.Equal(t, forecast.MethodDecomposition, res.Method)
	require.NotNil(t, res.Decomposition)
	assert.Equal(t, "W", res.Decomposition.Frequency)
	assert.Empty(t, res.Decomposition.SeasonalPeriods)

	require.Len(t, res.Forecast, 5)
	for h := 0; h < 5; h++ {
		expected := 10 + 2*float64(20+h)
		assert.InDelta(t, expected, res.Forecast[h], tol)
		assert.InDelta(t, res.Forecast[h], res.Lower[h], tol)
		assert.InDelta(t, res.Forecast[h], res.Upper[h], tol)
	}
}

func TestForecastWeeklySeasonality(t *testing.T) {
	pattern := []float64{-6, -3, 0, 3, 6, 3, -3}
	y := seriesgen.Line(28, 100, 1).Add(seriesgen.Repeat(pattern, 28))

	f, err := New(&Options{Frequency: Daily})
	require.Nil(t, err)

	res, err := f.Forecast(y, 7)
	require.Nil(t, err)

	require.NotNil(t, res.Decomposition)
	assert.Equal(t, []float64{7}, res.Decomposition.SeasonalPeriods)
	assert.InDelta(t, 131.0, res.Decomposition.MeanTrend, 3.0)

	expected := make([]float64, 7)
	for h := 0; h < 7; h++ {
		expected[h] = 100 + float64(28+h) + pattern[(28+h)%7]
	}
	m, err := forecast.NewMetrics(expected, res.Forecast)
	require.Nil(t, err)
	assert.Less(t, m.MAPE, 0.05)

	for h := 0; h < 7; h++ {
		assert.LessOrEqual(t, res.Lower[h], res.Forecast[h])
		assert.GreaterOrEqual(t, res.Upper[h], res.Forecast[h])
	}
}

func TestForecastMonthlyYearlySeasonality(t *testing.T) {
	y := seriesgen.Line(36, 50, 0.5).Add(seriesgen.Wave(36, 5, 12))

	f, err := New(&Options{Frequency: Monthly})
	require.Nil(t, err)

	res, err := f.Forecast(y, 12)
	require.Nil(t, err)

	require.NotNil(t, res.Decomposition)
	assert.Equal(t, []float64{12}, res.Decomposition.SeasonalPeriods)
	assert.Greater(t, res.Decomposition.MeanTrend, 50.0)

	require.Len(t, res.Forecast, 12)
	for h := 0; h < 12; h++ {
		assert.Greater(t, res.Forecast[h], 40.0)
		assert.Less(t, res.Forecast[h], 100.0)
	}
}

func TestForecastHorizonInvariant(t *testing.T) {
	y := seriesgen.Line(28, 100, 1).Add(seriesgen.Repeat([]float64{-4, 0, 4, 0, -4, 0, 4}, 28))
	f, err := New(&Options{Frequency: Daily})
	require.Nil(t, err)

	for _, horizon := range []int{1, 3, 12} {
		res, err := f.Forecast(y, horizon)
		require.Nil(t, err)
		assert.Len(t, res.Forecast, horizon)
		assert.Len(t, res.Lower, horizon)
		assert.Len(t, res.Upper, horizon)
	}
}

func TestHolidayIndicator(t *testing.T) {
	times := make([]time.Time, 11)
	for i := range times {
		times[i] = time.Date(2000, time.December, 20+i, 0, 0, 0, 0, time.UTC)
	}

	indicator := holidayIndicator(us.ChristmasDay, times)
	require.Len(t, indicator, 11)
	for i, v := range indicator {
		if times[i].Day() == 25 {
			assert.Equal(t, 1.0, v)
		} else {
			assert.Equal(t, 0.0, v)
		}
	}
}
