package stats

import (
	"testing"

	"github.com/forecastlab/autoforecast/seriesgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestACF(t *testing.T) {
	tol := 1e-9

	y := []float64{1, 2, 3, 4, 1, 2, 3, 4}
	acf := ACF(y, 4)
	require.NotNil(t, acf)
	require.Len(t, acf, 5)
	assert.InDelta(t, 1.0, acf[0], tol)
	assert.Greater(t, acf[4], 0.4)
	assert.Less(t, acf[2], 0.0)
}

func TestACFDegenerate(t *testing.T) {
	assert.Nil(t, ACF([]float64{5, 5, 5, 5}, 2))
	assert.Nil(t, ACF(nil, 2))
}

func TestDetectSeasonality(t *testing.T) {
	testData := map[string]struct {
		y         []float64
		maxPeriod int
		expected  int
		found     bool
	}{
		"too short": {
			y:         seriesgen.Constant(5, 1.0),
			maxPeriod: 12,
		},
		"constant": {
			y:         seriesgen.Constant(30, 3.0),
			maxPeriod: 12,
		},
		"period 4 pattern": {
			y:         seriesgen.Repeat([]float64{1, 2, 3, 4}, 40),
			maxPeriod: 12,
			expected:  4,
			found:     true,
		},
		"period 6 wave": {
			y:         seriesgen.Wave(48, 10.0, 6.0),
			maxPeriod: 12,
			expected:  6,
			found:     true,
		},
		"noise only": {
			y:         seriesgen.Noise(60, 2.0, 7),
			maxPeriod: 12,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			period, found := DetectSeasonality(td.y, td.maxPeriod)
			assert.Equal(t, td.found, found)
			assert.Equal(t, td.expected, period)
		})
	}
}

func TestDiff(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		expected []float64
	}{
		"basic":     {[]float64{1, 3, 6, 10}, []float64{2, 3, 4}},
		"too short": {[]float64{1}, nil},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, Diff(td.y))
		})
	}
}

func TestSeasonalDiff(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		period   int
		expected []float64
	}{
		"period 2":  {[]float64{1, 2, 3, 4, 5, 6}, 2, []float64{2, 2, 2, 2}},
		"too short": {[]float64{1, 2}, 3, nil},
		"bad period": {
			y:      []float64{1, 2, 3},
			period: 0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, SeasonalDiff(td.y, td.period))
		})
	}
}

func TestZScore(t *testing.T) {
	assert.Equal(t, 1.96, ZScore(0.95))
	assert.Equal(t, 2.576, ZScore(0.99))

	// any level other than 95% maps to the 99% critical value
	assert.Equal(t, 2.576, ZScore(0.90))
}

func TestNormalQuantile(t *testing.T) {
	tol := 5e-4
	testData := map[string]struct {
		p        float64
		expected float64
	}{
		"median":   {0.5, 0.0},
		"p95":      {0.975, 1.95996},
		"p99":      {0.995, 2.57583},
		"lower":    {0.025, -1.95996},
		"invalid":  {0.0, 0.0},
		"invalid2": {1.0, 0.0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, NormalQuantile(td.p), tol)
		})
	}
}
