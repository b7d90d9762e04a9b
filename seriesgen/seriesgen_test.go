package seriesgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstant(t *testing.T) {
	y := Constant(4, 7.5)
	assert.Equal(t, Series{7.5, 7.5, 7.5, 7.5}, y)
}

func TestLine(t *testing.T) {
	y := Line(4, 2, 3)
	assert.Equal(t, Series{2, 5, 8, 11}, y)
}

func TestWave(t *testing.T) {
	tol := 1e-9
	y := Wave(5, 2, 4)
	require.Len(t, y, 5)

	expected := []float64{0, 2, 0, -2, 0}
	for i, v := range expected {
		assert.InDelta(t, v, y[i], tol)
	}
}

func TestRepeat(t *testing.T) {
	y := Repeat([]float64{1, 2, 3}, 7)
	assert.Equal(t, Series{1, 2, 3, 1, 2, 3, 1}, y)
}

func TestNoise(t *testing.T) {
	y := Noise(100, 4.0, 42)
	require.Len(t, y, 100)
	for _, v := range y {
		assert.GreaterOrEqual(t, v, -2.0)
		assert.Less(t, v, 2.0)
	}

	// same seed reproduces the same draw
	assert.Equal(t, y, Noise(100, 4.0, 42))
	assert.NotEqual(t, y, Noise(100, 4.0, 43))
}

func TestAdd(t *testing.T) {
	y := Line(3, 0, 1).Add(Constant(3, 10))
	assert.Equal(t, Series{10, 11, 12}, y)
}

func TestWaveExactPeriod(t *testing.T) {
	y := Wave(24, 3, 12)
	for i := 0; i < 12; i++ {
		assert.InDelta(t, y[i], y[i+12], 1e-9)
	}
	assert.InDelta(t, 3.0, y[3], 1e-9)
	assert.InDelta(t, -3.0, y[9], 1e-9)
	assert.InDelta(t, 0.0, math.Abs(y[0]), 1e-9)
}
