// Package seriesgen generates synthetic series for tests, benchmarks, and
// the demo command.
package seriesgen

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

type Series []float64

// Add accumulates src into s in place and returns s for chaining.
func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func Constant(n int, val float64) Series {
	y := make([]float64, n)
	floats.AddConst(val, y)
	return Series(y)
}

func Line(n int, intercept, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, intercept+slope*float64(i))
	}
	return Series(y)
}

// Wave generates a sine wave with the given amplitude and period measured in
// samples.
func Wave(n int, amp, period float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, amp*math.Sin(2.0*math.Pi*float64(i)/period))
	}
	return Series(y)
}

// Repeat tiles the pattern until n values are produced.
func Repeat(pattern []float64, n int) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, pattern[i%len(pattern)])
	}
	return Series(y)
}

// Noise generates uniform noise in [-scale/2, scale/2) from a seeded source
// so generated fixtures are reproducible.
func Noise(n int, scale float64, seed uint64) Series {
	r := rand.New(rand.NewPCG(seed, seed))
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, (r.Float64()-0.5)*scale)
	}
	return Series(y)
}
