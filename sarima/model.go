package sarima

import (
	"fmt"
	"math"

	"github.com/forecastlab/autoforecast/forecast"
	"github.com/forecastlab/autoforecast/stats"
)

// order holds the non-seasonal (p,d,q) and seasonal (P,D,Q)m model orders.
type order struct {
	p, d, q    int
	sp, sd, sq int
	m          int
}

func (o order) numParams() int {
	return o.p + o.q + o.sp + o.sq + 1
}

// model is a seasonal ARIMA fit by conditional sum of squares. Coefficients
// are clamped to (-0.99, 0.99) rather than strictly enforcing stationarity
// and invertibility, which avoids hard fit failures on edge-case data.
type model struct {
	order     order
	arCoef    []float64
	maCoef    []float64
	sarCoef   []float64
	smaCoef   []float64
	intercept float64
	variance  float64
	aic       float64
	logLik    float64

	y         []float64
	diffY     []float64
	residuals []float64
}

// minDiffLen is the smallest differenced series the optimizer will accept.
const minDiffLen = 10

func newModel(o order) *model {
	return &model{
		order:   o,
		arCoef:  make([]float64, o.p),
		maCoef:  make([]float64, o.q),
		sarCoef: make([]float64, o.sp),
		smaCoef: make([]float64, o.sq),
	}
}

func (m *model) fit(y []float64) error {
	m.y = y

	diff := y
	for i := 0; i < m.order.d; i++ {
		diff = stats.Diff(diff)
	}
	for i := 0; i < m.order.sd; i++ {
		diff = stats.SeasonalDiff(diff, m.order.m)
	}
	if len(diff) < minDiffLen {
		return fmt.Errorf("differencing left %d observations but need at least %d, %w",
			len(diff), minDiffLen, forecast.ErrFitFailed)
	}
	m.diffY = diff

	m.initCoefficients()
	m.optimizeCSS()
	m.calculateIC()
	return nil
}

// initCoefficients seeds AR terms from the autocorrelation function and MA
// terms with a small constant before gradient descent.
func (m *model) initCoefficients() {
	var mean float64
	for _, v := range m.diffY {
		mean += v
	}
	mean /= float64(len(m.diffY))
	m.intercept = mean

	if m.order.p > 0 {
		if acf := stats.ACF(m.diffY, m.order.p); acf != nil {
			for i := 0; i < m.order.p && i+1 < len(acf); i++ {
				m.arCoef[i] = acf[i+1] * 0.5
			}
		}
	}
	if m.order.sp > 0 {
		if acf := stats.ACF(m.diffY, m.order.sp*m.order.m); acf != nil {
			for i := 0; i < m.order.sp; i++ {
				idx := (i + 1) * m.order.m
				if idx < len(acf) {
					m.sarCoef[i] = acf[idx] * 0.5
				}
			}
		}
	}
	for i := range m.maCoef {
		m.maCoef[i] = 0.1
	}
	for i := range m.smaCoef {
		m.smaCoef[i] = 0.1
	}
}

// predictAt evaluates the one-step prediction at index t of the differenced
// series given the residual history.
func (m *model) predictAt(t, n int, y, residuals []float64) float64 {
	pred := m.intercept
	for i := 0; i < m.order.p && t-i-1 >= 0; i++ {
		pred += m.arCoef[i] * (y[t-i-1] - m.intercept)
	}
	for i := 0; i < m.order.sp; i++ {
		lag := (i + 1) * m.order.m
		if t-lag >= 0 {
			pred += m.sarCoef[i] * (y[t-lag] - m.intercept)
		}
	}
	for i := 0; i < m.order.q && t-i-1 >= 0; i++ {
		if t-i-1 < n {
			pred += m.maCoef[i] * residuals[t-i-1]
		}
	}
	for i := 0; i < m.order.sq; i++ {
		lag := (i + 1) * m.order.m
		if t-lag >= 0 && t-lag < n {
			pred += m.smaCoef[i] * residuals[t-lag]
		}
	}
	return pred
}

// optimizeCSS minimizes the conditional sum of squares by gradient descent
// with momentum, a decaying learning rate, and early stopping. The best
// coefficient set seen is restored at the end.
func (m *model) optimizeCSS() {
	y := m.diffY
	n := len(y)
	o := m.order

	const (
		maxIter      = 200
		tolerance    = 1e-8
		momentum     = 0.9
		decay        = 0.99
		noImproveMax = 20
	)
	learningRate := 0.005

	arMom := make([]float64, o.p)
	maMom := make([]float64, o.q)
	sarMom := make([]float64, o.sp)
	smaMom := make([]float64, o.sq)

	startIdx := max(max(o.p, o.q), max(o.sp*o.m, o.sq*o.m))
	if startIdx >= n-minDiffLen {
		startIdx = 0
	}

	bestSSE := math.Inf(1)
	bestAR := make([]float64, o.p)
	bestMA := make([]float64, o.q)
	bestSAR := make([]float64, o.sp)
	bestSMA := make([]float64, o.sq)
	noImprove := 0

	for iter := 0; iter < maxIter; iter++ {
		residuals := make([]float64, n)
		var sse float64
		for t := startIdx; t < n; t++ {
			residuals[t] = y[t] - m.predictAt(t, n, y, residuals)
			sse += residuals[t] * residuals[t]
		}

		converged := iter > 0 && math.Abs(bestSSE-sse) < tolerance
		if sse < bestSSE {
			bestSSE = sse
			copy(bestAR, m.arCoef)
			copy(bestMA, m.maCoef)
			copy(bestSAR, m.sarCoef)
			copy(bestSMA, m.smaCoef)
			noImprove = 0
		} else {
			noImprove++
		}
		if converged || noImprove > noImproveMax {
			break
		}

		arGrad := make([]float64, o.p)
		maGrad := make([]float64, o.q)
		sarGrad := make([]float64, o.sp)
		smaGrad := make([]float64, o.sq)
		for t := startIdx; t < n; t++ {
			for i := 0; i < o.p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.intercept)
			}
			for i := 0; i < o.sp; i++ {
				lag := (i + 1) * o.m
				if t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - m.intercept)
				}
			}
			for i := 0; i < o.q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < o.sq; i++ {
				lag := (i + 1) * o.m
				if t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		step := func(coef, mom, grad []float64) {
			for i := range coef {
				mom[i] = momentum*mom[i] + learningRate*grad[i]/float64(n)
				coef[i] = clamp(coef[i]-mom[i], -0.99, 0.99)
			}
		}
		step(m.arCoef, arMom, arGrad)
		step(m.sarCoef, sarMom, sarGrad)
		step(m.maCoef, maMom, maGrad)
		step(m.smaCoef, smaMom, smaGrad)

		learningRate *= decay
	}

	copy(m.arCoef, bestAR)
	copy(m.maCoef, bestMA)
	copy(m.sarCoef, bestSAR)
	copy(m.smaCoef, bestSMA)

	m.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		m.residuals[t] = y[t] - m.predictAt(t, n, y, m.residuals)
	}

	var sse float64
	count := 0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	if k := m.order.numParams(); count > k {
		m.variance = sse / float64(count-k)
	} else {
		m.variance = sse / float64(count)
	}
}

func (m *model) calculateIC() {
	n := len(m.residuals)
	k := m.order.numParams()

	var sse float64
	for _, r := range m.residuals {
		sse += r * r
	}

	if m.variance > 0 {
		m.logLik = -float64(n)/2*math.Log(2*math.Pi) - float64(n)/2*math.Log(m.variance) - sse/(2*m.variance)
	} else {
		m.logLik = math.Inf(-1)
	}
	m.aic = -2*m.logLik + 2*float64(k)
}

// predict forecasts steps values ahead on the original scale with two-sided
// prediction intervals at the given confidence level. Interval width comes
// from the fitted residual variance and grows with horizon for differenced
// and seasonally differenced models.
func (m *model) predict(steps int, confidence float64) (forecasts, lower, upper []float64) {
	y := m.diffY
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)
	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		extY[t] = m.predictAt(t, n, extY, extResiduals)
	}

	forecasts = make([]float64, steps)
	copy(forecasts, extY[n:])
	forecasts = m.integrate(forecasts)

	z := stats.NormalQuantile((1 + confidence) / 2)
	lower = make([]float64, steps)
	upper = make([]float64, steps)
	for h := 0; h < steps; h++ {
		se := math.Sqrt(m.variance)
		if m.order.d > 0 {
			se *= math.Sqrt(float64(h + 1))
		}
		if m.order.sd > 0 && m.order.m > 0 {
			se *= math.Sqrt(float64(h/m.order.m + 1))
		}
		lower[h] = forecasts[h] - z*se
		upper[h] = forecasts[h] + z*se
	}
	return forecasts, lower, upper
}

// integrate undoes differencing to map forecasts back to the original scale.
// Fit applies non-seasonal differencing first, then seasonal, so integration
// undoes seasonal differencing first, then non-seasonal.
func (m *model) integrate(forecasts []float64) []float64 {
	d := m.order.d
	sd := m.order.sd
	period := m.order.m
	original := m.y
	n := len(original)

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	nonSeasonalDiff := original
	for i := 0; i < d; i++ {
		if len(nonSeasonalDiff) <= 1 {
			break
		}
		nonSeasonalDiff = stats.Diff(nonSeasonalDiff)
	}

	if sd > 0 && period > 0 {
		nDiff := len(nonSeasonalDiff)
		for i := 0; i < sd; i++ {
			for j := 0; j < len(result); j++ {
				if j < period {
					idx := nDiff - period + j
					if idx >= 0 && idx < nDiff {
						result[j] += nonSeasonalDiff[idx]
					}
				} else {
					result[j] += result[j-period]
				}
			}
		}
	}

	for i := 0; i < d; i++ {
		lastVal := original[n-1]
		for j := 0; j < len(result); j++ {
			if j == 0 {
				result[j] += lastVal
			} else {
				result[j] += result[j-1]
			}
		}
	}

	return result
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
