package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrADFSampleSize      = errors.New("not enough observations for dickey-fuller regression")
	ErrSingularRegression = errors.New("dickey-fuller regression matrix is singular")
)

// ADFResult holds the outcome of an Augmented Dickey-Fuller test. The null
// hypothesis is that the series has a unit root; Stationary is true when the
// null is rejected at the 5% level.
type ADFResult struct {
	Statistic  float64
	PValue     float64
	Lags       int
	NObs       int
	Stationary bool
}

// ADF performs the Augmented Dickey-Fuller unit-root test with a constant
// term. When maxLag is not positive the lag order defaults to
// floor((n-1)^(1/3)). The regression
//
//	delta_y_t = alpha + beta*y_{t-1} + sum_i gamma_i*delta_y_{t-i} + e_t
//
// is solved by QR factorization and the t-statistic of beta is compared
// against the MacKinnon response surface to approximate a p-value.
func ADF(y []float64, maxLag int) (*ADFResult, error) {
	n := len(y)
	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(math.Max(float64(n-1), 1.0), 1.0/3.0)))
	}

	nObs := n - maxLag - 1
	k := 2 + maxLag
	if nObs < k+2 {
		return nil, fmt.Errorf("got %d usable observations for %d regressors, %w", nObs, k, ErrADFSampleSize)
	}

	diff := Diff(y)

	x := mat.NewDense(nObs, k, nil)
	target := mat.NewDense(nObs, 1, nil)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		target.Set(i, 0, diff[t])
		x.Set(i, 0, 1.0)
		x.Set(i, 1, y[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff[t-j])
		}
	}

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, target); err != nil {
		return nil, fmt.Errorf("unable to solve regression, %w", ErrSingularRegression)
	}

	var sse float64
	for i := 0; i < nObs; i++ {
		pred := 0.0
		for j := 0; j < k; j++ {
			pred += beta.At(j, 0) * x.At(i, j)
		}
		resid := target.At(i, 0) - pred
		sse += resid * resid
	}
	s2 := sse / float64(nObs-k)

	var xtx, xtxInv mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("unable to invert gram matrix, %w", ErrSingularRegression)
	}

	se := math.Sqrt(s2 * xtxInv.At(1, 1))
	if se == 0 {
		return nil, ErrSingularRegression
	}
	tStat := beta.At(1, 0) / se
	pValue := mackinnonPValue(tStat)

	return &ADFResult{
		Statistic:  tStat,
		PValue:     pValue,
		Lags:       maxLag,
		NObs:       nObs,
		Stationary: pValue < 0.05,
	}, nil
}

// mackinnonPValue approximates the p-value of an ADF t-statistic for the
// constant-only regression using the MacKinnon (1994) critical values.
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}
