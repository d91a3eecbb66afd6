package analyze

import (
	"fmt"
	"math"
)

// PairedRegression holds the result of regressing y on x over their common
// support. Used by the cross-country convergence workflow (beta-convergence:
// regress growth on initial level) and by any two-series comparison.
type PairedRegression struct {
	N           int     `json:"n"`
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	R2          float64 `json:"r2"`
	TStat       float64 `json:"t_stat"`
	PValue      float64 `json:"p_value"` // two-sided, Student's t with n-2 df
	StdErrSlope float64 `json:"std_err_slope"`
}

// Regress fits y = slope*x + intercept by OLS over paired (x[i], y[i])
// observations, and reports the two-sided p-value for the null hypothesis
// slope == 0. x and y must be the same length and already aligned
// (internal/transform.Align produces such pairs for two series).
func Regress(x, y []float64) (PairedRegression, error) {
	if len(x) != len(y) {
		return PairedRegression{}, fmt.Errorf("regress: x and y have different lengths (%d vs %d)", len(x), len(y))
	}
	n := len(x)
	if n < 3 {
		return PairedRegression{}, fmt.Errorf("regress: need at least 3 paired observations, got %d", n)
	}

	pts := make([]point, n)
	for i := range x {
		pts[i] = point{x[i], y[i]}
	}

	slope, intercept := olsRegress(pts)
	result := PairedRegression{N: n, Slope: slope, Intercept: intercept, R2: r2(pts, slope, intercept)}

	// Standard error of the slope from residual variance, per the usual
	// simple-linear-regression formula: se(slope) = sqrt(SSres/(n-2) / Sxx).
	var ssRes, sxx, xMean float64
	for _, p := range pts {
		xMean += p.x
	}
	xMean /= float64(n)
	for _, p := range pts {
		pred := slope*p.x + intercept
		d := p.y - pred
		ssRes += d * d
		dx := p.x - xMean
		sxx += dx * dx
	}
	if n <= 2 || sxx == 0 {
		result.StdErrSlope = math.NaN()
		result.TStat = math.NaN()
		result.PValue = math.NaN()
		return result, nil
	}
	residualVar := ssRes / float64(n-2)
	result.StdErrSlope = math.Sqrt(residualVar / sxx)
	if result.StdErrSlope == 0 {
		result.TStat = math.Inf(1)
		result.PValue = 0
		return result, nil
	}
	result.TStat = slope / result.StdErrSlope
	result.PValue = twoSidedT(result.TStat, n-2)
	return result, nil
}

// twoSidedT approximates the two-sided p-value of a Student's t statistic
// with df degrees of freedom via the regularized incomplete beta function.
func twoSidedT(t float64, df int) float64 {
	if df <= 0 {
		return math.NaN()
	}
	x := float64(df) / (float64(df) + t*t)
	p := incompleteBeta(x, float64(df)/2, 0.5)
	if p > 1 {
		p = 1
	}
	if p < 0 {
		p = 0
	}
	return p
}

// incompleteBeta evaluates the regularized incomplete beta function I_x(a,b)
// via a continued fraction expansion (Numerical Recipes' betacf), the
// standard approach for converting a t or F statistic into a p-value
// without a full stats package.
func incompleteBeta(x, a, b float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	lbeta := lgamma(a+b) - lgamma(a) - lgamma(b) + a*math.Log(x) + b*math.Log(1-x)
	front := math.Exp(lbeta)

	if x < (a+1)/(a+b+2) {
		return front * betacf(x, a, b) / a
	}
	return 1 - front*betacf(1-x, b, a)/b
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

// betacf is the continued-fraction evaluation used by incompleteBeta.
func betacf(x, a, b float64) float64 {
	const (
		maxIter = 200
		eps     = 3e-14
		fpmin   = 1e-300
	)
	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < fpmin {
		d = fpmin
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIter; m++ {
		fm := float64(m)
		m2 := 2 * fm

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpmin {
			d = fpmin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpmin {
			c = fpmin
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpmin {
			d = fpmin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpmin {
			c = fpmin
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < eps {
			break
		}
	}
	return h
}
