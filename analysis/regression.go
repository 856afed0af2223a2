package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDegenerateFit is returned when a line cannot be fitted to the points.
var ErrDegenerateFit = errors.New("cannot fit line: need at least two points with distinct x")

// Fit is an ordinary least squares line y = Alpha + Beta*x together with the
// Pearson correlation of the points it was fitted to.
type Fit struct {
	Alpha float64
	Beta  float64
	R     float64 // NaN when y is constant
	P     float64 // two-sided p-value for R, NaN when N < 3
	N     int
}

// FitOLS fits a least squares line to the paired samples xs, ys.
func FitOLS(xs, ys []float64) (Fit, error) {
	if len(xs) != len(ys) {
		return Fit{}, fmt.Errorf("fit: length mismatch %d != %d", len(xs), len(ys))
	}
	n := len(xs)
	if n < 2 || floats.Min(xs) == floats.Max(xs) {
		return Fit{}, ErrDegenerateFit
	}

	f := Fit{N: n, R: math.NaN(), P: math.NaN()}
	f.Alpha, f.Beta = stat.LinearRegression(xs, ys, nil, false)

	if floats.Min(ys) != floats.Max(ys) {
		f.R = stat.Correlation(xs, ys, nil)
		f.P = pearsonP(f.R, n)
	}
	return f, nil
}

// pearsonP is the two-sided p-value of correlation r over n samples, using
// t = r*sqrt((n-2)/(1-r^2)) with n-2 degrees of freedom.
func pearsonP(r float64, n int) float64 {
	if n < 3 || math.IsNaN(r) {
		return math.NaN()
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.Survival(math.Abs(t))
}

// At evaluates the fitted line.
func (f Fit) At(x float64) float64 {
	return f.Alpha + f.Beta*x
}

// Equation renders the line as "y = a + bx".
func (f Fit) Equation() string {
	sign := "+"
	b := f.Beta
	if b < 0 {
		sign, b = "-", -b
	}
	return fmt.Sprintf("y = %.3f %s %.3fx", f.Alpha, sign, b)
}

// Correlation renders R and P for a chart label.
func (f Fit) Correlation() string {
	if math.IsNaN(f.R) {
		return "R = n/a"
	}
	if math.IsNaN(f.P) {
		return fmt.Sprintf("R = %.3f", f.R)
	}
	if f.P < 0.001 {
		return fmt.Sprintf("R = %.3f, p < 0.001", f.R)
	}
	return fmt.Sprintf("R = %.3f, p = %.3f", f.R, f.P)
}
