package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Fit holds one estimated model: point estimates, cluster-robust standard
// errors and the sample dimensions needed for the output tables.
type Fit struct {
	Names    []string
	Coef     []float64
	SE       []float64
	N        int
	Clusters int
	RSquared float64
}

// ZStat returns the coefficient's test statistic against zero.
func (f *Fit) ZStat(i int) float64 {
	if f.SE[i] == 0 {
		return 0
	}
	return f.Coef[i] / f.SE[i]
}

// PValue returns the two-sided p-value of the coefficient's z statistic.
func (f *Fit) PValue(i int) float64 {
	z := math.Abs(f.ZStat(i))
	return 2 * distuv.UnitNormal.Survival(z)
}

// FitOLS estimates the linear model by least squares with standard errors
// clustered on the frame's cluster ids.
func FitOLS(f *Frame) (*Fit, error) {
	n, k := f.X.Dims()

	var xtx mat.Dense
	xtx.Mul(f.X.T(), f.X)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("singular design matrix: %w", err)
	}

	y := mat.NewVecDense(n, f.Y)
	var xty mat.VecDense
	xty.MulVec(f.X.T(), y)

	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	// Residuals and fit
	var fitted mat.VecDense
	fitted.MulVec(f.X, &beta)

	residuals := make([]float64, n)
	ybar, rss, tss := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		ybar += f.Y[i]
	}
	ybar /= float64(n)
	for i := 0; i < n; i++ {
		residuals[i] = f.Y[i] - fitted.AtVec(i)
		rss += residuals[i] * residuals[i]
		tss += (f.Y[i] - ybar) * (f.Y[i] - ybar)
	}

	rsq := 0.0
	if tss > 0 {
		rsq = 1 - rss/tss
	}

	cov, clusters, err := clusterCovariance(f, &xtxInv, residuals)
	if err != nil {
		return nil, err
	}

	fit := &Fit{
		Names:    f.Names,
		Coef:     make([]float64, k),
		SE:       make([]float64, k),
		N:        n,
		Clusters: clusters,
		RSquared: rsq,
	}
	for i := 0; i < k; i++ {
		fit.Coef[i] = beta.AtVec(i)
		fit.SE[i] = math.Sqrt(cov.At(i, i))
	}

	return fit, nil
}

// clusterCovariance builds the sandwich estimator: the bread is the inverse
// information, the meat sums the outer products of per-cluster score totals.
// The small-sample factor matches the usual CR1 correction.
func clusterCovariance(f *Frame, bread *mat.Dense, scores []float64) (*mat.Dense, int, error) {
	n, k := f.X.Dims()

	clusterScores := make(map[string][]float64)
	for i := 0; i < n; i++ {
		s := clusterScores[f.Clusters[i]]
		if s == nil {
			s = make([]float64, k)
			clusterScores[f.Clusters[i]] = s
		}
		for j := 0; j < k; j++ {
			s[j] += f.X.At(i, j) * scores[i]
		}
	}

	g := len(clusterScores)
	if g < 2 {
		return nil, 0, fmt.Errorf("need at least two clusters, have %d", g)
	}

	meat := mat.NewDense(k, k, nil)
	for _, s := range clusterScores {
		sv := mat.NewVecDense(k, s)
		var outer mat.Dense
		outer.Outer(1, sv, sv)
		meat.Add(meat, &outer)
	}

	correction := float64(g) / float64(g-1) * float64(n-1) / float64(n-k)

	var cov mat.Dense
	cov.Mul(bread, meat)
	cov.Mul(&cov, bread)
	cov.Scale(correction, &cov)

	return &cov, g, nil
}
