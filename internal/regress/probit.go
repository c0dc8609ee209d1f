package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	probitMaxIter = 100
	probitTol     = 1e-9

	// Keeps the likelihood terms away from log(0) at extreme linear
	// predictors.
	probFloor = 1e-10
)

// FitProbit estimates the binary-outcome model by Fisher scoring with
// standard errors clustered on the frame's cluster ids. The outcome vector
// must contain only zeros and ones.
func FitProbit(f *Frame) (*Fit, error) {
	n, k := f.X.Dims()

	ones := 0
	for _, v := range f.Y {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("probit outcome must be binary, found %v", v)
		}
		if v == 1 {
			ones++
		}
	}
	if ones == 0 || ones == n {
		return nil, fmt.Errorf("probit outcome has no variation: %d of %d positive", ones, n)
	}

	beta := mat.NewVecDense(k, nil)
	xb := mat.NewVecDense(n, nil)
	scores := make([]float64, n)
	weights := make([]float64, n)

	converged := false
	for iter := 0; iter < probitMaxIter; iter++ {
		xb.MulVec(f.X, beta)

		for i := 0; i < n; i++ {
			z := xb.AtVec(i)
			cdf := clampProb(distuv.UnitNormal.CDF(z))
			pdf := distuv.UnitNormal.Prob(z)

			scores[i] = pdf * (f.Y[i] - cdf) / (cdf * (1 - cdf))
			weights[i] = pdf * pdf / (cdf * (1 - cdf))
		}

		// Fisher scoring step: solve I(beta) * step = gradient
		info := mat.NewDense(k, k, nil)
		grad := mat.NewVecDense(k, nil)
		for i := 0; i < n; i++ {
			for a := 0; a < k; a++ {
				xa := f.X.At(i, a)
				grad.SetVec(a, grad.AtVec(a)+xa*scores[i])
				for b := 0; b < k; b++ {
					info.Set(a, b, info.At(a, b)+weights[i]*xa*f.X.At(i, b))
				}
			}
		}

		var step mat.VecDense
		if err := step.SolveVec(info, grad); err != nil {
			return nil, fmt.Errorf("singular information matrix: %w", err)
		}
		beta.AddVec(beta, &step)

		if mat.Norm(&step, math.Inf(1)) < probitTol {
			converged = true
			break
		}
	}
	if !converged {
		return nil, fmt.Errorf("probit did not converge in %d iterations", probitMaxIter)
	}

	fit := &Fit{
		Names: f.Names,
		Coef:  make([]float64, k),
		SE:    make([]float64, k),
		N:     n,
	}
	for i := 0; i < k; i++ {
		fit.Coef[i] = beta.AtVec(i)
	}

	cov, clusters, err := probitCovariance(f, fit)
	if err != nil {
		return nil, err
	}
	fit.Clusters = clusters
	for i := 0; i < k; i++ {
		fit.SE[i] = math.Sqrt(cov.At(i, i))
	}

	return fit, nil
}

// MarginalEffects computes the effects of each regressor on the outcome
// probability at the sample mean of the covariates, with delta-method
// standard errors. The intercept carries no marginal effect and is dropped.
func MarginalEffects(f *Frame, fit *Fit) (*Fit, error) {
	n, k := f.X.Dims()

	means := make([]float64, k)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			means[j] += f.X.At(i, j)
		}
	}
	z := 0.0
	for j := 0; j < k; j++ {
		means[j] /= float64(n)
		z += means[j] * fit.Coef[j]
	}

	pdf := distuv.UnitNormal.Prob(z)

	// The delta method needs the full coefficient covariance, not just
	// its diagonal
	cov, _, err := probitCovariance(f, fit)
	if err != nil {
		return nil, err
	}

	// Jacobian of pdf(z)*beta_j with respect to beta: row j is
	// pdf(z) * (e_j - z * beta_j * xbar)
	jac := mat.NewDense(k-1, k, nil)
	for j := 1; j < k; j++ {
		for c := 0; c < k; c++ {
			v := -z * fit.Coef[j] * means[c]
			if c == j {
				v++
			}
			jac.Set(j-1, c, pdf*v)
		}
	}

	var mfxCov mat.Dense
	mfxCov.Mul(jac, cov)
	mfxCov.Mul(&mfxCov, jac.T())

	mfx := &Fit{
		Names:    fit.Names[1:],
		Coef:     make([]float64, k-1),
		SE:       make([]float64, k-1),
		N:        fit.N,
		Clusters: fit.Clusters,
	}
	for j := 1; j < k; j++ {
		mfx.Coef[j-1] = pdf * fit.Coef[j]
		mfx.SE[j-1] = math.Sqrt(mfxCov.At(j-1, j-1))
	}

	return mfx, nil
}

// probitCovariance rebuilds the clustered coefficient covariance at the
// fitted estimates.
func probitCovariance(f *Frame, fit *Fit) (*mat.Dense, int, error) {
	n, k := f.X.Dims()

	beta := mat.NewVecDense(k, fit.Coef)
	var xb mat.VecDense
	xb.MulVec(f.X, beta)

	scores := make([]float64, n)
	info := mat.NewDense(k, k, nil)
	for i := 0; i < n; i++ {
		z := xb.AtVec(i)
		cdf := clampProb(distuv.UnitNormal.CDF(z))
		pdf := distuv.UnitNormal.Prob(z)
		scores[i] = pdf * (f.Y[i] - cdf) / (cdf * (1 - cdf))
		w := pdf * pdf / (cdf * (1 - cdf))
		for a := 0; a < k; a++ {
			for b := 0; b < k; b++ {
				info.Set(a, b, info.At(a, b)+w*f.X.At(i, a)*f.X.At(i, b))
			}
		}
	}

	var bread mat.Dense
	if err := bread.Inverse(info); err != nil {
		return nil, 0, fmt.Errorf("singular information matrix: %w", err)
	}

	return clusterCovariance(f, &bread, scores)
}

func clampProb(p float64) float64 {
	if p < probFloor {
		return probFloor
	}
	if p > 1-probFloor {
		return 1 - probFloor
	}
	return p
}
