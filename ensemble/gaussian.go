/*
 * gaussian.go, part of gomd.
 *
 * Copyright 2024 The gomd authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package ensemble

import (
	"fmt"
	"math"

	md "github.com/hmacdope/gomd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//Estimator selects the covariance estimator used when fitting a Gaussian
//to an ensemble.
type Estimator int

const (
	//Shrinkage is the default estimator. It blends the sample covariance
	//with a structured target, with the blending intensity estimated from
	//the data itself (Ledoit-Wolf, in the Schafer-Strimmer formulation).
	//The result is well conditioned, and invertible, even with far fewer
	//samples than coordinates.
	Shrinkage Estimator = iota
	//MaxLikelihood is the plain 1/n second-moment covariance of the
	//conformations, with no bias correction.
	//It is singular whenever the ensemble has fewer samples than
	//coordinate dimensions, which for molecules of any size is the rule
	//rather than the exception.
	MaxLikelihood
)

//Gaussian is a multivariate normal distribution over the flattened
//coordinate space of an ensemble: a mean conformation and a covariance
//matrix.
type Gaussian struct {
	Mean *mat.VecDense
	Cov  *mat.SymDense
}

//Dim returns the dimensionality of the distribution.
func (G *Gaussian) Dim() int {
	return G.Mean.Len()
}

//Estimate fits a Gaussian to the ensemble with the given estimator.
//weights, if not nil, holds one weight per atom (typically masses); the
//covariance is then conjugated with the square roots of the weights, so
//heavy atoms count more in the comparison. The mean is always unweighted.
//Estimation needs at least 2 samples.
func Estimate(E *Ensemble, weights []float64, est Estimator) (*Gaussian, error) {
	n := E.Len()
	d := E.Dim()
	if n < 2 {
		return nil, md.NewInsufficientSamplesError("ensemble.Estimate", "Can't estimate a covariance from %d samples", n)
	}
	if weights != nil && len(weights) != E.NAtoms() {
		return nil, md.NewDimensionMismatchError("ensemble.Estimate", "%d weights for %d atoms", len(weights), E.NAtoms())
	}
	mean := make([]float64, d)
	for i := 0; i < n; i++ {
		floats.Add(mean, E.samples.RawRowView(i))
	}
	floats.Scale(1/float64(n), mean)
	var cov *mat.SymDense
	switch est {
	case MaxLikelihood:
		//stat gives the unbiased 1/(n-1) covariance; maximum likelihood
		//is the 1/n second moment, so rescale.
		cov = mat.NewSymDense(d, nil)
		stat.CovarianceMatrix(cov, E.samples, nil)
		cov.ScaleSym(float64(n-1)/float64(n), cov)
	case Shrinkage:
		centered := mat.NewDense(n, d, nil)
		for i := 0; i < n; i++ {
			row := E.samples.RawRowView(i)
			for j := 0; j < d; j++ {
				centered.Set(i, j, row[j]-mean[j])
			}
		}
		cov = shrinkageCovariance(centered)
	default:
		return nil, fmt.Errorf("ensemble.Estimate: unknown estimator %d", int(est))
	}
	if weights != nil {
		applyWeights(cov, weights)
	}
	return &Gaussian{Mean: mat.NewVecDense(d, mean), Cov: cov}, nil
}

//sampleCovariance returns X^T*X/div for the centered sample matrix X.
func sampleCovariance(centered *mat.Dense, div float64) *mat.SymDense {
	n, d := centered.Dims()
	cov := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			var s float64
			for k := 0; k < n; k++ {
				s += centered.At(k, i) * centered.At(k, j)
			}
			cov.SetSym(i, j, s/div)
		}
	}
	return cov
}

//shrinkageCovariance blends the (biased, 1/n) sample covariance with a
//single-index target whose off-diagonal structure comes from each
//coordinate's covariance with the per-sample average coordinate, and
//whose diagonal is the sample variances. The blending intensity is the
//analytic optimum of Ledoit and Wolf, clamped to [0,1].
func shrinkageCovariance(centered *mat.Dense) *mat.SymDense {
	n, d := centered.Dims()
	t := float64(n)
	sample := sampleCovariance(centered, t)
	//xmkt is the average of all coordinates within each sample
	xmkt := make([]float64, n)
	for k := 0; k < n; k++ {
		row := centered.RawRowView(k)
		var s float64
		for j := 0; j < d; j++ {
			s += row[j]
		}
		xmkt[k] = s / float64(d)
	}
	covmkt := make([]float64, d)
	var varmkt float64
	for k := 0; k < n; k++ {
		varmkt += xmkt[k] * xmkt[k]
		row := centered.RawRowView(k)
		for j := 0; j < d; j++ {
			covmkt[j] += row[j] * xmkt[k]
		}
	}
	varmkt /= t
	for j := 0; j < d; j++ {
		covmkt[j] /= t
	}
	prior := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		prior.SetSym(i, i, sample.At(i, i))
		for j := i + 1; j < d; j++ {
			prior.SetSym(i, j, covmkt[i]*covmkt[j]/varmkt)
		}
	}
	lambda := shrinkageIntensity(centered, sample, prior, covmkt, varmkt, xmkt)
	shrunk := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			shrunk.SetSym(i, j, lambda*prior.At(i, j)+(1-lambda)*sample.At(i, j))
		}
	}
	return shrunk
}

//shrinkageIntensity computes the Ledoit-Wolf optimal blending constant
//for the single-index target.
func shrinkageIntensity(centered *mat.Dense, sample, prior *mat.SymDense, covmkt []float64, varmkt float64, xmkt []float64) float64 {
	n, d := centered.Dims()
	t := float64(n)
	//c: squared Frobenius distance between sample and target
	var c float64
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			diff := sample.At(i, j) - prior.At(i, j)
			c += diff * diff
		}
	}
	if c <= 0 {
		return 0
	}
	//p: total asymptotic variance of the sample covariance entries,
	//p = 1/t * sum_ij (y^T y)_ij - sum_ij sample_ij^2, with y = x.^2
	y := mat.NewDense(n, d, nil)
	z := mat.NewDense(n, d, nil)
	for k := 0; k < n; k++ {
		row := centered.RawRowView(k)
		for j := 0; j < d; j++ {
			y.Set(k, j, row[j]*row[j])
			z.Set(k, j, row[j]*xmkt[k])
		}
	}
	var p, rdiag, sampsq, diagsq float64
	yty := mat.NewDense(d, d, nil)
	yty.Mul(y.T(), y)
	for i := 0; i < d; i++ {
		diagsq += sample.At(i, i) * sample.At(i, i)
		for j := 0; j < d; j++ {
			p += yty.At(i, j)
			sampsq += sample.At(i, j) * sample.At(i, j)
		}
	}
	p = p/t - sampsq
	//rdiag: the diagonal part of the covariance between sample and target
	for k := 0; k < n; k++ {
		for j := 0; j < d; j++ {
			rdiag += y.At(k, j) * y.At(k, j)
		}
	}
	rdiag = rdiag/t - diagsq
	//off-diagonal part, through the covariances with the market column
	v1 := mat.NewDense(d, d, nil)
	v1.Mul(y.T(), z)
	var roff1, roff1diag float64
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			v := v1.At(i, j)/t - covmkt[i]*sample.At(i, j)
			roff1 += v * covmkt[j]
			if i == j {
				roff1diag += v * covmkt[i]
			}
		}
	}
	roff1 = (roff1 - roff1diag) / varmkt
	v3m := mat.NewDense(d, d, nil)
	v3m.Mul(z.T(), z)
	var roff3, roff3diag float64
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			v := v3m.At(i, j)/t - varmkt*sample.At(i, j)
			roff3 += v * covmkt[i] * covmkt[j]
			if i == j {
				roff3diag += v * covmkt[i] * covmkt[i]
			}
		}
	}
	roff3 = (roff3 - roff3diag) / (varmkt * varmkt)
	roff := 2*roff1 - roff3
	r := rdiag + roff
	k := (p - r) / c
	return math.Max(0, math.Min(1, k/t))
}

//applyWeights conjugates cov with the square roots of the per-atom
//weights, each weight covering its atom's 3 coordinates.
func applyWeights(cov *mat.SymDense, weights []float64) {
	d := cov.SymmetricDim()
	sw := make([]float64, d)
	for a, w := range weights {
		r := math.Sqrt(w)
		sw[a*3] = r
		sw[a*3+1] = r
		sw[a*3+2] = r
	}
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			cov.SetSym(i, j, sw[i]*sw[j]*cov.At(i, j))
		}
	}
}
