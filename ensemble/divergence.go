/*
 * divergence.go, part of gomd.
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
	md "github.com/hmacdope/gomd"
	"gonum.org/v1/gonum/mat"
)

//SymmetrizedKL returns the symmetrized Kullback-Leibler divergence
//between two Gaussians of the same dimensionality,
//
//	KL(a||b) + KL(b||a) =
//	  1/2 [ tr(Cb^-1 Ca) + tr(Ca^-1 Cb) + dm^T (Ca^-1 + Cb^-1) dm - 2D ]
//
//with dm the difference of the means and D the dimensionality. It is
//zero for identical distributions and grows without bound as they
//separate. Both covariances must be invertible: a singular one (as
//maximum likelihood gives with fewer samples than coordinates) is
//reported as SingularCovarianceError rather than silently regularized.
func SymmetrizedKL(a, b *Gaussian) (float64, error) {
	d := a.Dim()
	if d != b.Dim() {
		return 0, md.NewDimensionMismatchError("ensemble.SymmetrizedKL", "Gaussians of dimension %d and %d", d, b.Dim())
	}
	inva, err := invertCovariance(a.Cov, "first")
	if err != nil {
		return 0, err
	}
	invb, err := invertCovariance(b.Cov, "second")
	if err != nil {
		return 0, err
	}
	//both factors are symmetric, so tr(A*B) = sum_ij A_ij*B_ij
	var traces float64
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			traces += invb.At(i, j) * a.Cov.At(i, j)
			traces += inva.At(i, j) * b.Cov.At(i, j)
		}
	}
	var quad float64
	for i := 0; i < d; i++ {
		dmi := a.Mean.AtVec(i) - b.Mean.AtVec(i)
		for j := 0; j < d; j++ {
			dmj := a.Mean.AtVec(j) - b.Mean.AtVec(j)
			quad += dmi * (inva.At(i, j) + invb.At(i, j)) * dmj
		}
	}
	return 0.5 * (traces + quad - 2*float64(d)), nil
}

//invertCovariance inverts a covariance matrix through its Cholesky
//factorization, which doubles as the positive-definiteness check.
func invertCovariance(cov *mat.SymDense, which string) (*mat.SymDense, error) {
	var ch mat.Cholesky
	if ok := ch.Factorize(cov); !ok {
		return nil, md.NewSingularCovarianceError("ensemble.SymmetrizedKL", "The %s covariance matrix is not positive definite", which)
	}
	inv := mat.NewSymDense(cov.SymmetricDim(), nil)
	if err := ch.InverseTo(inv); err != nil {
		return nil, md.NewSingularCovarianceError("ensemble.SymmetrizedKL", "Can't invert the %s covariance matrix: %v", which, err)
	}
	return inv, nil
}
