/*
 * ensemble_test.go, part of gomd.
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
	"math"
	"math/rand"
	"testing"

	md "github.com/hmacdope/gomd"
	v3 "github.com/hmacdope/gomd/v3"
)

//noisyEnsemble builds an ensemble of n conformations: the given base
//structure plus independent Gaussian noise of the given spread on every
//coordinate.
func noisyEnsemble(Te *testing.T, r *rand.Rand, base *v3.Matrix, n int, spread float64) *Ensemble {
	frames := make([]*v3.Matrix, n)
	na := base.NVecs()
	for f := 0; f < n; f++ {
		c := v3.Zeros(na)
		for i := 0; i < na; i++ {
			for j := 0; j < 3; j++ {
				c.Set(i, j, base.At(i, j)+spread*r.NormFloat64())
			}
		}
		frames[f] = c
	}
	E, err := New(frames, nil)
	if err != nil {
		Te.Fatal(err)
	}
	return E
}

func baseStructure(Te *testing.T, shift float64) *v3.Matrix {
	c, err := v3.NewMatrix([]float64{
		0 + shift, 0, 0,
		1.5 + shift, 0, 0,
		2.1 + shift, 1.3, 0,
		2.0 + shift, 1.9, 1.2,
	})
	if err != nil {
		Te.Fatal(err)
	}
	return c
}

func TestEnsembleBasics(Te *testing.T) {
	r := rand.New(rand.NewSource(1))
	base := baseStructure(Te, 0)
	E := noisyEnsemble(Te, r, base, 7, 0.1)
	if E.Len() != 7 || E.NAtoms() != 4 || E.Dim() != 12 {
		Te.Fatalf("unexpected ensemble shape: %d samples, %d atoms, dim %d", E.Len(), E.NAtoms(), E.Dim())
	}
	//Sample returns a live view
	s := E.Sample(3)
	old := s.At(2, 1)
	s.Set(2, 1, old+1)
	if E.Sample(3).At(2, 1) != old+1 {
		Te.Error("Sample is not a view into the ensemble")
	}
}

func TestFromTraj(Te *testing.T) {
	base := baseStructure(Te, 0)
	traj := md.NewMemTraj(4)
	for f := 0; f < 5; f++ {
		c := v3.Zeros(4)
		c.Copy(base)
		c.Set(0, 0, float64(f))
		if err := traj.AppendFrame(c, nil); err != nil {
			Te.Fatal(err)
		}
	}
	E, err := FromTraj(traj, []int{0, 2})
	if err != nil {
		Te.Fatal(err)
	}
	if E.Len() != 5 || E.NAtoms() != 2 {
		Te.Fatalf("unexpected ensemble shape: %d samples, %d atoms", E.Len(), E.NAtoms())
	}
	for f := 0; f < 5; f++ {
		s := E.Sample(f)
		if s.At(0, 0) != float64(f) {
			Te.Errorf("sample %d atom 0 x: got %f, want %d", f, s.At(0, 0), f)
		}
		if s.At(1, 0) != base.At(2, 0) {
			Te.Errorf("sample %d atom 1 was not taken from index 2", f)
		}
	}
}

func TestEstimateErrors(Te *testing.T) {
	base := baseStructure(Te, 0)
	one, err := New([]*v3.Matrix{base}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := Estimate(one, nil, Shrinkage); err == nil {
		Te.Error("expected an error estimating from a single sample")
	} else if _, ok := err.(md.InsufficientSamplesError); !ok {
		Te.Errorf("expected InsufficientSamplesError, got %T", err)
	}
	r := rand.New(rand.NewSource(2))
	E := noisyEnsemble(Te, r, base, 30, 0.1)
	if _, err := Estimate(E, []float64{1, 2}, Shrinkage); err == nil {
		Te.Error("expected an error for mismatched weights")
	} else if _, ok := err.(md.DimensionMismatchError); !ok {
		Te.Errorf("expected DimensionMismatchError, got %T", err)
	}
}

func TestEstimateWeights(Te *testing.T) {
	r := rand.New(rand.NewSource(3))
	base := baseStructure(Te, 0)
	E := noisyEnsemble(Te, r, base, 50, 0.2)
	plain, err := Estimate(E, nil, Shrinkage)
	if err != nil {
		Te.Fatal(err)
	}
	weighted, err := Estimate(E, []float64{4, 4, 4, 4}, Shrinkage)
	if err != nil {
		Te.Fatal(err)
	}
	//a uniform weight w scales every covariance entry by w
	for i := 0; i < plain.Dim(); i++ {
		for j := 0; j < plain.Dim(); j++ {
			if math.Abs(weighted.Cov.At(i, j)-4*plain.Cov.At(i, j)) > 1e-9 {
				Te.Fatalf("weighting did not scale the covariance at %d,%d", i, j)
			}
		}
	}
	//the mean is unweighted
	for i := 0; i < plain.Dim(); i++ {
		if weighted.Mean.AtVec(i) != plain.Mean.AtVec(i) {
			Te.Error("weighting changed the mean")
			break
		}
	}
}

//TestMaxLikelihoodNormalization pins the maximum likelihood estimator to
//the 1/n second moment, not the unbiased 1/(n-1) covariance.
func TestMaxLikelihoodNormalization(Te *testing.T) {
	a := v3.Zeros(1)
	b := v3.Zeros(1)
	b.Set(0, 0, 2)
	E, err := New([]*v3.Matrix{a, b}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	g, err := Estimate(E, nil, MaxLikelihood)
	if err != nil {
		Te.Fatal(err)
	}
	//samples 0 and 2 along x: mean 1, second moment ((0-1)^2+(2-1)^2)/2
	if math.Abs(g.Cov.At(0, 0)-1.0) > 1e-12 {
		Te.Errorf("ML variance: got %f, want 1.0", g.Cov.At(0, 0))
	}
	if math.Abs(g.Mean.AtVec(0)-1.0) > 1e-12 {
		Te.Errorf("ML mean: got %f, want 1.0", g.Mean.AtVec(0))
	}
}

func TestSymmetrizedKLSelf(Te *testing.T) {
	r := rand.New(rand.NewSource(4))
	base := baseStructure(Te, 0)
	E := noisyEnsemble(Te, r, base, 60, 0.3)
	g, err := Estimate(E, nil, Shrinkage)
	if err != nil {
		Te.Fatal(err)
	}
	d, err := SymmetrizedKL(g, g)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(d) > 1e-6 {
		Te.Errorf("self-divergence: got %e, want ~0", d)
	}
}

//TestMaxLikelihoodSingular checks the estimator contrast that motivates
//shrinkage: with fewer samples than coordinate dimensions the maximum
//likelihood covariance is singular and the divergence refuses it, while
//the shrunk one stays invertible on the same data.
func TestMaxLikelihoodSingular(Te *testing.T) {
	r := rand.New(rand.NewSource(5))
	base := baseStructure(Te, 0)
	//12 dimensions, 8 samples
	E := noisyEnsemble(Te, r, base, 8, 0.2)
	F := noisyEnsemble(Te, r, base, 8, 0.2)
	gml1, err := Estimate(E, nil, MaxLikelihood)
	if err != nil {
		Te.Fatal(err)
	}
	gml2, err := Estimate(F, nil, MaxLikelihood)
	if err != nil {
		Te.Fatal(err)
	}
	_, err = SymmetrizedKL(gml1, gml2)
	if err == nil {
		Te.Fatal("expected an error with rank-deficient ML covariances")
	}
	if _, ok := err.(md.SingularCovarianceError); !ok {
		Te.Errorf("expected SingularCovarianceError, got %T: %v", err, err)
	}
	gs1, err := Estimate(E, nil, Shrinkage)
	if err != nil {
		Te.Fatal(err)
	}
	gs2, err := Estimate(F, nil, Shrinkage)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := SymmetrizedKL(gs1, gs2); err != nil {
		Te.Errorf("shrinkage covariances should be invertible: %v", err)
	}
}

func TestHES(Te *testing.T) {
	r := rand.New(rand.NewSource(6))
	near := baseStructure(Te, 0)
	far := baseStructure(Te, 3)
	ensembles := []*Ensemble{
		noisyEnsemble(Te, r, near, 98, 0.2),
		noisyEnsemble(Te, r, near, 102, 0.2),
		noisyEnsemble(Te, r, far, 10, 0.2),
		noisyEnsemble(Te, r, far, 25, 0.2),
	}
	m, gaussians, err := HES(ensembles, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(gaussians) != 4 {
		Te.Fatalf("expected 4 gaussians, got %d", len(gaussians))
	}
	ne, _ := m.Dims()
	if ne != 4 {
		Te.Fatalf("expected a 4x4 matrix, got %dx%d", ne, ne)
	}
	for i := 0; i < ne; i++ {
		if m.At(i, i) != 0 {
			Te.Errorf("diagonal entry %d: got %f, want 0", i, m.At(i, i))
		}
		for j := 0; j < ne; j++ {
			if m.At(i, j) != m.At(j, i) {
				Te.Errorf("matrix not symmetric at %d,%d", i, j)
			}
			if m.At(i, j) < -1e-9 {
				Te.Errorf("negative divergence at %d,%d: %f", i, j, m.At(i, j))
			}
		}
	}
	//ensembles around the same structure must be closer than ensembles
	//around different ones
	if m.At(0, 1) >= m.At(0, 2) {
		Te.Errorf("similar pair (%f) not closer than dissimilar pair (%f)", m.At(0, 1), m.At(0, 2))
	}
	if m.At(2, 3) >= m.At(1, 3) {
		Te.Errorf("similar pair (%f) not closer than dissimilar pair (%f)", m.At(2, 3), m.At(1, 3))
	}
}

func TestHESErrors(Te *testing.T) {
	r := rand.New(rand.NewSource(7))
	base := baseStructure(Te, 0)
	E := noisyEnsemble(Te, r, base, 20, 0.2)
	if _, _, err := HES(nil, nil); err == nil {
		Te.Error("expected an error with no ensembles")
	}
	//a single ensemble is a valid, trivial comparison
	m1, g1, err := HES([]*Ensemble{E}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if rows, _ := m1.Dims(); rows != 1 || m1.At(0, 0) != 0 || len(g1) != 1 {
		Te.Errorf("single-ensemble HES: got %dx%d matrix (diag %f), %d gaussians", rows, rows, m1.At(0, 0), len(g1))
	}
	smaller, err := New([]*v3.Matrix{v3.Zeros(2), v3.Zeros(2)}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	_, _, err = HES([]*Ensemble{E, smaller}, nil)
	if err == nil {
		Te.Fatal("expected an error for mismatched ensembles")
	}
	if _, ok := err.(md.DimensionMismatchError); !ok {
		Te.Errorf("expected DimensionMismatchError, got %T", err)
	}
	if _, _, err := HES([]*Ensemble{E, E}, &Options{Weights: [][]float64{{1, 1, 1, 1}}}); err == nil {
		Te.Error("expected an error for a wrong number of weight sets")
	}
}

//TestHESAlign checks that prior superposition removes rigid-body motion:
//an ensemble made of rotated copies of another's conformations is nearly
//identical to it after alignment, and far from it without.
func TestHESAlign(Te *testing.T) {
	r := rand.New(rand.NewSource(8))
	base := baseStructure(Te, 0)
	a := noisyEnsemble(Te, r, base, 40, 0.1)
	frames := make([]*v3.Matrix, a.Len())
	for i := range frames {
		src := a.Sample(i)
		c := v3.Zeros(a.NAtoms())
		//rotate each conformation by a frame-dependent angle around z
		ang := 0.1 * float64(i+1)
		cos, sin := math.Cos(ang), math.Sin(ang)
		for k := 0; k < a.NAtoms(); k++ {
			x, y, z := src.At(k, 0), src.At(k, 1), src.At(k, 2)
			c.Set(k, 0, x*cos-y*sin+2)
			c.Set(k, 1, x*sin+y*cos-1)
			c.Set(k, 2, z+0.5)
		}
		frames[i] = c
	}
	b, err := New(frames, nil)
	if err != nil {
		Te.Fatal(err)
	}
	mraw, _, err := HES([]*Ensemble{a, b}, &Options{Estimator: Shrinkage})
	if err != nil {
		Te.Fatal(err)
	}
	raw := mraw.At(0, 1)
	maligned, _, err := HES([]*Ensemble{a, b}, &Options{Estimator: Shrinkage, Align: true})
	if err != nil {
		Te.Fatal(err)
	}
	aligned := maligned.At(0, 1)
	if aligned >= raw {
		Te.Errorf("alignment did not reduce the divergence: %f >= %f", aligned, raw)
	}
}
