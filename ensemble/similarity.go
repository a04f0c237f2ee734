/*
 * similarity.go, part of gomd.
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
	"strconv"

	md "github.com/hmacdope/gomd"
	v3 "github.com/hmacdope/gomd/v3"
	"gonum.org/v1/gonum/mat"
)

//Options collects the settings of a similarity calculation. The zero
//value (or a nil *Options) means: shrinkage estimator, no prior
//alignment, unweighted atoms.
type Options struct {
	//Estimator is the covariance estimator for every ensemble.
	Estimator Estimator
	//Align superimposes every conformation of every ensemble on a common
	//reference (the first conformation of the first ensemble) before
	//estimating. It mutates the ensembles in place. Skip it only if the
	//conformations are already fitted to a common frame.
	Align bool
	//Weights holds, if not nil, one per-atom weight slice per ensemble
	//(a nil slice leaves that ensemble unweighted).
	Weights [][]float64
}

//DefaultOptions returns the default similarity settings.
func DefaultOptions() *Options {
	return &Options{Estimator: Shrinkage}
}

//HES computes the harmonic ensemble similarity among the given
//ensembles: each is fitted with a Gaussian and every pair is compared
//with SymmetrizedKL. It returns the symmetric divergence matrix, with
//zeros on the diagonal, plus the fitted Gaussians in input order. A
//single ensemble yields the trivial 1x1 zero matrix. All ensembles must
//live in the same coordinate space; dimensions are checked before any
//estimation, so a mismatch costs nothing. With nil options, defaults
//apply.
func HES(ensembles []*Ensemble, o *Options) (*mat.SymDense, []*Gaussian, error) {
	if o == nil {
		o = DefaultOptions()
	}
	ne := len(ensembles)
	if ne == 0 {
		return nil, nil, md.NewDimensionMismatchError("ensemble.HES", "No ensembles given")
	}
	natoms := ensembles[0].NAtoms()
	for i, e := range ensembles {
		if e.NAtoms() != natoms {
			return nil, nil, md.NewDimensionMismatchError("ensemble.HES", "Ensemble %d has %d atoms, ensemble 0 has %d", i, e.NAtoms(), natoms)
		}
	}
	if o.Weights != nil && len(o.Weights) != ne {
		return nil, nil, md.NewDimensionMismatchError("ensemble.HES", "%d weight sets for %d ensembles", len(o.Weights), ne)
	}
	if o.Align {
		//the reference is copied first: aligning the first ensemble
		//mutates the sample the reference would otherwise point into.
		first := ensembles[0].Sample(0)
		ref := v3.Zeros(natoms)
		ref.Copy(first)
		for i, e := range ensembles {
			if err := e.Align(ref); err != nil {
				return nil, nil, errDecorate(err, "ensemble.HES: ensemble "+strconv.Itoa(i))
			}
		}
	}
	gaussians := make([]*Gaussian, ne)
	for i, e := range ensembles {
		var w []float64
		if o.Weights != nil {
			w = o.Weights[i]
		}
		g, err := Estimate(e, w, o.Estimator)
		if err != nil {
			return nil, nil, errDecorate(err, "ensemble.HES: ensemble "+strconv.Itoa(i))
		}
		gaussians[i] = g
	}
	m := mat.NewSymDense(ne, nil)
	for i := 0; i < ne; i++ {
		for j := i + 1; j < ne; j++ {
			div, err := SymmetrizedKL(gaussians[i], gaussians[j])
			if err != nil {
				return nil, nil, errDecorate(err, "ensemble.HES: pair "+strconv.Itoa(i)+","+strconv.Itoa(j))
			}
			m.SetSym(i, j, div)
		}
	}
	return m, gaussians, nil
}
