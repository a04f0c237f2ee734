/*
 * ensemble.go, part of gomd.
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

//Package ensemble quantifies the similarity between conformational
//ensembles. Each ensemble is reduced to a multivariate Gaussian over the
//flattened atomic coordinates (mean conformation plus covariance), and
//ensembles are compared through the symmetrized Kullback-Leibler
//divergence of their Gaussians. The covariance can be estimated by
//maximum likelihood or, for the usual case of fewer samples than
//coordinates, with a shrinkage estimator that is always invertible.
package ensemble

import (
	"strconv"

	md "github.com/hmacdope/gomd"
	v3 "github.com/hmacdope/gomd/v3"
	"gonum.org/v1/gonum/mat"
)

//Ensemble is a set of conformations of the same system, stored as a
//samples-by-coordinates matrix: one row per conformation, each row the
//flattened (x1,y1,z1,x2,...) coordinates of the selected atoms.
type Ensemble struct {
	samples *mat.Dense
	natoms  int
}

//New builds an Ensemble from a set of frames. If indexes is not nil,
//only the listed atoms of each frame enter the ensemble, in the order
//given; otherwise every atom does. All frames must have the same number
//of vectors. At least one frame is required.
func New(frames []*v3.Matrix, indexes []int) (*Ensemble, error) {
	if len(frames) == 0 {
		return nil, md.NewInsufficientSamplesError("ensemble.New", "An ensemble needs at least one conformation")
	}
	natoms := frames[0].NVecs()
	if indexes != nil {
		natoms = len(indexes)
	}
	E := &Ensemble{natoms: natoms}
	data := make([]float64, 0, len(frames)*natoms*3)
	for fi, f := range frames {
		var err error
		data, err = appendFlat(data, f, indexes, natoms)
		if err != nil {
			return nil, errDecorate(err, "ensemble.New: frame "+strconv.Itoa(fi))
		}
	}
	E.samples = mat.NewDense(len(frames), natoms*3, data)
	return E, nil
}

//FromTraj drains the given trajectory to its normal end and builds an
//Ensemble with one sample per frame. indexes works as in New. The
//trajectory's own end-of-stream signal is absorbed here; any other
//reading error is returned.
func FromTraj(t md.Traj, indexes []int) (*Ensemble, error) {
	natoms := t.Len()
	if indexes != nil {
		natoms = len(indexes)
	}
	coord := v3.Zeros(t.Len())
	data := make([]float64, 0, natoms*3*10)
	frames := 0
	for {
		err := t.Next(coord)
		if err != nil {
			if _, ok := err.(md.LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "ensemble.FromTraj")
		}
		data, err = appendFlat(data, coord, indexes, natoms)
		if err != nil {
			return nil, errDecorate(err, "ensemble.FromTraj: frame "+strconv.Itoa(frames))
		}
		frames++
	}
	if frames == 0 {
		return nil, md.NewInsufficientSamplesError("ensemble.FromTraj", "Trajectory yielded no frames")
	}
	E := &Ensemble{natoms: natoms}
	E.samples = mat.NewDense(frames, natoms*3, data)
	return E, nil
}

//appendFlat appends the (possibly atom-selected) flattened coordinates of
//frame to data.
func appendFlat(data []float64, frame *v3.Matrix, indexes []int, natoms int) ([]float64, error) {
	if indexes == nil {
		if frame.NVecs() != natoms {
			return nil, md.NewDimensionMismatchError("appendFlat", "Frame has %d atoms, expected %d", frame.NVecs(), natoms)
		}
		for i := 0; i < natoms; i++ {
			data = append(data, frame.At(i, 0), frame.At(i, 1), frame.At(i, 2))
		}
		return data, nil
	}
	nv := frame.NVecs()
	for _, a := range indexes {
		if a < 0 || a >= nv {
			return nil, md.NewDimensionMismatchError("appendFlat", "Atom index %d out of range for a %d-atom frame", a, nv)
		}
		data = append(data, frame.At(a, 0), frame.At(a, 1), frame.At(a, 2))
	}
	return data, nil
}

//Len returns the number of conformations in the ensemble.
func (E *Ensemble) Len() int {
	r, _ := E.samples.Dims()
	return r
}

//NAtoms returns the number of atoms per conformation.
func (E *Ensemble) NAtoms() int {
	return E.natoms
}

//Dim returns the dimensionality of the flattened coordinate space,
//3*NAtoms().
func (E *Ensemble) Dim() int {
	return E.natoms * 3
}

//Sample returns the ith conformation as a coordinate matrix. The matrix
//is a view into the ensemble's storage, so changes to it change the
//ensemble. Panics if i is out of range.
func (E *Ensemble) Sample(i int) *v3.Matrix {
	return v3.Dense2Matrix(mat.NewDense(E.natoms, 3, E.samples.RawRowView(i)))
}

//Align superimposes every conformation of the ensemble, in place, on the
//reference coordinates. Rigid-body fitting before estimation removes the
//translational and rotational spread that would otherwise dominate the
//covariance.
func (E *Ensemble) Align(ref *v3.Matrix) error {
	if ref.NVecs() != E.natoms {
		return md.NewDimensionMismatchError("Ensemble.Align", "Reference has %d atoms, ensemble %d", ref.NVecs(), E.natoms)
	}
	for i := 0; i < E.Len(); i++ {
		s := E.Sample(i)
		fitted, err := md.Superpose(s, ref, nil, nil)
		if err != nil {
			return errDecorate(err, "Ensemble.Align: sample "+strconv.Itoa(i))
		}
		s.Copy(fitted)
	}
	return nil
}

//errDecorate adds the caller to err's decoration trail when err supports
//it, and returns err unchanged otherwise.
func errDecorate(err error, caller string) error {
	e, ok := err.(md.Error)
	if !ok {
		return err
	}
	e.Decorate(caller)
	return e
}

