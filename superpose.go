/*
 * superpose.go, part of gomd.
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

package md

import (
	"math"

	v3 "github.com/hmacdope/gomd/v3"
	"gonum.org/v1/gonum/mat"
)

//CenterOfMass returns the center of mass of the coordinates in geometry
//weighted by mass, as a 1x3 matrix. If mass is nil it returns the
//geometric center. No periodicity correction is applied; for groups that
//may straddle a box boundary use PeriodicCenter.
func CenterOfMass(geometry *v3.Matrix, mass []float64) (*v3.Matrix, error) {
	if geometry == nil {
		return nil, CError{"nil matrix to get the center of mass", []string{"CenterOfMass"}}
	}
	gr := geometry.NVecs()
	if mass != nil && len(mass) != gr {
		return nil, NewDimensionMismatchError("CenterOfMass", "%d masses for %d coordinates", len(mass), gr)
	}
	var wsum float64
	ref := v3.Zeros(1)
	for i := 0; i < gr; i++ {
		w := 1.0
		if mass != nil {
			w = mass[i]
		}
		for j := 0; j < 3; j++ {
			ref.Set(0, j, ref.At(0, j)+w*geometry.At(i, j))
		}
		wsum += w
	}
	//scale through the inner Dense: the promoted method cannot recognize
	//the wrapper as its own receiver and would panic on aliasing.
	ref.Dense.Scale(1.0/wsum, ref.Dense)
	return ref, nil
}

//Superpose superimposes the coordinates in test on those in templa and
//returns the transformed copy of test (test itself is not modified). The
//rotation and translation are the least-squares (Kabsch) fit of the rows
//of test listed in testlst onto the rows of templa listed in templalst,
//but they are applied to all of test. Nil lists mean all rows, in which
//case test and templa must have the same number of vectors. If the best
//rigid map is a reflection, the nearest proper rotation is used instead,
//so the result is never a specular image.
func Superpose(test, templa *v3.Matrix, testlst, templalst []int) (*v3.Matrix, error) {
	if testlst == nil {
		testlst = sequentialList(test.NVecs())
	}
	if templalst == nil {
		templalst = sequentialList(templa.NVecs())
	}
	if len(testlst) != len(templalst) {
		return nil, NewDimensionMismatchError("Superpose", "Mismatched fit atom numbers: %d, %d", len(testlst), len(templalst))
	}
	n := len(testlst)
	if n < 3 {
		return nil, NewDimensionMismatchError("Superpose", "Need at least 3 fit atoms, got %d", n)
	}
	ctest := v3.Zeros(n)
	ctest.SomeVecs(test, testlst)
	ctempla := v3.Zeros(n)
	ctempla.SomeVecs(templa, templalst)
	testcenter, err := CenterOfMass(ctest, nil)
	if err != nil {
		return nil, errDecorate(err, "Superpose")
	}
	templacenter, err := CenterOfMass(ctempla, nil)
	if err != nil {
		return nil, errDecorate(err, "Superpose")
	}
	ctest.SubVec(ctest, testcenter)
	ctempla.SubVec(ctempla, templacenter)
	//Cross-covariance of the centered fit sets, then its SVD. The
	//optimal rotation for row vectors is R = U*D*V^T with
	//D=diag(1,1,det(U*V^T)); the determinant correction keeps the map a
	//proper rotation when the unconstrained optimum is a reflection.
	cross := mat.NewDense(3, 3, nil)
	cross.Mul(ctest.Dense.T(), ctempla.Dense)
	var svd mat.SVD
	if ok := svd.Factorize(cross, mat.SVDFull); !ok {
		return nil, CError{"SVD of the cross-covariance failed", []string{"Superpose"}}
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	var uvt mat.Dense
	uvt.Mul(&u, v.T())
	if mat.Det(&uvt) < 0 {
		for i := 0; i < 3; i++ {
			u.Set(i, 2, -u.At(i, 2))
		}
	}
	var rot mat.Dense
	rot.Mul(&u, v.T())
	transformed := v3.Zeros(test.NVecs())
	transformed.SubVec(test, testcenter)
	transformed.Dense.Mul(transformed.Dense, &rot)
	transformed.AddVec(transformed, templacenter)
	return transformed, nil
}

//RMSD returns the root mean square deviation between the coordinate sets
//test and templa. If index lists are given (one for test, one for
//templa, of equal length), only those rows are compared; otherwise both
//matrices must have the same number of vectors. No superposition is
//performed; compose with Superpose for a fitted RMSD.
func RMSD(test, templa *v3.Matrix, indexes ...[]int) (float64, error) {
	var tst, tmp *v3.Matrix
	switch len(indexes) {
	case 0:
		tst, tmp = test, templa
	case 2:
		if len(indexes[0]) != len(indexes[1]) {
			return 0, NewDimensionMismatchError("RMSD", "Mismatched index lists: %d, %d", len(indexes[0]), len(indexes[1]))
		}
		tst = v3.Zeros(len(indexes[0]))
		tst.SomeVecs(test, indexes[0])
		tmp = v3.Zeros(len(indexes[1]))
		tmp.SomeVecs(templa, indexes[1])
	default:
		return 0, NewDimensionMismatchError("RMSD", "Give no index list, or one for each matrix")
	}
	tr := tst.NVecs()
	if tr != tmp.NVecs() {
		return 0, NewDimensionMismatchError("RMSD", "Ill formed matrices for RMSD calculation: %d, %d vectors", tr, tmp.NVecs())
	}
	var rmsd float64
	for i := 0; i < tr; i++ {
		for j := 0; j < 3; j++ {
			d := tst.At(i, j) - tmp.At(i, j)
			rmsd += d * d
		}
	}
	return math.Sqrt(rmsd / float64(tr)), nil
}

func sequentialList(n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = i
	}
	return ret
}
