/*
 * box.go, part of gomd.
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

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Box represents a simulation cell, possibly triclinic (non-orthogonal
//lattice vectors). Positions are row vectors, so a cartesian point x
//relates to its fractional coordinates f by x = f*M, f = x*M^-1, where
//the rows of M are the lattice vectors. A Box is immutable once built.
type Box struct {
	vecs [3][3]float64 //rows are the lattice vectors
	inv  [3][3]float64
}

//NewBox builds a box from 3 lattice lengths and the 3 angles between
//them, in degrees (alpha between y and z, beta between x and z, gamma
//between x and y). The first lattice vector is put along x, the second in
//the xy plane. A box without volume (zero/negative lengths, angles
//outside (0,180), or a collapsed cell) gives an InvalidBoxError.
func NewBox(x, y, z, alpha, beta, gamma float64) (*Box, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, NewInvalidBoxError("NewBox", "Non-positive box lengths: %4.2f %4.2f %4.2f", x, y, z)
	}
	for _, ang := range []float64{alpha, beta, gamma} {
		if ang <= 0 || ang >= 180 {
			return nil, NewInvalidBoxError("NewBox", "Box angle out of (0,180): %4.2f", ang)
		}
	}
	ca := math.Cos(Deg2Rad(alpha))
	cb := math.Cos(Deg2Rad(beta))
	cg := math.Cos(Deg2Rad(gamma))
	sg := math.Sin(Deg2Rad(gamma))
	bx := y * cg
	by := y * sg
	cx := z * cb
	cy := z * (ca - cb*cg) / sg
	czsq := z*z - cx*cx - cy*cy
	if czsq <= appzero || math.IsNaN(czsq) {
		return nil, NewInvalidBoxError("NewBox", "Box angles collapse the cell: %4.2f %4.2f %4.2f", alpha, beta, gamma)
	}
	return NewBoxFromVectors([]float64{
		x, 0, 0,
		bx, by, 0,
		cx, cy, math.Sqrt(czsq),
	})
}

//NewBoxFromVectors builds a box from the 9 components of its lattice
//vectors, row-major (the per-frame box convention of the Traj interface).
//A nil slice, a slice of the wrong length, or vectors without volume give
//an InvalidBoxError.
func NewBoxFromVectors(vecs []float64) (*Box, error) {
	if len(vecs) < 9 {
		return nil, NewInvalidBoxError("NewBoxFromVectors", "Need 9 box vector components, got %d", len(vecs))
	}
	m := mat.NewDense(3, 3, vecs[:9])
	if math.Abs(mat.Det(m)) <= appzero {
		return nil, NewInvalidBoxError("NewBoxFromVectors", "Box vectors have no volume: %v", vecs[:9])
	}
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, NewInvalidBoxError("NewBoxFromVectors", "Box vectors not invertible: %s", err.Error())
	}
	B := new(Box)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			B.vecs[i][j] = m.At(i, j)
			B.inv[i][j] = inv.At(i, j)
		}
	}
	return B, nil
}

//Vectors returns the 9 components of the lattice vectors, row-major, in a
//freshly allocated slice.
func (B *Box) Vectors() []float64 {
	ret := make([]float64, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ret[3*i+j] = B.vecs[i][j]
		}
	}
	return ret
}

//Volume returns the volume of the cell.
func (B *Box) Volume() float64 {
	a, b, c := B.vecs[0], B.vecs[1], B.vecs[2]
	return math.Abs(a[0]*(b[1]*c[2]-b[2]*c[1]) - a[1]*(b[0]*c[2]-b[2]*c[0]) + a[2]*(b[0]*c[1]-b[1]*c[0]))
}

//Center returns the center of the cell, i.e. half the sum of the lattice
//vectors, as a 1x3 matrix. For a triclinic cell this is not just half of
//each length.
func (B *Box) Center() *v3.Matrix {
	c := v3.Zeros(1)
	for j := 0; j < 3; j++ {
		c.Set(0, j, 0.5*(B.vecs[0][j]+B.vecs[1][j]+B.vecs[2][j]))
	}
	return c
}

//Fractional converts a cartesian point to fractional coordinates.
func (B *Box) Fractional(x, y, z float64) (float64, float64, float64) {
	return x*B.inv[0][0] + y*B.inv[1][0] + z*B.inv[2][0],
		x*B.inv[0][1] + y*B.inv[1][1] + z*B.inv[2][1],
		x*B.inv[0][2] + y*B.inv[1][2] + z*B.inv[2][2]
}

//Cartesian converts fractional coordinates back to a cartesian point.
func (B *Box) Cartesian(fx, fy, fz float64) (float64, float64, float64) {
	return fx*B.vecs[0][0] + fy*B.vecs[1][0] + fz*B.vecs[2][0],
		fx*B.vecs[0][1] + fy*B.vecs[1][1] + fz*B.vecs[2][1],
		fx*B.vecs[0][2] + fy*B.vecs[1][2] + fz*B.vecs[2][2]
}

//MinImage replaces the displacement (dx,dy,dz) by its minimum image
//under the full lattice: each fractional component is brought into
//[-0.5, 0.5] by subtracting the nearest integer. A displacement of
//exactly half a lattice vector rounds away from zero, i.e. the image on
//the other side is taken; the same convention is used everywhere in the
//library (unwrapping and periodic-aware centers agree).
func (B *Box) MinImage(dx, dy, dz float64) (float64, float64, float64) {
	fx, fy, fz := B.Fractional(dx, dy, dz)
	fx -= math.Round(fx)
	fy -= math.Round(fy)
	fz -= math.Round(fz)
	return B.Cartesian(fx, fy, fz)
}

//Deg2Rad converts degrees to radians.
func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180
}

//Rad2Deg converts radians to degrees.
func Rad2Deg(f float64) float64 {
	return f * 180 / math.Pi
}
