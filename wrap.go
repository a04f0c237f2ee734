/*
 * wrap.go, part of gomd.
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
)

//Wrap translates each group into the primary cell: the group's
//representative point (center of mass if masses are given, center of
//geometry otherwise) is brought to fractional [0,1) along every lattice
//direction, and the whole group is rigidly shifted by the corresponding
//integer combination of lattice vectors. Intra-group geometry is
//preserved exactly, and wrapping an already-wrapped group changes
//nothing. Positions are mutated in place.
//
//masses, when not nil, must have one entry per row of coord (the same
//indexing as the topology); otherwise a DimensionMismatchError is
//returned. A nil or degenerate box gives InvalidBoxError. To wrap atoms
//independently pass AtomsAsGroups of the indexes at hand.
func Wrap(coord *v3.Matrix, groups [][]int, box *Box, masses []float64) error {
	if box == nil {
		return NewInvalidBoxError("Wrap", "Nil box: wrapping needs periodicity")
	}
	if masses != nil && len(masses) != coord.NVecs() {
		return NewDimensionMismatchError("Wrap", "%d masses for %d coordinates", len(masses), coord.NVecs())
	}
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		cx, cy, cz := weightedCenter(coord, group, masses)
		fx, fy, fz := box.Fractional(cx, cy, cz)
		nx := wrapCount(fx)
		ny := wrapCount(fy)
		nz := wrapCount(fz)
		if nx == 0 && ny == 0 && nz == 0 {
			continue
		}
		sx, sy, sz := box.Cartesian(nx, ny, nz)
		for _, a := range group {
			coord.Set(a, 0, coord.At(a, 0)-sx)
			coord.Set(a, 1, coord.At(a, 1)-sy)
			coord.Set(a, 2, coord.At(a, 2)-sz)
		}
	}
	return nil
}

//wrapCount returns the whole number of lattice vectors to subtract so the
//fractional coordinate f lands in [0,1). A fractional within appzero of an
//integer counts as that integer: a representative point sitting exactly on
//the cell boundary (or a rounding hair past it) stays put instead of
//oscillating between images on repeated wraps.
func wrapCount(f float64) float64 {
	n := math.Floor(f)
	if f-n >= 1-appzero {
		n++
	}
	return n
}

//weightedCenter returns the mass- or count-weighted average position of
//the atoms in group, with no periodicity correction. masses may be nil
//(geometric center) and, when given, is indexed by atom, not by position
//in the group.
func weightedCenter(coord *v3.Matrix, group []int, masses []float64) (float64, float64, float64) {
	var cx, cy, cz, wsum float64
	for _, a := range group {
		w := 1.0
		if masses != nil {
			w = masses[a]
		}
		cx += w * coord.At(a, 0)
		cy += w * coord.At(a, 1)
		cz += w * coord.At(a, 2)
		wsum += w
	}
	return cx / wsum, cy / wsum, cz / wsum
}
