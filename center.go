/*
 * center.go, part of gomd.
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
	v3 "github.com/hmacdope/gomd/v3"
)

//PeriodicCenter returns the weighted average position of the atoms in
//group, computed in a periodic-consistent image: every atom enters the
//average at its minimum image relative to the group's first atom, so a
//group split across box boundaries still gets a meaningful center. The
//returned point follows whatever image the first atom sits in. masses
//may be nil (geometric center) and is indexed by atom. The half-box
//tie-break is that of Box.MinImage.
func PeriodicCenter(coord *v3.Matrix, group []int, box *Box, masses []float64) (*v3.Matrix, error) {
	if box == nil {
		return nil, NewInvalidBoxError("PeriodicCenter", "Nil box: periodic centers need periodicity")
	}
	if len(group) == 0 {
		return nil, NewDimensionMismatchError("PeriodicCenter", "Empty reference group")
	}
	if masses != nil && len(masses) != coord.NVecs() {
		return nil, NewDimensionMismatchError("PeriodicCenter", "%d masses for %d coordinates", len(masses), coord.NVecs())
	}
	ref := group[0]
	rx := coord.At(ref, 0)
	ry := coord.At(ref, 1)
	rz := coord.At(ref, 2)
	var cx, cy, cz, wsum float64
	for _, a := range group {
		w := 1.0
		if masses != nil {
			w = masses[a]
		}
		mx, my, mz := box.MinImage(coord.At(a, 0)-rx, coord.At(a, 1)-ry, coord.At(a, 2)-rz)
		cx += w * (rx + mx)
		cy += w * (ry + my)
		cz += w * (rz + mz)
		wsum += w
	}
	c := v3.Zeros(1)
	c.Set(0, 0, cx/wsum)
	c.Set(0, 1, cy/wsum)
	c.Set(0, 2, cz/wsum)
	return c, nil
}

//CenterInBox translates every atom in coord, not only the reference
//group's, by the vector taking the reference group's periodic-aware
//center (of mass if masses are given, of geometry otherwise) to the
//center of the cell. With wrap set, the reference group itself is
//re-wrapped into the primary cell afterwards, for when the centering
//target must also end up inside the box. Positions are mutated in place.
func CenterInBox(coord *v3.Matrix, group []int, box *Box, masses []float64, wrap bool) error {
	center, err := PeriodicCenter(coord, group, box, masses)
	if err != nil {
		return errDecorate(err, "CenterInBox")
	}
	shift := v3.Zeros(1)
	shift.Sub(box.Center(), center)
	coord.AddVec(coord, shift)
	if wrap {
		if err := Wrap(coord, [][]int{group}, box, masses); err != nil {
			return errDecorate(err, "CenterInBox")
		}
	}
	return nil
}
