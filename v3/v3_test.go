/*
 * v3_test.go, part of gomd.
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

package v3

import (
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	if _, err := NewMatrix([]float64{1, 2, 3, 4}); err == nil {
		Te.Error("expected an error for a slice not divisible by 3")
	}
	m, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if m.NVecs() != 2 || m.At(1, 2) != 6 {
		Te.Errorf("unexpected matrix contents: %v", m)
	}
}

//TestUnit checks normalization, including the in-place form, where the
//receiver and the argument share storage.
func TestUnit(Te *testing.T) {
	a, err := NewMatrix([]float64{3, 0, 4})
	if err != nil {
		Te.Fatal(err)
	}
	u := Zeros(1)
	u.Unit(a)
	if math.Abs(u.At(0, 0)-0.6) > 1e-12 || math.Abs(u.At(0, 2)-0.8) > 1e-12 {
		Te.Errorf("unit vector: got %v", u)
	}
	//in place
	a.Unit(a)
	if math.Abs(a.Norm()-1) > 1e-12 {
		Te.Errorf("in-place unit vector has norm %f", a.Norm())
	}
}

func TestVecView(Te *testing.T) {
	m, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	v := m.VecView(1)
	v.Set(0, 0, 40)
	if m.At(1, 0) != 40 {
		Te.Error("VecView is not a view")
	}
}
