/*
 * box_test.go, part of gomd.
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
	"testing"
)

func TestOrthorhombicBox(Te *testing.T) {
	b, err := NewBox(10, 20, 30, 90, 90, 90)
	if err != nil {
		Te.Fatal(err)
	}
	v := b.Vectors()
	want := [9]float64{10, 0, 0, 0, 20, 0, 0, 0, 30}
	for i := range v {
		if math.Abs(v[i]-want[i]) > 1e-9 {
			Te.Errorf("vector component %d: got %f, want %f", i, v[i], want[i])
		}
	}
	if vol := b.Volume(); math.Abs(vol-6000) > 1e-6 {
		Te.Errorf("volume: got %f, want 6000", vol)
	}
	c := b.Center()
	for j, want := range []float64{5, 10, 15} {
		if math.Abs(c.At(0, j)-want) > 1e-9 {
			Te.Errorf("center component %d: got %f, want %f", j, c.At(0, j), want)
		}
	}
}

func TestTriclinicBoxRoundTrip(Te *testing.T) {
	b, err := NewBox(10, 12, 14, 75, 80, 85)
	if err != nil {
		Te.Fatal(err)
	}
	//a point given in fractional coordinates must survive the round trip
	fx, fy, fz := 0.3, -0.2, 1.7
	x, y, z := b.Cartesian(fx, fy, fz)
	gx, gy, gz := b.Fractional(x, y, z)
	if math.Abs(gx-fx) > 1e-9 || math.Abs(gy-fy) > 1e-9 || math.Abs(gz-fz) > 1e-9 {
		Te.Errorf("fractional round trip: got %f %f %f, want %f %f %f", gx, gy, gz, fx, fy, fz)
	}
	//rebuilding the box from its own vectors must preserve the volume
	b2, err := NewBoxFromVectors(b.Vectors())
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(b.Volume()-b2.Volume()) > 1e-6 {
		Te.Errorf("volumes differ after rebuilding: %f vs %f", b.Volume(), b2.Volume())
	}
}

func TestInvalidBox(Te *testing.T) {
	zero := make([]float64, 9)
	if _, err := NewBoxFromVectors(zero); err == nil {
		Te.Error("expected an error for a zero box")
	} else if _, ok := err.(InvalidBoxError); !ok {
		Te.Errorf("expected InvalidBoxError, got %T", err)
	}
	if _, err := NewBox(10, 10, 0, 90, 90, 90); err == nil {
		Te.Error("expected an error for a zero-length box vector")
	}
	if _, err := NewBox(10, 10, 10, 90, 180, 90); err == nil {
		Te.Error("expected an error for a 180-degree box angle")
	}
	//coplanar lattice vectors: zero volume
	flat := []float64{10, 0, 0, 0, 10, 0, 5, 5, 0}
	if _, err := NewBoxFromVectors(flat); err == nil {
		Te.Error("expected an error for coplanar box vectors")
	}
}

func TestMinImage(Te *testing.T) {
	b, err := NewBox(10, 10, 10, 90, 90, 90)
	if err != nil {
		Te.Fatal(err)
	}
	cases := []struct {
		in, want [3]float64
	}{
		{[3]float64{9, 0, 0}, [3]float64{-1, 0, 0}},
		{[3]float64{-9, 0, 0}, [3]float64{1, 0, 0}},
		{[3]float64{3, -4, 12}, [3]float64{3, -4, 2}},
		{[3]float64{0, 0, 0}, [3]float64{0, 0, 0}},
	}
	for _, c := range cases {
		x, y, z := b.MinImage(c.in[0], c.in[1], c.in[2])
		if math.Abs(x-c.want[0]) > 1e-9 || math.Abs(y-c.want[1]) > 1e-9 || math.Abs(z-c.want[2]) > 1e-9 {
			Te.Errorf("MinImage(%v): got %f %f %f, want %v", c.in, x, y, z, c.want)
		}
	}
	//any minimum image must be no longer than the original displacement
	tri, err := NewBox(8, 9, 10, 80, 95, 100)
	if err != nil {
		Te.Fatal(err)
	}
	for _, d := range [][3]float64{{7, 7, 7}, {-12, 3, 40}, {0.1, -0.1, 0.3}} {
		x, y, z := tri.MinImage(d[0], d[1], d[2])
		lm := math.Sqrt(x*x + y*y + z*z)
		lo := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
		if lm > lo+1e-9 {
			Te.Errorf("minimum image of %v is longer than the original: %f > %f", d, lm, lo)
		}
	}
}
