/*
 * framecache_test.go, part of gomd.
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
	"testing"

	v3 "github.com/hmacdope/gomd/v3"
)

func TestFrameCacheRoundTrip(Te *testing.T) {
	traj, _, box := straddlingTraj(Te)
	cache, err := NewFrameCache(2)
	if err != nil {
		Te.Fatal(err)
	}
	n, err := cache.Record(traj)
	if err != nil {
		Te.Fatal(err)
	}
	if n != 3 || cache.LenFrames() != 3 {
		Te.Fatalf("expected 3 recorded frames, got %d (LenFrames %d)", n, cache.LenFrames())
	}
	//replay twice, rewinding in between
	for pass := 0; pass < 2; pass++ {
		coord := v3.Zeros(2)
		gotbox := make([]float64, 9)
		frame := 0
		for cache.Readable() {
			err := cache.Next(coord, gotbox)
			if err != nil {
				if _, ok := err.(LastFrameError); ok {
					break
				}
				Te.Fatal(err)
			}
			want := traj.Frame(frame)
			for i := 0; i < 2; i++ {
				for j := 0; j < 3; j++ {
					if coord.At(i, j) != want.At(i, j) {
						Te.Errorf("pass %d frame %d atom %d coordinate %d: got %f, want %f", pass, frame, i, j, coord.At(i, j), want.At(i, j))
					}
				}
			}
			wantbox := box.Vectors()
			for k := range wantbox {
				if gotbox[k] != wantbox[k] {
					Te.Errorf("pass %d frame %d box component %d: got %f, want %f", pass, frame, k, gotbox[k], wantbox[k])
				}
			}
			frame++
		}
		if frame != 3 {
			Te.Errorf("pass %d: replayed %d frames, want 3", pass, frame)
		}
		//reading past the end stays a harmless end-of-stream condition
		err := cache.Next(coord)
		if err == nil {
			Te.Fatal("expected an error past the last frame")
		}
		if _, ok := err.(LastFrameError); !ok {
			Te.Errorf("pass %d: expected LastFrameError past the end, got %T: %v", pass, err, err)
		}
		if err := cache.Rewind(); err != nil {
			Te.Fatal(err)
		}
	}
}

func TestFrameCacheSealed(Te *testing.T) {
	cache, err := NewFrameCache(2)
	if err != nil {
		Te.Fatal(err)
	}
	coord := v3.Zeros(2)
	if err := cache.WNext(coord); err != nil {
		Te.Fatal(err)
	}
	if err := cache.Seal(); err != nil {
		Te.Fatal(err)
	}
	if err := cache.WNext(coord); err == nil {
		Te.Error("expected an error writing to a sealed cache")
	}
	if err := cache.Seal(); err == nil {
		Te.Error("expected an error sealing twice")
	}
	//wrong atom count
	if err := cache.Rewind(); err != nil {
		Te.Fatal(err)
	}
	bad := v3.Zeros(5)
	if err := cache.Next(bad); err == nil {
		Te.Error("expected an error reading into a mismatched matrix")
	}
}
