/*
 * memtraj.go, part of gomd.
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

//MemTraj is a trajectory fully materialized in memory: a slice of
//coordinate frames plus per-frame box vectors. It implements Traj with a
//rewindable cursor, and is the eager counterpart of a streaming
//trajectory; transformations can be applied to all its frames at once
//with Transform.
type MemTraj struct {
	coords  []*v3.Matrix
	boxes   [][]float64
	natoms  int
	current int
}

//NewMemTraj returns an empty in-memory trajectory for frames of natoms
//atoms.
func NewMemTraj(natoms int) *MemTraj {
	M := new(MemTraj)
	M.natoms = natoms
	M.coords = make([]*v3.Matrix, 0, 10)
	M.boxes = make([][]float64, 0, 10)
	return M
}

//AppendFrame adds a frame at the end of the trajectory. The matrix is
//kept by the MemTraj, not copied. box may be nil, or the frame's 9 box
//vector components (a copy is kept).
func (M *MemTraj) AppendFrame(coord *v3.Matrix, box []float64) error {
	if coord == nil {
		return NewDimensionMismatchError("AppendFrame", "Attempted to add a nil frame")
	}
	if coord.NVecs() != M.natoms {
		return NewDimensionMismatchError("AppendFrame", "Wrong number of coordinates (%d), expected %d", coord.NVecs(), M.natoms)
	}
	M.coords = append(M.coords, coord)
	if box != nil {
		if len(box) < 9 {
			return NewInvalidBoxError("AppendFrame", "Need 9 box vector components, got %d", len(box))
		}
		b := make([]float64, 9)
		copy(b, box[:9])
		M.boxes = append(M.boxes, b)
	} else {
		M.boxes = append(M.boxes, nil)
	}
	return nil
}

//Readable returns true if there are frames left to read.
func (M *MemTraj) Readable() bool {
	return M != nil && M.current < len(M.coords)
}

//Len returns the number of atoms per frame.
func (M *MemTraj) Len() int {
	return M.natoms
}

//LenFrames returns the number of frames currently stored.
func (M *MemTraj) LenFrames() int {
	return len(M.coords)
}

//Frame returns the ith stored frame. The matrix is the trajectory's own,
//so changes to it are seen by subsequent readers. Panics if out of range.
func (M *MemTraj) Frame(i int) *v3.Matrix {
	return M.coords[i]
}

//Box returns the box vectors of the ith stored frame, or nil if the
//frame has none. The slice is the trajectory's own.
func (M *MemTraj) Box(i int) []float64 {
	return M.boxes[i]
}

//Rewind resets the reading cursor to the first frame. MemTraj is the
//one trajectory type that is restartable mid-iteration, since all its
//frames stay in memory.
func (M *MemTraj) Rewind() {
	M.current = 0
}

//Next puts the next frame in output (or skips it if output is nil) and
//the frame's box, if any, in box. Returns a LastFrameError past the last
//frame.
func (M *MemTraj) Next(output *v3.Matrix, box ...[]float64) error {
	if M.current >= len(M.coords) {
		return newlastFrameError("MemTraj", "Next")
	}
	if output != nil {
		output.Copy(M.coords[M.current])
	}
	if len(box) > 0 && len(box[0]) >= 9 && M.boxes[M.current] != nil {
		copy(box[0], M.boxes[M.current])
	}
	M.current++
	return nil
}

//Transform applies the pipeline eagerly: every step, in order, exactly
//once on every stored frame, mutating the frames in place. The net
//effect equals attaching the pipeline to a stream of the same frames and
//draining it; only the memory profile differs. Transform counts as the
//pipeline's single attachment, so a pipeline used here cannot be
//attached to another stream, nor Transform called twice with it.
func (M *MemTraj) Transform(P *Pipeline) error {
	if err := P.install("MemTraj.Transform"); err != nil {
		return err
	}
	for i, coord := range M.coords {
		var b *Box
		if M.boxes[i] != nil {
			var err error
			b, err = NewBoxFromVectors(M.boxes[i])
			if err != nil {
				b = nil
			}
		}
		if err := P.Apply(coord, b, i); err != nil {
			return errDecorate(err, "MemTraj.Transform")
		}
	}
	return nil
}
