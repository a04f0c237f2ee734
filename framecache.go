/*
 * framecache.go, part of gomd.
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
	"bytes"
	"encoding/binary"
	"io"
	"math"

	v3 "github.com/hmacdope/gomd/v3"
	"github.com/klauspost/compress/zstd"
)

//FrameCache stores trajectory frames zstd-compressed in memory, and
//replays them as a Traj. It is meant for trajectories that are expensive
//to produce (say, the output of a transformation pipeline) and need to
//be read more than once: drain the source into the cache with Record,
//then iterate the cache as often as needed, rewinding in between,
//without holding every raw frame in memory.
//
//A FrameCache has two phases: it is first writable (WNext/Record), and
//becomes readable, once and for all, after Seal.
type FrameCache struct {
	natoms   int
	nframes  int
	buf      bytes.Buffer
	enc      *zstd.Encoder
	dec      *zstd.Decoder
	payload  []byte
	readable bool
	current  int
}

//frameBytes is the size of one encoded frame: natoms*3 coordinates plus
//the 9 box vector components, 8 bytes each, little-endian.
func (F *FrameCache) frameBytes() int {
	return (F.natoms*3 + 9) * 8
}

//NewFrameCache returns an empty, writable cache for frames of natoms
//atoms.
func NewFrameCache(natoms int) (*FrameCache, error) {
	F := new(FrameCache)
	F.natoms = natoms
	var err error
	F.enc, err = zstd.NewWriter(&F.buf)
	if err != nil {
		return nil, CError{"Can't build zstd encoder: " + err.Error(), []string{"NewFrameCache"}}
	}
	F.payload = make([]byte, F.frameBytes())
	return F, nil
}

//WNext appends one frame to the cache. box, if given, carries the
//frame's 9 box vector components; a frame without box is stored with all
//components zero (and replayed as such).
func (F *FrameCache) WNext(coord *v3.Matrix, box ...[]float64) error {
	if F.enc == nil {
		return CError{"FrameCache is sealed, can't write", []string{"WNext"}}
	}
	if coord == nil {
		return CError{"Given nil coordinates", []string{"WNext"}}
	}
	if v := coord.NVecs(); v != F.natoms {
		return NewDimensionMismatchError("WNext", "%d coordinates given, but %d expected", v, F.natoms)
	}
	at := 0
	for i := 0; i < F.natoms; i++ {
		for j := 0; j < 3; j++ {
			binary.LittleEndian.PutUint64(F.payload[at:], math.Float64bits(coord.At(i, j)))
			at += 8
		}
	}
	for k := 0; k < 9; k++ {
		var b float64
		if len(box) > 0 && len(box[0]) >= 9 {
			b = box[0][k]
		}
		binary.LittleEndian.PutUint64(F.payload[at:], math.Float64bits(b))
		at += 8
	}
	if _, err := F.enc.Write(F.payload); err != nil {
		return CError{"Can't write frame: " + err.Error(), []string{"WNext"}}
	}
	F.nframes++
	return nil
}

//Record drains the given trajectory into the cache, frame by frame,
//until its normal end, then seals the cache. It returns the number of
//frames recorded. The source's atom count must match the cache's.
func (F *FrameCache) Record(t Traj) (int, error) {
	if t.Len() != F.natoms {
		return 0, NewDimensionMismatchError("Record", "Trajectory has %d atoms per frame, cache expects %d", t.Len(), F.natoms)
	}
	coord := v3.Zeros(F.natoms)
	boxbuf := make([]float64, 9)
	read := 0
	for {
		for i := range boxbuf {
			boxbuf[i] = 0
		}
		err := t.Next(coord, boxbuf)
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				break
			}
			return read, errDecorate(err, "Record")
		}
		if err := F.WNext(coord, boxbuf); err != nil {
			return read, errDecorate(err, "Record")
		}
		read++
	}
	if err := F.Seal(); err != nil {
		return read, errDecorate(err, "Record")
	}
	return read, nil
}

//Seal ends the writing phase: the compressed stream is flushed and the
//cache becomes readable from its first frame. A sealed cache cannot be
//written again.
func (F *FrameCache) Seal() error {
	if F.enc == nil {
		return CError{"FrameCache is already sealed", []string{"Seal"}}
	}
	if err := F.enc.Close(); err != nil {
		return CError{"Can't flush compressed frames: " + err.Error(), []string{"Seal"}}
	}
	F.enc = nil
	return F.Rewind()
}

//Rewind (re)starts reading from the first frame. Only sealed caches can
//be rewound.
func (F *FrameCache) Rewind() error {
	if F.enc != nil {
		return CError{"FrameCache still recording, seal it first", []string{"Rewind"}}
	}
	if F.dec != nil {
		F.dec.Close()
	}
	var err error
	F.dec, err = zstd.NewReader(bytes.NewReader(F.buf.Bytes()))
	if err != nil {
		return CError{"Can't build zstd decoder: " + err.Error(), []string{"Rewind"}}
	}
	F.current = 0
	F.readable = true
	return nil
}

//Readable returns true if the cache is sealed and frames remain.
func (F *FrameCache) Readable() bool {
	return F.readable
}

//Len returns the number of atoms per frame.
func (F *FrameCache) Len() int {
	return F.natoms
}

//LenFrames returns the number of frames recorded.
func (F *FrameCache) LenFrames() int {
	return F.nframes
}

//Next puts the next cached frame in output, or discards it if output is
//nil, and fills box, if given, with the frame's box vectors. Past the
//last frame it returns a LastFrameError, and keeps doing so until the
//cache is rewound.
func (F *FrameCache) Next(output *v3.Matrix, box ...[]float64) error {
	if F.enc != nil {
		return CError{"FrameCache still recording, seal it first", []string{"Next"}}
	}
	if F.dec == nil {
		return CError{"FrameCache not readable, rewind it first", []string{"Next"}}
	}
	if !F.readable {
		//the stream is exhausted, not broken
		return newlastFrameError("FrameCache", "Next")
	}
	if _, err := io.ReadFull(F.dec, F.payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			F.readable = false
			return newlastFrameError("FrameCache", "Next")
		}
		return CError{"Can't read frame: " + err.Error(), []string{"Next"}}
	}
	at := 0
	if output != nil {
		if v := output.NVecs(); v != F.natoms {
			return NewDimensionMismatchError("Next", "Output has %d vectors, but frames have %d atoms", v, F.natoms)
		}
		for i := 0; i < F.natoms; i++ {
			for j := 0; j < 3; j++ {
				output.Set(i, j, math.Float64frombits(binary.LittleEndian.Uint64(F.payload[at:])))
				at += 8
			}
		}
	} else {
		at = F.natoms * 3 * 8
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		for k := 0; k < 9; k++ {
			box[0][k] = math.Float64frombits(binary.LittleEndian.Uint64(F.payload[at:]))
			at += 8
		}
	}
	F.current++
	return nil
}
