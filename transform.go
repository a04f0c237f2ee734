/*
 * transform.go, part of gomd.
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
	"log"

	v3 "github.com/hmacdope/gomd/v3"
)

//TransformStep is one per-frame transformation. Apply mutates the frame
//coordinates in place; box is the frame's cell, or nil when the frame
//carries no (valid) box vectors, and frame is the 0-based index of the
//frame within the stream. Steps must not retain coord between calls.
type TransformStep interface {
	Name() string
	Apply(coord *v3.Matrix, box *Box, frame int) error
}

//StepFunc adapts a plain function into a TransformStep, for user-defined
//steps.
type StepFunc struct {
	name string
	f    func(coord *v3.Matrix, box *Box, frame int) error
}

//NewStepFunc returns a TransformStep with the given name that calls f on
//every frame.
func NewStepFunc(name string, f func(coord *v3.Matrix, box *Box, frame int) error) *StepFunc {
	return &StepFunc{name: name, f: f}
}

func (S *StepFunc) Name() string { return S.name }

func (S *StepFunc) Apply(coord *v3.Matrix, box *Box, frame int) error {
	return S.f(coord, box, frame)
}

//UnwrapStep makes the given groups whole on every frame (see Unwrap).
type UnwrapStep struct {
	top    *Topology
	groups [][]int
}

//NewUnwrapStep builds an UnwrapStep over the given groups, typically
//top.Fragments() or top.Residues().
func NewUnwrapStep(top *Topology, groups [][]int) *UnwrapStep {
	return &UnwrapStep{top: top, groups: groups}
}

func (S *UnwrapStep) Name() string { return "unwrap" }

func (S *UnwrapStep) Apply(coord *v3.Matrix, box *Box, frame int) error {
	if err := Unwrap(coord, S.top, S.groups, box); err != nil {
		return errDecorate(err, "UnwrapStep")
	}
	return nil
}

//CenterStep centers a reference group in the cell on every frame,
//translating all atoms (see CenterInBox).
type CenterStep struct {
	group  []int
	masses []float64
	wrap   bool
}

//NewCenterStep builds a CenterStep. masses may be nil for geometric
//centering; wrap re-wraps the reference group after centering.
func NewCenterStep(group []int, masses []float64, wrap bool) *CenterStep {
	return &CenterStep{group: group, masses: masses, wrap: wrap}
}

func (S *CenterStep) Name() string { return "center" }

func (S *CenterStep) Apply(coord *v3.Matrix, box *Box, frame int) error {
	if err := CenterInBox(coord, S.group, box, S.masses, S.wrap); err != nil {
		return errDecorate(err, "CenterStep")
	}
	return nil
}

//WrapStep wraps the given groups into the primary cell on every frame
//(see Wrap).
type WrapStep struct {
	groups [][]int
	masses []float64
}

//NewWrapStep builds a WrapStep. masses may be nil for geometric
//representative points.
func NewWrapStep(groups [][]int, masses []float64) *WrapStep {
	return &WrapStep{groups: groups, masses: masses}
}

func (S *WrapStep) Name() string { return "wrap" }

func (S *WrapStep) Apply(coord *v3.Matrix, box *Box, frame int) error {
	if err := Wrap(coord, S.groups, box, S.masses); err != nil {
		return errDecorate(err, "WrapStep")
	}
	return nil
}

//Pipeline is an ordered, immutable sequence of transform steps. It is
//built once and attached to exactly one trajectory: Attach is a one-shot
//state transition, and re-attaching is rejected. This is deliberate;
//a pipeline reachable from two streams, or attached twice to the same
//stream, would apply its steps twice per frame or in ambiguous order.
type Pipeline struct {
	steps    []TransformStep
	attached bool
}

//NewPipeline returns a pipeline that applies the given steps, in order,
//to every frame it sees.
func NewPipeline(steps ...TransformStep) *Pipeline {
	p := new(Pipeline)
	p.steps = make([]TransformStep, len(steps))
	copy(p.steps, steps)
	return p
}

//StepNames returns the names of the steps, in application order.
func (P *Pipeline) StepNames() []string {
	ret := make([]string, len(P.steps))
	for i, s := range P.steps {
		ret[i] = s.Name()
	}
	return ret
}

//Apply runs every step of the pipeline, in order, exactly once on the
//given frame. It is the eager-mode entry point: callers holding a whole
//trajectory in memory loop over its frames and call Apply on each.
func (P *Pipeline) Apply(coord *v3.Matrix, box *Box, frame int) error {
	for _, s := range P.steps {
		if err := s.Apply(coord, box, frame); err != nil {
			return errDecorate(err, "Pipeline.Apply: step "+s.Name())
		}
	}
	return nil
}

//install performs the one-shot Unattached->Attached transition shared by
//Attach and MemTraj.Transform.
func (P *Pipeline) install(caller string) error {
	if P.attached {
		return NewAlreadyAttachedError(caller, "Pipeline already attached to a trajectory")
	}
	P.attached = true
	return nil
}

//Attach installs the pipeline on a trajectory stream and returns the
//transformed stream. Each call to the returned trajectory's Next reads
//one raw frame and runs every step on it, in order, exactly once, before
//the frame is handed to the caller; transforms never run ahead of or
//behind the frame cursor. A pipeline can be attached exactly once;
//further calls return AlreadyAttachedError.
func (P *Pipeline) Attach(t Traj) (*TransTraj, error) {
	if err := P.install("Pipeline.Attach"); err != nil {
		return nil, err
	}
	return &TransTraj{traj: t, pipe: P, boxbuf: make([]float64, 9)}, nil
}

//TransTraj is a trajectory stream with a transformation pipeline
//installed. It implements Traj.
type TransTraj struct {
	traj   Traj
	pipe   *Pipeline
	boxbuf []float64
	frame  int
	warned bool
}

//Readable returns true if the underlying trajectory can be read.
func (T *TransTraj) Readable() bool {
	return T.traj.Readable()
}

//Len returns the number of atoms per frame.
func (T *TransTraj) Len() int {
	return T.traj.Len()
}

//Next reads the next raw frame, applies the pipeline's steps to it in
//order, and puts the result in output. Box vectors are always requested
//from the underlying trajectory, since the steps need them; a frame whose
//box does not form a valid cell is passed to the steps with a nil box
//(PBC steps then fail with InvalidBoxError, user steps may not care).
//The end of the underlying trajectory is passed through untouched, so
//LastFrameError filtering keeps working.
func (T *TransTraj) Next(output *v3.Matrix, box ...[]float64) error {
	for i := range T.boxbuf {
		T.boxbuf[i] = 0
	}
	if err := T.traj.Next(output, T.boxbuf); err != nil {
		return err //may be a LastFrameError, let the caller type-switch on it
	}
	if output != nil {
		b, err := NewBoxFromVectors(T.boxbuf)
		if err != nil {
			if !T.warned {
				log.Printf("gomd: frame %d carries no valid box vectors, transform steps will see a nil box", T.frame)
				T.warned = true
			}
			b = nil
		}
		if err := T.pipe.Apply(output, b, T.frame); err != nil {
			return errDecorate(err, "TransTraj.Next")
		}
	}
	T.frame++
	if len(box) > 0 && len(box[0]) >= 9 {
		copy(box[0], T.boxbuf)
	}
	return nil
}
