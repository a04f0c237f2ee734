/*
 * errors.go, part of gomd.
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

import "fmt"

// CError is the concrete error type used along the library. It implements
// the Error interface and is embedded by the more specific error kinds
// below, which exist so callers can tell failure modes apart with a type
// assertion.
type CError struct {
	msg  string
	deco []string
}

// Error returns a string with an error message.
func (err CError) Error() string { return err.msg }

// Decorate adds the dec string to the decoration slice of the error and
// returns the resulting slice. If dec is empty it just returns the
// current decoration.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func makeCError(caller, format string, a ...interface{}) CError {
	return CError{fmt.Sprintf(format, a...), []string{caller}}
}

// errDecorate decorates err with the caller's name when err implements
// md.Error, and returns it unchanged otherwise. Errors from outside the
// library (say, a user-defined transform step) pass through untouched.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}

// TopologyError signals a group that was expected to be internally bonded
// (a fragment, or a residue with complete bonds) but is not.
type TopologyError struct{ CError }

// NewTopologyError builds a TopologyError, recording the calling function.
func NewTopologyError(caller, format string, a ...interface{}) TopologyError {
	return TopologyError{makeCError(caller, format, a...)}
}

// InvalidBoxError signals degenerate or undefined box dimensions given to
// an operation that needs periodicity.
type InvalidBoxError struct{ CError }

// NewInvalidBoxError builds an InvalidBoxError, recording the calling function.
func NewInvalidBoxError(caller, format string, a ...interface{}) InvalidBoxError {
	return InvalidBoxError{makeCError(caller, format, a...)}
}

// AlreadyAttachedError signals an attempt to attach a transformation
// pipeline to a trajectory more than once.
type AlreadyAttachedError struct{ CError }

// NewAlreadyAttachedError builds an AlreadyAttachedError, recording the
// calling function.
func NewAlreadyAttachedError(caller, format string, a ...interface{}) AlreadyAttachedError {
	return AlreadyAttachedError{makeCError(caller, format, a...)}
}

// DimensionMismatchError signals inconsistent weight/coordinate/ensemble
// dimensions.
type DimensionMismatchError struct{ CError }

// NewDimensionMismatchError builds a DimensionMismatchError, recording the
// calling function.
func NewDimensionMismatchError(caller, format string, a ...interface{}) DimensionMismatchError {
	return DimensionMismatchError{makeCError(caller, format, a...)}
}

// InsufficientSamplesError signals a statistical request on fewer than 2
// structures.
type InsufficientSamplesError struct{ CError }

// NewInsufficientSamplesError builds an InsufficientSamplesError,
// recording the calling function.
func NewInsufficientSamplesError(caller, format string, a ...interface{}) InsufficientSamplesError {
	return InsufficientSamplesError{makeCError(caller, format, a...)}
}

// SingularCovarianceError signals a covariance matrix that could not be
// inverted.
type SingularCovarianceError struct{ CError }

// NewSingularCovarianceError builds a SingularCovarianceError, recording
// the calling function.
func NewSingularCovarianceError(caller, format string, a ...interface{}) SingularCovarianceError {
	return SingularCovarianceError{makeCError(caller, format, a...)}
}

//lastFrameError implements LastFrameError. It is returned by the
//in-memory trajectories when the frames run out.

type lastFrameError struct {
	deco   []string
	source string
}

// lastFrameError does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(source string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.source = source
	e.deco = []string{caller}
	return e
}
