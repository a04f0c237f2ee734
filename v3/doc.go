/*
 * doc.go, part of gomd.
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

/*Package v3 implements the coordinate matrix used everywhere in gomd.

A v3.Matrix is a set of vectors in 3D space, one row vector per atom,
backed by a gonum mat.Dense. Within the package it is understood that a
"vector" is a row vector, i.e. the cartesian coordinates of a point in 3D
space. The names of several functions in the library reflect this.

Since Matrix embeds mat.Dense, the whole Dense API (At, Set, Add, Sub,
Scale, Copy, Mul...) is available in addition to the Vec* methods defined
here.*/
package v3
