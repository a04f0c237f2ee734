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

/*Package md provides geometric normalization of periodic-boundary molecular
dynamics trajectories, and the supporting topology, box and trajectory
machinery.

	**gomd capabilities**

    Partitions a bonded topology into fragments (connected components of
	the bond graph) and residues.

    Makes molecules whole across periodic boundaries (unwrap), for both
	orthorhombic and triclinic simulation cells.

    Centers a reference group in the simulation cell, translating the
	whole system, with periodic-image-aware centers of mass.

    Wraps groups of atoms back into the primary cell by rigid
	translation, preserving intra-group geometry exactly.

    Composes the above (and user-defined steps) into transformation
	pipelines that apply lazily, frame by frame, to a trajectory stream,
	or eagerly to trajectories already in memory.

    Superimposes sets of coordinates (Kabsch) and calculates RMSD.

    Caches trajectory frames compressed in memory, so an expensively
	transformed trajectory can be replayed without re-reading it.

The statistical comparison of conformational ensembles lives in the
ensemble subpackage.

gomd implements its own matrix type for coordinates, v3.Matrix, based on
gonum's mat.Dense. Each row of a v3.Matrix represents one point in space.

Trajectories are consumed through the Traj interface: anything that can
sequentially yield frames of coordinates (plus, optionally, box vectors)
can feed every function in this library. The end of a trajectory is
signaled with a non-critical error implementing LastFrameError, which
callers filter with a type assertion.*/
package md
