/*
 * fragments.go, part of gomd.
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
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

//Fragments partitions all atoms of the topology into fragments: maximal
//connected components of the bond graph. Atoms with no bonds form
//singleton fragments. The output is canonical, so it does not depend on
//traversal order: each fragment's members are sorted ascending, and
//fragments are sorted by their first (lowest) member.
func (T *Topology) Fragments() [][]int {
	return FragmentsOf(T.Len(), T.bonds)
}

//FragmentsOf returns the connected components of the bond graph over
//natoms atoms, in the same canonical order as Topology.Fragments. Bonds
//with out-of-range indexes are ignored; a nil or empty bond list yields
//one singleton component per atom. Cyclic and disconnected graphs are
//handled alike.
func FragmentsOf(natoms int, bonds [][2]int) [][]int {
	g := simple.NewUndirectedGraph()
	for i := 0; i < natoms; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, b := range bonds {
		if b[0] == b[1] || b[0] < 0 || b[1] < 0 || b[0] >= natoms || b[1] >= natoms {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(b[0]), T: simple.Node(b[1])})
	}
	comps := topo.ConnectedComponents(g)
	ret := make([][]int, 0, len(comps))
	for _, c := range comps {
		frag := make([]int, 0, len(c))
		for _, n := range c {
			frag = append(frag, int(n.ID()))
		}
		sort.Ints(frag)
		ret = append(ret, frag)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0] < ret[j][0] })
	return ret
}

//AtomsAsGroups returns the trivial partition where every atom in atomlist
//is its own group. It is handy for wrapping atoms independently.
func AtomsAsGroups(atomlist []int) [][]int {
	ret := make([][]int, 0, len(atomlist))
	for _, v := range atomlist {
		ret = append(ret, []int{v})
	}
	return ret
}
