/*
 * topology.go, part of gomd.
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

//Atom contains the static information for one atom: everything except
//the coordinates, which live in a v3.Matrix, one row per atom, index
//aligned with the topology.
type Atom struct {
	Name    string
	Id      int
	Molname string
	Molid   int
	Chain   string
	Mass    float64 //0 means the mass is not known
	Symbol  string
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	at := *A
	return &at
}

//Topology contains the information about a system which is not expected
//to change in time: the atoms and the bonds between them. It is immutable
//for the lifetime of an analysis run; none of the functions in this
//library modifies it.
type Topology struct {
	Atoms []*Atom
	bonds [][2]int
}

//NewTopology makes a topology from a slice of atoms and a bond list
//(unordered pairs of atom indexes). It returns an error if ats is nil or
//any bond index is out of range. The bond slice is kept by the topology
//and must not be modified afterwards.
func NewTopology(ats []*Atom, bonds [][2]int) (*Topology, error) {
	if ats == nil {
		return nil, NewTopologyError("NewTopology", "Supplied a nil atom slice")
	}
	for i, b := range bonds {
		if b[0] < 0 || b[0] >= len(ats) || b[1] < 0 || b[1] >= len(ats) {
			return nil, NewTopologyError("NewTopology", "Bond %d (%d-%d) out of range for %d atoms", i, b[0], b[1], len(ats))
		}
	}
	T := new(Topology)
	T.Atoms = ats
	T.bonds = bonds
	return T, nil
}

/*Topology methods*/

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

//Atom returns the Atom corresponding to the index i of the Atom slice in
//the Topology. Panics if out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

//Bonds returns the bond list of the topology. The returned slice is the
//topology's own; treat it as read-only.
func (T *Topology) Bonds() [][2]int {
	return T.bonds
}

//Masses returns a slice with the masses of all atoms, or an error if
//they have not all been obtained. Callers needing only weighting can fall
//back to geometric (unweighted) centers on error.
func (T *Topology) Masses() ([]float64, error) {
	mass := make([]float64, T.Len())
	for i := 0; i < T.Len(); i++ {
		at := T.Atom(i)
		if at.Mass <= 0 {
			return nil, NewTopologyError("Masses", "Not all the masses have been obtained: %d %v", i, at)
		}
		mass[i] = at.Mass
	}
	return mass, nil
}

//Residues partitions all atoms by their Molid, i.e. into the
//topologically predefined molecule units (say, one water each). The
//groups are ordered by first appearance, members keep topology order.
//Residues makes no connectivity check; a residue with missing internal
//bonds will be rejected by Unwrap, not here.
func (T *Topology) Residues() [][]int {
	ret := make([][]int, 0, 10)
	where := make(map[int]int)
	for i, at := range T.Atoms {
		w, ok := where[at.Molid]
		if !ok {
			where[at.Molid] = len(ret)
			ret = append(ret, []int{i})
			continue
		}
		ret[w] = append(ret[w], i)
	}
	return ret
}

//SomeAtoms, given a list of indexes, returns a topology with the atoms in
//the corresponding positions, in order. Changes to those atoms affect the
//original topology. Bonds are restricted to pairs where both ends are in
//the selection, reindexed to the new positions.
func (T *Topology) SomeAtoms(atomlist []int) (*Topology, error) {
	newpos := make(map[int]int, len(atomlist))
	ats := make([]*Atom, 0, len(atomlist))
	for k, j := range atomlist {
		if j < 0 || j > T.Len()-1 {
			return nil, NewTopologyError("SomeAtoms", "Atom requested (number: %d, value: %d) out of range", k, j)
		}
		newpos[j] = k
		ats = append(ats, T.Atoms[j])
	}
	var bonds [][2]int
	for _, b := range T.bonds {
		i, oki := newpos[b[0]]
		j, okj := newpos[b[1]]
		if oki && okj {
			bonds = append(bonds, [2]int{i, j})
		}
	}
	return NewTopology(ats, bonds)
}
