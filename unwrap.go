/*
 * unwrap.go, part of gomd.
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
	"fmt"

	v3 "github.com/hmacdope/gomd/v3"
)

//Unwrap makes every given group whole: atoms of a group that sit in
//different periodic images of the cell are translated by whole lattice
//vectors so the group becomes one spatially contiguous copy. For each
//group the bond graph is walked breadth-first from the group's first
//atom, and each bonded pair crossed is replaced by its minimum image;
//shifts propagate additively through the traversal, so after the call no
//bonded pair within a group is longer than its pre-transform
//minimum-image distance. Positions are mutated in place.
//
//Each group's internal bond graph must be connected: fragments are by
//definition, and a residue with missing bonds is a caller error reported
//as TopologyError. A nil or degenerate box gives InvalidBoxError.
func Unwrap(coord *v3.Matrix, top *Topology, groups [][]int, box *Box) error {
	if box == nil {
		return NewInvalidBoxError("Unwrap", "Nil box: unwrapping needs periodicity")
	}
	if top.Len() != coord.NVecs() {
		return NewDimensionMismatchError("Unwrap", "Topology atoms (%d) don't match coordinates (%d)", top.Len(), coord.NVecs())
	}
	adj := adjacency(top.Bonds())
	for gi, group := range groups {
		if err := unwrapGroup(coord, group, adj, box); err != nil {
			return errDecorate(err, fmt.Sprintf("Unwrap: group %d", gi))
		}
	}
	return nil
}

//unwrapGroup walks one group's internal bonds from its first atom,
//minimum-imaging every crossed bond.
func unwrapGroup(coord *v3.Matrix, group []int, adj map[int][]int, box *Box) error {
	if len(group) < 2 {
		return nil
	}
	inGroup := make(map[int]bool, len(group))
	for _, a := range group {
		inGroup[a] = true
	}
	visited := make(map[int]bool, len(group))
	visited[group[0]] = true
	queue := []int{group[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !inGroup[next] || visited[next] {
				continue
			}
			dx := coord.At(next, 0) - coord.At(cur, 0)
			dy := coord.At(next, 1) - coord.At(cur, 1)
			dz := coord.At(next, 2) - coord.At(cur, 2)
			mx, my, mz := box.MinImage(dx, dy, dz)
			coord.Set(next, 0, coord.At(cur, 0)+mx)
			coord.Set(next, 1, coord.At(cur, 1)+my)
			coord.Set(next, 2, coord.At(cur, 2)+mz)
			visited[next] = true
			queue = append(queue, next)
		}
	}
	if len(visited) != len(group) {
		return NewTopologyError("unwrapGroup", "Group of %d atoms is not internally bonded: only %d reachable from atom %d", len(group), len(visited), group[0])
	}
	return nil
}

//adjacency builds an adjacency list from a bond list.
func adjacency(bonds [][2]int) map[int][]int {
	adj := make(map[int][]int, len(bonds))
	for _, b := range bonds {
		if b[0] == b[1] {
			continue
		}
		adj[b[0]] = append(adj[b[0]], b[1])
		adj[b[1]] = append(adj[b[1]], b[0])
	}
	return adj
}
