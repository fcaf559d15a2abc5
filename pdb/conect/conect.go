// Package conect collects the bonds listed in CONECT records. Atoms
// are vertices named by serial number, bonds are undirected edges.
// Files list most bonds twice, once from each end. We only keep one.
package conect

import (
	"errors"
	"slices"

	"github.com/dominikbraun/graph"

	"github.com/andrew-torda/molsys/pdb/record"
)

var (
	fFrom   = record.Field{Name: "conect_serial", From: 6, To: 10}
	fBonded = []record.Field{
		{Name: "conect_bonded_1", From: 11, To: 15},
		{Name: "conect_bonded_2", From: 16, To: 20},
		{Name: "conect_bonded_3", From: 21, To: 25},
		{Name: "conect_bonded_4", From: 26, To: 30},
	}
)

// Graph holds the bonds.
type Graph struct {
	g graph.Graph[int, int]
}

func New() *Graph { return &Graph{g: graph.New(graph.IntHash)} }

func (g *Graph) addVertex(v int) error {
	if err := g.g.AddVertex(v); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return err
	}
	return nil
}

// Bond records a bond between two atoms. Bonding an atom to itself is
// ignored.
func (g *Graph) Bond(a, b int) error {
	if a == b {
		return nil
	}
	if err := g.addVertex(a); err != nil {
		return err
	}
	if err := g.addVertex(b); err != nil {
		return err
	}
	if err := g.g.AddEdge(a, b); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return err
	}
	return nil
}

// AddLine reads a CONECT line. Other lines are ignored, so it can be
// handed every line of a file.
func (g *Graph) AddLine(l *record.Line) error {
	if l.Kind != record.Conect {
		return nil
	}
	from, err := fFrom.Int(l.Raw, true, -1)
	if err != nil {
		return err
	}
	var to []int
	for _, f := range fBonded {
		n, err := f.Int(l.Raw, false, -1)
		if err != nil {
			return err
		}
		if n != -1 {
			to = append(to, n)
		}
	}
	if err := g.addVertex(from); err != nil {
		return err
	}
	for _, n := range to {
		if err := g.Bond(from, n); err != nil {
			return err
		}
	}
	return nil
}

// Bonded says if there is a bond between a and b.
func (g *Graph) Bonded(a, b int) bool {
	_, err := g.g.Edge(a, b)
	return err == nil
}

// Neighbours returns the atoms bonded to serial, sorted.
func (g *Graph) Neighbours(serial int) ([]int, error) {
	adj, err := g.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	nb, ok := adj[serial]
	if !ok {
		return nil, graph.ErrVertexNotFound
	}
	ret := make([]int, 0, len(nb))
	for k := range nb {
		ret = append(ret, k)
	}
	slices.Sort(ret)
	return ret, nil
}

// Fragment returns every atom reachable from serial through bonds,
// sorted. For a ligand, this is the whole ligand.
func (g *Graph) Fragment(serial int) ([]int, error) {
	var ret []int
	err := graph.BFS(g.g, serial, func(v int) bool {
		ret = append(ret, v)
		return false
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(ret)
	return ret, nil
}

// NAtoms is the number of atoms mentioned in CONECT records.
func (g *Graph) NAtoms() int {
	n, _ := g.g.Order()
	return n
}

// NBonds is the number of distinct bonds.
func (g *Graph) NBonds() int {
	n, _ := g.g.Size()
	return n
}
