package molsys

import (
	"iter"

	"github.com/andrew-torda/molsys/pdb/cmmn"
)

// CoarseAtom is a made up atom standing in for a group of real ones,
// like a side chain centroid. They are not read from files. Somebody
// adds them to residues after reading.
type CoarseAtom struct {
	xyz     cmmn.Xyz
	index   int
	residue *Residue
}

func (c *CoarseAtom) Coord() cmmn.Xyz     { return c.xyz }
func (c *CoarseAtom) Index() int          { return c.index }
func (c *CoarseAtom) Residue() *Residue   { return c.residue }
func (c *CoarseAtom) SetCoord(x cmmn.Xyz) { c.xyz = x }

// CoarseCreator looks at the atoms of a residue and calls add for each
// coarse atom it wants.
type CoarseCreator interface {
	Create(r *Residue, add func(p cmmn.Xyz)) error
}

// AddCoarseAtom attaches a coarse atom with a caller chosen index.
func (r *Residue) AddCoarseAtom(p cmmn.Xyz, index int) *CoarseAtom {
	c := &CoarseAtom{xyz: p, index: index, residue: r}
	r.coarse = append(r.coarse, c)
	return c
}

// CreateCoarseAtoms lets c add coarse atoms, numbered from however
// many the residue already had. It returns how many were added.
func (r *Residue) CreateCoarseAtoms(c CoarseCreator) (int, error) {
	n := 0
	err := c.Create(r, func(p cmmn.Xyz) {
		r.AddCoarseAtom(p, len(r.coarse))
		n++
	})
	return n, err
}

func (r *Residue) NCoarseAtoms() int { return len(r.coarse) }

// CoarseAtoms visits coarse atoms in the order they were added.
func (r *Residue) CoarseAtoms() iter.Seq[*CoarseAtom] {
	return func(yield func(*CoarseAtom) bool) {
		for _, c := range r.coarse {
			if !yield(c) {
				return
			}
		}
	}
}

// CreateCoarseAtoms runs c over every residue of the model.
func (m *Model) CreateCoarseAtoms(c CoarseCreator) (int, error) {
	n := 0
	for r := range m.Residues() {
		k, err := r.CreateCoarseAtoms(c)
		n += k
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// CoarseAtoms visits the coarse atoms of every residue.
func (m *Model) CoarseAtoms() iter.Seq[*CoarseAtom] {
	return func(yield func(*CoarseAtom) bool) {
		for r := range m.Residues() {
			for c := range r.CoarseAtoms() {
				if !yield(c) {
					return
				}
			}
		}
	}
}
