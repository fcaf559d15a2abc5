// Package molsys holds a molecular system read from a pdb file.
// A System has Models, a Model has Chains, a Chain has Residues and a
// Residue has Atoms. Each level owns the one below. Children point
// back to their parent, but never own it.
// Containers are filled while reading. After that, only coordinates,
// occupancies and coarse atoms should change.
package molsys

import (
	"cmp"
	"errors"
	"fmt"
	"iter"

	"github.com/andrew-torda/molsys/pdb/atomsel"
	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pdb/record"
)

var (
	ErrNoModel         = errors.New("no such model")
	ErrNoChain         = errors.New("no such chain")
	ErrNoResidue       = errors.New("no such residue")
	ErrNoAtom          = errors.New("no such atom")
	ErrDuplicateSerial = errors.New("duplicate atom serial number")
	ErrSystemIndex     = errors.New("system index out of range")
)

// DefaultName is given to systems until somebody names them.
const DefaultName = "no_name"

// System is the top of the tree.
type System struct {
	Name   string
	index  int
	altLoc byte
	models keyed[int, Model]
}

// NewSystem makes an empty system. Indices count from 1.
func NewSystem(index int) *System {
	return &System{Name: DefaultName, index: index, altLoc: ' ', models: newKeyed[int, Model](cmp.Compare[int])}
}

func (s *System) Index() int { return s.index }

// AltLoc is the alternate location chosen while reading, or blank.
func (s *System) AltLoc() byte { return s.altLoc }

func (s *System) SetAltLoc(c byte) { s.altLoc = c }

// Model returns model number n.
func (s *System) Model(n int) (*Model, error) {
	if m, ok := s.models.get(n); ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %d in system %d", ErrNoModel, n, s.index)
}

// GetOrCreateModel returns model n, making it if necessary.
func (s *System) GetOrCreateModel(n int) *Model {
	return s.models.getOrCreate(n, func() *Model {
		return &Model{number: n, system: s, chains: newKeyed[byte, Chain](cmp.Compare[byte])}
	})
}

func (s *System) HasModel(n int) bool { _, ok := s.models.get(n); return ok }
func (s *System) HasNoModel() bool    { return s.models.len() == 0 }
func (s *System) NModels() int        { return s.models.len() }

// Models visits models sorted by model number.
func (s *System) Models() iter.Seq[*Model] { return s.models.all() }

// ModelNumbers returns the model numbers, sorted.
func (s *System) ModelNumbers() []int { return s.models.sortedKeys() }

// NAtoms counts atoms over all models.
func (s *System) NAtoms() int {
	n := 0
	for m := range s.Models() {
		n += m.NAtoms()
	}
	return n
}

// InterpretLine puts the atom from a coordinate line into model
// modelNum, making the model, chain and residue on the way.
func (s *System) InterpretLine(l *record.Line, modelNum int) error {
	a, err := l.Atom()
	if err != nil {
		return err
	}
	_, err = s.AddAtom(modelNum, a)
	return err
}

// AddAtom copies anything atom-like into the tree.
func (s *System) AddAtom(modelNum int, a cmmn.AtomLike) (*Atom, error) {
	m := s.GetOrCreateModel(modelNum)
	c := m.GetOrCreateChain(a.ChainID())
	r := c.GetOrCreateResidue(a.ResidueName(), a.ResSeq(), a.InsCode())
	return r.AddAtom(a)
}

// Model is one MODEL of a pdb file. Files without MODEL records have
// a single model, number 1.
type Model struct {
	number int
	system *System
	chains keyed[byte, Chain]
}

func (m *Model) Number() int     { return m.number }
func (m *Model) System() *System { return m.system }

// Chain returns the chain with this identifier.
func (m *Model) Chain(id byte) (*Chain, error) {
	if c, ok := m.chains.get(id); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: '%c' in model %d", ErrNoChain, id, m.number)
}

func (m *Model) GetOrCreateChain(id byte) *Chain {
	return m.chains.getOrCreate(id, func() *Chain {
		return &Chain{id: id, model: m, residues: newKeyed[ResKey, Residue](cmpResKey)}
	})
}

func (m *Model) NChains() int { return m.chains.len() }

func (m *Model) NResidues() int {
	n := 0
	for c := range m.Chains() {
		n += c.NResidues()
	}
	return n
}

func (m *Model) NAtoms() int {
	n := 0
	for c := range m.Chains() {
		n += c.NAtoms()
	}
	return n
}

// Chains visits chains sorted by identifier.
func (m *Model) Chains() iter.Seq[*Chain] { return m.chains.all() }

// Residues visits every residue of every chain.
func (m *Model) Residues() iter.Seq[*Residue] {
	return func(yield func(*Residue) bool) {
		for c := range m.Chains() {
			for r := range c.Residues() {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Atoms visits every atom of the model.
func (m *Model) Atoms() iter.Seq[*Atom] {
	return func(yield func(*Atom) bool) {
		for r := range m.Residues() {
			for a := range r.Atoms() {
				if !yield(a) {
					return
				}
			}
		}
	}
}

// SelectedAtoms visits only the atoms p likes.
func (m *Model) SelectedAtoms(p atomsel.Pred) iter.Seq[*Atom] {
	return func(yield func(*Atom) bool) {
		for a := range m.Atoms() {
			if p(a) && !yield(a) {
				return
			}
		}
	}
}

// Coords collects the coordinates of the atoms p likes. A nil p takes
// everything.
func (m *Model) Coords(p atomsel.Pred) []cmmn.Xyz {
	if p == nil {
		p = atomsel.All
	}
	var ret []cmmn.Xyz
	for a := range m.SelectedAtoms(p) {
		ret = append(ret, a.xyz)
	}
	return ret
}

// ResKey identifies a residue within a chain.
type ResKey struct {
	SeqNum  int
	InsCode byte
}

func cmpResKey(a, b ResKey) int {
	if c := cmp.Compare(a.SeqNum, b.SeqNum); c != 0 {
		return c
	}
	return cmp.Compare(a.InsCode, b.InsCode)
}

// Chain has residues, keyed by number and insertion code.
type Chain struct {
	id       byte
	model    *Model
	residues keyed[ResKey, Residue]
}

func (c *Chain) ID() byte       { return c.id }
func (c *Chain) Model() *Model  { return c.model }
func (c *Chain) NResidues() int { return c.residues.len() }

// Residue finds a residue by number and insertion code.
func (c *Chain) Residue(seq int, icode byte) (*Residue, error) {
	if r, ok := c.residues.get(ResKey{seq, icode}); ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %d%c in chain '%c'", ErrNoResidue, seq, icode, c.id)
}

// GetOrCreateResidue finds or makes a residue. If it already exists,
// name is ignored.
func (c *Chain) GetOrCreateResidue(name string, seq int, icode byte) *Residue {
	return c.residues.getOrCreate(ResKey{seq, icode}, func() *Residue {
		return &Residue{name: name, seq: seq, icode: icode, chain: c, atoms: newKeyed[int, Atom](cmp.Compare[int])}
	})
}

func (c *Chain) NAtoms() int {
	n := 0
	for r := range c.Residues() {
		n += r.NAtoms()
	}
	return n
}

// Residues visits residues in sequence order.
func (c *Chain) Residues() iter.Seq[*Residue] { return c.residues.all() }

// Atoms visits every atom of the chain.
func (c *Chain) Atoms() iter.Seq[*Atom] {
	return func(yield func(*Atom) bool) {
		for r := range c.Residues() {
			for a := range r.Atoms() {
				if !yield(a) {
					return
				}
			}
		}
	}
}

// Residue has atoms keyed by serial number.
type Residue struct {
	name   string
	seq    int
	icode  byte
	chain  *Chain
	atoms  keyed[int, Atom]
	coarse []*CoarseAtom
}

func (r *Residue) Name() string   { return r.name }
func (r *Residue) SeqNum() int    { return r.seq }
func (r *Residue) InsCode() byte  { return r.icode }
func (r *Residue) Chain() *Chain  { return r.chain }
func (r *Residue) NAtoms() int    { return r.atoms.len() }
func (r *Residue) Key() ResKey    { return ResKey{r.seq, r.icode} }
func (r *Residue) IsWater() bool  { return atomsel.IsWaterName(r.name) }

// Atoms visits atoms sorted by serial number.
func (r *Residue) Atoms() iter.Seq[*Atom] { return r.atoms.all() }

// Atom finds an atom by serial number.
func (r *Residue) Atom(serial int) (*Atom, error) {
	if a, ok := r.atoms.get(serial); ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: serial %d in residue %s %d", ErrNoAtom, serial, r.name, r.seq)
}

// AddAtom copies a into the residue. A serial number can only be used
// once.
func (r *Residue) AddAtom(a cmmn.AtomLike) (*Atom, error) {
	if _, ok := r.atoms.get(a.Serial()); ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSerial, record.FormatReduced(a))
	}
	at := &Atom{
		het:     a.IsHetatm(),
		serial:  a.Serial(),
		name:    a.AtomName(),
		alt:     a.AltLoc(),
		elem:    a.Element(),
		xyz:     a.Coord(),
		occ:     a.Occupancy(),
		bfac:    a.TempFactor(),
		charge:  a.Charge(),
		residue: r,
	}
	r.atoms.add(at.serial, at)
	return at, nil
}

// Atom is one atom. Residue name, chain and numbering come from the
// residue it sits in.
type Atom struct {
	het     bool
	serial  int
	name    string
	alt     byte
	elem    string
	xyz     cmmn.Xyz
	occ     float64
	bfac    float64
	charge  int
	residue *Residue
}

func (a *Atom) IsHetatm() bool      { return a.het }
func (a *Atom) Serial() int         { return a.serial }
func (a *Atom) AtomName() string    { return a.name }
func (a *Atom) AltLoc() byte        { return a.alt }
func (a *Atom) ResidueName() string { return a.residue.name }
func (a *Atom) ChainID() byte       { return a.residue.chain.id }
func (a *Atom) ResSeq() int         { return a.residue.seq }
func (a *Atom) InsCode() byte       { return a.residue.icode }
func (a *Atom) Coord() cmmn.Xyz     { return a.xyz }
func (a *Atom) Occupancy() float64  { return a.occ }
func (a *Atom) TempFactor() float64 { return a.bfac }
func (a *Atom) Element() string     { return a.elem }
func (a *Atom) Charge() int         { return a.charge }
func (a *Atom) Residue() *Residue   { return a.residue }

func (a *Atom) SetCoord(x cmmn.Xyz)        { a.xyz = x }
func (a *Atom) SetOccupancy(occ float64)   { a.occ = occ }
func (a *Atom) SetTempFactor(bfac float64) { a.bfac = bfac }
