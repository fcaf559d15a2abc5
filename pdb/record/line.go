// Package record classifies the lines of a pdb file and pulls fields
// out of them. It also goes the other way and writes atoms back out in
// the same fixed column layout.
package record

import (
	"errors"
	"strings"

	"github.com/andrew-torda/molsys/pdb/cmmn"
)

// Kind is the type of a pdb line, decided by its first characters.
type Kind int8

const (
	Atom Kind = iota
	Hetatm
	Model
	Endmdl
	Ter
	End
	Anisou
	Conect
	Master
	Unknown
)

var kindNames = [...]string{"ATOM", "HETATM", "MODEL", "ENDMDL", "TER", "END",
	"ANISOU", "CONECT", "MASTER", "UNKNOWN"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// Longer prefixes come first, so ENDMDL is never taken for END.
var prefixes = []struct {
	s string
	k Kind
}{
	{"HETATM", Hetatm},
	{"ENDMDL", Endmdl},
	{"ANISOU", Anisou},
	{"CONECT", Conect},
	{"MASTER", Master},
	{"MODEL", Model},
	{"ATOM", Atom},
	{"TER", Ter},
	{"END", End},
}

// KindOf looks at the start of a line. Case matters.
func KindOf(raw string) Kind {
	for _, p := range prefixes {
		if strings.HasPrefix(raw, p.s) {
			return p.k
		}
	}
	return Unknown
}

// Mandatory says which fields must be present. If a field is not
// mandatory and is missing or blank, it gets its default value.
type Mandatory struct {
	RecordName  bool
	Serial      bool
	AtomName    bool
	AltLoc      bool
	ResName     bool
	ChainID     bool
	ResSeq      bool
	InsCode     bool
	X, Y, Z     bool
	Occupancy   bool
	TempFactor  bool
	Element     bool
	Charge      bool
	ModelNumber bool
}

// DefaultMandatory is what a well behaved pdb file has.
func DefaultMandatory() Mandatory {
	return Mandatory{
		RecordName:  true,
		Serial:      true,
		AtomName:    true,
		ResName:     true,
		ResSeq:      true,
		X:           true,
		Y:           true,
		Z:           true,
		Occupancy:   true,
		TempFactor:  true,
		Element:     true,
		ModelNumber: true,
	}
}

// ErrNotCoord comes back if one asks for atom fields from a line that
// is neither ATOM nor HETATM.
var ErrNotCoord = errors.New("not a coordinate line")

// Line is one classified line. Atom fields are only parsed when
// somebody asks for them, and then only once.
type Line struct {
	Raw  string
	Kind Kind
	mand *Mandatory
	atom *AtomRecord
	err  error
}

// Classifier turns raw text into Lines. The zero value is not useful,
// call NewClassifier.
type Classifier struct {
	mand Mandatory
}

// NewClassifier returns a classifier with the default mandatory fields.
func NewClassifier() *Classifier { return &Classifier{mand: DefaultMandatory()} }

// NewClassifierWith lets one relax or tighten the mandatory fields.
func NewClassifierWith(m Mandatory) *Classifier { return &Classifier{mand: m} }

// Classify wraps a raw line.
func (c *Classifier) Classify(raw string) *Line {
	return &Line{Raw: raw, Kind: KindOf(raw), mand: &c.mand}
}

var dfltClassifier = NewClassifier()

// Classify uses the default mandatory fields.
func Classify(raw string) *Line { return dfltClassifier.Classify(raw) }

// IsHetatm is true for HETATM lines.
func (l *Line) IsHetatm() bool { return l.Kind == Hetatm }

// IsCoord is true for ATOM and HETATM lines.
func (l *Line) IsCoord() bool { return l.Kind == Atom || l.Kind == Hetatm }

// ModelNumber reads the number from a MODEL line.
func (l *Line) ModelNumber() (int, error) {
	return fModelNum.Int(l.Raw, l.mand.ModelNumber, -1)
}

// RecordName returns the trimmed first six columns.
func (l *Line) RecordName() (string, error) {
	return fRecordName.String(l.Raw, l.mand.RecordName, " ")
}

// Atom parses the atom fields of a coordinate line.
func (l *Line) Atom() (*AtomRecord, error) {
	if l.atom != nil || l.err != nil {
		return l.atom, l.err
	}
	if !l.IsCoord() {
		return nil, ErrNotCoord
	}
	l.atom, l.err = parseAtom(l.Raw, l.Kind == Hetatm, l.mand)
	if l.err != nil {
		l.atom = nil
	}
	return l.atom, l.err
}

// AtomRecord has the fields of an ATOM or HETATM line.
type AtomRecord struct {
	Het     bool
	Num     int
	Name    string
	Alt     byte
	ResName string
	Chain   byte
	Seq     int
	ICode   byte
	Xyz     cmmn.Xyz
	Occ     float64
	BFactor float64
	Elem    string
	Q       int
}

func (a *AtomRecord) IsHetatm() bool      { return a.Het }
func (a *AtomRecord) Serial() int         { return a.Num }
func (a *AtomRecord) AtomName() string    { return a.Name }
func (a *AtomRecord) AltLoc() byte        { return a.Alt }
func (a *AtomRecord) ResidueName() string { return a.ResName }
func (a *AtomRecord) ChainID() byte       { return a.Chain }
func (a *AtomRecord) ResSeq() int         { return a.Seq }
func (a *AtomRecord) InsCode() byte       { return a.ICode }
func (a *AtomRecord) Coord() cmmn.Xyz     { return a.Xyz }
func (a *AtomRecord) Occupancy() float64  { return a.Occ }
func (a *AtomRecord) TempFactor() float64 { return a.BFactor }
func (a *AtomRecord) Element() string     { return a.Elem }
func (a *AtomRecord) Charge() int         { return a.Q }

// Ambiguous is true if the occupancy is not 1 and there is no
// alternate location to explain it.
func (a *AtomRecord) Ambiguous() bool { return a.Occ != 1.0 && a.Alt == ' ' }

// latch stops at the first broken field. Later calls do nothing and
// the first error is the one reported.
type latch struct {
	line string
	err  error
}

func (p *latch) int(f Field, mand bool, dflt int) int {
	if p.err != nil {
		return dflt
	}
	var v int
	v, p.err = f.Int(p.line, mand, dflt)
	return v
}

func (p *latch) float(f Field, mand bool) float64 {
	if p.err != nil {
		return cmmn.NoFloat
	}
	var v float64
	v, p.err = f.Float(p.line, mand, cmmn.NoFloat)
	return v
}

func (p *latch) char(f Field, mand bool) byte {
	if p.err != nil {
		return ' '
	}
	var v byte
	v, p.err = f.Char(p.line, mand, ' ')
	return v
}

func (p *latch) str(f Field, mand bool) string {
	if p.err != nil {
		return " "
	}
	var v string
	v, p.err = f.String(p.line, mand, " ")
	return v
}

// parseAtom reads every field of a coordinate line.
func parseAtom(line string, het bool, m *Mandatory) (*AtomRecord, error) {
	p := latch{line: line}
	a := AtomRecord{Het: het}
	a.Num = p.int(fSerial, m.Serial, -1)
	a.Name = p.str(fAtomName, m.AtomName)
	a.Alt = p.char(fAltLoc, m.AltLoc)
	a.ResName = p.str(fResName, m.ResName)
	a.Chain = p.char(fChainID, m.ChainID)
	a.Seq = p.int(fResSeq, m.ResSeq, -1)
	a.ICode = p.char(fInsCode, m.InsCode)
	a.Xyz.X = p.float(fX, m.X)
	a.Xyz.Y = p.float(fY, m.Y)
	a.Xyz.Z = p.float(fZ, m.Z)
	a.Occ = p.float(fOccupancy, m.Occupancy)
	a.BFactor = p.float(fTempFactor, m.TempFactor)
	a.Elem = p.str(fElement, m.Element)
	if p.err != nil {
		return nil, p.err
	}
	q, err := charge(line, m.Charge)
	if err != nil {
		return nil, err
	}
	a.Q = q
	return &a, nil
}
