// Package occupancy decides what happens to atoms whose occupancy is
// not 1 although they have no alternate location. A line selector
// asks the policy about each coordinate line it wants to keep. Some
// policies answer at once. The extremal ones hold lines back and only
// hand them to the builder when the file has been read.
package occupancy

import (
	"errors"
	"fmt"
	"slices"

	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pdb/record"
)

var (
	ErrAmbiguous = errors.New("occupancy not 1 and no alternate location")
	ErrTie       = errors.New("extremal occupancy is 0.5, cannot choose")
	ErrFinalized = errors.New("occupancy policy already finalized")
)

// Interpreter is the part of a system builder a policy needs for
// replaying lines it held back.
type Interpreter interface {
	InterpretLine(l *record.Line, target int) error
}

// Policy is called once per coordinate line that a selector wants to
// keep, with the system index the selector chose. It returns that
// index, or cmmn.Discard. Finalize is called once after the last line
// and returns how many lines it handed to b.
type Policy interface {
	AddOrPostpone(l *record.Line, target int) (int, error)
	Finalize(b Interpreter) (int, error)
}

// keepAnyway is true for atoms no policy has to think about.
func keepAnyway(a *record.AtomRecord) bool { return !a.Ambiguous() }

// Strict treats an ambiguous atom as a broken file.
type Strict struct{}

func (Strict) AddOrPostpone(l *record.Line, target int) (int, error) {
	a, err := l.Atom()
	if err != nil {
		return cmmn.Discard, err
	}
	if keepAnyway(a) {
		return target, nil
	}
	return cmmn.Discard, fmt.Errorf("%w: occupancy %.2f in\n<|%s|>", ErrAmbiguous, a.Occupancy(), l.Raw)
}

func (Strict) Finalize(Interpreter) (int, error) { return 0, nil }

// AcceptAll keeps everything.
type AcceptAll struct{}

func (AcceptAll) AddOrPostpone(_ *record.Line, target int) (int, error) { return target, nil }
func (AcceptAll) Finalize(Interpreter) (int, error)                      { return 0, nil }

// AcceptNone quietly drops ambiguous atoms.
type AcceptNone struct{}

func (AcceptNone) AddOrPostpone(l *record.Line, target int) (int, error) {
	a, err := l.Atom()
	if err != nil {
		return cmmn.Discard, err
	}
	if keepAnyway(a) {
		return target, nil
	}
	return cmmn.Discard, nil
}

func (AcceptNone) Finalize(Interpreter) (int, error) { return 0, nil }

// AtomList keeps ambiguous atoms only if their serial number was
// listed.
type AtomList struct {
	serials map[int]bool
}

// NewAtomList makes a policy that keeps the atoms with these serial
// numbers.
func NewAtomList(serials []int) *AtomList {
	m := make(map[int]bool, len(serials))
	for _, s := range serials {
		m[s] = true
	}
	return &AtomList{serials: m}
}

func (p *AtomList) AddOrPostpone(l *record.Line, target int) (int, error) {
	a, err := l.Atom()
	if err != nil {
		return cmmn.Discard, err
	}
	if keepAnyway(a) || p.serials[a.Serial()] {
		return target, nil
	}
	return cmmn.Discard, nil
}

func (p *AtomList) Finalize(Interpreter) (int, error) { return 0, nil }

type heldLine struct {
	l      *record.Line
	target int
}

// Extremal keeps the ambiguous atoms with the highest, or lowest,
// occupancy. While reading, it cannot know what the extreme will be,
// so lines are held back in buckets keyed by occupancy. A line which
// is already beaten by the current extreme is dropped straight away.
type Extremal struct {
	takeMax   bool
	cur       float64
	buckets   map[float64][]heldLine
	finalized bool
}

// NewMax keeps the ambiguous atoms with the largest occupancy.
func NewMax() *Extremal {
	return &Extremal{takeMax: true, cur: 0, buckets: make(map[float64][]heldLine)}
}

// NewMin keeps the ambiguous atoms with the smallest occupancy.
func NewMin() *Extremal {
	return &Extremal{takeMax: false, cur: 1, buckets: make(map[float64][]heldLine)}
}

// beats says if occ is at least as extreme as what we have.
func (p *Extremal) beats(occ float64) bool {
	if p.takeMax {
		return occ >= p.cur
	}
	return occ <= p.cur
}

func (p *Extremal) AddOrPostpone(l *record.Line, target int) (int, error) {
	if p.finalized {
		return cmmn.Discard, ErrFinalized
	}
	a, err := l.Atom()
	if err != nil {
		return cmmn.Discard, err
	}
	if keepAnyway(a) {
		return target, nil
	}
	occ := a.Occupancy()
	if p.beats(occ) {
		p.buckets[occ] = append(p.buckets[occ], heldLine{l, target})
		p.cur = occ
	}
	return cmmn.Discard, nil
}

// Held says how many lines are waiting, whatever their occupancy.
func (p *Extremal) Held() int {
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

// Current is the extreme occupancy seen so far.
func (p *Extremal) Current() float64 { return p.cur }

// Finalize replays the lines in the winning bucket into b, in the
// order they were read, each to the system its selector chose.
func (p *Extremal) Finalize(b Interpreter) (int, error) {
	if p.finalized {
		return 0, ErrFinalized
	}
	p.finalized = true
	if len(p.buckets) == 0 {
		return 0, nil
	}
	if p.cur == 0.5 {
		return 0, ErrTie
	}
	held := p.buckets[p.cur]
	for i, h := range held {
		if err := b.InterpretLine(h.l, h.target); err != nil {
			return i, err
		}
	}
	n := len(held)
	p.buckets = nil
	return n, nil
}

// Occupancies returns the occupancies held back, sorted. Mostly for
// diagnostics.
func (p *Extremal) Occupancies() []float64 {
	occ := make([]float64, 0, len(p.buckets))
	for k := range p.buckets {
		occ = append(occ, k)
	}
	slices.Sort(occ)
	return occ
}
