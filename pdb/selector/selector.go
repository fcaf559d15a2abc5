// Package selector decides which system a pdb line belongs to.
// Every selector returns cmmn.Remark for MODEL lines, so the builder
// can follow model numbers, and cmmn.Discard for anything that does not
// carry an atom. Coordinate lines get a system index from 1 to
// MaxSystems(), after the occupancy policy has had its say.
package selector

import (
	"github.com/andrew-torda/molsys/pdb/atomsel"
	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pdb/record"
)

// Postponer is the part of an occupancy policy a selector talks to.
type Postponer interface {
	AddOrPostpone(l *record.Line, target int) (int, error)
}

// Selector maps a line to a target. MaxSystems must be known before
// reading starts, since the builder makes that many systems up front.
type Selector interface {
	Keep(l *record.Line, occ Postponer) (int, error)
	MaxSystems() int
}

// Counts is kept by each selector for diagnostics.
type Counts struct {
	Seen      int // coordinate lines seen
	Discarded int // coordinate lines that got no system
}

// Stats returns a copy of the counters. Lines held back by an
// occupancy policy count as discarded here.
func (c *Counts) Stats() Counts { return *c }

// tally counts what comes back from an occupancy policy.
func (c *Counts) tally(n int, err error) (int, error) {
	if n == cmmn.Discard {
		c.Discarded++
	}
	return n, err
}

// nonCoord handles everything that is not ATOM or HETATM.
func nonCoord(l *record.Line) int {
	if l.Kind == record.Model {
		return cmmn.Remark
	}
	return cmmn.Discard
}

// Single puts every atom into system 1.
type Single struct {
	Counts
}

func NewSingle() *Single { return &Single{} }

func (s *Single) MaxSystems() int { return 1 }

func (s *Single) Keep(l *record.Line, occ Postponer) (int, error) {
	if !l.IsCoord() {
		return nonCoord(l), nil
	}
	s.Seen++
	return s.tally(occ.AddOrPostpone(l, 1))
}

// TwoSystems puts water into system 2 and everything else into system
// 1. Hydrogens are dropped.
type TwoSystems struct {
	Counts
}

func NewTwoSystems() *TwoSystems { return &TwoSystems{} }

func (s *TwoSystems) MaxSystems() int { return 2 }

func (s *TwoSystems) Keep(l *record.Line, occ Postponer) (int, error) {
	if !l.IsCoord() {
		return nonCoord(l), nil
	}
	s.Seen++
	a, err := l.Atom()
	if err != nil {
		return cmmn.Discard, err
	}
	if atomsel.IsHydrogen(a) {
		s.Discarded++
		return cmmn.Discard, nil
	}
	target := 1
	if atomsel.IsWater(a) {
		target = 2
	}
	return s.tally(occ.AddOrPostpone(l, target))
}

// ChainOptions tune a chain selector.
type ChainOptions struct {
	KeepWater       bool    // water gets its own system after the groups
	KeepRemaining   bool    // unmatched chains go to a last system
	KeepHydrogen    bool
	WaterBFactorMax float64 // waters with a bigger B factor are dropped
}

// DefaultChainOptions keeps water, drops hydrogens and unmatched chains.
func DefaultChainOptions() ChainOptions {
	return ChainOptions{KeepWater: true, WaterBFactorMax: 200}
}

// Chains puts each group of chains into its own system.
// Given groups {"AB", "C"}, chains A and B go to system 1, chain C to
// system 2, water to 3 and, if wanted, everything else to 4.
type Chains struct {
	Counts
	opts    ChainOptions
	groupOf map[byte]int
	nGroup  int
}

// NewChains makes a selector from groups of chain identifiers. If a
// chain turns up in two groups, the first one wins.
func NewChains(groups []string, opts ChainOptions) *Chains {
	s := &Chains{opts: opts, groupOf: make(map[byte]int), nGroup: len(groups)}
	for i, g := range groups {
		for j := 0; j < len(g); j++ {
			if _, ok := s.groupOf[g[j]]; !ok {
				s.groupOf[g[j]] = i + 1
			}
		}
	}
	return s
}

func (s *Chains) MaxSystems() int {
	n := s.nGroup
	if s.opts.KeepWater {
		n++
	}
	if s.opts.KeepRemaining {
		n++
	}
	return n
}

func (s *Chains) waterIndex() int { return s.nGroup + 1 }

func (s *Chains) remainingIndex() int {
	if s.opts.KeepWater {
		return s.nGroup + 2
	}
	return s.nGroup + 1
}

func (s *Chains) discard() (int, error) {
	s.Discarded++
	return cmmn.Discard, nil
}

func (s *Chains) Keep(l *record.Line, occ Postponer) (int, error) {
	if !l.IsCoord() {
		return nonCoord(l), nil
	}
	s.Seen++
	a, err := l.Atom()
	if err != nil {
		return cmmn.Discard, err
	}
	if !s.opts.KeepHydrogen && atomsel.IsHydrogen(a) {
		return s.discard()
	}
	if atomsel.IsWater(a) {
		if !s.opts.KeepWater || a.TempFactor() > s.opts.WaterBFactorMax {
			return s.discard()
		}
		return s.tally(occ.AddOrPostpone(l, s.waterIndex()))
	}
	if g, ok := s.groupOf[a.ChainID()]; ok {
		return s.tally(occ.AddOrPostpone(l, g))
	}
	if s.opts.KeepRemaining {
		return s.tally(occ.AddOrPostpone(l, s.remainingIndex()))
	}
	return s.discard()
}

// Generic tries a list of predicates in order. An atom goes to the
// system numbered by the first predicate that accepts it.
type Generic struct {
	Counts
	preds []atomsel.Pred
}

func NewGeneric(preds ...atomsel.Pred) *Generic { return &Generic{preds: preds} }

func (s *Generic) MaxSystems() int { return len(s.preds) }

func (s *Generic) Keep(l *record.Line, occ Postponer) (int, error) {
	if !l.IsCoord() {
		return nonCoord(l), nil
	}
	s.Seen++
	a, err := l.Atom()
	if err != nil {
		return cmmn.Discard, err
	}
	for i, p := range s.preds {
		if p(a) {
			return s.tally(occ.AddOrPostpone(l, i+1))
		}
	}
	s.Discarded++
	return cmmn.Discard, nil
}
