// Package cmmn has common definitions for coordinates and the
// pieces of the pdb reader which have to agree with each other.
package cmmn

import (
	"math"
)

// Does our data come from a file or http source ?
const (
	FileSrc byte = iota
	HTTPSrc
)

// Exit codes for the programs in cmd/
const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// Targets handed from a line selector to a builder. Anything bigger
// than zero is a system index, counting from 1.
const (
	Remark  = 0  // line carries no atom, but the builder must see it
	Discard = -1 // line is dropped
)

// NoCharge is what an atom gets when the charge columns are blank.
// It is not zero, since zero is a perfectly good charge.
const NoCharge = 66

// NoFloat marks a coordinate or value that was never set.
const NoFloat = math.MaxFloat64

// Xyz is one point.
type Xyz struct{ X, Y, Z float64 }

var BrokenXyz = Xyz{NoFloat, 0, -NoFloat}

// Ok says if a point was ever set.
func (xyz *Xyz) Ok() bool {
	if *xyz != BrokenXyz {
		return true
	}
	return false
}

// Add returns the sum of two points.
func (xyz Xyz) Add(o Xyz) Xyz { return Xyz{xyz.X + o.X, xyz.Y + o.Y, xyz.Z + o.Z} }

// Sub returns xyz - o.
func (xyz Xyz) Sub(o Xyz) Xyz { return Xyz{xyz.X - o.X, xyz.Y - o.Y, xyz.Z - o.Z} }

// Scale multiplies each component by f.
func (xyz Xyz) Scale(f float64) Xyz { return Xyz{xyz.X * f, xyz.Y * f, xyz.Z * f} }

// AtomLike is what anything that looks like an atom has to offer.
// It is implemented by a freshly parsed line and by an atom sitting
// in a residue. Selectors, predicates and the pdb writer only ever
// see this.
type AtomLike interface {
	IsHetatm() bool
	Serial() int
	AtomName() string
	AltLoc() byte
	ResidueName() string
	ChainID() byte
	ResSeq() int
	InsCode() byte
	Coord() Xyz
	Occupancy() float64
	TempFactor() float64
	Element() string
	Charge() int
}
