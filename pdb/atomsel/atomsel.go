// Package atomsel has predicates on atoms. They work on anything which
// satisfies cmmn.AtomLike, so the same predicate can filter lines as
// they are read or atoms sitting in a model.
package atomsel

import (
	"slices"

	"github.com/andrew-torda/molsys/pdb/cmmn"
)

// Pred says yes or no to an atom.
type Pred func(a cmmn.AtomLike) bool

var backbone = []string{"N", "CA", "C", "O", "OXT"}

var waterNames = []string{"HOH", "SOL", "WAT"}

// IsBackbone is true for protein backbone atoms. Hetero atoms are
// never backbone.
func IsBackbone(a cmmn.AtomLike) bool {
	return !a.IsHetatm() && slices.Contains(backbone, a.AtomName())
}

// IsSideChainOrCA keeps the side chain and the C alpha.
func IsSideChainOrCA(a cmmn.AtomLike) bool {
	return !IsBackbone(a) || a.AtomName() == "CA"
}

// IsHydrogen looks only at the element column.
func IsHydrogen(a cmmn.AtomLike) bool { return a.Element() == "H" }

// IsWater recognises the usual names for water residues.
func IsWater(a cmmn.AtomLike) bool { return IsWaterName(a.ResidueName()) }

// IsWaterName is IsWater for a bare residue name.
func IsWaterName(resname string) bool { return slices.Contains(waterNames, resname) }

// ByResName selects atoms from residues with this name.
func ByResName(name string) Pred {
	return func(a cmmn.AtomLike) bool { return a.ResidueName() == name }
}

// ByAtomName selects atoms with this name, like "CA".
func ByAtomName(name string) Pred {
	return func(a cmmn.AtomLike) bool { return a.AtomName() == name }
}

// ByElement selects on the element column.
func ByElement(elem string) Pred {
	return func(a cmmn.AtomLike) bool { return a.Element() == elem }
}

// ByChainIDs selects atoms whose chain is any of the characters in ids.
func ByChainIDs(ids string) Pred {
	set := []byte(ids)
	return func(a cmmn.AtomLike) bool { return slices.Contains(set, a.ChainID()) }
}

// Not inverts a predicate.
func Not(p Pred) Pred {
	return func(a cmmn.AtomLike) bool { return !p(a) }
}

// And is true if all of ps are. It stops at the first false one and is
// true for an empty list.
func And(ps ...Pred) Pred {
	return func(a cmmn.AtomLike) bool {
		for _, p := range ps {
			if !p(a) {
				return false
			}
		}
		return true
	}
}

// Or is true as soon as one of ps is. An empty list is false.
func Or(ps ...Pred) Pred {
	return func(a cmmn.AtomLike) bool {
		for _, p := range ps {
			if p(a) {
				return true
			}
		}
		return false
	}
}

// All selects everything.
func All(cmmn.AtomLike) bool { return true }
