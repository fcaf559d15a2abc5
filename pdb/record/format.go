package record

import (
	"fmt"
	"strconv"

	"github.com/andrew-torda/molsys/pdb/cmmn"
)

// FormatCharge is the inverse of ParseCharge.
func FormatCharge(q int) string {
	switch {
	case q == cmmn.NoCharge:
		return "  "
	case q < 0:
		return strconv.Itoa(-q) + "-"
	}
	return strconv.Itoa(q) + "+"
}

// padName puts atom names where people expect them. Four letter names
// start in column 12, shorter ones in column 13.
func padName(s string) string {
	if len(s) >= 4 {
		return s
	}
	return " " + s
}

func recName(a cmmn.AtomLike) string {
	if a.IsHetatm() {
		return "HETATM"
	}
	return "ATOM  "
}

// Format writes an atom as an 80 column ATOM or HETATM line, without
// the newline.
func Format(a cmmn.AtomLike) string {
	x := a.Coord()
	return recName(a) + fmt.Sprintf("%5d %-4s%c%3s %c%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s%2s",
		a.Serial(), padName(a.AtomName()), a.AltLoc(), a.ResidueName(),
		a.ChainID(), a.ResSeq(), a.InsCode(),
		x.X, x.Y, x.Z, a.Occupancy(), a.TempFactor(),
		a.Element(), FormatCharge(a.Charge()))
}

// FormatReduced gives only the columns that identify an atom, serial
// number up to insertion code. Handy for messages.
func FormatReduced(a cmmn.AtomLike) string {
	return fmt.Sprintf("%5d %-4s%c%3s %c%4d%c",
		a.Serial(), padName(a.AtomName()), a.AltLoc(), a.ResidueName(),
		a.ChainID(), a.ResSeq(), a.InsCode())
}
