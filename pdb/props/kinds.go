package props

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRadius reads a single number.
func ParseRadius(words []string) (float64, error) {
	if len(words) != 1 {
		return 0, fmt.Errorf("%w: want one radius, got %q", ErrFormat, words)
	}
	r, err := strconv.ParseFloat(words[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if r < 0 {
		return 0, fmt.Errorf("%w: negative radius %g", ErrFormat, r)
	}
	return r, nil
}

// RGB is a colour with components from 0 to 1.
type RGB struct{ R, G, B float64 }

func (c RGB) String() string { return fmt.Sprintf("%g,%g,%g", c.R, c.G, c.B) }

// ParseColour takes "1,0.5,0" or "1 0.5 0".
func ParseColour(words []string) (RGB, error) {
	parts := strings.FieldsFunc(strings.Join(words, " "), func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("%w: colour needs three components, got %q", ErrFormat, words)
	}
	var v [3]float64
	for i, s := range parts {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		if f < 0 || f > 1 {
			return RGB{}, fmt.Errorf("%w: colour component %g out of range", ErrFormat, f)
		}
		v[i] = f
	}
	return RGB{v[0], v[1], v[2]}, nil
}

// Residue colours by chemistry.
var (
	Yellow = RGB{1, 1, 0}          // normal
	Green  = RGB{0, 0.8, 0}        // hydrophobic
	Blue   = RGB{0, 0, 0.93}       // positive
	Purple = RGB{0.54, 0.04, 0.31} // polar amide
	Red    = RGB{0.77, 0, 0}       // negative
	Grey   = RGB{0.5, 0.5, 0.5}
)

var residueColours = map[string]RGB{
	"ALA": Yellow, "CYS": Yellow, "GLY": Yellow, "PRO": Yellow, "SER": Yellow, "THR": Yellow,
	"VAL": Green, "LEU": Green, "ILE": Green, "MET": Green, "MSE": Green,
	"PHE": Green, "TYR": Green, "TRP": Green,
	"HIS": Blue, "LYS": Blue, "ARG": Blue,
	"ASN": Purple, "GLN": Purple,
	"GLU": Red, "ASP": Red,
}

// ResidueColour is the built in colour scheme. Anything unknown is grey.
func ResidueColour(resName string) RGB {
	if c, ok := residueColours[resName]; ok {
		return c
	}
	return Grey
}
