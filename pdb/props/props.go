// Package props attaches properties, like a radius or a colour, to
// atoms. A table maps residue name + atom name to the index of a
// property. Tables come from a plain text file with sections
//
//	EXTRA ... END
//	CLASSIFICATION
//	  ALA N 0
//	END
//	PROPERTIES
//	  0 1.65
//	END
//	DEFAULT
//	  0
//	END
//
// or from the same information written as TOML.
// None of the sections are required, but property indices must run
// from 0 without gaps and cover every index the classification uses.
package props

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/andrew-torda/molsys/pdb/cmmn"
)

// NoDefault as a default index means unknown atoms are an error.
const NoDefault = -1

var (
	ErrFormat  = errors.New("bad property file")
	ErrMissing = errors.New("no property")
)

// ParseFunc turns the words after the index in a PROPERTIES line
// into a property.
type ParseFunc[P any] func(words []string) (P, error)

// Table is a finished lookup table.
type Table[P any] struct {
	index map[string]int
	props []P
	dflt  int
	extra []string
}

// Key is what atoms are looked up by.
func Key(resName, atomName string) string { return resName + atomName }

// Len is the number of properties.
func (t *Table[P]) Len() int { return len(t.props) }

// Default is the index handed out for unknown atoms, or NoDefault.
func (t *Table[P]) Default() int { return t.dflt }

// Extra returns the lines of the EXTRA section.
func (t *Table[P]) Extra() []string { return t.extra }

// Prop returns property number i.
func (t *Table[P]) Prop(i int) (P, error) {
	if i < 0 || i >= len(t.props) {
		var zero P
		return zero, fmt.Errorf("%w: index %d of %d", ErrMissing, i, len(t.props))
	}
	return t.props[i], nil
}

// Index returns the property index for a residue and atom name.
func (t *Table[P]) Index(resName, atomName string) (int, error) {
	if i, ok := t.index[Key(resName, atomName)]; ok {
		return i, nil
	}
	if t.dflt != NoDefault {
		return t.dflt, nil
	}
	return NoDefault, fmt.Errorf("%w: for %s and no default", ErrMissing, Key(resName, atomName))
}

// Lookup finds the property of an atom.
func (t *Table[P]) Lookup(a cmmn.AtomLike) (P, error) {
	i, err := t.Index(a.ResidueName(), a.AtomName())
	if err != nil {
		var zero P
		return zero, err
	}
	return t.Prop(i)
}

// builder collects sections in any order and checks them at the end.
type builder[P any] struct {
	t       Table[P]
	byIndex map[int]P
	maxUsed int
	parse   ParseFunc[P]
}

func newBuilder[P any](parse ParseFunc[P]) *builder[P] {
	return &builder[P]{
		t:       Table[P]{index: make(map[string]int), dflt: NoDefault},
		byIndex: make(map[int]P),
		maxUsed: -1,
		parse:   parse,
	}
}

func (b *builder[P]) classify(res, atom string, i int) error {
	if i < 0 {
		return fmt.Errorf("%w: negative index %d", ErrFormat, i)
	}
	b.t.index[Key(res, atom)] = i
	b.maxUsed = max(b.maxUsed, i)
	return nil
}

func (b *builder[P]) property(i int, words []string) error {
	if _, ok := b.byIndex[i]; ok {
		return fmt.Errorf("%w: property %d given twice", ErrFormat, i)
	}
	p, err := b.parse(words)
	if err != nil {
		return fmt.Errorf("property %d: %w", i, err)
	}
	b.byIndex[i] = p
	return nil
}

func (b *builder[P]) setDefault(i int) {
	b.t.dflt = i
	b.maxUsed = max(b.maxUsed, i)
}

func (b *builder[P]) finish() (*Table[P], error) {
	keys := slices.Sorted(maps.Keys(b.byIndex))
	for i, k := range keys {
		if i != k {
			return nil, fmt.Errorf("%w: property number %d could not be found", ErrFormat, i)
		}
		b.t.props = append(b.t.props, b.byIndex[k])
	}
	if len(keys) <= b.maxUsed {
		return nil, fmt.Errorf("%w: up to %d properties are used, but only %d are declared",
			ErrFormat, b.maxUsed+1, len(keys))
	}
	return &b.t, nil
}

type section int

const (
	outside section = iota
	extra
	classification
	properties
	dflt
)

var sectionNames = map[string]section{
	"EXTRA":          extra,
	"CLASSIFICATION": classification,
	"PROPERTIES":     properties,
	"DEFAULT":        dflt,
}

// Load reads a table in the sectioned text format. Blank lines and
// lines starting with # are skipped.
func Load[P any](r io.Reader, parse ParseFunc[P]) (*Table[P], error) {
	b := newBuilder(parse)
	scnr := bufio.NewScanner(r)
	state := outside
	nLine := 0
	for scnr.Scan() {
		nLine++
		s := strings.TrimSpace(scnr.Text())
		if s == "" || s[0] == '#' {
			continue
		}
		if state == outside {
			sec, ok := sectionNames[s]
			if !ok {
				return nil, fmt.Errorf("%w: line %d: unexpected <|%s|> found", ErrFormat, nLine, s)
			}
			state = sec
			continue
		}
		if s == "END" {
			state = outside
			continue
		}
		if err := b.line(state, s); err != nil {
			return nil, fmt.Errorf("line %d: %w", nLine, err)
		}
	}
	if err := scnr.Err(); err != nil {
		return nil, err
	}
	if state != outside {
		return nil, fmt.Errorf("%w: missing END at end of file", ErrFormat)
	}
	return b.finish()
}

func (b *builder[P]) line(state section, s string) error {
	words := strings.Fields(s)
	switch state {
	case extra:
		b.t.extra = append(b.t.extra, s)
	case classification:
		if len(words) < 3 {
			return fmt.Errorf("%w: want residue, atom and index, got <|%s|>", ErrFormat, s)
		}
		i, err := strconv.Atoi(words[2])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}
		return b.classify(words[0], words[1], i)
	case properties:
		i, err := strconv.Atoi(words[0])
		if err != nil || i < 0 {
			return fmt.Errorf("%w: bad property index in <|%s|>", ErrFormat, s)
		}
		return b.property(i, words[1:])
	case dflt:
		i, err := strconv.Atoi(words[0])
		if err != nil || i < NoDefault {
			return fmt.Errorf("%w: bad default <|%s|>", ErrFormat, s)
		}
		b.setDefault(i)
	}
	return nil
}

// tomlTable is the TOML spelling of a table file.
type tomlTable struct {
	Default *int
	Extra   []string
	Class   []struct {
		Residue string
		Atom    string
		Index   int
	}
	Property []struct {
		Index int
		Value string
	}
}

// LoadTOML reads the same information as Load from TOML, like
//
//	default = 0
//	[[class]]
//	residue = "ALA"
//	atom = "N"
//	index = 0
//	[[property]]
//	index = 0
//	value = "1.65"
func LoadTOML[P any](r io.Reader, parse ParseFunc[P]) (*Table[P], error) {
	var tt tomlTable
	md, err := toml.NewDecoder(r).Decode(&tt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if un := md.Undecoded(); len(un) > 0 {
		return nil, fmt.Errorf("%w: unknown key %s", ErrFormat, un[0])
	}
	b := newBuilder(parse)
	b.t.extra = tt.Extra
	for _, c := range tt.Class {
		if err := b.classify(c.Residue, c.Atom, c.Index); err != nil {
			return nil, err
		}
	}
	for _, p := range tt.Property {
		if p.Index < 0 {
			return nil, fmt.Errorf("%w: negative property index %d", ErrFormat, p.Index)
		}
		if err := b.property(p.Index, strings.Fields(p.Value)); err != nil {
			return nil, err
		}
	}
	if tt.Default != nil {
		if *tt.Default < NoDefault {
			return nil, fmt.Errorf("%w: bad default %d", ErrFormat, *tt.Default)
		}
		b.setDefault(*tt.Default)
	}
	return b.finish()
}
