// Package reader walks through a pdb file line by line.
// Each line is classified, a selector picks the system it goes to,
// the occupancy policy may veto or postpone it, and finally a builder
// puts it in place. After the last line the occupancy policy gets a
// chance to hand over what it held back.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pdb/molsys"
	"github.com/andrew-torda/molsys/pdb/occupancy"
	"github.com/andrew-torda/molsys/pdb/record"
	"github.com/andrew-torda/molsys/pdb/selector"
	"github.com/andrew-torda/molsys/pdb/zwrap"
)

// Classifier turns a raw line into a record.Line.
type Classifier interface {
	Classify(raw string) *record.Line
}

// SystemBuilder is what molsys.Builder does.
type SystemBuilder interface {
	InterpretLine(l *record.Line, target int) error
	CreateSystems(altLoc byte)
}

type statser interface {
	Stats() selector.Counts
}

// maxLine is the longest line we accept. Pdb lines are 80 columns, but
// people do strange things.
const maxLine = 1024 * 1024

// Reader is put together once and can read several files in turn, all
// going into the same builder.
type Reader struct {
	cls       Classifier
	sel       selector.Selector
	bld       SystemBuilder
	log       zerolog.Logger
	observers map[record.Kind][]func(*record.Line) error
}

type Option func(*Reader)

// WithClassifier replaces the default classifier, for example with one
// that is less strict about missing fields.
func WithClassifier(c Classifier) Option { return func(r *Reader) { r.cls = c } }

// WithLogger sends line counts and selector statistics to l at debug
// level.
func WithLogger(l zerolog.Logger) Option { return func(r *Reader) { r.log = l } }

// Observe calls f for every line of kind k, before the selector sees
// it. This is the way to pick up CONECT or MASTER records.
func Observe(k record.Kind, f func(*record.Line) error) Option {
	return func(r *Reader) { r.observers[k] = append(r.observers[k], f) }
}

// New puts a reader together.
func New(sel selector.Selector, b SystemBuilder, opts ...Option) *Reader {
	r := &Reader{
		cls:       record.NewClassifier(),
		sel:       sel,
		bld:       b,
		log:       zerolog.Nop(),
		observers: make(map[record.Kind][]func(*record.Line) error),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Read consumes everything from in. It returns the number of lines
// given to the builder, including those the occupancy policy replayed at
// the end.
// altLoc is the alternate location to keep. If it is blank, the first
// one we meet is kept and lines with any other are skipped.
func (r *Reader) Read(in io.Reader, occ occupancy.Policy, altLoc byte) (int, error) {
	scnr := bufio.NewScanner(in)
	scnr.Buffer(make([]byte, 0, 4096), maxLine)
	nLine, nKept := 0, 0
	for scnr.Scan() {
		nLine++
		raw := strings.TrimSuffix(scnr.Text(), "\r")
		if raw == "" {
			continue
		}
		l := r.cls.Classify(raw)
		for _, f := range r.observers[l.Kind] {
			if err := f(l); err != nil {
				return nKept, fmt.Errorf("line %d: %w", nLine, err)
			}
		}
		target, err := r.sel.Keep(l, occ)
		if err != nil {
			return nKept, fmt.Errorf("line %d: %w", nLine, err)
		}
		if target == cmmn.Discard {
			continue
		}
		if l.IsCoord() {
			a, err := l.Atom()
			if err != nil {
				return nKept, fmt.Errorf("line %d: %w", nLine, err)
			}
			if c := a.AltLoc(); c != ' ' {
				if altLoc == ' ' {
					altLoc = c
				} else if c != altLoc {
					continue
				}
			}
		}
		if err := r.bld.InterpretLine(l, target); err != nil {
			return nKept, fmt.Errorf("line %d: %w", nLine, err)
		}
		nKept++
	}
	if err := scnr.Err(); err != nil {
		return nKept, fmt.Errorf("after line %d: %w", nLine, err)
	}
	nLate, err := occ.Finalize(r.bld)
	if err != nil {
		return nKept + nLate, fmt.Errorf("end of input: %w", err)
	}
	r.bld.CreateSystems(altLoc)

	ev := r.log.Debug().Int("lines", nLine).Int("kept", nKept).Int("late", nLate).
		Str("altloc", string(altLoc))
	if s, ok := r.sel.(statser); ok {
		c := s.Stats()
		ev = ev.Int("seen", c.Seen).Int("discarded", c.Discarded)
	}
	ev.Msg("read")
	return nKept + nLate, nil
}

// ReadFile opens a file, which may be compressed, and reads it.
func (r *Reader) ReadFile(fname string, occ occupancy.Policy, altLoc byte) (int, error) {
	fp, err := zwrap.Open(fname)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", fname, err)
	}
	defer fp.Close()
	r.log.Debug().Str("file", fname).Bool("compressed", fp.Compressed()).Msg("open")
	n, err := r.Read(fp, occ, altLoc)
	if err != nil {
		return n, fmt.Errorf("%s: %w", fname, err)
	}
	return n, nil
}

// ReadPDBFile is the short way. It makes a builder big enough for sel,
// reads fname and returns every system, including empty ones.
func ReadPDBFile(fname string, sel selector.Selector, occ occupancy.Policy, altLoc byte, opts ...Option) ([]*molsys.System, error) {
	b := molsys.NewBuilder(sel.MaxSystems())
	if _, err := New(sel, b, opts...).ReadFile(fname, occ, altLoc); err != nil {
		return nil, err
	}
	return b.Systems(), nil
}
