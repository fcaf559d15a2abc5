// Package pdbsys reads pdb files into molecular systems and reports
// on them. This is the work behind the pdbsys command.
package pdbsys

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/andrew-torda/molsys/pdb"
	"github.com/andrew-torda/molsys/pdb/atomsel"
	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pdb/conect"
	"github.com/andrew-torda/molsys/pdb/geom"
	"github.com/andrew-torda/molsys/pdb/molsys"
	"github.com/andrew-torda/molsys/pdb/props"
	"github.com/andrew-torda/molsys/pdb/reader"
	"github.com/andrew-torda/molsys/pdb/record"
	"github.com/andrew-torda/molsys/pdb/selector"
	"github.com/andrew-torda/molsys/pdb/store"
	"github.com/andrew-torda/molsys/pkg/logging"
)

// Args is the set of arguments passed to the main function
type Args struct {
	Config
	Files []string  // file names or four letter codes to download
	Wrtr  io.Writer // the report goes here
}

type statser interface {
	Stats() selector.Counts
}

// srcOf guesses if name is a file or something to download.
func srcOf(name string) byte {
	if _, err := os.Stat(name); err == nil || len(name) != 4 {
		return cmmn.FileSrc
	}
	return cmmn.HTTPSrc
}

// run holds what stays open while files are processed.
type run struct {
	args  *Args
	log   zerolog.Logger
	radii *props.Table[float64]
	db    *store.Store
	out   io.Writer
}

// Main reads each file in turn. The first error stops everything.
func Main(ctx context.Context, args *Args) (err error) {
	if err := args.Check(); err != nil {
		return err
	}
	r := run{args: args}
	var closer io.Closer
	if r.log, closer, err = logging.Where(args.Log); err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer closer.Close()

	if args.Radii != "" {
		fp, err := os.Open(args.Radii)
		if err != nil {
			return err
		}
		r.radii, err = props.Load(fp, props.ParseRadius)
		fp.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", args.Radii, err)
		}
	}
	if args.DB != "" {
		if r.db, err = store.Open(ctx, args.DB, r.log); err != nil {
			return err
		}
		defer r.db.Close()
	}
	if args.Out != "" {
		fp, e := os.Create(args.Out)
		if e != nil {
			return fmt.Errorf("file for output: %w", e)
		}
		defer func() {
			if e := fp.Close(); err == nil {
				err = e
			}
		}()
		r.out = fp
	}
	for _, name := range args.Files {
		if err := r.doFile(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) doFile(ctx context.Context, name string) error {
	sel, err := r.args.NewSelector()
	if err != nil {
		return err
	}
	occ, err := r.args.NewPolicy()
	if err != nil {
		return err
	}
	alt, err := r.args.AltLocByte()
	if err != nil {
		return err
	}
	var opts []reader.Option
	var g *conect.Graph
	if r.args.Conect {
		g = conect.New()
		opts = append(opts, reader.Observe(record.Conect, g.AddLine))
	}
	systems, err := pdb.ReadCoord(name, srcOf(name), sel, occ, alt, r.args.Log, opts...)
	if err != nil {
		return err
	}
	w := r.args.Wrtr
	for _, s := range systems {
		if s.HasNoModel() {
			fmt.Fprintf(w, "%s system %d: empty\n", s.Name, s.Index())
			continue
		}
		if err := r.report(s); err != nil {
			return err
		}
		if r.out != nil {
			if err := molsys.WritePDB(r.out, s); err != nil {
				return err
			}
		}
		if r.db != nil {
			id, err := r.db.SaveSystem(ctx, name, s)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  saved as %d\n", id)
		}
	}
	if st, ok := sel.(statser); ok {
		c := st.Stats()
		fmt.Fprintf(w, "%s atoms seen %d discarded %d\n", name, c.Seen, c.Discarded)
	}
	if g != nil {
		fmt.Fprintf(w, "%s conect atoms %d bonds %d\n", name, g.NAtoms(), g.NBonds())
	}
	return nil
}

// report prints a few lines about the first model of a system.
func (r *run) report(s *molsys.System) error {
	w := r.args.Wrtr
	m, err := s.Model(s.ModelNumbers()[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s system %d: models %d chains %d residues %d atoms %d altloc %q\n",
		s.Name, s.Index(), s.NModels(), m.NChains(), m.NResidues(), m.NAtoms(), s.AltLoc())

	lo, hi, err := geom.BoundingBox(m.Coords(nil))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  box %.3f %.3f %.3f to %.3f %.3f %.3f\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)

	isCA := atomsel.And(atomsel.ByAtomName("CA"), atomsel.Not(cmmn.AtomLike.IsHetatm))
	nBreak := 0
	for c := range m.Chains() {
		var ca []cmmn.Xyz
		for a := range c.Atoms() {
			if isCA(a) {
				ca = append(ca, a.Coord())
			}
		}
		nBreak += len(geom.CABreaks(ca))
	}
	fmt.Fprintf(w, "  chain breaks %d\n", nBreak)

	if r.radii != nil {
		var sum float64
		n, missing := 0, 0
		for a := range m.Atoms() {
			rad, err := r.radii.Lookup(a)
			if err != nil {
				missing++
				continue
			}
			sum += rad
			n++
		}
		if n > 0 {
			sum /= float64(n)
		}
		fmt.Fprintf(w, "  mean radius %.3f missing %d\n", sum, missing)
	}
	return nil
}
