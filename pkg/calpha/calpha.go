// Package calpha reads lots of pdb files and collects some statistics
// about alpha carbons. Each pair of neighbouring CA atoms in a chain
// gives a distance, each triple gives an angle. Along the way we count
// the atom names we see.
package calpha

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/molsys/pdb/atomsel"
	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pdb/geom"
	"github.com/andrew-torda/molsys/pdb/occupancy"
	"github.com/andrew-torda/molsys/pdb/reader"
	"github.com/andrew-torda/molsys/pdb/selector"
)

const (
	NReaderDflt = 3
	conv        = 180 / math.Pi
)

// ErrTooManyBad is returned when more files fail than MaxBad allows.
var ErrTooManyBad = errors.New("too many broken files")

// Args is the set of arguments passed to the main function
type Args struct {
	Files   []string
	NReader int       // number of reader goroutines
	MaxBad  int       // give up after this many broken files, 0 means never
	Wrtr    io.Writer // distance,angle lines go here
	Log     zerolog.Logger
}

// Result collects what all the readers found.
type Result struct {
	NFile   int
	NBad    int
	NChain  int
	NDist   int
	NAngle  int
	AtNames map[string]int
}

// chainCA is the list of CA coordinates from one chain.
type chainCA []cmmn.Xyz

var isCA = atomsel.And(atomsel.ByAtomName("CA"), atomsel.Not(cmmn.AtomLike.IsHetatm))

// readpdb reads one file and returns the alpha carbons of every chain
// with at least two of them. Only the first model is used.
func readpdb(fname string, atNames map[string]int) ([]chainCA, error) {
	systems, err := reader.ReadPDBFile(fname, selector.NewSingle(), occupancy.NewMax(), ' ')
	if err != nil {
		return nil, err
	}
	s := systems[0]
	if s.HasNoModel() {
		return nil, nil
	}
	m, err := s.Model(s.ModelNumbers()[0])
	if err != nil {
		return nil, err
	}
	var ret []chainCA
	for c := range m.Chains() {
		var ca chainCA
		for a := range c.Atoms() {
			atNames[a.AtomName()]++
			if isCA(a) {
				ca = append(ca, a.Coord())
			}
		}
		if len(ca) > 1 {
			ret = append(ret, ca)
		}
	}
	return ret, nil
}

// getstat walks along each chain. A distance that is not a plausible
// peptide link breaks the chain and no angle is calculated across it.
func getstat(ch <-chan chainCA, w io.Writer, res *Result) error {
	for chain := range ch {
		res.NChain++
		okPrev := false
		for i := 1; i < len(chain); i++ {
			r, err := geom.CADist(chain[i-1], chain[i])
			if err != nil {
				okPrev = false
				continue
			}
			res.NDist++
			if okPrev {
				angle, err := geom.XyzAngle(chain[i-2], chain[i-1], chain[i])
				if err == nil {
					res.NAngle++
					if _, err := fmt.Fprintf(w, "%.2f,%.2f\n", r, angle*conv); err != nil {
						return err
					}
				}
			}
			okPrev = true
		}
	}
	return nil
}

// Main starts NReader goroutines which take file names from a channel
// and send chains to a single statistics collector.
func Main(ctx context.Context, args *Args) (*Result, error) {
	nReader := args.NReader
	if nReader < 1 {
		nReader = NReaderDflt
	}
	res := &Result{AtNames: make(map[string]int)}
	var mu sync.Mutex // protects NFile, NBad and AtNames

	g, ctx := errgroup.WithContext(ctx)
	names := make(chan string)
	cXyz := make(chan chainCA)

	g.Go(func() error {
		defer close(names)
		for _, f := range args.Files {
			select {
			case names <- f:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var wgRead sync.WaitGroup
	for range nReader {
		wgRead.Add(1)
		g.Go(func() error {
			defer wgRead.Done()
			for fname := range names {
				local := make(map[string]int)
				chains, err := readpdb(fname, local)
				mu.Lock()
				res.NFile++
				for k, v := range local {
					res.AtNames[k] += v
				}
				if err != nil {
					res.NBad++
					nBad := res.NBad
					mu.Unlock()
					args.Log.Warn().Err(err).Str("file", fname).Msg("ignoring")
					if args.MaxBad > 0 && nBad > args.MaxBad {
						return fmt.Errorf("%w: %d", ErrTooManyBad, nBad)
					}
					continue
				}
				mu.Unlock()
				for _, c := range chains {
					select {
					case cXyz <- c:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
			return nil
		})
	}
	go func() {
		wgRead.Wait()
		close(cXyz)
	}()

	statErr := getstat(cXyz, args.Wrtr, res)
	if statErr != nil {
		for range cXyz { // let the readers finish
		}
	}
	err := g.Wait()
	if statErr != nil {
		return res, statErr
	}
	return res, err
}

// WriteAtNames prints the atom names, most common first.
func (r *Result) WriteAtNames(w io.Writer) error {
	type kv struct {
		name string
		n    int
	}
	var all []kv
	for k, v := range r.AtNames {
		all = append(all, kv{k, v})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].n != all[j].n {
			return all[i].n > all[j].n
		}
		return all[i].name < all[j].name
	})
	for _, e := range all {
		if _, err := fmt.Fprintf(w, "%-4s %d\n", e.name, e.n); err != nil {
			return err
		}
	}
	return nil
}
