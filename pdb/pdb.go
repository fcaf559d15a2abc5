// This is the upper level for reading PDB files.
// Decide if a file is compressed or not, and what format
// we are going to read. Then hand it to the line reader, which
// builds the systems.

package pdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pdb/molsys"
	"github.com/andrew-torda/molsys/pdb/occupancy"
	"github.com/andrew-torda/molsys/pdb/reader"
	"github.com/andrew-torda/molsys/pdb/selector"
	"github.com/andrew-torda/molsys/pdb/zwrap"
	"github.com/andrew-torda/molsys/pkg/logging"
)

const (
	oldFmt byte = iota
	mmcifFmt
	unkFmt
)

var (
	ErrMmcif   = errors.New("mmcif format is not read, only old pdb format")
	ErrUnknown = errors.New("cannot recognise format")
	ErrSrcType = errors.New("unknown source type")
)

// comparefirst says if two words are the same, looking at the
// length of the shorter
func comparefirst(s, t string) bool {
	l := min(len(s), len(t))
	return s[:l] == t[:l]
}

// lookInFile opens a file and guesses if it is in old PDB format or
// in mmcif.
func lookInFile(fname string) (byte, error) {
	pdbWords := []string{"HEADER", "COMPND", "SOURCE", "REMARK", "SEQRES", "HETATM", "ATOM", "MODEL"}
	mmcifWords := []string{"data_", "_entry.id", "loop_"}
	rdr, err := zwrap.Open(fname)
	if err != nil {
		return unkFmt, fmt.Errorf("reading %s: %w", fname, err)
	}
	defer rdr.Close()

	const maxTestLines = 5000
	scnnr := bufio.NewScanner(rdr)
	for i := 0; i < maxTestLines && scnnr.Scan(); i++ {
		s := scnnr.Text()
		if s == "" {
			continue
		}
		for _, w := range mmcifWords {
			if comparefirst(s, w) {
				return mmcifFmt, nil
			}
		}
		for _, w := range pdbWords {
			if comparefirst(s, w) {
				return oldFmt, nil
			}
		}
	}
	return unkFmt, fmt.Errorf("%s: %w", fname, ErrUnknown)
}

// oldOrMmcif decides what format we will use.
// Maybe it uses the file name or maybe it peeks inside.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
func oldOrMmcif(fname string) (byte, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		if strings.Contains(s, "cif") {
			return mmcifFmt, nil
		}
		if strings.Contains(s, "pdb") || strings.Contains(s, "ent") {
			return oldFmt, nil
		}
	}
	return lookInFile(fname)
}

// entryName turns /some/where/pdb1abc.ent.gz into 1abc.
func entryName(fname string) string {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	if len(s) == 7 && strings.HasPrefix(s, "pdb") {
		s = s[3:]
	}
	return s
}

// ReadCoord reads a structure, either a file or a four letter code to
// be downloaded, depending on srcType. Every system the selector asks
// for comes back, named after the entry, even if it is empty.
// Diagnostics go to logDest, which is passed to logging.Where. opts
// go to the line reader, after the logger.
func ReadCoord(name string, srcType byte, sel selector.Selector, occ occupancy.Policy,
	altLoc byte, logDest string, opts ...reader.Option) ([]*molsys.System, error) {
	log, closer, err := logging.Where(logDest)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	defer closer.Close()
	log = log.With().Str("source", name).Logger()

	var rdr io.ReadCloser
	switch srcType {
	case cmmn.FileSrc:
		typ, err := oldOrMmcif(name)
		if err != nil {
			return nil, err
		}
		if typ == mmcifFmt {
			return nil, fmt.Errorf("%s: %w", name, ErrMmcif)
		}
		fp, err := zwrap.Open(name)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		rdr = fp
	case cmmn.HTTPSrc:
		if rdr, err = getHTTP(name, 0); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrSrcType, srcType)
	}
	defer rdr.Close()

	b := molsys.NewBuilder(sel.MaxSystems())
	r := reader.New(sel, b, append([]reader.Option{reader.WithLogger(log)}, opts...)...)
	if _, err := r.Read(rdr, occ, altLoc); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	systems := b.Systems()
	for _, s := range systems {
		s.Name = entryName(name)
	}
	return systems, nil
}
