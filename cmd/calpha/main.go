// calpha reads pdb files and prints alpha carbon distances and angles.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pkg/calpha"
	"github.com/andrew-torda/molsys/pkg/logging"
)

// pdbFiles walks down from dir and collects every regular file.
// maxFile <= 0 means no limit.
func pdbFiles(dir string, maxFile int) ([]string, error) {
	var ret []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if maxFile > 0 && len(ret) >= maxFile {
			return fs.SkipAll
		}
		if d.Type().IsRegular() {
			ret = append(ret, path)
		}
		return nil
	})
	return ret, err
}

func mymain() int {
	var (
		nReader int
		maxFile int
		maxBad  int
		dir     string
		logDest string
		names   bool
	)
	flag.IntVar(&nReader, "r", calpha.NReaderDflt, "num reader threads")
	flag.IntVar(&maxFile, "n", 0, "max num files to read from -d, 0 for all")
	flag.IntVar(&maxBad, "b", 5, "give up after this many broken files, 0 never")
	flag.StringVar(&dir, "d", "", "read every file below this directory")
	flag.StringVar(&logDest, "log", "stderr", "log to stdout, stderr or a file")
	flag.BoolVar(&names, "names", false, "finish with a count of atom names")
	flag.Parse()

	files := flag.Args()
	if dir != "" {
		more, err := pdbFiles(dir, maxFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return cmmn.ExitFailure
		}
		files = append(files, more...)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: calpha [options] [-d dir] [file ...]")
		flag.PrintDefaults()
		return cmmn.ExitUsageError
	}
	log, closer, err := logging.Where(logDest)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmmn.ExitFailure
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	args := calpha.Args{Files: files, NReader: nReader, MaxBad: maxBad, Wrtr: os.Stdout, Log: log}
	res, err := calpha.Main(ctx, &args)
	if res != nil {
		log.Info().Int("files", res.NFile).Int("bad", res.NBad).Int("chains", res.NChain).
			Int("angles", res.NAngle).Msg("done")
		if names {
			res.WriteAtNames(os.Stdout)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmmn.ExitFailure
	}
	return cmmn.ExitSuccess
}

func main() {
	os.Exit(mymain())
}
