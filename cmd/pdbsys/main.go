// 19 Oct 2026

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pkg/pdbsys"
)

// chainList lets -chains be given more than once.
type chainList []string

func (c *chainList) String() string     { return strings.Join(*c, ",") }
func (c *chainList) Set(s string) error { *c = append(*c, s); return nil }

func mymain() int {
	f := flag.NewFlagSet("pdbsys", flag.ContinueOnError)
	f.Usage = func() {
		fmt.Fprintln(f.Output(), "usage: pdbsys [options] file_or_code [...]")
		f.PrintDefaults()
	}
	var (
		cfgFile string
		chains  chainList
		sel     = f.String("s", "", "selector: single, water or chains")
		occ     = f.String("occ", "", "occupancy policy: strict, all, none, max, min or list")
		alt     = f.String("alt", "", "alternate location to keep")
		logDest = f.String("log", "", "log to stdout, stderr or a file")
		out     = f.String("w", "", "write systems to this pdb file")
		db      = f.String("d", "", "save systems in this sqlite file")
		radii   = f.String("radii", "", "property file with atomic radii")
		con     = f.Bool("conect", false, "report on CONECT records")
		hyd     = f.Bool("H", false, "keep hydrogens with the chains selector")
	)
	f.StringVar(&cfgFile, "c", "", "toml configuration file")
	f.Var(&chains, "chains", "group of chains for one system, can be repeated")
	if err := f.Parse(os.Args[1:]); err != nil {
		return cmmn.ExitUsageError
	}
	if f.NArg() == 0 {
		fmt.Fprintln(f.Output(), "no input files")
		f.Usage()
		return cmmn.ExitUsageError
	}

	cfg := pdbsys.DefaultConfig()
	if cfgFile != "" {
		var err error
		if cfg, err = pdbsys.LoadConfig(cfgFile, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return cmmn.ExitFailure
		}
	}
	// Flags given on the command line beat the file.
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "s":
			cfg.Selector = *sel
		case "occ":
			cfg.Occupancy = *occ
		case "alt":
			cfg.AltLoc = *alt
		case "log":
			cfg.Log = *logDest
		case "w":
			cfg.Out = *out
		case "d":
			cfg.DB = *db
		case "radii":
			cfg.Radii = *radii
		case "conect":
			cfg.Conect = *con
		case "H":
			cfg.KeepHydrogen = *hyd
		case "chains":
			cfg.Chains = chains
		}
	})
	if err := cfg.Check(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmmn.ExitUsageError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	args := pdbsys.Args{Config: cfg, Files: f.Args(), Wrtr: os.Stdout}
	if err := pdbsys.Main(ctx, &args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmmn.ExitFailure
	}
	return cmmn.ExitSuccess
}

func main() {
	os.Exit(mymain())
}
