package pdbsys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/andrew-torda/molsys/pdb/occupancy"
	"github.com/andrew-torda/molsys/pdb/selector"
)

var ErrConfig = errors.New("bad configuration")

// Config says how to read and what to do with the result.
type Config struct {
	Selector        string // single, water or chains
	Chains          []string
	KeepWater       bool
	KeepRemaining   bool
	KeepHydrogen    bool
	WaterBFactorMax float64
	Occupancy       string // strict, all, none, max, min or list
	Serials         []int  // for the list policy
	AltLoc          string
	Log             string
	Out             string // write the systems here in pdb format
	DB              string // save the systems in this sqlite file
	Radii           string // property file with radii
	Conect          bool   // report on CONECT records
}

type fileConfig struct {
	Selector        string   `toml:"selector"`
	Chains          []string `toml:"chains"`
	KeepWater       bool     `toml:"keep_water"`
	KeepRemaining   bool     `toml:"keep_remaining"`
	KeepHydrogen    bool     `toml:"keep_hydrogen"`
	WaterBFactorMax float64  `toml:"water_bfactor_max"`
	Occupancy       string   `toml:"occupancy"`
	Serials         []int    `toml:"serials"`
	AltLoc          string   `toml:"altloc"`
	Log             string   `toml:"log"`
	Out             string   `toml:"out"`
	DB              string   `toml:"db"`
	Radii           string   `toml:"radii"`
	Conect          bool     `toml:"conect"`
}

// DefaultConfig puts everything into one system and refuses
// ambiguous occupancies.
func DefaultConfig() Config {
	o := selector.DefaultChainOptions()
	return Config{
		Selector:        "single",
		KeepWater:       o.KeepWater,
		KeepRemaining:   o.KeepRemaining,
		KeepHydrogen:    o.KeepHydrogen,
		WaterBFactorMax: o.WaterBFactorMax,
		Occupancy:       "strict",
	}
}

// LoadConfig reads a TOML file. Keys in the file replace the values in
// cfg, everything else is left alone.
func LoadConfig(path string, cfg Config) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if un := meta.Undecoded(); len(un) > 0 {
		return cfg, fmt.Errorf("%w: %s: unknown key %s", ErrConfig, path, un[0])
	}
	if meta.IsDefined("selector") {
		cfg.Selector = strings.ToLower(strings.TrimSpace(raw.Selector))
	}
	if meta.IsDefined("chains") {
		cfg.Chains = raw.Chains
	}
	if meta.IsDefined("keep_water") {
		cfg.KeepWater = raw.KeepWater
	}
	if meta.IsDefined("keep_remaining") {
		cfg.KeepRemaining = raw.KeepRemaining
	}
	if meta.IsDefined("keep_hydrogen") {
		cfg.KeepHydrogen = raw.KeepHydrogen
	}
	if meta.IsDefined("water_bfactor_max") {
		cfg.WaterBFactorMax = raw.WaterBFactorMax
	}
	if meta.IsDefined("occupancy") {
		cfg.Occupancy = strings.ToLower(strings.TrimSpace(raw.Occupancy))
	}
	if meta.IsDefined("serials") {
		cfg.Serials = raw.Serials
	}
	if meta.IsDefined("altloc") {
		cfg.AltLoc = raw.AltLoc
	}
	if meta.IsDefined("log") {
		cfg.Log = strings.TrimSpace(raw.Log)
	}
	if meta.IsDefined("out") {
		cfg.Out = strings.TrimSpace(raw.Out)
	}
	if meta.IsDefined("db") {
		cfg.DB = strings.TrimSpace(raw.DB)
	}
	if meta.IsDefined("radii") {
		cfg.Radii = strings.TrimSpace(raw.Radii)
	}
	if meta.IsDefined("conect") {
		cfg.Conect = raw.Conect
	}
	return cfg, nil
}

// NewSelector makes a fresh selector. Selectors count lines, so each
// file gets its own.
func (c *Config) NewSelector() (selector.Selector, error) {
	switch c.Selector {
	case "", "single":
		return selector.NewSingle(), nil
	case "water":
		return selector.NewTwoSystems(), nil
	case "chains":
		if len(c.Chains) == 0 {
			return nil, fmt.Errorf("%w: chain selector without chains", ErrConfig)
		}
		return selector.NewChains(c.Chains, selector.ChainOptions{
			KeepWater:       c.KeepWater,
			KeepRemaining:   c.KeepRemaining,
			KeepHydrogen:    c.KeepHydrogen,
			WaterBFactorMax: c.WaterBFactorMax,
		}), nil
	}
	return nil, fmt.Errorf("%w: unknown selector %q", ErrConfig, c.Selector)
}

// NewPolicy makes a fresh occupancy policy.
func (c *Config) NewPolicy() (occupancy.Policy, error) {
	switch c.Occupancy {
	case "", "strict":
		return occupancy.Strict{}, nil
	case "all":
		return occupancy.AcceptAll{}, nil
	case "none":
		return occupancy.AcceptNone{}, nil
	case "max":
		return occupancy.NewMax(), nil
	case "min":
		return occupancy.NewMin(), nil
	case "list":
		return occupancy.NewAtomList(c.Serials), nil
	}
	return nil, fmt.Errorf("%w: unknown occupancy policy %q", ErrConfig, c.Occupancy)
}

// AltLocByte is the alternate location as a character, blank for the
// first one found.
func (c *Config) AltLocByte() (byte, error) {
	switch len(c.AltLoc) {
	case 0:
		return ' ', nil
	case 1:
		return c.AltLoc[0], nil
	}
	return ' ', fmt.Errorf("%w: alternate location %q is not one character", ErrConfig, c.AltLoc)
}

// Check makes sure the selector, policy and alternate location can be
// made before any file is read.
func (c *Config) Check() error {
	if _, err := c.NewSelector(); err != nil {
		return err
	}
	if _, err := c.NewPolicy(); err != nil {
		return err
	}
	_, err := c.AltLocByte()
	return err
}
