package pdb

import "strings"

var (
	CompareFirst = comparefirst
	OldOrMmcif   = oldOrMmcif
	EntryName    = entryName
	GetHTTP      = getHTTP
)

const (
	OldFmt   = oldFmt
	MmcifFmt = mmcifFmt
)

// MirrorsAt points every download site at base, which serves
// <code>.pdb.gz, pdb<code>.ent and <code>.ent.gz. It returns a function
// to put things back.
func MirrorsAt(base string) func() {
	old := mirrors
	base = strings.TrimSuffix(base, "/")
	mirrors = []mirror{
		{func(c string) string { return base + "/rcsb/" + c + ".pdb.gz" }, true},
		{func(c string) string { return base + "/pdbe/pdb" + c + ".ent" }, false},
		{func(c string) string { return base + "/pdbj/" + c[1:3] + "/pdb" + c + ".ent.gz" }, true},
	}
	return func() { mirrors = old }
}
