package selector_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/andrew-torda/molsys/pdb/atomsel"
	"github.com/andrew-torda/molsys/pdb/cmmn"
	"github.com/andrew-torda/molsys/pdb/occupancy"
	"github.com/andrew-torda/molsys/pdb/record"
	. "github.com/andrew-torda/molsys/pdb/selector"
)

// mkLine makes a coordinate line. Pass ' ' for a blank chain.
func mkLine(rec, name, res string, chain byte, elem string, bfac float64) *record.Line {
	s := fmt.Sprintf("%-6s%5d %-4s %3s %c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s",
		rec, 1, " "+name, res, chain, 1, 1.0, 2.0, 3.0, 1.0, bfac, elem)
	return record.Classify(s)
}

var (
	heavyA = mkLine("ATOM", "CA", "ALA", 'A', "C", 10)
	heavyB = mkLine("ATOM", "CA", "ALA", 'B', "C", 10)
	heavyC = mkLine("ATOM", "CA", "GLY", 'C', "C", 10)
	hydroA = mkLine("ATOM", "HA", "ALA", 'A', "H", 10)
	hoh    = mkLine("HETATM", "O", "HOH", 'W', "O", 20)
	sol    = mkLine("HETATM", "O", "SOL", ' ', "O", 20)
	hotWat = mkLine("HETATM", "O", "WAT", 'W', "O", 250)
	model  = record.Classify("MODEL        2")
	ter    = record.Classify("TER")
	remark = record.Classify("REMARK 1")
)

type sTest struct {
	l    *record.Line
	want int
}

func runTests(t *testing.T, name string, s Selector, tests []sTest) {
	t.Helper()
	for i, tt := range tests {
		got, err := s.Keep(tt.l, occupancy.AcceptAll{})
		if err != nil {
			t.Errorf("%s %d: %v", name, i, err)
		}
		if got != tt.want {
			t.Errorf("%s %d: got %d want %d for %q", name, i, got, tt.want, tt.l.Raw)
		}
		if got > s.MaxSystems() {
			t.Errorf("%s %d: target %d beyond max %d", name, i, got, s.MaxSystems())
		}
	}
}

func TestNonCoord(t *testing.T) {
	sels := []Selector{NewSingle(), NewTwoSystems(),
		NewChains([]string{"A"}, DefaultChainOptions()), NewGeneric(atomsel.All)}
	for _, s := range sels {
		runTests(t, fmt.Sprintf("%T", s), s, []sTest{
			{model, cmmn.Remark},
			{ter, cmmn.Discard},
			{remark, cmmn.Discard},
		})
	}
}

func TestSingle(t *testing.T) {
	s := NewSingle()
	runTests(t, "single", s, []sTest{{heavyA, 1}, {hydroA, 1}, {hoh, 1}})
	if s.MaxSystems() != 1 || s.Stats().Seen != 3 || s.Stats().Discarded != 0 {
		t.Error("wrong counts", s.Stats())
	}
	if n, _ := s.Keep(mkLine("ATOM", "CA", "ALA", 'A', "C", 10), occupancy.AcceptNone{}); n != 1 {
		t.Error("clean atom dropped")
	}
}

func TestTwoSystems(t *testing.T) {
	s := NewTwoSystems()
	runTests(t, "two", s, []sTest{
		{heavyA, 1},
		{hydroA, cmmn.Discard},
		{hoh, 2},
		{sol, 2},
		{hotWat, 2},
		{heavyC, 1},
	})
	if s.MaxSystems() != 2 || s.Discarded != 1 || s.Seen != 6 {
		t.Error("wrong counts", s.Stats())
	}
}

func TestChainsDefault(t *testing.T) {
	s := NewChains([]string{"AB", "C"}, DefaultChainOptions())
	if s.MaxSystems() != 3 {
		t.Fatal("wanted 3 systems, got", s.MaxSystems())
	}
	runTests(t, "chains", s, []sTest{
		{heavyA, 1},
		{heavyB, 1},
		{heavyC, 2},
		{hydroA, cmmn.Discard},
		{hoh, 3},
		{hotWat, cmmn.Discard},
		{mkLine("ATOM", "CA", "ALA", 'D', "C", 10), cmmn.Discard},
	})
	if s.Seen != 7 || s.Discarded != 3 {
		t.Error("wrong counts", s.Stats())
	}
}

func TestChainsOptions(t *testing.T) {
	chainD := mkLine("ATOM", "CA", "ALA", 'D', "C", 10)
	var tests = []struct {
		opts ChainOptions
		max  int
		in   []sTest
	}{
		{ChainOptions{KeepWater: true, KeepRemaining: true, WaterBFactorMax: 300}, 4,
			[]sTest{{chainD, 4}, {hotWat, 3}, {heavyC, 2}}},
		{ChainOptions{KeepWater: false, KeepRemaining: true}, 3,
			[]sTest{{chainD, 3}, {hoh, cmmn.Discard}}},
		{ChainOptions{KeepHydrogen: true}, 2,
			[]sTest{{hydroA, 1}, {hoh, cmmn.Discard}}},
	}
	for i, tt := range tests {
		s := NewChains([]string{"AB", "C"}, tt.opts)
		if s.MaxSystems() != tt.max {
			t.Errorf("%d: max %d want %d", i, s.MaxSystems(), tt.max)
		}
		runTests(t, fmt.Sprint("options ", i), s, tt.in)
	}
}

func TestGeneric(t *testing.T) {
	s := NewGeneric(atomsel.IsWater, atomsel.ByChainIDs("B"),
		atomsel.And(atomsel.ByResName("ALA"), atomsel.Not(atomsel.IsHydrogen)))
	if s.MaxSystems() != 3 {
		t.Fatal("wrong max", s.MaxSystems())
	}
	runTests(t, "generic", s, []sTest{
		{hoh, 1},
		{heavyB, 2},
		{heavyA, 3},
		{hydroA, cmmn.Discard},
		{heavyC, cmmn.Discard},
	})
}

func TestOccupancyDecides(t *testing.T) {
	amb := record.Classify("ATOM      1  CA  ALA A   1       1.000   2.000   3.000  0.50 10.00           C")
	s := NewTwoSystems()
	if n, err := s.Keep(amb, occupancy.AcceptNone{}); n != cmmn.Discard || err != nil {
		t.Error("ambiguous atom should be dropped quietly", n, err)
	}
	if _, err := s.Keep(amb, occupancy.Strict{}); !errors.Is(err, occupancy.ErrAmbiguous) {
		t.Error("strict policy should complain, got", err)
	}
	if s.Discarded != 2 {
		t.Error("policy drops should be counted, got", s.Discarded)
	}
}

func TestBrokenAtom(t *testing.T) {
	l := record.Classify("ATOM      1  CA  ALA A   1")
	for _, s := range []Selector{NewTwoSystems(), NewChains(nil, DefaultChainOptions()), NewGeneric()} {
		if _, err := s.Keep(l, occupancy.AcceptAll{}); err == nil {
			t.Errorf("%T took a short line", s)
		}
	}
}
