package molsys_test

import (
	"bufio"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/molsys/pdb/atomsel"
	"github.com/andrew-torda/molsys/pdb/cmmn"
	. "github.com/andrew-torda/molsys/pdb/molsys"
	"github.com/andrew-torda/molsys/pdb/record"
)

// atLine makes an ATOM line.
func atLine(serial int, name, res string, chain byte, seq int, icode byte, elem string) *record.Line {
	s := fmt.Sprintf("ATOM  %5d %-4s %3s %c%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s",
		serial, " "+name, res, chain, seq, icode, float64(serial), 2.0, 3.0, 1.0, 10.0, elem)
	return record.Classify(s)
}

func mustAdd(t *testing.T, s *System, mdl int, l *record.Line) {
	t.Helper()
	if err := s.InterpretLine(l, mdl); err != nil {
		t.Fatal(err)
	}
}

func serials(seq func(func(*Atom) bool)) []int {
	var ret []int
	for a := range seq {
		ret = append(ret, a.Serial())
	}
	return ret
}

func TestHierarchy(t *testing.T) {
	s := NewSystem(1)
	if s.Name != DefaultName || s.Index() != 1 || !s.HasNoModel() {
		t.Error("new system looks wrong")
	}
	mustAdd(t, s, 1, atLine(1, "N", "ALA", 'A', 1, ' ', "N"))
	mustAdd(t, s, 1, atLine(2, "CA", "ALA", 'A', 1, ' ', "C"))
	mustAdd(t, s, 1, atLine(3, "N", "GLY", 'A', 2, ' ', "N"))
	mustAdd(t, s, 1, atLine(4, "N", "SER", 'A', 2, 'A', "N"))
	mustAdd(t, s, 1, atLine(5, "N", "LYS", 'B', 1, ' ', "N"))
	mustAdd(t, s, 2, atLine(1, "N", "ALA", 'A', 1, ' ', "N"))

	if s.NModels() != 2 || !s.HasModel(2) || s.HasModel(3) || s.HasNoModel() {
		t.Error("wrong models", s.ModelNumbers())
	}
	m, err := s.Model(1)
	if err != nil {
		t.Fatal(err)
	}
	if m.NChains() != 2 || m.NResidues() != 4 || m.NAtoms() != 5 || s.NAtoms() != 6 {
		t.Error("counts", m.NChains(), m.NResidues(), m.NAtoms(), s.NAtoms())
	}
	c, err := m.Chain('A')
	if err != nil {
		t.Fatal(err)
	}
	r, err := c.Residue(2, 'A')
	if err != nil {
		t.Fatal(err)
	}
	if r.Name() != "SER" || r.Chain() != c || c.Model() != m || m.System() != s {
		t.Error("back references broken")
	}
	a, err := r.Atom(4)
	if err != nil {
		t.Fatal(err)
	}
	if a.Residue() != r || a.ChainID() != 'A' || a.ResSeq() != 2 || a.InsCode() != 'A' || a.ResidueName() != "SER" {
		t.Error("atom does not see its residue", a)
	}
	if a.Coord() != (cmmn.Xyz{X: 4, Y: 2, Z: 3}) {
		t.Error("coordinates", a.Coord())
	}
	if _, err := r.Atom(99); !errors.Is(err, ErrNoAtom) {
		t.Error("wanted ErrNoAtom, got", err)
	}
	if _, err := c.Residue(2, 'B'); !errors.Is(err, ErrNoResidue) {
		t.Error("wanted ErrNoResidue, got", err)
	}
	if _, err := m.Chain('Z'); !errors.Is(err, ErrNoChain) {
		t.Error("wanted ErrNoChain, got", err)
	}
	if _, err := s.Model(7); !errors.Is(err, ErrNoModel) {
		t.Error("wanted ErrNoModel, got", err)
	}
}

func TestDuplicateSerial(t *testing.T) {
	s := NewSystem(1)
	mustAdd(t, s, 1, atLine(42, "N", "ALA", 'A', 1, ' ', "N"))
	err := s.InterpretLine(atLine(42, "CA", "ALA", 'A', 1, ' ', "C"), 1)
	if !errors.Is(err, ErrDuplicateSerial) {
		t.Fatal("wanted duplicate serial error, got", err)
	}
	m, _ := s.Model(1)
	if m.NAtoms() != 1 {
		t.Error("duplicate was stored")
	}
	a := slices.Collect(m.Atoms())[0]
	if a.AtomName() != "N" {
		t.Error("first atom was overwritten")
	}
}

func TestSortedOrder(t *testing.T) {
	s := NewSystem(1)
	for _, k := range []struct {
		serial int
		chain  byte
		seq    int
		icode  byte
	}{
		{30, 'B', 5, ' '},
		{10, 'A', 7, ' '},
		{12, 'A', 6, 'B'},
		{11, 'A', 6, ' '},
		{13, 'A', 6, 'A'},
		{9, 'A', 7, ' '},
	} {
		mustAdd(t, s, 1, atLine(k.serial, "CA", "ALA", k.chain, k.seq, k.icode, "C"))
	}
	m, _ := s.Model(1)
	want := []int{11, 13, 12, 9, 10, 30}
	if got := serials(m.Atoms()); !cmp.Equal(got, want) {
		t.Error(cmp.Diff(want, got))
	}
	var keys []ResKey
	for r := range m.Residues() {
		keys = append(keys, r.Key())
	}
	wantKeys := []ResKey{{6, ' '}, {6, 'A'}, {6, 'B'}, {7, ' '}, {5, ' '}}
	if !cmp.Equal(keys, wantKeys) {
		t.Error(cmp.Diff(wantKeys, keys))
	}
}

func TestEmptyContainers(t *testing.T) {
	s := NewSystem(1)
	m := s.GetOrCreateModel(1)
	m.GetOrCreateChain('A')                           // no residues
	m.GetOrCreateChain('B').GetOrCreateResidue("ALA", 1, ' ') // no atoms
	mustAdd(t, s, 1, atLine(1, "N", "ALA", 'C', 1, ' ', "N"))
	m.GetOrCreateChain('D')
	m.GetOrCreateChain('E').GetOrCreateResidue("GLY", 1, ' ')
	if got := serials(m.Atoms()); !cmp.Equal(got, []int{1}) {
		t.Error("got", got)
	}
	empty := s.GetOrCreateModel(2)
	empty.GetOrCreateChain('A')
	if n := len(slices.Collect(empty.Atoms())); n != 0 {
		t.Error("empty model gave atoms", n)
	}
	if n := len(slices.Collect(m.Residues())); n != 3 {
		t.Error("wanted 3 residues, got", n)
	}

	// iterating twice gives the same thing
	if !cmp.Equal(serials(m.Atoms()), serials(m.Atoms())) {
		t.Error("second pass differs")
	}
}

func TestEarlyStop(t *testing.T) {
	s := NewSystem(1)
	for i := 1; i <= 6; i++ {
		mustAdd(t, s, 1, atLine(i, "CA", "ALA", 'A'+byte(i%2), i, ' ', "C"))
	}
	m, _ := s.Model(1)
	n := 0
	for range m.Atoms() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Error("break did not stop iteration")
	}
	c, _ := m.Chain('A')
	if got := serials(c.Atoms()); !cmp.Equal(got, []int{2, 4, 6}) {
		t.Error("chain atoms", got)
	}
}

func TestSelectedAtoms(t *testing.T) {
	s := NewSystem(1)
	mustAdd(t, s, 1, atLine(1, "N", "ALA", 'A', 1, ' ', "N"))
	mustAdd(t, s, 1, atLine(2, "CA", "ALA", 'A', 1, ' ', "C"))
	mustAdd(t, s, 1, atLine(3, "CB", "ALA", 'A', 1, ' ', "C"))
	mustAdd(t, s, 1, atLine(4, "CA", "GLY", 'B', 1, ' ', "C"))
	mustAdd(t, s, 1, atLine(5, "H", "GLY", 'B', 1, ' ', "H"))
	m, _ := s.Model(1)
	var tests = []struct {
		p    atomsel.Pred
		want []int
	}{
		{atomsel.ByAtomName("CA"), []int{2, 4}},
		{atomsel.IsBackbone, []int{1, 2, 4}},
		{atomsel.Not(atomsel.IsHydrogen), []int{1, 2, 3, 4}},
		{atomsel.ByElement("X"), nil},
		{atomsel.ByElement("H"), []int{5}},
	}
	for i, tt := range tests {
		if got := serials(m.SelectedAtoms(tt.p)); !cmp.Equal(got, tt.want) {
			t.Errorf("%d: %s", i, cmp.Diff(tt.want, got))
		}
	}
	if got := m.Coords(atomsel.ByAtomName("CA")); len(got) != 2 || got[1].X != 4 {
		t.Error("coords", got)
	}
	if len(m.Coords(nil)) != 5 {
		t.Error("nil predicate should take everything")
	}
}

// centroid makes one coarse atom per residue.
type centroid struct{}

func (centroid) Create(r *Residue, add func(cmmn.Xyz)) error {
	var sum cmmn.Xyz
	n := 0
	for a := range r.Atoms() {
		sum = sum.Add(a.Coord())
		n++
	}
	if n == 0 {
		return nil
	}
	add(sum.Scale(1 / float64(n)))
	return nil
}

type failing struct{}

func (failing) Create(*Residue, func(cmmn.Xyz)) error { return errors.New("no") }

func TestCoarse(t *testing.T) {
	s := NewSystem(1)
	mustAdd(t, s, 1, atLine(2, "N", "ALA", 'A', 1, ' ', "N"))
	mustAdd(t, s, 1, atLine(4, "CA", "ALA", 'A', 1, ' ', "C"))
	mustAdd(t, s, 1, atLine(6, "CA", "GLY", 'A', 2, ' ', "C"))
	m, _ := s.Model(1)
	n, err := m.CreateCoarseAtoms(centroid{})
	if err != nil || n != 2 {
		t.Fatal(n, err)
	}
	var got []cmmn.Xyz
	for c := range m.CoarseAtoms() {
		got = append(got, c.Coord())
		if c.Index() != 0 || c.Residue() == nil {
			t.Error("wrong index or residue")
		}
	}
	want := []cmmn.Xyz{{X: 3, Y: 2, Z: 3}, {X: 6, Y: 2, Z: 3}}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(want, got))
	}
	c, _ := m.Chain('A')
	r, _ := c.Residue(1, ' ')
	extra := r.AddCoarseAtom(cmmn.Xyz{}, 7)
	if r.NCoarseAtoms() != 2 || extra.Index() != 7 {
		t.Error("AddCoarseAtom")
	}
	if _, err := m.CreateCoarseAtoms(failing{}); err == nil {
		t.Error("error from creator was lost")
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(2)
	if len(b.Systems()) != 2 || b.CurrentModel() != 1 {
		t.Fatal("wrong start")
	}
	steps := []struct {
		l      *record.Line
		target int
	}{
		{atLine(1, "N", "ALA", 'A', 1, ' ', "N"), 1},
		{record.Classify("MODEL        3"), cmmn.Remark},
		{atLine(2, "O", "HOH", 'W', 1, ' ', "O"), 2},
		{record.Classify("ENDMDL"), cmmn.Remark},
		{atLine(3, "CA", "ALA", 'A', 1, ' ', "C"), 1},
	}
	for _, st := range steps {
		if err := b.InterpretLine(st.l, st.target); err != nil {
			t.Fatal(err)
		}
	}
	s1, s2 := b.Systems()[0], b.Systems()[1]
	if !cmp.Equal(s1.ModelNumbers(), []int{1, 3}) || !cmp.Equal(s2.ModelNumbers(), []int{3}) {
		t.Error("models", s1.ModelNumbers(), s2.ModelNumbers())
	}
	if s2.Index() != 2 {
		t.Error("index", s2.Index())
	}
	if err := b.InterpretLine(atLine(9, "N", "ALA", 'A', 1, ' ', "N"), 3); !errors.Is(err, ErrSystemIndex) {
		t.Error("wanted ErrSystemIndex, got", err)
	}
	if err := b.InterpretLine(record.Classify("MODEL     x"), cmmn.Remark); err == nil {
		t.Error("broken MODEL line accepted")
	}
	b.CreateSystems('B')
	for _, s := range b.Systems() {
		if s.AltLoc() != 'B' {
			t.Error("alt loc not stamped")
		}
	}
	if len(NewBuilder(3).NonEmpty()) != 0 || len(b.NonEmpty()) != 2 {
		t.Error("NonEmpty")
	}
}

func TestWritePDB(t *testing.T) {
	lines := []*record.Line{
		atLine(1, "N", "ALA", 'A', 1, ' ', "N"),
		atLine(2, "CA", "ALA", 'A', 1, ' ', "C"),
		atLine(3, "N", "GLY", 'B', 1, ' ', "N"),
	}
	s := NewSystem(1)
	for _, l := range lines {
		mustAdd(t, s, 1, l)
	}
	var sb strings.Builder
	if err := WritePDB(&sb, s); err != nil {
		t.Fatal(err)
	}
	var got []string
	scnr := bufio.NewScanner(strings.NewReader(sb.String()))
	for scnr.Scan() {
		got = append(got, scnr.Text())
	}
	if len(got) != 6 || got[2] != "TER       3      ALA A   1 " || got[5] != "END" {
		t.Fatalf("wrong output\n%s", sb.String())
	}
	for i, j := range []int{0, 1, 3} {
		if strings.TrimRight(got[j], " ") != strings.TrimRight(lines[i].Raw, " ") {
			t.Errorf("line %d\n got %q\nwant %q", j, got[j], lines[i].Raw)
		}
	}

	mustAdd(t, s, 2, atLine(1, "N", "ALA", 'A', 1, ' ', "N"))
	sb.Reset()
	WritePDB(&sb, s)
	out := sb.String()
	if !strings.HasPrefix(out, "MODEL        1\n") || strings.Count(out, "ENDMDL\n") != 2 {
		t.Errorf("models not written\n%s", out)
	}
}
