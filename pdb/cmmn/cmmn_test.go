package cmmn_test

import (
	"testing"

	. "github.com/andrew-torda/molsys/pdb/cmmn"
)

func TestXyzOk(t *testing.T) {
	var xyz Xyz
	xyz = BrokenXyz
	if xyz.Ok() {
		t.Error("cannot even check if a value is OK")
	}
	xyz = Xyz{1, 1, 1}
	if !xyz.Ok() {
		t.Error("OK should be true")
	}
}

func TestXyzArith(t *testing.T) {
	a := Xyz{1, 2, 3}
	b := Xyz{0.5, 0.5, 0.5}
	if got := a.Add(b); got != (Xyz{1.5, 2.5, 3.5}) {
		t.Error("Add gave", got)
	}
	if got := a.Sub(b); got != (Xyz{0.5, 1.5, 2.5}) {
		t.Error("Sub gave", got)
	}
	if got := a.Scale(2); got != (Xyz{2, 4, 6}) {
		t.Error("Scale gave", got)
	}
}

func TestSentinels(t *testing.T) {
	if Remark == Discard || Remark != 0 || Discard >= 0 {
		t.Error("remark and discard must be 0 and negative")
	}
	if NoCharge == 0 {
		t.Error("NoCharge must not look like a real charge")
	}
}
