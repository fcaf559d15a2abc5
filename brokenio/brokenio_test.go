package brokenio_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/molsys/brokenio"
)

var tochop = [][]byte{
	[]byte(""),
	[]byte("a"),
	[]byte("abc"),
	[]byte("abcdefghij"),
	[]byte("abcdefghijklmn"),
}

var longstring = "0123456789012345678901234567890123456789"

func newRdr(s string) *brokenio.BrknRdrClsr {
	return brokenio.NewReader(io.NopCloser(strings.NewReader(s)))
}

// testFrac - wipe out different fractions of the input buffer.
func testFrac(t *testing.T, inb []byte, frac float32) {
	s := make([]byte, len(inb))
	rdr := newRdr(string(inb))
	rdr.SetProbFail(1)
	rdr.SetFracFail(frac)
	n, err := rdr.Read(s)
	if !bytes.Equal(inb[:n], s[:n]) {
		t.Error("contents of strings changed with string", string(inb), "frac", frac)
	}
	switch frac {
	case 0.0:
		if n != len(inb) || (err != nil && len(inb) > 0) {
			t.Errorf("error reading from string \"%s\"", inb)
		}
	case 1.0:
		if n != 0 || bytes.Count(s, []byte{0}) != len(s) {
			t.Error("wanted everything wiped out, got", n, s)
		}
		if len(s) > 0 && !errors.Is(err, brokenio.ErrInjected) {
			t.Error("did not get error reading from", string(inb))
		}
	default:
		if len(inb) > 2 && (n == 0 || n == len(inb)) {
			t.Errorf("partial wipe of \"%s\" kept %d", inb, n)
		}
	}
}

// TestTrashing takes strings and removes parts of them
func TestTrashing(t *testing.T) {
	fracs := [3]float32{0, 0.3, 1}
	for _, frac := range fracs {
		for _, inb := range tochop {
			testFrac(t, inb, frac)
		}
	}
}

func TestZeroFile(t *testing.T) {
	rdr := newRdr(longstring)
	rdr.SetProbZeroFile(1)
	tmp := make([]byte, len(longstring))
	if n, err := rdr.Read(tmp); n != 0 || err != io.EOF {
		t.Error("wanted an empty file, got", n, err)
	}
	rdr = newRdr(longstring)
	if n, err := rdr.Read(tmp); n != len(longstring) || err != nil {
		t.Error("Wanted", len(longstring), "got", n, err)
	}
}

func TestFailAfter(t *testing.T) {
	for _, lim := range []int{0, 1, 15, 39} {
		rdr := newRdr(longstring)
		rdr.SetFailAfter(lim)
		b, err := io.ReadAll(rdr)
		if !errors.Is(err, brokenio.ErrInjected) {
			t.Errorf("limit %d: wanted injected error, got %v", lim, err)
		}
		if string(b) != longstring[:lim] || rdr.NByte() != lim {
			t.Errorf("limit %d: got %q", lim, b)
		}
	}
	rdr := newRdr(longstring)
	rdr.SetFailAfter(1000)
	if b, err := io.ReadAll(rdr); err != nil || string(b) != longstring {
		t.Error("limit beyond the data should not matter", err)
	}
}

func TestRepeatable(t *testing.T) {
	run := func() []int {
		var ret []int
		rdr := newRdr(strings.Repeat(longstring, 10))
		rdr.SetSeed(42)
		rdr.SetProbFail(0.5)
		buf := make([]byte, 16)
		for {
			n, err := rdr.Read(buf)
			ret = append(ret, n)
			if err == io.EOF {
				return ret
			}
		}
	}
	a, b := run(), run()
	if !slicesEqual(a, b) {
		t.Error("same seed, different failures", a, b)
	}
}

func slicesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func Example_setVerbose() {
	rdr := newRdr(longstring)
	rdr.SetVerbose(true)
	tmp := make([]byte, len(longstring))
	rdr.Read(tmp)
	rdr.Close()
	// Output: Closing 1 calls and 40 bytes
}

// TestClose - check if the reader really is calling the correct close method.
func TestClose(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "testclose_test")
	if err := os.WriteFile(fname, []byte(longstring), 0644); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(fname)
	if err != nil {
		t.Fatal("reading from tempfile, err = ", err)
	}
	rdr := brokenio.NewReader(fp)
	s := make([]byte, len(longstring))
	if n, err := rdr.Read(s); n != len(longstring) || err != nil {
		t.Error("Failed reading from tempfile, n, err = ", n, err)
	}
	if err = rdr.Close(); err != nil {
		t.Error("failed on close of reader")
	}
	if err = fp.Close(); err == nil {
		t.Error("underlying file was not closed")
	}
}
