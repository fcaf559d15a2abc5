// brokenio is a wrapper around an io.ReadCloser which breaks on
// request. It is for testing readers of pdb files.
// Typical use: you have a file pointer or a reader from a compressed
// source. You write
//   reader = brokenio.NewReader(reader)
// and everything works as before, but with artificial errors.
// Errors can be forced after a given number of bytes, which makes
// tests repeatable, or can happen at random.

package brokenio

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
)

// ErrInjected is what a read returns when we decide to break.
var ErrInjected = errors.New("brokenio: injected read failure")

// A BrknRdrClsr is modelled on the various Readers in the standard
// library, but with variables controlling when errors happen.
// Probabilities are fractions, so 0.05 means failure in 5% of calls.
type BrknRdrClsr struct {
	rdrOrig      io.ReadCloser
	failAfter    int // fail when this many bytes have gone through, -1 for never
	probZeroFile float32
	probFail     float32
	fracFail     float32
	rng          *rand.Rand
	nCalled      int
	nByte        int
	verbose      bool
}

// NewReader returns a new Reader, a wrapper around the old one. It
// does not break until told to.
func NewReader(rIn io.ReadCloser) *BrknRdrClsr {
	return &BrknRdrClsr{
		rdrOrig:   rIn,
		failAfter: -1,
		fracFail:  0.5,
		rng:       rand.New(rand.NewSource(1)),
	}
}

// SetVerbose sets the verbosity flag to true or false
func (r *BrknRdrClsr) SetVerbose(newV bool) { r.verbose = newV }

// SetSeed makes the random failures repeatable.
func (r *BrknRdrClsr) SetSeed(seed int64) { r.rng = rand.New(rand.NewSource(seed)) }

// SetFailAfter makes reading fail once n bytes have been delivered.
// The read which crosses n is cut short and returns ErrInjected.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// SetFracFail sets the amount of the bytes which will be trashed
func (r *BrknRdrClsr) SetFracFail(frac float32) { r.fracFail = frac }

// SetProbZeroFile sets the rate at which we simply return 0 bytes on the
// first read. It must be a value from 0 to 1.
func (r *BrknRdrClsr) SetProbZeroFile(prob float32) { r.probZeroFile = prob }

// SetProbFail set the probability of a file reading failure.
func (r *BrknRdrClsr) SetProbFail(prob float32) { r.probFail = prob }

// NByte is how much data has gone through.
func (r *BrknRdrClsr) NByte() int { return r.nByte }

// trashSlice wipes out the second part of a slice.
// The amount to wipe out is given by a fraction, so 0.3
// will wipe out the last 30 % of a slice
func trashSlice(p []byte, frac float32) (int, error) {
	nkeep := int(float32(len(p)) * (1. - frac))
	if nkeep == len(p) {
		return nkeep, nil
	}
	clear(p[nkeep:])
	return nkeep, fmt.Errorf("%w: wiped out last %d of %d", ErrInjected, len(p)-nkeep, len(p))
}

// Read wraps the original reader and counts the data that has gone
// through.
// On the first call, we might return zero data to simulate a zero length
// file, which is a rather common occurrence.
func (r *BrknRdrClsr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nCalled == 0 && r.probZeroFile > 0 && r.rng.Float32() < r.probZeroFile {
		r.nCalled++
		return 0, io.EOF
	}
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, ErrInjected
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err = r.rdrOrig.Read(p)
	r.nCalled++
	r.nByte += n
	if r.failAfter >= 0 && r.nByte >= r.failAfter && err == nil {
		return n, ErrInjected
	}
	if n > 0 && r.probFail > 0 && r.fracFail > 0 && r.rng.Float32() < r.probFail {
		return trashSlice(p[:n], r.fracFail)
	}
	return n, err
}

// Close wraps the original Close method.
func (r *BrknRdrClsr) Close() error {
	if r.verbose {
		fmt.Println("Closing", r.nCalled, "calls and", r.nByte, "bytes")
	}
	return r.rdrOrig.Close()
}
