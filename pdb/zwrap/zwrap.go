// Package zwrap takes a file pointer and optionally wraps it so upon
// calling Close, the decompressor will be closed, followed by the
// underlying file. We recognise gzip and bzip2 by their first bytes.
// Plain files opened by name are memory mapped.

package zwrap

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Compression types
const (
	Plain byte = iota
	Gzip
	Bzip2
)

var (
	gzMagic  = []byte{0x1f, 0x8b}
	bz2Magic = []byte("BZh")
)

// Sniff looks at the start of a stream.
func Sniff(b []byte) byte {
	switch {
	case bytes.HasPrefix(b, gzMagic):
		return Gzip
	case bytes.HasPrefix(b, bz2Magic):
		return Bzip2
	}
	return Plain
}

type FpGzip struct { // This is what we return.
	fp     io.ReadCloser
	zrdr   io.Reader // nil for plain data
	zclose func() error
}

// Close closes the decompressor, then the underlying backing readCloser.
// It should work if the source is a file or an http stream.
func (fc *FpGzip) Close() error {
	var e1 error
	if fc.zclose != nil {
		e1 = fc.zclose()
	}
	return errors.Join(e1, fc.fp.Close())
}

// Read makes sure we read from the compressed stream and
// not the underlying file stream.
func (fc *FpGzip) Read(p []byte) (int, error) {
	if fc.zrdr != nil {
		return fc.zrdr.Read(p)
	}
	return fc.fp.Read(p)
}

// Compressed says if we are decompressing.
func (fc *FpGzip) Compressed() bool { return fc.zrdr != nil }

// Wrap takes a source like a file pointer or http stream which is
// gzipped and wraps it so the correct Close and Read will be called.
func Wrap(fp io.ReadCloser) (*FpGzip, error) {
	zr, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	return &FpGzip{fp: fp, zrdr: zr, zclose: zr.Close}, nil
}

// wrapAs puts the right decompressor in front of fp.
func wrapAs(fp io.ReadCloser, kind byte) (*FpGzip, error) {
	switch kind {
	case Gzip:
		return Wrap(fp)
	case Bzip2:
		return &FpGzip{fp: fp, zrdr: bzip2.NewReader(fp)}, nil
	}
	return &FpGzip{fp: fp}, nil
}

// ReadSeekCloser is what WrapMaybe needs.
type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// WrapMaybe will decide if the underlying stream is compressed
// and wrap the file pointer if necessary.
// You do lose something. If you pass in something which can seek,
// you get back a ReadCloser which cannot seek.
func WrapMaybe(fpIn ReadSeekCloser) (*FpGzip, error) {
	head := make([]byte, 3)
	n, err := io.ReadFull(fpIn, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if _, err := fpIn.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return wrapAs(fpIn, Sniff(head[:n]))
}

// mapped is a memory mapped file.
type mapped struct {
	*bytes.Reader
	mm mmap.MMap
	fp *os.File
}

func (m *mapped) Close() error {
	return errors.Join(m.mm.Unmap(), m.fp.Close())
}

// Open opens a file by name, maps it into memory and puts a
// decompressor in front if the contents need one. Empty files and
// files which cannot be mapped are read the normal way.
func Open(fname string) (*FpGzip, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	info, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		fp.Close()
		return nil, errors.New(fname + " is not a regular file")
	}
	if info.Size() == 0 {
		return &FpGzip{fp: fp}, nil
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return WrapMaybe(fp)
	}
	m := &mapped{Reader: bytes.NewReader(mm), mm: mm, fp: fp}
	ret, err := wrapAs(m, Sniff(mm))
	if err != nil {
		m.Close()
		return nil, err
	}
	return ret, nil
}
