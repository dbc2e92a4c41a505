// Package ionstream stores a decoded BP record stream as a sequence of
// binary Ion structs, one per record, and reads it back as a bp.Decoder.
//
// A record looks like:
//
//	{kind: "array", path: "/restart", name: "temperature", type: 6,
//	 dims: [{global: 40, local: 10, offset: 0}], append: true,
//	 data: {{ ...little-endian float64 bytes... }}}
package ionstream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amazon-ion/ion-go/ion"

	"github.com/mammefen/bp2h5/bp"
)

// Reader decodes records from an Ion stream.
type Reader struct {
	dec    *ion.Decoder
	closer io.Closer
	n      int
}

var _ bp.Decoder = (*Reader)(nil)

// NewReader returns a Reader over r. Close does not close r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: ion.NewDecoder(ion.NewReader(r))}
}

// Open opens the stream file at path. When buf is non-empty, file reads go
// through it.
func Open(path string, buf []byte) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewReader(newSlabReader(f, buf))
	r.closer = f
	return r, nil
}

// Next returns the next record, or io.EOF at the end of the stream.
func (r *Reader) Next() (bp.Record, error) {
	var w wireRecord
	if err := r.dec.DecodeTo(&w); err != nil {
		if errors.Is(err, ion.ErrNoInput) {
			return bp.Record{}, io.EOF
		}
		return bp.Record{}, fmt.Errorf("record %d: %w", r.n, err)
	}
	rec, err := w.record()
	if err != nil {
		return bp.Record{}, fmt.Errorf("record %d: %w", r.n, err)
	}
	r.n++
	return rec, nil
}

// Close releases the underlying file, if Open created it.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Writer encodes records as binary Ion.
type Writer struct {
	enc    *ion.Encoder
	closer io.Closer
}

// NewWriter returns a Writer to w. Close finishes the Ion stream but does
// not close w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: ion.NewBinaryEncoder(w)}
}

// Create creates or truncates the stream file at path.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// Write appends rec to the stream.
func (w *Writer) Write(rec bp.Record) error {
	wr, err := toWire(rec)
	if err != nil {
		return err
	}
	return w.enc.Encode(wr)
}

// Close finishes the stream and closes the file created by Create.
func (w *Writer) Close() error {
	err := w.enc.Finish()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
		w.closer = nil
	}
	return err
}

// WriteFile writes recs to a new stream file at path.
func WriteFile(path string, recs []bp.Record) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if err := w.Write(rec); err != nil {
			w.Close()
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return w.Close()
}

// slabReader serves reads of r from a caller-owned buffer.
type slabReader struct {
	r          io.Reader
	buf        []byte
	start, end int
}

func newSlabReader(r io.Reader, buf []byte) io.Reader {
	if len(buf) == 0 {
		return r
	}
	return &slabReader{r: r, buf: buf}
}

func (s *slabReader) Read(p []byte) (int, error) {
	if s.start == s.end {
		if len(p) >= len(s.buf) {
			return s.r.Read(p)
		}
		n, err := s.r.Read(s.buf)
		s.start, s.end = 0, n
		if n == 0 {
			return 0, err
		}
	}
	n := copy(p, s.buf[s.start:s.end])
	s.start += n
	return n, nil
}
