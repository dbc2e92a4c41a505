// Package testing provides test doubles for converter tests.
package testing

import (
	"errors"
	"io"

	"github.com/mammefen/bp2h5/bp"
)

// SliceDecoder is a bp.Decoder over a fixed list of records.
type SliceDecoder struct {
	records []bp.Record
	pos     int
	// FailAt makes Next return Err instead of the record at that index
	// when Err is set.
	FailAt int
	Err    error
	closed bool
}

// NewSliceDecoder returns a decoder yielding recs in order.
func NewSliceDecoder(recs ...bp.Record) *SliceDecoder {
	return &SliceDecoder{records: recs, FailAt: -1}
}

// Next implements bp.Decoder.
func (d *SliceDecoder) Next() (bp.Record, error) {
	if d.closed {
		return bp.Record{}, errors.New("decoder closed")
	}
	if d.Err != nil && d.pos == d.FailAt {
		return bp.Record{}, d.Err
	}
	if d.pos >= len(d.records) {
		return bp.Record{}, io.EOF
	}
	rec := d.records[d.pos]
	d.pos++
	return rec, nil
}

// Close implements bp.Decoder.
func (d *SliceDecoder) Close() error {
	d.closed = true
	return nil
}

// Closed reports whether Close was called.
func (d *SliceDecoder) Closed() bool { return d.closed }
