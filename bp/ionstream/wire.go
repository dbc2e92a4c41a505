package ionstream

import (
	"encoding/binary"
	"fmt"

	"github.com/mammefen/bp2h5/bp"
)

// order is the byte order of numeric payload blobs.
var order = binary.LittleEndian

type wireDim struct {
	Global uint64 `ion:"global"`
	Local  uint64 `ion:"local"`
	Offset uint64 `ion:"offset"`
}

// wireRecord is one Ion struct of the stream. Path holds the group path
// of group and variable records and the owner path of attribute records.
// Numeric payloads travel as a little-endian blob in Data, strings as a
// list in Text.
type wireRecord struct {
	Kind   string    `ion:"kind"`
	Path   string    `ion:"path,omitempty"`
	Name   string    `ion:"name,omitempty"`
	Type   int       `ion:"type"`
	Dims   []wireDim `ion:"dims,omitempty"`
	Append bool      `ion:"append,omitempty"`
	Data   []byte    `ion:"data,omitempty"`
	Text   []string  `ion:"text,omitempty"`
}

func toWire(rec bp.Record) (wireRecord, error) {
	w := wireRecord{Kind: rec.Kind.String(), Type: int(bp.Unknown)}

	switch rec.Kind {
	case bp.KindGroup:
		w.Path = rec.Path
		return w, nil

	case bp.KindScalar, bp.KindArray:
		v := rec.Variable
		if v == nil {
			return w, fmt.Errorf("%s record without variable", rec.Kind)
		}
		w.Path, w.Name, w.Type, w.Append = v.Path, v.Name, int(v.Type), v.Append
		for _, d := range v.Dims {
			w.Dims = append(w.Dims, wireDim(d))
		}
		return w, putPayload(&w, v.Value)

	case bp.KindDatasetAttribute, bp.KindGroupAttribute:
		a := rec.Attribute
		if a == nil {
			return w, fmt.Errorf("%s record without attribute", rec.Kind)
		}
		w.Path, w.Name, w.Type = a.Owner, a.Name, int(a.Type)
		return w, putPayload(&w, a.Value)

	default:
		return w, fmt.Errorf("cannot encode record kind %s", rec.Kind)
	}
}

func putPayload(w *wireRecord, v bp.Value) error {
	if v == nil {
		return nil
	}
	if s, ok := v.(bp.Strings); ok {
		w.Text = []string(s)
		return nil
	}
	raw, err := bp.EncodeValue(v, order)
	if err != nil {
		return err
	}
	w.Data = raw
	return nil
}

func (w wireRecord) record() (bp.Record, error) {
	kind, err := bp.ParseKind(w.Kind)
	if err != nil {
		return bp.Record{}, err
	}
	t := bp.ScalarType(w.Type)

	switch kind {
	case bp.KindGroup:
		return bp.GroupRecord(w.Path), nil

	case bp.KindScalar, bp.KindArray:
		v := &bp.Variable{Name: w.Name, Path: w.Path, Type: t, Append: w.Append}
		for _, d := range w.Dims {
			v.Dims = append(v.Dims, bp.Dimension(d))
		}
		if v.Value, err = w.payload(t); err != nil {
			return bp.Record{}, fmt.Errorf("variable %s: %w", w.Name, err)
		}
		return bp.Record{Kind: kind, Variable: v}, nil

	default:
		owner := bp.OwnerDataset
		if kind == bp.KindGroupAttribute {
			owner = bp.OwnerGroup
		}
		a := &bp.Attribute{Name: w.Name, Owner: w.Path, OwnerKind: owner, Type: t}
		if a.Value, err = w.payload(t); err != nil {
			return bp.Record{}, fmt.Errorf("attribute %s: %w", w.Name, err)
		}
		return bp.Record{Kind: kind, Attribute: a}, nil
	}
}

// payload decodes the value carried by w. Types without a Value
// representation yield a nil Value; rejecting them is left to the
// consumer.
func (w wireRecord) payload(t bp.ScalarType) (bp.Value, error) {
	switch {
	case t == bp.String:
		return bp.Strings(w.Text), nil
	case t.Size() > 0:
		return bp.DecodeValue(t, w.Data, order)
	default:
		return nil, nil
	}
}
