package bp2h5

import (
	"fmt"

	"github.com/mammefen/bp2h5/bp"
	"github.com/mammefen/bp2h5/target"
)

// ConvertDims returns dims in target order. RowMajor copies dims as they
// are; ColumnMajor reverses them. Only the shape is permuted, never the
// payload. The result is always a fresh slice.
func ConvertDims(dims []uint64, layout ArrayLayout) []uint64 {
	out := make([]uint64, len(dims))
	if layout == ColumnMajor {
		for i, d := range dims {
			out[len(dims)-1-i] = d
		}
		return out
	}
	copy(out, dims)
	return out
}

// Strategy bundles the per-run conventions. It is built once from a
// Config and consulted by the writers.
type Strategy struct {
	layout     ArrayLayout
	scalars    ScalarRepresentation
	datasetPad target.StringPad
	groupPad   target.StringPad
	steps      StepPolicy
}

// NewStrategy builds the strategy for cfg. cfg is assumed valid.
func NewStrategy(cfg Config) Strategy {
	return Strategy{
		layout:     cfg.ArrayLayout,
		scalars:    cfg.Scalars,
		datasetPad: padFor(cfg.DatasetAttrStrings),
		groupPad:   padFor(cfg.GroupAttrStrings),
		steps:      cfg.StepPolicy,
	}
}

func padFor(c AttrConvention) target.StringPad {
	if c == AttrColumnMajor {
		return target.SpacePad
	}
	return target.NullTerm
}

// Layout returns the array layout.
func (s Strategy) Layout() ArrayLayout { return s.layout }

// Steps returns the ragged step policy.
func (s Strategy) Steps() StepPolicy { return s.steps }

// ConvertDims applies the layout policy.
func (s Strategy) ConvertDims(dims []uint64) []uint64 {
	return ConvertDims(dims, s.layout)
}

// ScalarDims returns the shape of a rank-0 value: nil for TrueScalar,
// [1] for SingleElementArray.
func (s Strategy) ScalarDims() []uint64 {
	if s.scalars == SingleElementArray {
		return []uint64{1}
	}
	return nil
}

// StringPad returns the string attribute padding for an owner kind.
func (s Strategy) StringPad(owner bp.OwnerKind) target.StringPad {
	if owner == bp.OwnerGroup {
		return s.groupPad
	}
	return s.datasetPad
}

// blockShape returns the target block shape of v: the converted local
// extents, or ScalarDims for a rank-0 variable. Global extents and offsets
// are checked for consistency only.
func (s Strategy) blockShape(v *bp.Variable) ([]uint64, error) {
	if v.Rank() == 0 {
		return s.ScalarDims(), nil
	}
	for i, d := range v.Dims {
		if d.Global > 0 && d.Offset+d.Local > d.Global {
			return nil, fmt.Errorf("%w: dimension %d block [%d, %d) exceeds global extent %d",
				ErrInvalidRecord, i, d.Offset, d.Offset+d.Local, d.Global)
		}
	}
	return s.ConvertDims(v.LocalExtents()), nil
}
