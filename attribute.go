package bp2h5

import (
	"fmt"

	"github.com/mammefen/bp2h5/bp"
	"github.com/mammefen/bp2h5/internal/namespace"
	"github.com/mammefen/bp2h5/target"
)

// attrDims returns the attribute shape for a value of n elements. A single
// string is always a scalar; a single number follows the scalar policy.
func (w *writer) attrDims(t bp.ScalarType, n int) []uint64 {
	switch {
	case n > 1:
		return []uint64{uint64(n)}
	case t == bp.String:
		return nil
	default:
		return w.strategy.ScalarDims()
	}
}

// writeAttribute attaches a to its owner. Dataset owners must have been
// written earlier in the run; group owners are created on demand.
func (w *writer) writeAttribute(a *bp.Attribute) error {
	if a.Name == "" {
		return fmt.Errorf("%w: attribute without a name", ErrInvalidRecord)
	}
	tt, err := MapType(a.Type)
	if err != nil {
		return err
	}
	if err := checkPayload(a.Type, a.Value); err != nil {
		return err
	}
	if a.Value.Len() == 0 {
		return fmt.Errorf("%w: attribute %s has no value", ErrInvalidRecord, a.Name)
	}

	owner := namespace.Clean(a.Owner)
	switch a.OwnerKind {
	case bp.OwnerDataset:
		n, ok := w.tree.Lookup(owner)
		if !ok {
			return fmt.Errorf("%w: dataset %s", ErrMissingOwner, owner)
		}
		if n.Kind != namespace.Dataset {
			return fmt.Errorf("%w: attribute %s expects dataset %s, found a group", ErrPathKindConflict, a.Name, owner)
		}
	case bp.OwnerGroup:
		if _, err := w.resolve(owner); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: attribute %s has owner kind %s", ErrInvalidRecord, a.Name, a.OwnerKind)
	}

	if w.attrs[owner][a.Name] {
		return fmt.Errorf("%w: attribute %s on %s", ErrDuplicatePath, a.Name, owner)
	}

	attr := target.Attribute{
		Name:  a.Name,
		Type:  tt,
		Dims:  w.attrDims(a.Type, a.Value.Len()),
		Value: a.Value,
		Pad:   w.strategy.StringPad(a.OwnerKind),
	}
	if err := w.sink.WriteAttribute(owner, attr); err != nil {
		return ioFailure("write attribute", owner+"@"+a.Name, err)
	}
	w.markAttr(owner, a.Name)
	w.stats.Attributes++
	return nil
}

func (w *writer) markAttr(owner, name string) {
	names := w.attrs[owner]
	if names == nil {
		names = make(map[string]bool)
		w.attrs[owner] = names
	}
	names[name] = true
}
