package bp2h5

import (
	"errors"
	"fmt"

	"github.com/mammefen/bp2h5/bp"
	"github.com/mammefen/bp2h5/internal/namespace"
	"github.com/mammefen/bp2h5/target"
)

// Stats counts what a run wrote.
type Stats struct {
	Records    int
	Groups     int
	Datasets   int
	Steps      int
	Attributes int
}

// writer applies records to a sink. It owns the namespace tree and the
// per-dataset bookkeeping of one run.
type writer struct {
	strategy Strategy
	sink     target.Sink
	tree     *namespace.Tree
	datasets map[string]*series
	attrs    map[string]map[string]bool
	stats    *Stats
	debugf   func(format string, args ...any)
}

func newWriter(strategy Strategy, sink target.Sink, stats *Stats, debugf func(string, ...any)) *writer {
	w := &writer{
		strategy: strategy,
		sink:     sink,
		datasets: make(map[string]*series),
		attrs:    make(map[string]map[string]bool),
		stats:    stats,
		debugf:   debugf,
	}
	w.tree = namespace.New(w.createGroup)
	return w
}

func (w *writer) createGroup(path string) error {
	if err := w.sink.CreateGroup(path); err != nil {
		return err
	}
	w.stats.Groups++
	w.debugf("created group %s", path)
	return nil
}

// resolve returns the group at path, creating missing groups.
func (w *writer) resolve(path string) (*namespace.Node, error) {
	n, err := w.tree.Resolve(path)
	if err != nil {
		return nil, treeError("create group", path, err)
	}
	return n, nil
}

// treeError maps namespace errors to the package sentinels. Anything else
// came from the sink.
func treeError(op, path string, err error) error {
	switch {
	case errors.Is(err, namespace.ErrKindConflict):
		return fmt.Errorf("%w: %w", ErrPathKindConflict, err)
	case errors.Is(err, namespace.ErrInvalidPath):
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	case errors.Is(err, namespace.ErrExists):
		return fmt.Errorf("%w: %w", ErrDuplicatePath, err)
	default:
		return ioFailure(op, path, err)
	}
}

// apply dispatches one record.
func (w *writer) apply(rec bp.Record) error {
	switch rec.Kind {
	case bp.KindGroup:
		_, err := w.resolve(rec.Path)
		return err

	case bp.KindScalar, bp.KindArray:
		v := rec.Variable
		if v == nil {
			return fmt.Errorf("%w: %s record without variable", ErrInvalidRecord, rec.Kind)
		}
		if (rec.Kind == bp.KindScalar) != (v.Rank() == 0) {
			return fmt.Errorf("%w: %s record with rank %d", ErrInvalidRecord, rec.Kind, v.Rank())
		}
		return w.writeVariable(v)

	case bp.KindDatasetAttribute, bp.KindGroupAttribute:
		a := rec.Attribute
		if a == nil {
			return fmt.Errorf("%w: %s record without attribute", ErrInvalidRecord, rec.Kind)
		}
		want := bp.OwnerDataset
		if rec.Kind == bp.KindGroupAttribute {
			want = bp.OwnerGroup
		}
		if a.OwnerKind != want {
			return fmt.Errorf("%w: %s record with %s owner", ErrInvalidRecord, rec.Kind, a.OwnerKind)
		}
		return w.writeAttribute(a)

	default:
		return fmt.Errorf("%w: unknown record kind %s", ErrInvalidRecord, rec.Kind)
	}
}
