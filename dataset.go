package bp2h5

import (
	"fmt"

	"github.com/mammefen/bp2h5/bp"
	"github.com/mammefen/bp2h5/internal/namespace"
	"github.com/mammefen/bp2h5/internal/shape"
	"github.com/mammefen/bp2h5/target"
)

// StepExtentsAttr is the dataset attribute holding the true block extents
// of every step of an appended dataset, flattened as steps x rank int64
// values. It is written once steps stop having identical extents.
const StepExtentsAttr = "step_extents"

// series tracks a dataset written during the run.
type series struct {
	typ target.Type
	// appendable datasets carry a leading step dimension.
	appendable bool
	// block is the running maximum block shape, step dimension excluded.
	block   []uint64
	extents [][]uint64
	ragged  bool
}

func (s *series) steps() uint64 { return uint64(len(s.extents)) }

// writeVariable writes one variable record: a new dataset, the first step
// of an appended dataset, or a further step.
func (w *writer) writeVariable(v *bp.Variable) error {
	if err := namespace.CheckName(v.Name); err != nil {
		return fmt.Errorf("%w: variable %q: %w", ErrInvalidRecord, v.Name, err)
	}
	tt, err := MapType(v.Type)
	if err != nil {
		return err
	}
	if err := checkPayload(v.Type, v.Value); err != nil {
		return err
	}
	block, err := w.strategy.blockShape(v)
	if err != nil {
		return err
	}
	n, err := shape.Count(block)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if uint64(v.Value.Len()) != n {
		return fmt.Errorf("%w: %s has %d values for block %v", ErrInvalidRecord, v.Name, v.Value.Len(), block)
	}

	parent, err := w.resolve(v.Path)
	if err != nil {
		return err
	}
	path := namespace.Join(parent.Path, v.Name)

	if existing, ok := parent.Child(v.Name); ok {
		if existing.Kind != namespace.Dataset {
			return fmt.Errorf("%w: %s is a group", ErrPathKindConflict, path)
		}
		if !v.Append {
			return fmt.Errorf("%w: dataset %s", ErrDuplicatePath, path)
		}
		s := w.datasets[path]
		if !s.appendable {
			return extendFailure("append", path, fmt.Errorf("dataset was written without append"))
		}
		return w.appendStep(path, s, tt, block, v.Value)
	}

	if v.Append {
		return w.createSeries(parent, v.Name, tt, block, v.Value)
	}
	return w.createFixed(parent, v.Name, tt, block, v.Value)
}

func (w *writer) createFixed(parent *namespace.Node, name string, tt target.Type, block []uint64, v bp.Value) error {
	path := namespace.Join(parent.Path, name)
	layout := target.DatasetLayout{Type: tt, Dims: block}
	if err := w.create(path, layout, block, v); err != nil {
		return err
	}
	if err := w.register(parent, name); err != nil {
		return err
	}
	w.datasets[path] = &series{typ: tt, block: block}
	w.stats.Datasets++
	w.debugf("created dataset %s %s %v", path, tt, block)
	return nil
}

func (w *writer) createSeries(parent *namespace.Node, name string, tt target.Type, block []uint64, v bp.Value) error {
	path := namespace.Join(parent.Path, name)
	dims := append([]uint64{1}, block...)
	maxDims := make([]uint64, len(dims))
	for i := range maxDims {
		maxDims[i] = target.Unlimited
	}
	layout := target.DatasetLayout{Type: tt, Dims: dims, MaxDims: maxDims}
	if err := w.create(path, layout, dims, v); err != nil {
		return err
	}
	if err := w.register(parent, name); err != nil {
		return err
	}
	w.datasets[path] = &series{
		typ:        tt,
		appendable: true,
		block:      append([]uint64(nil), block...),
		extents:    [][]uint64{append([]uint64(nil), block...)},
	}
	w.stats.Datasets++
	w.stats.Steps++
	w.debugf("created dataset %s %s %v (step 0)", path, tt, dims)
	return nil
}

// register adds a dataset written to the sink to the namespace tree. If
// the tree refuses it, the dataset is removed from the sink again.
func (w *writer) register(parent *namespace.Node, name string) error {
	path := namespace.Join(parent.Path, name)
	if _, err := w.tree.AddDataset(parent, name); err != nil {
		if rerr := w.sink.Remove(path); rerr != nil {
			w.debugf("remove %s after rejected name: %v", path, rerr)
		}
		return treeError("add dataset", path, err)
	}
	return nil
}

// create makes a dataset and writes v as its whole content. On failure
// the dataset is removed so no partial object remains.
func (w *writer) create(path string, layout target.DatasetLayout, count []uint64, v bp.Value) error {
	ds, err := w.sink.CreateDataset(path, layout)
	if err != nil {
		return ioFailure("create dataset", path, err)
	}
	err = ds.WriteBlock(shape.Zeros(len(count)), count, v)
	if cerr := ds.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := w.sink.Remove(path); rerr != nil {
			w.debugf("remove %s after failed write: %v", path, rerr)
		}
		return ioFailure("write dataset", path, err)
	}
	return nil
}

// appendStep extends the step dimension of path by one and writes v into
// the new slot. Earlier steps are not touched. On failure the dataset is
// shrunk back to its previous extents.
func (w *writer) appendStep(path string, s *series, tt target.Type, block []uint64, v bp.Value) error {
	if tt != s.typ {
		return extendFailure("append", path, fmt.Errorf("element type %s, dataset has %s", tt, s.typ))
	}
	if len(block) != len(s.block) {
		return extendFailure("append", path, fmt.Errorf("rank %d, dataset has rank %d", len(block), len(s.block)))
	}

	step := s.steps()
	ragged := s.ragged || !shape.Equal(block, s.extents[0])
	if ragged && w.strategy.Steps() == RejectRaggedSteps {
		return extendFailure("append", path, fmt.Errorf("step %d extents %v differ from %v", step, block, s.extents[0]))
	}
	if ragged && !s.ragged && w.attrs[path][StepExtentsAttr] {
		return fmt.Errorf("%w: attribute %s on %s is reserved for step extents", ErrDuplicatePath, StepExtentsAttr, path)
	}

	ds, err := w.sink.OpenDataset(path)
	if err != nil {
		return ioFailure("open dataset", path, err)
	}
	defer ds.Close()

	prev := ds.Layout().Dims
	grown := shape.Max(s.block, block)
	if err := ds.Extend(append([]uint64{step + 1}, grown...)); err != nil {
		return extendFailure("extend", path, err)
	}

	offset := shape.Zeros(len(block) + 1)
	offset[0] = step
	count := append([]uint64{1}, block...)
	err = ds.WriteBlock(offset, count, v)
	if err == nil && ragged {
		err = w.writeStepExtents(path, append(s.extents, block))
	}
	if err != nil {
		if rerr := ds.Extend(prev); rerr != nil {
			w.debugf("restore %s to %v: %v", path, prev, rerr)
		}
		return ioFailure("append", path, err)
	}

	s.block = grown
	s.extents = append(s.extents, append([]uint64(nil), block...))
	s.ragged = ragged
	w.stats.Steps++
	w.debugf("appended step %d to %s %v", step, path, block)
	return nil
}

func (w *writer) writeStepExtents(path string, extents [][]uint64) error {
	flat := make(bp.Int64s, 0, len(extents)*len(extents[0]))
	for _, e := range extents {
		for _, d := range e {
			flat = append(flat, int64(d))
		}
	}
	err := w.sink.WriteAttribute(path, target.Attribute{
		Name:  StepExtentsAttr,
		Type:  target.Int64,
		Dims:  []uint64{uint64(len(flat))},
		Value: flat,
	})
	if err != nil {
		return err
	}
	w.markAttr(path, StepExtentsAttr)
	return nil
}
