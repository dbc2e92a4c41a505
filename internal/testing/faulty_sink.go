package testing

import (
	"errors"

	"github.com/mammefen/bp2h5/bp"
	"github.com/mammefen/bp2h5/target"
	"github.com/mammefen/bp2h5/target/memtarget"
)

// ErrInjected is returned by FaultySink operations selected to fail.
var ErrInjected = errors.New("injected failure")

// Op names a sink operation.
type Op string

// Sink and dataset operations that can be made to fail.
const (
	OpCreateGroup    Op = "create_group"
	OpCreateDataset  Op = "create_dataset"
	OpWriteAttribute Op = "write_attribute"
	OpExtend         Op = "extend"
	OpWriteBlock     Op = "write_block"
	OpClose          Op = "close"
)

// FaultySink wraps an in-memory sink and fails chosen operations on chosen
// paths with ErrInjected. Calls records every operation in order.
type FaultySink struct {
	*memtarget.Sink
	faults map[Op]map[string]bool
	Calls  []string
}

var _ target.Sink = (*FaultySink)(nil)

// NewFaultySink returns a sink that behaves like memtarget until FailOn is
// used.
func NewFaultySink() *FaultySink {
	return &FaultySink{Sink: memtarget.New(), faults: make(map[Op]map[string]bool)}
}

// FailOn makes op fail for path. Close faults use the empty path.
func (s *FaultySink) FailOn(op Op, path string) *FaultySink {
	if s.faults[op] == nil {
		s.faults[op] = make(map[string]bool)
	}
	s.faults[op][path] = true
	return s
}

func (s *FaultySink) hit(op Op, path string) error {
	s.Calls = append(s.Calls, string(op)+" "+path)
	if s.faults[op][path] {
		return ErrInjected
	}
	return nil
}

// CreateGroup implements target.Sink.
func (s *FaultySink) CreateGroup(path string) error {
	if err := s.hit(OpCreateGroup, path); err != nil {
		return err
	}
	return s.Sink.CreateGroup(path)
}

// CreateDataset implements target.Sink.
func (s *FaultySink) CreateDataset(path string, layout target.DatasetLayout) (target.Dataset, error) {
	if err := s.hit(OpCreateDataset, path); err != nil {
		return nil, err
	}
	ds, err := s.Sink.CreateDataset(path, layout)
	if err != nil {
		return nil, err
	}
	return &faultyDataset{Dataset: ds, sink: s, path: path}, nil
}

// OpenDataset implements target.Sink.
func (s *FaultySink) OpenDataset(path string) (target.Dataset, error) {
	ds, err := s.Sink.OpenDataset(path)
	if err != nil {
		return nil, err
	}
	return &faultyDataset{Dataset: ds, sink: s, path: path}, nil
}

// WriteAttribute implements target.Sink.
func (s *FaultySink) WriteAttribute(owner string, attr target.Attribute) error {
	if err := s.hit(OpWriteAttribute, owner+"@"+attr.Name); err != nil {
		return err
	}
	return s.Sink.WriteAttribute(owner, attr)
}

// Close implements target.Sink. The sink is marked closed even when the
// close is made to fail.
func (s *FaultySink) Close() error {
	err := s.hit(OpClose, "")
	if cerr := s.Sink.Close(); err == nil {
		err = cerr
	}
	return err
}

type faultyDataset struct {
	target.Dataset
	sink *FaultySink
	path string
}

func (d *faultyDataset) Extend(dims []uint64) error {
	if err := d.sink.hit(OpExtend, d.path); err != nil {
		return err
	}
	return d.Dataset.Extend(dims)
}

func (d *faultyDataset) WriteBlock(offset, count []uint64, v bp.Value) error {
	if err := d.sink.hit(OpWriteBlock, d.path); err != nil {
		return err
	}
	return d.Dataset.WriteBlock(offset, count, v)
}
