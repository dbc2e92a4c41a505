package bp2h5_test

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mammefen/bp2h5"
	"github.com/mammefen/bp2h5/bp"
	"github.com/mammefen/bp2h5/bp/ionstream"
	bptest "github.com/mammefen/bp2h5/internal/testing"
	"github.com/mammefen/bp2h5/target"
	"github.com/mammefen/bp2h5/target/memtarget"
)

func newStore(t *testing.T, mutate func(*bp2h5.Config)) *bp2h5.Store {
	t.Helper()
	cfg := bp2h5.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s := bp2h5.NewStore()
	require.NoError(t, s.Initialize(cfg))
	t.Cleanup(s.Release)
	return s
}

func convert(t *testing.T, store *bp2h5.Store, sink target.Sink, recs ...bp.Record) (*bp2h5.Converter, error) {
	t.Helper()
	c, err := bp2h5.New(store)
	require.NoError(t, err)
	return c, c.ConvertStream(bptest.NewSliceDecoder(recs...), sink)
}

func scalar(path, name string, t bp.ScalarType, v bp.Value) bp.Record {
	return bp.VariableRecord(&bp.Variable{Name: name, Path: path, Type: t, Value: v})
}

func array(path, name string, v bp.Value, local ...uint64) bp.Record {
	dims := make([]bp.Dimension, len(local))
	for i, l := range local {
		dims[i] = bp.Dimension{Local: l}
	}
	return bp.VariableRecord(&bp.Variable{Name: name, Path: path, Type: v.Type(), Dims: dims, Value: v})
}

func step(rec bp.Record) bp.Record {
	rec.Variable.Append = true
	return rec
}

func datasetAttr(owner, name string, v bp.Value) bp.Record {
	return bp.AttributeRecord(&bp.Attribute{Name: name, Owner: owner, OwnerKind: bp.OwnerDataset, Type: v.Type(), Value: v})
}

func groupAttr(owner, name string, v bp.Value) bp.Record {
	return bp.AttributeRecord(&bp.Attribute{Name: name, Owner: owner, OwnerKind: bp.OwnerGroup, Type: v.Type(), Value: v})
}

func ramp(n int, base float64) bp.Float64s {
	v := make(bp.Float64s, n)
	for i := range v {
		v[i] = base + float64(i)
	}
	return v
}

// restartRecords writes NX and temperature twice, with NX=10 then NX=5.
func restartRecords() []bp.Record {
	return []bp.Record{
		bp.GroupRecord("/restart"),
		step(scalar("/restart", "NX", bp.Integer, bp.Int32s{10})),
		step(array("/restart", "temperature", ramp(10, 0), 10)),
		datasetAttr("/restart/temperature", "units", bp.Strings{"K"}),
		step(scalar("/restart", "NX", bp.Integer, bp.Int32s{5})),
		step(array("/restart", "temperature", ramp(5, 1), 5)),
	}
}

func TestRestartScenario(t *testing.T) {
	sink := memtarget.New()
	c, err := convert(t, newStore(t, nil), sink, restartRecords()...)
	require.NoError(t, err)
	assert.Equal(t, bp2h5.StateDone, c.State())
	assert.True(t, sink.Closed())

	nx, err := sink.Dataset("/restart/NX")
	require.NoError(t, err)
	assert.Equal(t, target.Int32, nx.Type)
	assert.Equal(t, []uint64{2}, nx.Dims)
	assert.Equal(t, []uint64{target.Unlimited}, nx.MaxDims)
	assert.Equal(t, bp.Int32s{10, 5}, nx.Data)

	temp, err := sink.Dataset("/restart/temperature")
	require.NoError(t, err)
	assert.Equal(t, target.Float64, temp.Type)
	assert.Equal(t, []uint64{2, 10}, temp.Dims)
	assert.Equal(t, []uint64{target.Unlimited, target.Unlimited}, temp.MaxDims)

	first, err := sink.ReadBlock("/restart/temperature", []uint64{0, 0}, []uint64{1, 10})
	require.NoError(t, err)
	assert.Equal(t, ramp(10, 0), first)

	second, err := sink.ReadBlock("/restart/temperature", []uint64{1, 0}, []uint64{1, 10})
	require.NoError(t, err)
	assert.Equal(t, bp.Float64s{1, 2, 3, 4, 5, 0, 0, 0, 0, 0}, second)

	ext, err := sink.Attribute("/restart/temperature", bp2h5.StepExtentsAttr)
	require.NoError(t, err)
	assert.Equal(t, target.Int64, ext.Type)
	assert.Equal(t, bp.Int64s{10, 5}, ext.Value)

	_, err = sink.Attribute("/restart/NX", bp2h5.StepExtentsAttr)
	require.ErrorIs(t, err, target.ErrNotFound)

	units, err := sink.Attribute("/restart/temperature", "units")
	require.NoError(t, err)
	assert.True(t, units.Scalar())
	assert.Equal(t, target.NullTerm, units.Pad)

	assert.Equal(t, bp2h5.Stats{Records: 6, Groups: 1, Datasets: 2, Steps: 4, Attributes: 1}, c.Stats())
}

func TestRejectRaggedSteps(t *testing.T) {
	sink := memtarget.New()
	store := newStore(t, func(c *bp2h5.Config) { c.StepPolicy = bp2h5.RejectRaggedSteps })
	c, err := convert(t, store, sink, restartRecords()...)
	require.ErrorIs(t, err, bp2h5.ErrExtendFailure)
	assert.Equal(t, bp2h5.StateFailed, c.State())

	var cerr *bp2h5.ConversionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 5, cerr.Index)
	assert.Equal(t, bp.KindArray, cerr.Kind)
	assert.Equal(t, "/restart/temperature", cerr.Path)

	temp, err := sink.Dataset("/restart/temperature")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 10}, temp.Dims)
	assert.True(t, sink.Closed())
}

func TestEqualStepsHaveNoExtentsAttribute(t *testing.T) {
	sink := memtarget.New()
	_, err := convert(t, newStore(t, nil), sink,
		step(array("/", "v", bp.Int16s{1, 2}, 2)),
		step(array("/", "v", bp.Int16s{3, 4}, 2)),
		step(array("/", "v", bp.Int16s{5, 6}, 2)),
	)
	require.NoError(t, err)

	v, err := sink.Dataset("/v")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2}, v.Dims)
	assert.Equal(t, bp.Int16s{1, 2, 3, 4, 5, 6}, v.Data)
	assert.Empty(t, sink.Attributes("/v"))
}

func TestAppendThreeSteps(t *testing.T) {
	sink := memtarget.New()
	_, err := convert(t, newStore(t, nil), sink,
		step(array("/", "V", bp.Int32s{1}, 1)),
		step(array("/", "V", bp.Int32s{2}, 1)),
		step(array("/", "V", bp.Int32s{3}, 1)),
	)
	require.NoError(t, err)

	v, err := sink.Dataset("/V")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 1}, v.Dims)
	for i, want := range []int32{1, 2, 3} {
		got, err := sink.ReadBlock("/V", []uint64{uint64(i), 0}, []uint64{1, 1})
		require.NoError(t, err)
		assert.Equal(t, bp.Int32s{want}, got, "step %d", i)
	}
}

func TestGrowingStepsPadEarlierSteps(t *testing.T) {
	sink := memtarget.New()
	_, err := convert(t, newStore(t, nil), sink,
		step(array("/", "v", bp.Int32s{1, 2}, 2)),
		step(array("/", "v", bp.Int32s{3, 4, 5}, 3)),
	)
	require.NoError(t, err)

	v, err := sink.Dataset("/v")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, v.Dims)
	assert.Equal(t, bp.Int32s{1, 2, 0, 3, 4, 5}, v.Data)

	ext, err := sink.Attribute("/v", bp2h5.StepExtentsAttr)
	require.NoError(t, err)
	assert.Equal(t, bp.Int64s{2, 3}, ext.Value)
}

func TestColumnMajorReversesDims(t *testing.T) {
	sink := memtarget.New()
	store := newStore(t, func(c *bp2h5.Config) { c.ArrayLayout = bp2h5.ColumnMajor })
	payload := bp.Float32s{1, 2, 3, 4, 5, 6}
	_, err := convert(t, store, sink, array("/g", "m", payload, 2, 3))
	require.NoError(t, err)

	m, err := sink.Dataset("/g/m")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2}, m.Dims)
	assert.Equal(t, payload, m.Data, "payload is never transposed")
}

func TestScalarRepresentation(t *testing.T) {
	tests := []struct {
		name       string
		rep        bp2h5.ScalarRepresentation
		fixed      []uint64
		appended   []uint64
		attrScalar bool
	}{
		{"true scalar", bp2h5.TrueScalar, nil, []uint64{2}, true},
		{"single element array", bp2h5.SingleElementArray, []uint64{1}, []uint64{2, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := memtarget.New()
			store := newStore(t, func(c *bp2h5.Config) { c.Scalars = tt.rep })
			_, err := convert(t, store, sink,
				scalar("/", "s", bp.Double, bp.Float64s{1.5}),
				step(scalar("/", "a", bp.Long, bp.Int64s{1})),
				step(scalar("/", "a", bp.Long, bp.Int64s{2})),
				datasetAttr("/s", "scale", bp.Float64s{2}),
				datasetAttr("/s", "name", bp.Strings{"speed"}),
				datasetAttr("/s", "range", bp.Float64s{0, 10}),
			)
			require.NoError(t, err)

			s, err := sink.Dataset("/s")
			require.NoError(t, err)
			if tt.fixed == nil {
				assert.Empty(t, s.Dims)
			} else {
				assert.Equal(t, tt.fixed, s.Dims)
			}

			a, err := sink.Dataset("/a")
			require.NoError(t, err)
			assert.Equal(t, tt.appended, a.Dims)
			assert.Equal(t, bp.Int64s{1, 2}, a.Data)

			scale, err := sink.Attribute("/s", "scale")
			require.NoError(t, err)
			assert.Equal(t, tt.attrScalar, scale.Scalar())
			assert.Equal(t, bp.Float64s{2}, scale.Value)

			name, err := sink.Attribute("/s", "name")
			require.NoError(t, err)
			assert.True(t, name.Scalar(), "a single string is always scalar")

			rng, err := sink.Attribute("/s", "range")
			require.NoError(t, err)
			assert.Equal(t, []uint64{2}, rng.Dims)
		})
	}
}

func TestStringConventions(t *testing.T) {
	sink := memtarget.New()
	store := newStore(t, func(c *bp2h5.Config) {
		c.DatasetAttrStrings = bp2h5.AttrColumnMajor
		c.GroupAttrStrings = bp2h5.AttrNative
	})
	_, err := convert(t, store, sink,
		scalar("/run", "id", bp.Integer, bp.Int32s{1}),
		datasetAttr("/run/id", "desc", bp.Strings{"identifier"}),
		groupAttr("/run", "title", bp.Strings{"first run"}),
		groupAttr("/", "code", bp.Strings{"sim"}),
	)
	require.NoError(t, err)

	desc, err := sink.Attribute("/run/id", "desc")
	require.NoError(t, err)
	assert.Equal(t, target.SpacePad, desc.Pad)

	title, err := sink.Attribute("/run", "title")
	require.NoError(t, err)
	assert.Equal(t, target.NullTerm, title.Pad)

	code, err := sink.Attribute("/", "code")
	require.NoError(t, err)
	assert.Equal(t, bp.Strings{"sim"}, code.Value)
}

func TestGroupAttributeCreatesGroups(t *testing.T) {
	sink := memtarget.New()
	c, err := convert(t, newStore(t, nil), sink,
		groupAttr("/a/b", "n", bp.Uint8s{3}),
		bp.GroupRecord("/a/b/c"),
		bp.GroupRecord("/a"),
	)
	require.NoError(t, err)
	assert.True(t, sink.Exists("/a/b"))
	assert.True(t, sink.Exists("/a/b/c"))
	assert.Equal(t, 3, c.Stats().Groups, "each group is created once")
}

func TestMissingOwnerCreatesNothing(t *testing.T) {
	sink := memtarget.New()
	c, err := convert(t, newStore(t, nil), sink,
		datasetAttr("/nope/ds", "units", bp.Strings{"m"}),
	)
	require.ErrorIs(t, err, bp2h5.ErrMissingOwner)
	assert.Equal(t, bp2h5.StateFailed, c.State())
	assert.False(t, sink.Exists("/nope"))
	assert.True(t, sink.Closed())

	var cerr *bp2h5.ConversionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 0, cerr.Index)
	assert.Equal(t, bp.KindDatasetAttribute, cerr.Kind)
	assert.Equal(t, "/nope/ds", cerr.Path)
	assert.Equal(t, -1, bp2h5.Status(err))
}

func TestRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		recs []bp.Record
		want error
	}{
		{
			name: "unsupported type",
			recs: []bp.Record{bp.VariableRecord(&bp.Variable{Name: "x", Type: bp.LongDouble})},
			want: bp2h5.ErrUnsupportedType,
		},
		{
			name: "unsupported attribute type",
			recs: []bp.Record{bp.AttributeRecord(&bp.Attribute{
				Name: "x", Owner: "/", OwnerKind: bp.OwnerGroup, Type: bp.Unknown,
			})},
			want: bp2h5.ErrUnsupportedType,
		},
		{
			name: "payload type mismatch",
			recs: []bp.Record{bp.VariableRecord(&bp.Variable{Name: "x", Type: bp.Double, Value: bp.Float32s{1}})},
			want: bp2h5.ErrInvalidRecord,
		},
		{
			name: "payload length mismatch",
			recs: []bp.Record{array("/", "x", bp.Int8s{1, 2, 3}, 2)},
			want: bp2h5.ErrInvalidRecord,
		},
		{
			name: "block outside global extent",
			recs: []bp.Record{bp.VariableRecord(&bp.Variable{
				Name: "x", Type: bp.Byte, Value: bp.Int8s{1, 2},
				Dims: []bp.Dimension{{Global: 3, Local: 2, Offset: 2}},
			})},
			want: bp2h5.ErrInvalidRecord,
		},
		{
			name: "duplicate dataset",
			recs: []bp.Record{
				scalar("/", "x", bp.Integer, bp.Int32s{1}),
				scalar("/", "x", bp.Integer, bp.Int32s{2}),
			},
			want: bp2h5.ErrDuplicatePath,
		},
		{
			name: "duplicate attribute",
			recs: []bp.Record{
				groupAttr("/g", "a", bp.Int32s{1}),
				groupAttr("/g", "a", bp.Int32s{2}),
			},
			want: bp2h5.ErrDuplicatePath,
		},
		{
			name: "group through dataset",
			recs: []bp.Record{
				scalar("/", "x", bp.Integer, bp.Int32s{1}),
				bp.GroupRecord("/x/y"),
			},
			want: bp2h5.ErrPathKindConflict,
		},
		{
			name: "dataset attribute on group",
			recs: []bp.Record{
				bp.GroupRecord("/g"),
				datasetAttr("/g", "a", bp.Int32s{1}),
			},
			want: bp2h5.ErrPathKindConflict,
		},
		{
			name: "variable over group",
			recs: []bp.Record{
				bp.GroupRecord("/g"),
				scalar("/", "g", bp.Integer, bp.Int32s{1}),
			},
			want: bp2h5.ErrPathKindConflict,
		},
		{
			name: "append changes type",
			recs: []bp.Record{
				step(array("/", "x", bp.Int32s{1}, 1)),
				step(array("/", "x", bp.Int64s{1}, 1)),
			},
			want: bp2h5.ErrExtendFailure,
		},
		{
			name: "append changes rank",
			recs: []bp.Record{
				step(array("/", "x", bp.Int32s{1}, 1)),
				step(array("/", "x", bp.Int32s{1}, 1, 1)),
			},
			want: bp2h5.ErrExtendFailure,
		},
		{
			name: "append onto fixed dataset",
			recs: []bp.Record{
				array("/", "x", bp.Int32s{1}, 1),
				step(array("/", "x", bp.Int32s{2}, 1)),
			},
			want: bp2h5.ErrExtendFailure,
		},
		{
			name: "invalid path",
			recs: []bp.Record{bp.GroupRecord("/a/../b")},
			want: bp2h5.ErrInvalidRecord,
		},
		{
			name: "kind disagrees with rank",
			recs: []bp.Record{{Kind: bp.KindScalar, Variable: &bp.Variable{
				Name: "x", Type: bp.Byte, Value: bp.Int8s{1}, Dims: []bp.Dimension{{Local: 1}},
			}}},
			want: bp2h5.ErrInvalidRecord,
		},
		{
			name: "reserved step extents name",
			recs: []bp.Record{
				step(array("/", "x", bp.Int32s{1}, 1)),
				datasetAttr("/x", bp2h5.StepExtentsAttr, bp.Int64s{1}),
				step(array("/", "x", bp.Int32s{1, 2}, 2)),
			},
			want: bp2h5.ErrDuplicatePath,
		},
		{
			name: "variable named dot dot",
			recs: []bp.Record{bp.GroupRecord("/g"), array("/g", "..", bp.Float64s{1, 2}, 2)},
			want: bp2h5.ErrInvalidRecord,
		},
		{
			name: "variable named dot",
			recs: []bp.Record{step(array("/g", ".", bp.Float64s{1}, 1))},
			want: bp2h5.ErrInvalidRecord,
		},
		{
			name: "variable name with separator",
			recs: []bp.Record{scalar("/g", "a/b", bp.Integer, bp.Int32s{1})},
			want: bp2h5.ErrInvalidRecord,
		},
		{
			name: "unknown record kind",
			recs: []bp.Record{{Kind: bp.Kind(42)}},
			want: bp2h5.ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := memtarget.New()
			c, err := convert(t, newStore(t, nil), sink, tt.recs...)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, bp2h5.StateFailed, c.State())
			assert.True(t, sink.Closed())

			var cerr *bp2h5.ConversionError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, len(tt.recs)-1, cerr.Index)
		})
	}
}

func TestFailedCreateLeavesNoDataset(t *testing.T) {
	sink := bptest.NewFaultySink().FailOn(bptest.OpWriteBlock, "/g/x")
	_, err := convert(t, newStore(t, nil), sink, array("/g", "x", bp.Int32s{1, 2}, 2))
	require.ErrorIs(t, err, bp2h5.ErrIOFailure)
	require.ErrorIs(t, err, bptest.ErrInjected)

	var werr *bp2h5.WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "/g/x", werr.Path)

	assert.False(t, sink.Exists("/g/x"))
	assert.True(t, sink.Exists("/g"))
}

func TestInvalidVariableNameWritesNothing(t *testing.T) {
	for _, name := range []string{"..", ".", "a/b"} {
		t.Run(name, func(t *testing.T) {
			sink := bptest.NewFaultySink()
			_, err := convert(t, newStore(t, nil), sink,
				bp.GroupRecord("/g"),
				array("/g", name, bp.Float64s{1, 2}, 2),
			)
			require.ErrorIs(t, err, bp2h5.ErrInvalidRecord)
			assert.Empty(t, sink.Children("/g"))
			assert.NotContains(t, sink.Calls, "create_dataset /g/"+name)
		})
	}
}

func TestFailedDatasetCreate(t *testing.T) {
	sink := bptest.NewFaultySink().FailOn(bptest.OpCreateDataset, "/x")
	_, err := convert(t, newStore(t, nil), sink, scalar("/", "x", bp.Integer, bp.Int32s{1}))
	require.ErrorIs(t, err, bp2h5.ErrIOFailure)
	assert.False(t, sink.Exists("/x"))
}

func TestFailedAppendRestoresExtents(t *testing.T) {
	sink := bptest.NewFaultySink()
	c, err := bp2h5.New(newStore(t, nil))
	require.NoError(t, err)

	dec := bptest.NewSliceDecoder(
		step(array("/", "v", bp.Float64s{1, 2}, 2)),
		step(array("/", "v", bp.Float64s{3, 4, 5}, 3)),
	)
	err = c.ConvertStream(&faultAfter{Decoder: dec, sink: sink, after: 1}, sink)
	require.ErrorIs(t, err, bp2h5.ErrIOFailure)

	v, err := sink.Dataset("/v")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, v.Dims)
	assert.Equal(t, bp.Float64s{1, 2}, v.Data)
	_, err = sink.Attribute("/v", bp2h5.StepExtentsAttr)
	require.ErrorIs(t, err, target.ErrNotFound)
}

// faultAfter arms a write block fault on /v after a number of records.
type faultAfter struct {
	bp.Decoder
	sink  *bptest.FaultySink
	after int
	n     int
}

func (f *faultAfter) Next() (bp.Record, error) {
	if f.n == f.after {
		f.sink.FailOn(bptest.OpWriteBlock, "/v")
	}
	f.n++
	return f.Decoder.Next()
}

func TestFailedStepExtentsRestoresExtents(t *testing.T) {
	sink := bptest.NewFaultySink().FailOn(bptest.OpWriteAttribute, "/v@"+bp2h5.StepExtentsAttr)
	_, err := convert(t, newStore(t, nil), sink,
		step(array("/", "v", bp.Int8s{1}, 1)),
		step(array("/", "v", bp.Int8s{2, 3}, 2)),
	)
	require.ErrorIs(t, err, bp2h5.ErrIOFailure)

	v, err := sink.Dataset("/v")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 1}, v.Dims)
}

func TestGroupCreateFailure(t *testing.T) {
	sink := bptest.NewFaultySink().FailOn(bptest.OpCreateGroup, "/a/b")
	_, err := convert(t, newStore(t, nil), sink, bp.GroupRecord("/a/b/c"))
	require.ErrorIs(t, err, bp2h5.ErrIOFailure)
	assert.True(t, sink.Exists("/a"))
	assert.False(t, sink.Exists("/a/b"))
}

func TestCloseFailure(t *testing.T) {
	sink := bptest.NewFaultySink().FailOn(bptest.OpClose, "")
	c, err := convert(t, newStore(t, nil), sink, bp.GroupRecord("/g"))
	require.ErrorIs(t, err, bp2h5.ErrIOFailure)
	assert.Equal(t, bp2h5.StateFailed, c.State())

	var cerr *bp2h5.ConversionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, -1, cerr.Index)
}

func TestDecoderError(t *testing.T) {
	dec := bptest.NewSliceDecoder(bp.GroupRecord("/g"), bp.GroupRecord("/h"))
	dec.FailAt, dec.Err = 1, errors.New("truncated stream")

	sink := memtarget.New()
	c, err := bp2h5.New(newStore(t, nil))
	require.NoError(t, err)
	err = c.ConvertStream(dec, sink)
	require.ErrorIs(t, err, bp2h5.ErrInvalidRecord)
	assert.True(t, dec.Closed())
	assert.True(t, sink.Closed())

	var cerr *bp2h5.ConversionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 1, cerr.Index)
}

func TestConverterRunsOnce(t *testing.T) {
	c, err := bp2h5.New(newStore(t, nil))
	require.NoError(t, err)
	require.NoError(t, c.ConvertStream(bptest.NewSliceDecoder(), memtarget.New()))
	assert.Equal(t, bp2h5.StateDone, c.State())

	err = c.ConvertStream(bptest.NewSliceDecoder(), memtarget.New())
	require.ErrorIs(t, err, bp2h5.ErrConverterUsed)
	err = c.Convert("a", "b")
	require.ErrorIs(t, err, bp2h5.ErrConverterUsed)
}

func TestNewRequiresInitializedStore(t *testing.T) {
	_, err := bp2h5.New(bp2h5.NewStore())
	require.ErrorIs(t, err, bp2h5.ErrNotInitialized)
	_, err = bp2h5.New(nil)
	require.ErrorIs(t, err, bp2h5.ErrNotInitialized)
}

func TestVerbosity(t *testing.T) {
	var quiet bytes.Buffer
	c, err := bp2h5.New(newStore(t, nil), bp2h5.WithLogger(log.New(&quiet, "", 0)))
	require.NoError(t, err)
	require.NoError(t, c.ConvertStream(bptest.NewSliceDecoder(bp.GroupRecord("/g")), memtarget.New()))
	assert.Empty(t, quiet.String())

	var debug bytes.Buffer
	store := newStore(t, func(c *bp2h5.Config) { c.Verbosity = bp2h5.Debug })
	c, err = bp2h5.New(store, bp2h5.WithLogger(log.New(&debug, "", 0)))
	require.NoError(t, err)
	err = c.ConvertStream(bptest.NewSliceDecoder(
		bp.GroupRecord("/g"),
		datasetAttr("/g/missing", "a", bp.Int32s{1}),
	), memtarget.New())
	require.Error(t, err)
	assert.Contains(t, debug.String(), "record 0: group /g")
	assert.Contains(t, debug.String(), "conversion failed")
	assert.Contains(t, debug.String(), "/g/missing")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, 0, bp2h5.Status(nil))
	assert.Equal(t, -1, bp2h5.Status(bp2h5.ErrIOFailure))
}

func TestConvertIonStream(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "restart.bpion")
	require.NoError(t, ionstream.WriteFile(src, restartRecords()))

	var sink *memtarget.Sink
	factory := func(path string) (target.Sink, error) {
		assert.Equal(t, "out.h5", path)
		sink = memtarget.New()
		return sink, nil
	}

	store := newStore(t, func(c *bp2h5.Config) { c.ReadBufferSize = 128 })
	assert.Equal(t, 0, bp2h5.Run(store, src, "out.h5", bp2h5.WithSinkFactory(factory)))

	require.NotNil(t, sink)
	temp, err := sink.Dataset("/restart/temperature")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 10}, temp.Dims)
}

func TestConvertMissingSource(t *testing.T) {
	c, err := bp2h5.New(newStore(t, nil))
	require.NoError(t, err)
	err = c.Convert(filepath.Join(t.TempDir(), "missing.bpion"), "out.h5")
	require.ErrorIs(t, err, bp2h5.ErrIOFailure)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, bp2h5.StateFailed, c.State())
}

func TestConvertWritesHDF5(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "restart.bpion")
	dst := filepath.Join(dir, "restart.h5")
	require.NoError(t, ionstream.WriteFile(src, restartRecords()))

	assert.Equal(t, 0, bp2h5.Run(newStore(t, nil), src, dst))

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Greater(t, len(raw), 8)
	assert.Equal(t, []byte("\x89HDF\r\n\x1a\n"), raw[:8])
}
