package bp2h5

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mammefen/bp2h5/bp"
	"github.com/mammefen/bp2h5/target"
)

// State is the lifecycle stage of a Converter.
type State int

const (
	// StateReady is a converter that has not run.
	StateReady State = iota
	// StateOpening opens the source and the output.
	StateOpening
	// StateStreaming applies records in order.
	StateStreaming
	// StateClosing finalizes the output.
	StateClosing
	// StateDone is a successful run.
	StateDone
	// StateFailed is a run aborted by an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateOpening:
		return "opening"
	case StateStreaming:
		return "streaming"
	case StateClosing:
		return "closing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Converter runs one conversion. It is not safe for concurrent use;
// independent runs use independent stores and converters.
type Converter struct {
	store    *Store
	strategy Strategy
	debug    bool
	logger   *log.Logger
	open     SourceOpener
	create   SinkFactory
	state    State
	stats    Stats
}

// New returns a converter bound to an initialized store.
func New(store *Store, opts ...Option) (*Converter, error) {
	if store == nil || !store.Initialized() {
		return nil, &ConfigError{Op: "new converter", Err: ErrNotInitialized}
	}
	c := &Converter{
		store:    store,
		strategy: store.Strategy(),
		debug:    store.Config().Verbosity == Debug,
		logger:   log.New(os.Stderr, "bp2h5: ", log.LstdFlags),
		open:     openIonStream,
		create:   createHDF5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the current lifecycle stage.
func (c *Converter) State() State { return c.state }

// Stats returns what the run has written so far.
func (c *Converter) Stats() Stats { return c.stats }

func (c *Converter) debugf(format string, args ...any) {
	if c.debug {
		c.logger.Printf(format, args...)
	}
}

func (c *Converter) begin() error {
	if c.state != StateReady {
		return &ConversionError{Index: -1, Err: ErrConverterUsed}
	}
	c.state = StateOpening
	return nil
}

// Convert reads the record stream at sourcePath and writes targetPath.
func (c *Converter) Convert(sourcePath, targetPath string) error {
	if err := c.begin(); err != nil {
		return err
	}

	dec, err := c.open(sourcePath, c.store.ReadBuffer())
	if err != nil {
		return c.fail(nil, &ConversionError{Index: -1, Err: ioFailure("open source", sourcePath, err)})
	}
	sink, err := c.create(targetPath)
	if err != nil {
		dec.Close()
		return c.fail(nil, &ConversionError{Index: -1, Err: ioFailure("create target", targetPath, err)})
	}
	c.debugf("converting %s to %s", sourcePath, targetPath)
	return c.stream(dec, sink)
}

// ConvertStream applies every record of dec to sink, then closes both.
func (c *Converter) ConvertStream(dec bp.Decoder, sink target.Sink) error {
	if err := c.begin(); err != nil {
		return err
	}
	return c.stream(dec, sink)
}

func (c *Converter) stream(dec bp.Decoder, sink target.Sink) error {
	defer dec.Close()

	c.state = StateStreaming
	w := newWriter(c.strategy, sink, &c.stats, c.debugf)
	for i := 0; ; i++ {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return c.fail(sink, &ConversionError{Index: i, Err: fmt.Errorf("%w: read record: %w", ErrInvalidRecord, err)})
		}

		c.debugf("record %d: %s %s", i, rec.Kind, rec.Target())
		if err := w.apply(rec); err != nil {
			return c.fail(sink, &ConversionError{Index: i, Kind: rec.Kind, Path: rec.Target(), Err: err})
		}
		c.stats.Records++
	}

	c.state = StateClosing
	if err := sink.Close(); err != nil {
		return c.fail(nil, &ConversionError{Index: -1, Err: ioFailure("close target", "", err)})
	}
	c.state = StateDone
	c.debugf("done: %d records, %d groups, %d datasets, %d steps, %d attributes",
		c.stats.Records, c.stats.Groups, c.stats.Datasets, c.stats.Steps, c.stats.Attributes)
	return nil
}

// fail closes sink best-effort and moves to StateFailed.
func (c *Converter) fail(sink target.Sink, err *ConversionError) error {
	c.state = StateFailed
	c.debugf("conversion failed: %v", err)
	if sink != nil {
		if cerr := sink.Close(); cerr != nil {
			c.debugf("close target after failure: %v", cerr)
		}
	}
	return err
}

// Run converts sourcePath to targetPath with a fresh converter bound to
// store and returns the status sentinel: 0 on success, -1 on failure.
func Run(store *Store, sourcePath, targetPath string, opts ...Option) int {
	c, err := New(store, opts...)
	if err != nil {
		return Status(err)
	}
	return Status(c.Convert(sourcePath, targetPath))
}
