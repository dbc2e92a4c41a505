package bp2h5

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mammefen/bp2h5/internal/utils"
)

// ArrayLayout is the dimension ordering of the source arrays.
type ArrayLayout int

const (
	// RowMajor keeps dimensions as declared (C order).
	RowMajor ArrayLayout = iota + 1
	// ColumnMajor reverses dimensions (Fortran order).
	ColumnMajor
)

func (l ArrayLayout) String() string {
	switch l {
	case RowMajor:
		return "row"
	case ColumnMajor:
		return "column"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseArrayLayout accepts "row" ("c", "row-major") and "column"
// ("fortran", "column-major").
func ParseArrayLayout(s string) (ArrayLayout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "row", "row-major", "c":
		return RowMajor, nil
	case "column", "column-major", "fortran":
		return ColumnMajor, nil
	}
	return 0, fmt.Errorf("%w: array layout %q", ErrInvalidConfig, s)
}

// AttrConvention selects how string attributes are stored.
type AttrConvention int

const (
	// AttrNative stores null-terminated strings.
	AttrNative AttrConvention = iota + 1
	// AttrColumnMajor stores space-padded strings without terminator.
	AttrColumnMajor
)

func (c AttrConvention) String() string {
	switch c {
	case AttrNative:
		return "c"
	case AttrColumnMajor:
		return "fortran"
	default:
		return fmt.Sprintf("convention(%d)", int(c))
	}
}

// ParseAttrConvention accepts "c" ("native") and "fortran"
// ("column-major").
func ParseAttrConvention(s string) (AttrConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "native":
		return AttrNative, nil
	case "fortran", "column-major":
		return AttrColumnMajor, nil
	}
	return 0, fmt.Errorf("%w: attribute convention %q", ErrInvalidConfig, s)
}

// ScalarRepresentation selects how rank-0 values are stored.
type ScalarRepresentation int

const (
	// TrueScalar uses a scalar dataspace.
	TrueScalar ScalarRepresentation = iota + 1
	// SingleElementArray uses a one-element 1-D dataspace.
	SingleElementArray
)

func (r ScalarRepresentation) String() string {
	switch r {
	case TrueScalar:
		return "scalar"
	case SingleElementArray:
		return "array"
	default:
		return fmt.Sprintf("scalars(%d)", int(r))
	}
}

// ParseScalarRepresentation accepts "scalar" and "array".
func ParseScalarRepresentation(s string) (ScalarRepresentation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar":
		return TrueScalar, nil
	case "array":
		return SingleElementArray, nil
	}
	return 0, fmt.Errorf("%w: scalar representation %q", ErrInvalidConfig, s)
}

// Verbosity is the diagnostic level of a run.
type Verbosity int

const (
	// Quiet logs nothing.
	Quiet Verbosity = iota + 1
	// Debug logs every record and the failure that ends a run.
	Debug
)

func (v Verbosity) String() string {
	switch v {
	case Quiet:
		return "quiet"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("verbosity(%d)", int(v))
	}
}

// ParseVerbosity accepts "quiet" and "debug".
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiet":
		return Quiet, nil
	case "debug":
		return Debug, nil
	}
	return 0, fmt.Errorf("%w: verbosity %q", ErrInvalidConfig, s)
}

// StepPolicy decides what happens when appended steps of one variable
// have different extents.
type StepPolicy int

const (
	// PadSteps grows the dataset to the largest step seen, zero-fills the
	// unused part of smaller steps and records every step's true extents
	// in the step_extents attribute.
	PadSteps StepPolicy = iota + 1
	// RejectRaggedSteps fails the run with ErrExtendFailure.
	RejectRaggedSteps
)

func (p StepPolicy) String() string {
	switch p {
	case PadSteps:
		return "pad"
	case RejectRaggedSteps:
		return "reject"
	default:
		return fmt.Sprintf("steps(%d)", int(p))
	}
}

// ParseStepPolicy accepts "pad" and "reject".
func ParseStepPolicy(s string) (StepPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pad":
		return PadSteps, nil
	case "reject":
		return RejectRaggedSteps, nil
	}
	return 0, fmt.Errorf("%w: step policy %q", ErrInvalidConfig, s)
}

// Buffer limits.
const (
	// DefaultReadBufferSize is used when Config.ReadBufferSize is 0.
	DefaultReadBufferSize = utils.DefaultBufferSize
	// MaxReadBufferSize is the largest accepted read buffer.
	MaxReadBufferSize = utils.MaxReadBufferSize
)

// Config holds the conventions of one run.
type Config struct {
	ArrayLayout        ArrayLayout
	DatasetAttrStrings AttrConvention
	GroupAttrStrings   AttrConvention
	Scalars            ScalarRepresentation
	// ReadBufferSize is the source read buffer size in bytes; 0 selects
	// DefaultReadBufferSize.
	ReadBufferSize int
	Verbosity      Verbosity
	StepPolicy     StepPolicy
}

// DefaultConfig returns row-major arrays, native string attributes, true
// scalars, the default buffer, quiet output and padded steps.
func DefaultConfig() Config {
	return Config{
		ArrayLayout:        RowMajor,
		DatasetAttrStrings: AttrNative,
		GroupAttrStrings:   AttrNative,
		Scalars:            TrueScalar,
		Verbosity:          Quiet,
		StepPolicy:         PadSteps,
	}
}

// Validate checks every enumerated field.
func (c Config) Validate() error {
	switch {
	case c.ArrayLayout != RowMajor && c.ArrayLayout != ColumnMajor:
		return fmt.Errorf("%w: array layout %s", ErrInvalidConfig, c.ArrayLayout)
	case c.DatasetAttrStrings != AttrNative && c.DatasetAttrStrings != AttrColumnMajor:
		return fmt.Errorf("%w: dataset attribute strings %s", ErrInvalidConfig, c.DatasetAttrStrings)
	case c.GroupAttrStrings != AttrNative && c.GroupAttrStrings != AttrColumnMajor:
		return fmt.Errorf("%w: group attribute strings %s", ErrInvalidConfig, c.GroupAttrStrings)
	case c.Scalars != TrueScalar && c.Scalars != SingleElementArray:
		return fmt.Errorf("%w: scalars %s", ErrInvalidConfig, c.Scalars)
	case c.Verbosity != Quiet && c.Verbosity != Debug:
		return fmt.Errorf("%w: verbosity %s", ErrInvalidConfig, c.Verbosity)
	case c.StepPolicy != PadSteps && c.StepPolicy != RejectRaggedSteps:
		return fmt.Errorf("%w: step policy %s", ErrInvalidConfig, c.StepPolicy)
	case c.ReadBufferSize < 0:
		return fmt.Errorf("%w: negative read buffer size %d", ErrInvalidConfig, c.ReadBufferSize)
	}
	return nil
}

// Store holds the configuration of one run. Create one per run with
// NewStore and call Initialize exactly once.
type Store struct {
	mu          sync.Mutex
	initialized bool
	cfg         Config
	strategy    Strategy
	buf         []byte
}

// NewStore returns an uninitialized store.
func NewStore() *Store {
	return &Store{}
}

// Initialize validates cfg, records it, builds the convention strategy and
// allocates the read buffer. A store can be initialized once; a failed
// Initialize leaves it uninitialized.
func (s *Store) Initialize(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return &ConfigError{Op: "initialize", Err: ErrAlreadyInitialized}
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Op: "initialize", Err: err}
	}

	size := cfg.ReadBufferSize
	if size == 0 {
		size = DefaultReadBufferSize
	}
	if err := utils.ValidateBufferSize(uint64(size), MaxReadBufferSize, "read buffer"); err != nil {
		return &ConfigError{Op: "initialize", Err: fmt.Errorf("%w: %v", ErrBufferAllocation, err)}
	}

	s.cfg = cfg
	s.cfg.ReadBufferSize = size
	s.strategy = NewStrategy(cfg)
	s.buf = utils.GetBuffer(size)
	s.initialized = true
	return nil
}

// Initialized reports whether Initialize succeeded.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Config returns the recorded configuration. ReadBufferSize holds the
// effective size.
func (s *Store) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Strategy returns the convention strategy built from the configuration.
func (s *Store) Strategy() Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy
}

// ReadBuffer returns the source read buffer, or nil before Initialize and
// after Release.
func (s *Store) ReadBuffer() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf
}

// Release returns the read buffer to the pool. The configuration stays
// readable.
func (s *Store) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	utils.ReleaseBuffer(s.buf)
	s.buf = nil
}
