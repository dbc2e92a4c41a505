package bp2h5

import (
	"errors"
	"fmt"

	"github.com/mammefen/bp2h5/bp"
)

// Sentinel errors. Match them with errors.Is.
var (
	ErrAlreadyInitialized = errors.New("configuration store already initialized")
	ErrBufferAllocation   = errors.New("read buffer allocation failed")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrNotInitialized     = errors.New("configuration store not initialized")
	ErrUnsupportedType    = errors.New("unsupported element type")
	ErrPathKindConflict   = errors.New("path segment is a dataset, not a group")
	ErrMissingOwner       = errors.New("attribute owner does not exist")
	ErrDuplicatePath      = errors.New("path already written")
	ErrIOFailure          = errors.New("target write failed")
	ErrExtendFailure      = errors.New("dataset cannot be extended")
	ErrInvalidRecord      = errors.New("invalid record")
	ErrConverterUsed      = errors.New("converter already ran")
)

// ConfigError reports a failed configuration store operation.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("bp2h5: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// WriteError reports a failed operation on the output. Err matches
// ErrIOFailure or ErrExtendFailure as well as the underlying cause.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func ioFailure(op, path string, cause error) error {
	return &WriteError{Op: op, Path: path, Err: errors.Join(ErrIOFailure, cause)}
}

func extendFailure(op, path string, cause error) error {
	return &WriteError{Op: op, Path: path, Err: errors.Join(ErrExtendFailure, cause)}
}

// ConversionError reports the record that aborted a run. Index is -1 when
// the failure is not tied to a record (opening the source or the output,
// closing the output).
type ConversionError struct {
	Index int
	Kind  bp.Kind
	Path  string
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("bp2h5: %v", e.Err)
	}
	return fmt.Sprintf("bp2h5: record %d (%s %s): %v", e.Index, e.Kind, e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Status maps the result of a run to its status sentinel: 0 on success,
// -1 on any failure.
func Status(err error) int {
	if err != nil {
		return -1
	}
	return 0
}
