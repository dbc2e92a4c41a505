package bp2h5

import (
	"fmt"

	"github.com/mammefen/bp2h5/bp"
	"github.com/mammefen/bp2h5/target"
)

// typeRegistry maps every supported source type to its target type.
// LongDouble has no portable target representation and is absent.
var typeRegistry = map[bp.ScalarType]target.Type{
	bp.Byte:            target.Int8,
	bp.Short:           target.Int16,
	bp.Integer:         target.Int32,
	bp.Long:            target.Int64,
	bp.UnsignedByte:    target.Uint8,
	bp.UnsignedShort:   target.Uint16,
	bp.UnsignedInteger: target.Uint32,
	bp.UnsignedLong:    target.Uint64,
	bp.Real:            target.Float32,
	bp.Double:          target.Float64,
	bp.String:          target.String,
	bp.Complex:         target.Complex64,
	bp.DoubleComplex:   target.Complex128,
}

// MapType returns the target element type for a source type tag. Types
// outside the supported set fail with ErrUnsupportedType.
func MapType(t bp.ScalarType) (target.Type, error) {
	tt, ok := typeRegistry[t]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return tt, nil
}

// checkPayload verifies that v is present and carries declared.
func checkPayload(declared bp.ScalarType, v bp.Value) error {
	if v == nil {
		return fmt.Errorf("%w: missing %s payload", ErrInvalidRecord, declared)
	}
	if v.Type() != declared {
		return fmt.Errorf("%w: declared %s, payload is %s", ErrInvalidRecord, declared, v.Type())
	}
	return nil
}
