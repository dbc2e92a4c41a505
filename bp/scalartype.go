// Package bp models the decoded contents of a BP container: scalar type
// tags, typed payload values, and the ordered records a decoder yields.
//
// The package does not parse BP files. A decoder (for example
// bp/ionstream) produces Records; the converter consumes them.
package bp

import "fmt"

// ScalarType is the element type tag of a BP variable or attribute.
// Numeric values follow the BP container's own numbering.
type ScalarType int

const (
	// Unknown is the tag of an undeclared or unreadable type.
	Unknown ScalarType = -1

	// Byte is an 8-bit signed integer.
	Byte ScalarType = 0
	// Short is a 16-bit signed integer.
	Short ScalarType = 1
	// Integer is a 32-bit signed integer.
	Integer ScalarType = 2
	// Long is a 64-bit signed integer.
	Long ScalarType = 4
	// Real is an IEEE 754 single precision float.
	Real ScalarType = 5
	// Double is an IEEE 754 double precision float.
	Double ScalarType = 6
	// LongDouble is an extended precision float. It has no portable
	// in-memory representation and cannot be carried by a Value.
	LongDouble ScalarType = 7
	// String is a character string.
	String ScalarType = 9
	// Complex is a pair of single precision floats.
	Complex ScalarType = 10
	// DoubleComplex is a pair of double precision floats.
	DoubleComplex ScalarType = 11

	// UnsignedByte is an 8-bit unsigned integer.
	UnsignedByte ScalarType = 50
	// UnsignedShort is a 16-bit unsigned integer.
	UnsignedShort ScalarType = 51
	// UnsignedInteger is a 32-bit unsigned integer.
	UnsignedInteger ScalarType = 52
	// UnsignedLong is a 64-bit unsigned integer.
	UnsignedLong ScalarType = 54
)

var scalarTypeNames = map[ScalarType]string{
	Unknown:         "unknown",
	Byte:            "byte",
	Short:           "short",
	Integer:         "integer",
	Long:            "long",
	Real:            "real",
	Double:          "double",
	LongDouble:      "long double",
	String:          "string",
	Complex:         "complex",
	DoubleComplex:   "double complex",
	UnsignedByte:    "unsigned byte",
	UnsignedShort:   "unsigned short",
	UnsignedInteger: "unsigned integer",
	UnsignedLong:    "unsigned long",
}

// String returns the BP name of the type.
func (t ScalarType) String() string {
	if name, ok := scalarTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Size returns the size in bytes of one element, or 0 for types without a
// fixed element size (String, LongDouble, Unknown).
func (t ScalarType) Size() int {
	switch t {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case Integer, UnsignedInteger, Real:
		return 4
	case Long, UnsignedLong, Double, Complex:
		return 8
	case DoubleComplex:
		return 16
	default:
		return 0
	}
}

// ScalarTypes lists every tag a Value can carry.
func ScalarTypes() []ScalarType {
	return []ScalarType{
		Byte, Short, Integer, Long,
		UnsignedByte, UnsignedShort, UnsignedInteger, UnsignedLong,
		Real, Double, String, Complex, DoubleComplex,
	}
}
