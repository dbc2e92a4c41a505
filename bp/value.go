package bp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Value is a typed payload. The set of implementations is closed: one
// slice type per supported ScalarType. A scalar is a Value of length 1.
type Value interface {
	// Type returns the BP type tag of the elements.
	Type() ScalarType
	// Len returns the number of elements.
	Len() int

	isValue()
}

// Value variants.
type (
	Int8s       []int8
	Int16s      []int16
	Int32s      []int32
	Int64s      []int64
	Uint8s      []uint8
	Uint16s     []uint16
	Uint32s     []uint32
	Uint64s     []uint64
	Float32s    []float32
	Float64s    []float64
	Complex64s  []complex64
	Complex128s []complex128
	Strings     []string
)

func (v Int8s) Type() ScalarType       { return Byte }
func (v Int16s) Type() ScalarType      { return Short }
func (v Int32s) Type() ScalarType      { return Integer }
func (v Int64s) Type() ScalarType      { return Long }
func (v Uint8s) Type() ScalarType      { return UnsignedByte }
func (v Uint16s) Type() ScalarType     { return UnsignedShort }
func (v Uint32s) Type() ScalarType     { return UnsignedInteger }
func (v Uint64s) Type() ScalarType     { return UnsignedLong }
func (v Float32s) Type() ScalarType    { return Real }
func (v Float64s) Type() ScalarType    { return Double }
func (v Complex64s) Type() ScalarType  { return Complex }
func (v Complex128s) Type() ScalarType { return DoubleComplex }
func (v Strings) Type() ScalarType     { return String }

func (v Int8s) Len() int       { return len(v) }
func (v Int16s) Len() int      { return len(v) }
func (v Int32s) Len() int      { return len(v) }
func (v Int64s) Len() int      { return len(v) }
func (v Uint8s) Len() int      { return len(v) }
func (v Uint16s) Len() int     { return len(v) }
func (v Uint32s) Len() int     { return len(v) }
func (v Uint64s) Len() int     { return len(v) }
func (v Float32s) Len() int    { return len(v) }
func (v Float64s) Len() int    { return len(v) }
func (v Complex64s) Len() int  { return len(v) }
func (v Complex128s) Len() int { return len(v) }
func (v Strings) Len() int     { return len(v) }

func (Int8s) isValue()       {}
func (Int16s) isValue()      {}
func (Int32s) isValue()      {}
func (Int64s) isValue()      {}
func (Uint8s) isValue()      {}
func (Uint16s) isValue()     {}
func (Uint32s) isValue()     {}
func (Uint64s) isValue()     {}
func (Float32s) isValue()    {}
func (Float64s) isValue()    {}
func (Complex64s) isValue()  {}
func (Complex128s) isValue() {}
func (Strings) isValue()     {}

// ErrNoValueType is returned for type tags that no Value variant carries.
var ErrNoValueType = errors.New("no value representation for type")

// Zero returns a zero-filled Value of n elements of type t.
func Zero(t ScalarType, n int) (Value, error) {
	switch t {
	case Byte:
		return make(Int8s, n), nil
	case Short:
		return make(Int16s, n), nil
	case Integer:
		return make(Int32s, n), nil
	case Long:
		return make(Int64s, n), nil
	case UnsignedByte:
		return make(Uint8s, n), nil
	case UnsignedShort:
		return make(Uint16s, n), nil
	case UnsignedInteger:
		return make(Uint32s, n), nil
	case UnsignedLong:
		return make(Uint64s, n), nil
	case Real:
		return make(Float32s, n), nil
	case Double:
		return make(Float64s, n), nil
	case Complex:
		return make(Complex64s, n), nil
	case DoubleComplex:
		return make(Complex128s, n), nil
	case String:
		return make(Strings, n), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoValueType, t)
	}
}

// DecodeValue decodes raw element bytes of type t. The length of raw must
// be a multiple of the element size. Strings are not fixed-size and cannot
// be decoded from raw bytes.
func DecodeValue(t ScalarType, raw []byte, order binary.ByteOrder) (Value, error) {
	size := t.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: %s has no fixed element size", ErrNoValueType, t)
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("payload of %d bytes is not a multiple of %s element size %d", len(raw), t, size)
	}
	n := len(raw) / size

	switch t {
	case Byte:
		v := make(Int8s, n)
		for i := range v {
			v[i] = int8(raw[i])
		}
		return v, nil
	case UnsignedByte:
		v := make(Uint8s, n)
		copy(v, raw)
		return v, nil
	case Short:
		v := make(Int16s, n)
		for i := range v {
			v[i] = int16(order.Uint16(raw[i*2:]))
		}
		return v, nil
	case UnsignedShort:
		v := make(Uint16s, n)
		for i := range v {
			v[i] = order.Uint16(raw[i*2:])
		}
		return v, nil
	case Integer:
		v := make(Int32s, n)
		for i := range v {
			v[i] = int32(order.Uint32(raw[i*4:]))
		}
		return v, nil
	case UnsignedInteger:
		v := make(Uint32s, n)
		for i := range v {
			v[i] = order.Uint32(raw[i*4:])
		}
		return v, nil
	case Long:
		v := make(Int64s, n)
		for i := range v {
			v[i] = int64(order.Uint64(raw[i*8:]))
		}
		return v, nil
	case UnsignedLong:
		v := make(Uint64s, n)
		for i := range v {
			v[i] = order.Uint64(raw[i*8:])
		}
		return v, nil
	case Real:
		v := make(Float32s, n)
		for i := range v {
			v[i] = math.Float32frombits(order.Uint32(raw[i*4:]))
		}
		return v, nil
	case Double:
		v := make(Float64s, n)
		for i := range v {
			v[i] = math.Float64frombits(order.Uint64(raw[i*8:]))
		}
		return v, nil
	case Complex:
		v := make(Complex64s, n)
		for i := range v {
			re := math.Float32frombits(order.Uint32(raw[i*8:]))
			im := math.Float32frombits(order.Uint32(raw[i*8+4:]))
			v[i] = complex(re, im)
		}
		return v, nil
	case DoubleComplex:
		v := make(Complex128s, n)
		for i := range v {
			re := math.Float64frombits(order.Uint64(raw[i*16:]))
			im := math.Float64frombits(order.Uint64(raw[i*16+8:]))
			v[i] = complex(re, im)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoValueType, t)
	}
}

// EncodeValue encodes a fixed-size Value into raw element bytes.
func EncodeValue(v Value, order binary.ByteOrder) ([]byte, error) {
	size := v.Type().Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: %s has no fixed element size", ErrNoValueType, v.Type())
	}
	buf := make([]byte, v.Len()*size)

	switch v := v.(type) {
	case Int8s:
		for i, x := range v {
			buf[i] = byte(x)
		}
	case Uint8s:
		copy(buf, v)
	case Int16s:
		for i, x := range v {
			order.PutUint16(buf[i*2:], uint16(x))
		}
	case Uint16s:
		for i, x := range v {
			order.PutUint16(buf[i*2:], x)
		}
	case Int32s:
		for i, x := range v {
			order.PutUint32(buf[i*4:], uint32(x))
		}
	case Uint32s:
		for i, x := range v {
			order.PutUint32(buf[i*4:], x)
		}
	case Int64s:
		for i, x := range v {
			order.PutUint64(buf[i*8:], uint64(x))
		}
	case Uint64s:
		for i, x := range v {
			order.PutUint64(buf[i*8:], x)
		}
	case Float32s:
		for i, x := range v {
			order.PutUint32(buf[i*4:], math.Float32bits(x))
		}
	case Float64s:
		for i, x := range v {
			order.PutUint64(buf[i*8:], math.Float64bits(x))
		}
	case Complex64s:
		for i, x := range v {
			order.PutUint32(buf[i*8:], math.Float32bits(real(x)))
			order.PutUint32(buf[i*8+4:], math.Float32bits(imag(x)))
		}
	case Complex128s:
		for i, x := range v {
			order.PutUint64(buf[i*16:], math.Float64bits(real(x)))
			order.PutUint64(buf[i*16+8:], math.Float64bits(imag(x)))
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoValueType, v.Type())
	}
	return buf, nil
}

// Elem returns element i of v as a Go scalar (int8, float64, string, ...).
func Elem(v Value, i int) any {
	switch v := v.(type) {
	case Int8s:
		return v[i]
	case Int16s:
		return v[i]
	case Int32s:
		return v[i]
	case Int64s:
		return v[i]
	case Uint8s:
		return v[i]
	case Uint16s:
		return v[i]
	case Uint32s:
		return v[i]
	case Uint64s:
		return v[i]
	case Float32s:
		return v[i]
	case Float64s:
		return v[i]
	case Complex64s:
		return v[i]
	case Complex128s:
		return v[i]
	case Strings:
		return v[i]
	default:
		return nil
	}
}
