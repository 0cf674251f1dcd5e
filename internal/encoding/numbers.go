package encoding

import (
	"math"
	"math/big"

	"golang.org/x/exp/constraints"
)

// PutUint writes x as an unsigned integer using the shortest encoding.
func PutUint(out Output, offset int64, x uint64) (int64, error) {
	return PutHead(out, offset, UnsignedInteger, x)
}

// PutInt writes x as an unsigned or negative integer
// using the shortest encoding.
func PutInt(out Output, offset int64, x int64) (int64, error) {
	if x >= 0 {
		return PutHead(out, offset, UnsignedInteger, uint64(x))
	}

	// -(n+1) is stored as n
	return PutHead(out, offset, NegativeInteger, uint64(^x))
}

// PutSigned writes any signed integer.
func PutSigned[T constraints.Signed](out Output, offset int64, x T) (int64, error) {
	return PutInt(out, offset, int64(x))
}

// PutUnsigned writes any unsigned integer.
func PutUnsigned[T constraints.Unsigned](out Output, offset int64, x T) (int64, error) {
	return PutUint(out, offset, uint64(x))
}

// PutBigInt writes x as an unsigned or negative big number:
// a tag 2 or 3 followed by a byte string holding the big-endian magnitude.
// Negative values store -1 - x.
func PutBigInt(out Output, offset int64, x *big.Int) (int64, error) {
	id := TagUBigNum
	mag := x
	if x.Sign() < 0 {
		id = TagNBigNum
		mag = new(big.Int).Not(x)
	}

	offset, err := PutHead(out, offset, SemanticTag, id)
	if err != nil {
		return 0, err
	}
	return PutByteString(out, offset, mag.Bytes())
}

// PutHalf writes f as a half precision float.
func PutHalf(out Output, offset int64, f float32) (int64, error) {
	return write2(out, offset, HalfValue, FloatToHalf(f))
}

// PutFloat32 writes f as a single precision float.
func PutFloat32(out Output, offset int64, f float32) (int64, error) {
	return write4(out, offset, FloatValue, math.Float32bits(f))
}

// PutFloat64 writes f as a double precision float.
func PutFloat64(out Output, offset int64, f float64) (int64, error) {
	return write8(out, offset, DoubleValue, math.Float64bits(f))
}

// PutBool writes true or false.
func PutBool(out Output, offset int64, x bool) (int64, error) {
	if x {
		return writeByte(out, offset, TrueValue)
	}

	return writeByte(out, offset, FalseValue)
}

// PutNull writes null.
func PutNull(out Output, offset int64) (int64, error) {
	return writeByte(out, offset, NullValue)
}

// PutUndefined writes undefined.
func PutUndefined(out Output, offset int64) (int64, error) {
	return writeByte(out, offset, UndefinedValue)
}

// ReadNumber decodes the integer or float at offset.
// Integers are returned as int64 when they fit, as uint64 when they
// are positive and don't, and as *big.Int otherwise.
// Half and single precision floats are returned as float32,
// double precision floats as float64.
func ReadNumber(in Input, offset int64) (any, error) {
	vt, err := ValueTypeOf(in, offset)
	if err != nil {
		return nil, err
	}

	switch vt {
	case UInt:
		n, err := ReadArgument(in, offset)
		if err != nil {
			return nil, err
		}
		if n > math.MaxInt64 {
			return n, nil
		}
		return int64(n), nil
	case NInt:
		n, err := ReadArgument(in, offset)
		if err != nil {
			return nil, err
		}
		if n > math.MaxInt64 {
			return new(big.Int).Not(new(big.Int).SetUint64(n)), nil
		}
		return ^int64(n), nil
	case HalfFloat:
		n, err := ReadArgument(in, offset)
		if err != nil {
			return nil, err
		}
		return HalfToFloat(uint16(n)), nil
	case Float:
		n, err := ReadArgument(in, offset)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(uint32(n)), nil
	case Double:
		n, err := ReadArgument(in, offset)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(n), nil
	}

	return nil, malformed(offset, "expected number, got %s", vt)
}

// ReadBigInt decodes the unsigned or negative big number at offset.
func ReadBigInt(in Input, offset int64) (*big.Int, error) {
	id, content, err := ReadTagHead(in, offset)
	if err != nil {
		return nil, err
	}
	if id != TagUBigNum && id != TagNBigNum {
		return nil, malformed(offset, "expected big number, got tag %d", id)
	}

	mag, err := ReadString(in, content)
	if err != nil {
		return nil, err
	}

	x := new(big.Int).SetBytes(mag)
	if id == TagNBigNum {
		x.Not(x)
	}
	return x, nil
}

// ReadBool decodes the boolean at offset.
func ReadBool(in Input, offset int64) (bool, error) {
	head, err := in.Read(offset)
	if err != nil {
		return false, err
	}

	switch head {
	case TrueValue:
		return true, nil
	case FalseValue:
		return false, nil
	}

	return false, malformed(offset, "expected bool, got head 0x%02x", head)
}
