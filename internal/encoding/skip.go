package encoding

import (
	"math"

	"github.com/cockroachdb/errors"
)

// ErrStopIteration can be returned by an iteration callback to stop
// the iteration without failing it.
var ErrStopIteration = errors.New("stop iteration")

// ValueTypeOf returns the value type of the item at offset.
// Semantic tags are resolved to the value type of their identifier.
func ValueTypeOf(in Input, offset int64) (ValueType, error) {
	head, err := in.Read(offset)
	if err != nil {
		return Unknown, err
	}

	if _, err := HeadSize(in, offset); err != nil {
		return Unknown, err
	}

	info := AdditionalInfo(head)
	switch MajorTypeOf(head) {
	case UnsignedInteger:
		return UInt, nil
	case NegativeInteger:
		return NInt, nil
	case ByteString:
		return ByteStringValue, nil
	case TextString:
		return TextStringValue, nil
	case Sequence:
		if info == AdditionalInfoIndef {
			return IndefiniteSequenceValue, nil
		}
		return SequenceValue, nil
	case Dictionary:
		if info == AdditionalInfoIndef {
			return IndefiniteDictionaryValue, nil
		}
		return DictionaryValue, nil
	case SemanticTag:
		id, err := ReadArgument(in, offset)
		if err != nil {
			return Unknown, err
		}
		return TagValueType(id), nil
	}

	switch head {
	case FalseValue, TrueValue:
		return Bool, nil
	case NullValue:
		return Null, nil
	case UndefinedValue:
		return Undefined, nil
	case HalfValue:
		return HalfFloat, nil
	case FloatValue:
		return Float, nil
	case DoubleValue:
		return Double, nil
	case BreakValue:
		return Unknown, malformed(offset, "unexpected break marker")
	}

	return SimpleValue, nil
}

// ItemLength returns the total number of bytes of the item at offset:
// its head, its argument and its payload, nested items included.
// Indefinite length items are scanned up to their break marker.
// Items nested deeper than MaxNestedLevelsOf(in) are malformed.
func ItemLength(in Input, offset int64) (int64, error) {
	return itemLength(in, offset, MaxNestedLevelsOf(in))
}

// itemLength measures the item at offset, allowing levels more
// containers or tags below it.
func itemLength(in Input, offset int64, levels int) (int64, error) {
	head, err := in.Read(offset)
	if err != nil {
		return 0, err
	}

	hs, err := HeadSize(in, offset)
	if err != nil {
		return 0, err
	}

	indef := AdditionalInfo(head) == AdditionalInfoIndef

	switch t := MajorTypeOf(head); t {
	case UnsignedInteger, NegativeInteger:
		return hs, nil
	case FloatingPointOrSimple:
		if head == BreakValue {
			return 0, malformed(offset, "unexpected break marker")
		}
		return hs, nil
	case ByteString, TextString:
		if indef {
			return chunksLength(in, offset, t)
		}
		n, err := payloadLength(in, offset, hs)
		if err != nil {
			return 0, err
		}
		return hs + n, nil
	}

	if levels <= 0 {
		return 0, malformed(offset, "nesting deeper than %d levels", MaxNestedLevelsOf(in))
	}

	if MajorTypeOf(head) == SemanticTag {
		n, err := itemLength(in, offset+hs, levels-1)
		if err != nil {
			return 0, err
		}
		return hs + n, nil
	}

	// sequences and dictionaries
	items := int64(-1)
	if !indef {
		n, err := ReadArgument(in, offset)
		if err != nil {
			return 0, err
		}
		items, err = itemCount(offset, n, MajorTypeOf(head) == Dictionary)
		if err != nil {
			return 0, err
		}
	}

	end, err := skipItems(in, offset+hs, items, levels-1)
	if err != nil {
		return 0, err
	}
	return end - offset, nil
}

// ElementCount returns the number of elements of the sequence, or the
// number of entries of the dictionary, at offset.
// Indefinite length containers are scanned to count them.
func ElementCount(in Input, offset int64) (int64, error) {
	head, err := in.Read(offset)
	if err != nil {
		return 0, err
	}

	t := MajorTypeOf(head)
	if t != Sequence && t != Dictionary {
		return 0, malformed(offset, "%s has no elements", t)
	}

	if AdditionalInfo(head) != AdditionalInfoIndef {
		n, err := ReadArgument(in, offset)
		if err != nil {
			return 0, err
		}
		if n > math.MaxInt64/2 {
			return 0, malformed(offset, "element count %d too large", n)
		}
		return int64(n), nil
	}

	var count int64
	if t == Sequence {
		err = IterateSequence(in, offset, func(int64, int64) error {
			count++
			return nil
		})
	} else {
		err = IterateDictionary(in, offset, func(int64, int64) error {
			count++
			return nil
		})
	}
	return count, err
}

// IterateSequence calls fn with the index and the offset of every
// element of the sequence at offset. It stops at the first error
// returned by fn, ErrStopIteration stops it silently.
func IterateSequence(in Input, offset int64, fn func(i int64, elem int64) error) error {
	head, err := in.Read(offset)
	if err != nil {
		return err
	}
	if MajorTypeOf(head) != Sequence {
		return malformed(offset, "expected sequence, got %s", MajorTypeOf(head))
	}

	return iterateItems(in, offset, false, fn)
}

// IterateDictionary calls fn with the offsets of the key and the value
// of every entry of the dictionary at offset. It stops at the first error
// returned by fn, ErrStopIteration stops it silently.
func IterateDictionary(in Input, offset int64, fn func(key, value int64) error) error {
	head, err := in.Read(offset)
	if err != nil {
		return err
	}
	if MajorTypeOf(head) != Dictionary {
		return malformed(offset, "expected dictionary, got %s", MajorTypeOf(head))
	}

	var key int64
	return iterateItems(in, offset, true, func(i int64, off int64) error {
		if i%2 == 0 {
			key = off
			return nil
		}
		return fn(key, off)
	})
}

// iterateItems walks the items of a container. Dictionaries are
// walked as a flat list of keys and values.
func iterateItems(in Input, offset int64, dict bool, fn func(i int64, off int64) error) error {
	head, err := in.Read(offset)
	if err != nil {
		return err
	}
	hs, err := HeadSize(in, offset)
	if err != nil {
		return err
	}

	items := int64(-1)
	if AdditionalInfo(head) != AdditionalInfoIndef {
		n, err := ReadArgument(in, offset)
		if err != nil {
			return err
		}
		items, err = itemCount(offset, n, dict)
		if err != nil {
			return err
		}
	}

	pos := offset + hs
	for i := int64(0); items < 0 || i < items; i++ {
		if items < 0 {
			b, err := in.Read(pos)
			if err != nil {
				return err
			}
			if IsBreak(b) {
				if dict && i%2 == 1 {
					return malformed(pos, "dictionary entry without value")
				}
				return nil
			}
		}

		if !in.OffsetValid(pos) {
			return noSuchByte(pos)
		}

		err := fn(i, pos)
		if err != nil {
			if errors.Is(err, ErrStopIteration) {
				return nil
			}
			return err
		}

		n, err := ItemLength(in, pos)
		if err != nil {
			return err
		}
		pos += n
	}

	return nil
}

// IterateChunks calls fn with the offset and the length of the content
// of every chunk of the string at offset. A definite length string
// is made of a single chunk.
func IterateChunks(in Input, offset int64, fn func(content, length int64) error) error {
	head, err := in.Read(offset)
	if err != nil {
		return err
	}

	t := MajorTypeOf(head)
	if t != ByteString && t != TextString {
		return malformed(offset, "expected string, got %s", t)
	}

	if AdditionalInfo(head) != AdditionalInfoIndef {
		hs, n, err := stringContent(in, offset)
		if err != nil {
			return err
		}
		if err := fn(offset+hs, n); err != nil && !errors.Is(err, ErrStopIteration) {
			return err
		}
		return nil
	}

	pos := offset + 1
	for {
		b, err := in.Read(pos)
		if err != nil {
			return err
		}
		if IsBreak(b) {
			return nil
		}
		if err := checkChunk(pos, b, t); err != nil {
			return err
		}

		hs, n, err := stringContent(in, pos)
		if err != nil {
			return err
		}
		if err := fn(pos+hs, n); err != nil {
			if errors.Is(err, ErrStopIteration) {
				return nil
			}
			return err
		}
		pos += hs + n
	}
}

// StringContent returns the offset and the length of the content of
// the definite length string at offset.
func StringContent(in Input, offset int64) (content int64, length int64, err error) {
	head, err := in.Read(offset)
	if err != nil {
		return 0, 0, err
	}
	t := MajorTypeOf(head)
	if t != ByteString && t != TextString {
		return 0, 0, malformed(offset, "expected string, got %s", t)
	}
	if AdditionalInfo(head) == AdditionalInfoIndef {
		return 0, 0, malformed(offset, "expected definite length string")
	}

	hs, n, err := stringContent(in, offset)
	if err != nil {
		return 0, 0, err
	}
	return offset + hs, n, nil
}

func stringContent(in Input, offset int64) (int64, int64, error) {
	hs, err := HeadSize(in, offset)
	if err != nil {
		return 0, 0, err
	}
	n, err := payloadLength(in, offset, hs)
	if err != nil {
		return 0, 0, err
	}
	return hs, n, nil
}

// payloadLength reads the length argument of a definite string
// and makes sure that many bytes are available.
func payloadLength(in Input, offset, hs int64) (int64, error) {
	n, err := ReadArgument(in, offset)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64-uint64(offset+hs) {
		return 0, malformed(offset, "length %d too large", n)
	}
	if n > 0 && !in.OffsetValid(offset+hs+int64(n)-1) {
		return 0, noSuchByte(offset + hs + int64(n) - 1)
	}
	return int64(n), nil
}

func chunksLength(in Input, offset int64, t MajorType) (int64, error) {
	pos := offset + 1
	for {
		b, err := in.Read(pos)
		if err != nil {
			return 0, err
		}
		if IsBreak(b) {
			return pos + 1 - offset, nil
		}
		if err := checkChunk(pos, b, t); err != nil {
			return 0, err
		}

		hs, n, err := stringContent(in, pos)
		if err != nil {
			return 0, err
		}
		pos += hs + n
	}
}

// chunks of an indefinite string must be definite strings of the same major type.
func checkChunk(offset int64, head byte, t MajorType) error {
	if MajorTypeOf(head) != t {
		return malformed(offset, "chunk of %s cannot be a %s", t, MajorTypeOf(head))
	}
	if AdditionalInfo(head) == AdditionalInfoIndef {
		return malformed(offset, "nested indefinite length chunk")
	}
	return nil
}

// skipItems skips n items starting at offset and returns the offset
// following them. A negative n skips items up to a break marker,
// which is skipped as well.
func skipItems(in Input, offset int64, n int64, levels int) (int64, error) {
	pos := offset
	for i := int64(0); n < 0 || i < n; i++ {
		if n < 0 {
			b, err := in.Read(pos)
			if err != nil {
				return 0, err
			}
			if IsBreak(b) {
				return pos + 1, nil
			}
		}

		l, err := itemLength(in, pos, levels)
		if err != nil {
			return 0, err
		}
		pos += l
	}

	return pos, nil
}

func itemCount(offset int64, n uint64, dict bool) (int64, error) {
	if n > math.MaxInt64/2 {
		return 0, malformed(offset, "element count %d too large", n)
	}
	if dict {
		return int64(n) * 2, nil
	}
	return int64(n), nil
}

// ReadRaw returns a copy of the bytes of the whole item at offset.
func ReadRaw(in Input, offset int64) ([]byte, error) {
	n, err := ItemLength(in, offset)
	if err != nil {
		return nil, err
	}
	return ReadBytes(in, offset, n)
}
