package encoding

import "math"

func ensure(out Output, offset, n int64) error {
	if !out.EnsureCapacity(offset, n) {
		return errorsWithOffset(ErrOutputOverflow, offset)
	}
	return nil
}

func writeByte(out Output, offset int64, b byte) (int64, error) {
	if err := ensure(out, offset, 1); err != nil {
		return 0, err
	}
	out.Write(offset, b)
	return offset + 1, nil
}

func write1(out Output, offset int64, code byte, n uint8) (int64, error) {
	if err := ensure(out, offset, 2); err != nil {
		return 0, err
	}
	out.Write(offset, code)
	out.Write(offset+1, n)
	return offset + 2, nil
}

func write2(out Output, offset int64, code byte, n uint16) (int64, error) {
	if err := ensure(out, offset, 3); err != nil {
		return 0, err
	}
	out.Write(offset, code)
	out.Write(offset+1, byte(n>>8))
	out.Write(offset+2, byte(n))
	return offset + 3, nil
}

func write4(out Output, offset int64, code byte, n uint32) (int64, error) {
	if err := ensure(out, offset, 5); err != nil {
		return 0, err
	}
	out.Write(offset, code)
	out.Write(offset+1, byte(n>>24))
	out.Write(offset+2, byte(n>>16))
	out.Write(offset+3, byte(n>>8))
	out.Write(offset+4, byte(n))
	return offset + 5, nil
}

func write8(out Output, offset int64, code byte, n uint64) (int64, error) {
	if err := ensure(out, offset, 9); err != nil {
		return 0, err
	}
	out.Write(offset, code)
	for i := int64(0); i < 8; i++ {
		out.Write(offset+1+i, byte(n>>(56-8*i)))
	}
	return offset + 9, nil
}

func writeBytes(out Output, offset int64, b []byte) (int64, error) {
	if err := ensure(out, offset, int64(len(b))); err != nil {
		return 0, err
	}
	for i, c := range b {
		out.Write(offset+int64(i), c)
	}
	return offset + int64(len(b)), nil
}

// PutHead writes a head byte for the major type followed by the
// shortest argument encoding of arg.
func PutHead(out Output, offset int64, t MajorType, arg uint64) (int64, error) {
	switch {
	case arg < uint64(AdditionalInfo1Byte):
		return writeByte(out, offset, t.head(byte(arg)))
	case arg <= math.MaxUint8:
		return write1(out, offset, t.head(AdditionalInfo1Byte), uint8(arg))
	case arg <= math.MaxUint16:
		return write2(out, offset, t.head(AdditionalInfo2Bytes), uint16(arg))
	case arg <= math.MaxUint32:
		return write4(out, offset, t.head(AdditionalInfo4Bytes), uint32(arg))
	}
	return write8(out, offset, t.head(AdditionalInfo8Bytes), arg)
}

// PutIndefinite writes the head of an indefinite length item.
// Only strings, sequences and dictionaries can be indefinite.
func PutIndefinite(out Output, offset int64, t MajorType) (int64, error) {
	switch t {
	case ByteString, TextString, Sequence, Dictionary:
		return writeByte(out, offset, t.head(AdditionalInfoIndef))
	}
	return 0, malformed(offset, "indefinite length not allowed for %s", t)
}

// EncodeLengthAndValue writes the head of a container or string of the given length.
// A length of -1 writes an indefinite length head.
func EncodeLengthAndValue(out Output, offset int64, t MajorType, length int64) (int64, error) {
	if length == -1 {
		return PutIndefinite(out, offset, t)
	}
	if length < -1 {
		return 0, malformed(offset, "invalid length %d", length)
	}
	return PutHead(out, offset, t, uint64(length))
}

// PutBreak writes the break marker closing an indefinite length item.
func PutBreak(out Output, offset int64) (int64, error) {
	return writeByte(out, offset, BreakValue)
}

func readUint(in Input, offset int64, n int) (uint64, error) {
	var x uint64
	for i := 0; i < n; i++ {
		b, err := in.Read(offset + int64(i))
		if err != nil {
			return 0, err
		}
		x = x<<8 | uint64(b)
	}
	return x, nil
}

// ReadUint8 reads the byte at offset.
func ReadUint8(in Input, offset int64) (uint8, error) {
	return in.Read(offset)
}

// ReadUint16 reads a big-endian uint16 at offset.
func ReadUint16(in Input, offset int64) (uint16, error) {
	x, err := readUint(in, offset, 2)
	return uint16(x), err
}

// ReadUint32 reads a big-endian uint32 at offset.
func ReadUint32(in Input, offset int64) (uint32, error) {
	x, err := readUint(in, offset, 4)
	return uint32(x), err
}

// ReadUint64 reads a big-endian uint64 at offset.
func ReadUint64(in Input, offset int64) (uint64, error) {
	return readUint(in, offset, 8)
}

// HeadSize returns the number of bytes used by the head of the item
// at offset: the head byte plus the argument bytes.
// Floats and simple values are entirely made of their head.
func HeadSize(in Input, offset int64) (int64, error) {
	head, err := in.Read(offset)
	if err != nil {
		return 0, err
	}

	info := AdditionalInfo(head)
	switch {
	case info < AdditionalInfo1Byte:
		return 1, nil
	case info <= AdditionalInfo8Bytes:
		// 1, 2, 4 or 8 argument bytes
		n := int64(1)<<(info-AdditionalInfo1Byte) + 1
		if !in.OffsetValid(offset + n - 1) {
			return 0, noSuchByte(offset + n - 1)
		}
		return n, nil
	case info == AdditionalInfoIndef:
		switch MajorTypeOf(head) {
		case ByteString, TextString, Sequence, Dictionary, FloatingPointOrSimple:
			return 1, nil
		}
		return 0, malformed(offset, "indefinite length not allowed for %s", MajorTypeOf(head))
	}

	return 0, malformed(offset, "reserved additional information %d", info)
}

// ReadArgument returns the argument of the item at offset:
// the integer value, the length of a string or container, the tag
// identifier or the raw bits of a float.
// Indefinite length items have no argument.
func ReadArgument(in Input, offset int64) (uint64, error) {
	head, err := in.Read(offset)
	if err != nil {
		return 0, err
	}

	info := AdditionalInfo(head)
	switch {
	case info < AdditionalInfo1Byte:
		return uint64(info), nil
	case info == AdditionalInfo1Byte:
		return readUint(in, offset+1, 1)
	case info == AdditionalInfo2Bytes:
		return readUint(in, offset+1, 2)
	case info == AdditionalInfo4Bytes:
		return readUint(in, offset+1, 4)
	case info == AdditionalInfo8Bytes:
		return readUint(in, offset+1, 8)
	case info == AdditionalInfoIndef:
		return 0, malformed(offset, "indefinite length item has no argument")
	}

	return 0, malformed(offset, "reserved additional information %d", info)
}

// IsNull reports whether a head byte encodes null.
func IsNull(head byte) bool {
	return head == NullValue
}

// IsBreak reports whether a head byte is the break marker.
func IsBreak(head byte) bool {
	return head == BreakValue
}
