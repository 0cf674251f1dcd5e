package encoding

import "github.com/cockroachdb/errors"

// Input is a random access, read-only source of bytes.
type Input interface {
	// Read returns the byte at offset, or an error wrapping ErrNoSuchByte
	// if offset is outside of the available data.
	Read(offset int64) (byte, error)
	// OffsetValid reports whether Read would succeed at offset.
	OffsetValid(offset int64) bool
}

// Output is a random access, write-only sink of bytes.
// Growth policy belongs to the implementation: EnsureCapacity
// returns false when length bytes starting at offset cannot be written.
type Output interface {
	Write(offset int64, value byte)
	EnsureCapacity(offset, length int64) bool
}

// slicer is implemented by inputs able to expose a window of their bytes
// without copying them one by one.
type slicer interface {
	Slice(offset, length int64) ([]byte, error)
}

// ReadBytes copies length bytes starting at offset.
func ReadBytes(in Input, offset, length int64) ([]byte, error) {
	if length < 0 {
		return nil, errors.Errorf("invalid length %d", length)
	}

	if s, ok := in.(slicer); ok {
		b, err := s.Slice(offset, length)
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), b...), nil
	}

	buf := make([]byte, length)
	for i := range buf {
		b, err := in.Read(offset + int64(i))
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}

	return buf, nil
}

// DefaultMaxNestedLevels is the number of nested containers and tags
// accepted when scanning an item of an input without its own limit.
const DefaultMaxNestedLevels = 1024

// WithMaxNestedLevels returns in with a limit of n nested containers and
// tags. A non positive n restores DefaultMaxNestedLevels.
func WithMaxNestedLevels(in Input, n int) Input {
	if l, ok := in.(*limitedInput); ok {
		in = l.Input
	}
	if n <= 0 {
		return in
	}
	return &limitedInput{Input: in, levels: n}
}

// MaxNestedLevelsOf returns the nesting limit of in.
func MaxNestedLevelsOf(in Input) int {
	if l, ok := in.(*limitedInput); ok {
		return l.levels
	}
	return DefaultMaxNestedLevels
}

type limitedInput struct {
	Input
	levels int
}

func (l *limitedInput) Slice(offset, length int64) ([]byte, error) {
	if s, ok := l.Input.(slicer); ok {
		return s.Slice(offset, length)
	}
	return ReadBytes(l.Input, offset, length)
}

// ByteArrayInput is an Input reading from a byte slice.
type ByteArrayInput struct {
	data []byte
}

// NewByteArrayInput returns an input reading from b.
// b must not be modified while the input is in use.
func NewByteArrayInput(b []byte) *ByteArrayInput {
	return &ByteArrayInput{data: b}
}

func (in *ByteArrayInput) Read(offset int64) (byte, error) {
	if offset < 0 || offset >= int64(len(in.data)) {
		return 0, noSuchByte(offset)
	}

	return in.data[offset], nil
}

func (in *ByteArrayInput) OffsetValid(offset int64) bool {
	return offset >= 0 && offset < int64(len(in.data))
}

// Slice returns the bytes in [offset, offset+length) without copying them.
func (in *ByteArrayInput) Slice(offset, length int64) ([]byte, error) {
	if offset < 0 || offset > int64(len(in.data)) {
		return nil, noSuchByte(offset)
	}
	if length > int64(len(in.data))-offset {
		return nil, noSuchByte(offset + length - 1)
	}

	return in.data[offset : offset+length], nil
}

// Len returns the number of readable bytes.
func (in *ByteArrayInput) Len() int64 {
	return int64(len(in.data))
}

// ByteArrayOutput is an Output writing into a fixed size byte slice.
type ByteArrayOutput struct {
	data []byte
}

// NewByteArrayOutput returns an output writing into b. It never grows.
func NewByteArrayOutput(b []byte) *ByteArrayOutput {
	return &ByteArrayOutput{data: b}
}

func (out *ByteArrayOutput) Write(offset int64, value byte) {
	out.data[offset] = value
}

func (out *ByteArrayOutput) EnsureCapacity(offset, length int64) bool {
	return offset >= 0 && offset+length <= int64(len(out.data))
}

// Bytes returns the underlying slice.
func (out *ByteArrayOutput) Bytes() []byte {
	return out.data
}

// BufferOutput is an Output that grows on demand.
type BufferOutput struct {
	data []byte
	size int64
}

// NewBufferOutput returns a growable output with the given initial capacity.
func NewBufferOutput(capacity int) *BufferOutput {
	return &BufferOutput{data: make([]byte, capacity)}
}

func (out *BufferOutput) Write(offset int64, value byte) {
	out.data[offset] = value
	if offset >= out.size {
		out.size = offset + 1
	}
}

func (out *BufferOutput) EnsureCapacity(offset, length int64) bool {
	if offset < 0 {
		return false
	}

	need := offset + length
	if need <= int64(len(out.data)) {
		return true
	}

	c := int64(len(out.data)) * 2
	if c < need {
		c = need
	}
	grown := make([]byte, c)
	copy(grown, out.data)
	out.data = grown
	return true
}

// Bytes returns the bytes written so far.
func (out *BufferOutput) Bytes() []byte {
	return out.data[:out.size]
}
