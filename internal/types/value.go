package types

import (
	"github.com/chaisql/borabora/internal/encoding"
	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
)

// A Value is a lazy handle on an item of an input.
// It holds no data, only the position and the length of the item,
// and decodes it on demand. Values are immutable.
//
// Null is a valid value for every accessor: called on null,
// accessors return the zero value of their result and no error.
// Accessors called on semantic tags return what the tag decoders produce.
type Value struct {
	in       encoding.Input
	major    encoding.MajorType
	vt       encoding.ValueType
	offset   int64
	length   int64
	decoders Decoders
}

// NewValue returns a value for the item at offset.
func NewValue(in encoding.Input, offset int64, decoders Decoders) (*Value, error) {
	if offset < 0 {
		return nil, errors.Errorf("no item at offset %d", offset)
	}

	head, err := in.Read(offset)
	if err != nil {
		return nil, err
	}

	vt, err := encoding.ValueTypeOf(in, offset)
	if err != nil {
		return nil, err
	}

	length, err := encoding.ItemLength(in, offset)
	if err != nil {
		return nil, err
	}

	return &Value{
		in:       in,
		major:    encoding.MajorTypeOf(head),
		vt:       vt,
		offset:   offset,
		length:   length,
		decoders: decoders,
	}, nil
}

// MajorType returns the major type of the value.
func (v *Value) MajorType() encoding.MajorType { return v.major }

// Type returns the value type of the value.
func (v *Value) Type() encoding.ValueType { return v.vt }

// Offset returns the position of the value in its input.
func (v *Value) Offset() int64 { return v.offset }

// Len returns the number of bytes of the value.
func (v *Value) Len() int64 { return v.length }

// Input returns the input the value reads from.
func (v *Value) Input() encoding.Input { return v.in }

// Decoders returns the tag decoders of the value.
func (v *Value) Decoders() Decoders { return v.decoders }

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool {
	return v.vt == encoding.Null
}

func (v *Value) match(expected encoding.ValueType) error {
	if v.vt.Matches(expected) {
		return nil
	}

	return &TypeMismatchError{Expected: expected, Actual: v.vt, Offset: v.offset}
}

func (v *Value) tag() (any, error) {
	return v.decoders.Decode(v.in, v.offset, v.length)
}

// Tag returns the decoded semantic tag.
// Unknown tags decode to nil unless a decoder handles them.
func (v *Value) Tag() (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if err := v.match(encoding.Tag); err != nil {
		return nil, err
	}

	return v.tag()
}

// Number returns the number. See encoding.ReadNumber for the
// returned types. Big numbers and timestamps go through tag decoding.
func (v *Value) Number() (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if err := v.match(encoding.Number); err != nil {
		return nil, err
	}
	if v.major == encoding.SemanticTag {
		return v.tag()
	}

	return encoding.ReadNumber(v.in, v.offset)
}

// Sequence returns the sequence.
func (v *Value) Sequence() (*Sequence, error) {
	if v.IsNull() {
		return nil, nil
	}
	if err := v.match(encoding.SequenceValue); err != nil {
		return nil, err
	}

	return &Sequence{v: v}, nil
}

// Dictionary returns the dictionary.
func (v *Value) Dictionary() (*Dictionary, error) {
	if v.IsNull() {
		return nil, nil
	}
	if err := v.match(encoding.DictionaryValue); err != nil {
		return nil, err
	}

	return &Dictionary{v: v}, nil
}

// Text returns the content of the text or byte string.
// Chunks of indefinite length strings are concatenated.
func (v *Value) Text() (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if err := v.match(encoding.String); err != nil {
		return "", err
	}

	if v.vt == encoding.TextStringValue {
		return encoding.ReadText(v.in, v.offset)
	}

	b, err := encoding.ReadString(v.in, v.offset)
	return string(b), err
}

// ByteString returns the content of the byte string.
func (v *Value) ByteString() ([]byte, error) {
	if v.IsNull() {
		return nil, nil
	}
	if err := v.match(encoding.ByteStringValue); err != nil {
		return nil, err
	}

	return encoding.ReadString(v.in, v.offset)
}

// Bool returns the boolean.
func (v *Value) Bool() (bool, error) {
	if v.IsNull() {
		return false, nil
	}
	if err := v.match(encoding.Bool); err != nil {
		return false, err
	}

	return encoding.ReadBool(v.in, v.offset)
}

// Bytes returns a copy of the encoded bytes of the value.
func (v *Value) Bytes() ([]byte, error) {
	if v.IsNull() {
		return nil, nil
	}

	return encoding.ReadBytes(v.in, v.offset, v.length)
}

// Any decodes the value according to its type:
// numbers as Number does, text strings as string, byte strings as []byte,
// sequences as *Sequence, dictionaries as *Dictionary, booleans as bool,
// tags as their decoders produce and null and undefined as nil.
// Other simple values are returned as Simple.
func (v *Value) Any() (any, error) {
	switch {
	case v.vt == encoding.Null || v.vt == encoding.Undefined:
		return nil, nil
	case v.vt.IsTag():
		return v.tag()
	case v.vt.IsNumber():
		return v.Number()
	case v.vt == encoding.TextStringValue:
		return v.Text()
	case v.vt == encoding.ByteStringValue:
		return v.ByteString()
	case v.vt.Matches(encoding.SequenceValue):
		return v.Sequence()
	case v.vt.Matches(encoding.DictionaryValue):
		return v.Dictionary()
	case v.vt == encoding.Bool:
		return v.Bool()
	}

	n, err := encoding.ReadArgument(v.in, v.offset)
	if err != nil {
		return nil, err
	}
	return Simple(n), nil
}

// Diagnose returns the diagnostic notation of the value.
func (v *Value) Diagnose() (string, error) {
	b, err := encoding.ReadBytes(v.in, v.offset, v.length)
	if err != nil {
		return "", err
	}

	return cbor.Diagnose(b)
}

// String returns the diagnostic notation of the value.
func (v *Value) String() string {
	s, err := v.Diagnose()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}
