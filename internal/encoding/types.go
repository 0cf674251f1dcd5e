package encoding

import "fmt"

// Every CBOR item starts with a head byte.
// The 3 high bits hold the major type, the 5 low bits the additional information.
// Additional information below 24 is the argument itself,
// 24 to 27 announce 1, 2, 4 or 8 trailing argument bytes,
// 28 to 30 are reserved and 31 marks an indefinite length item
// (or the break marker when used with the float/special major type).
const (
	majorTypeMask      byte = 0xe0
	additionalInfoMask byte = 0x1f

	AdditionalInfo1Byte  byte = 24
	AdditionalInfo2Bytes byte = 25
	AdditionalInfo4Bytes byte = 26
	AdditionalInfo8Bytes byte = 27
	AdditionalInfoIndef  byte = 31

	FalseValue     byte = 0xf4
	TrueValue      byte = 0xf5
	NullValue      byte = 0xf6
	UndefinedValue byte = 0xf7
	HalfValue      byte = 0xf9
	FloatValue     byte = 0xfa
	DoubleValue    byte = 0xfb
	BreakValue     byte = 0xff
)

// Semantic tag identifiers with a built-in meaning.
const (
	TagDateTime    uint64 = 0
	TagTimestamp   uint64 = 1
	TagUBigNum     uint64 = 2
	TagNBigNum     uint64 = 3
	TagEncodedCBOR uint64 = 24
	TagURI         uint64 = 32
)

// MajorType is the top level kind of a CBOR item.
type MajorType uint8

// List of major types, in wire order.
const (
	UnsignedInteger MajorType = iota
	NegativeInteger
	ByteString
	TextString
	Sequence
	Dictionary
	SemanticTag
	FloatingPointOrSimple
)

// MajorTypeOf returns the major type encoded in a head byte.
func MajorTypeOf(head byte) MajorType {
	return MajorType((head & majorTypeMask) >> 5)
}

// AdditionalInfo returns the additional information of a head byte.
func AdditionalInfo(head byte) byte {
	return head & additionalInfoMask
}

func (t MajorType) head(info byte) byte {
	return byte(t)<<5 | info
}

func (t MajorType) String() string {
	switch t {
	case UnsignedInteger:
		return "unsigned integer"
	case NegativeInteger:
		return "negative integer"
	case ByteString:
		return "byte string"
	case TextString:
		return "text string"
	case Sequence:
		return "sequence"
	case Dictionary:
		return "dictionary"
	case SemanticTag:
		return "semantic tag"
	case FloatingPointOrSimple:
		return "float or simple"
	}

	panic(fmt.Sprintf("unsupported major type %d", uint8(t)))
}

// ValueType refines a major type.
// Numbers are split by kind and width, containers by definite
// or indefinite length and semantic tags by their tag identifier.
type ValueType uint8

// List of value types.
const (
	// Unknown denotes the absence of type
	Unknown ValueType = iota
	UInt
	NInt
	ByteStringValue
	TextStringValue
	SequenceValue
	IndefiniteSequenceValue
	DictionaryValue
	IndefiniteDictionaryValue
	Tag
	DateTime
	Timestamp
	UBigNum
	NBigNum
	EncodedCBOR
	URI
	Bool
	Null
	Undefined
	SimpleValue
	HalfFloat
	Float
	Double

	// Groups, only used when matching.
	Number
	String
)

func (t ValueType) String() string {
	switch t {
	case Unknown:
		return "unknown"
	case UInt:
		return "uint"
	case NInt:
		return "nint"
	case ByteStringValue:
		return "bytestring"
	case TextStringValue:
		return "textstring"
	case SequenceValue:
		return "sequence"
	case IndefiniteSequenceValue:
		return "indefinite sequence"
	case DictionaryValue:
		return "dictionary"
	case IndefiniteDictionaryValue:
		return "indefinite dictionary"
	case Tag:
		return "tag"
	case DateTime:
		return "datetime"
	case Timestamp:
		return "timestamp"
	case UBigNum:
		return "ubignum"
	case NBigNum:
		return "nbignum"
	case EncodedCBOR:
		return "encoded cbor"
	case URI:
		return "uri"
	case Bool:
		return "bool"
	case Null:
		return "null"
	case Undefined:
		return "undefined"
	case SimpleValue:
		return "simple"
	case HalfFloat:
		return "half float"
	case Float:
		return "float"
	case Double:
		return "double"
	case Number:
		return "number"
	case String:
		return "string"
	}

	panic(fmt.Sprintf("unsupported value type %d", uint8(t)))
}

// Matches reports whether t is other or belongs to the group other denotes.
// Sequences and dictionaries match regardless of their length encoding.
func (t ValueType) Matches(other ValueType) bool {
	if t == other {
		return true
	}

	switch other {
	case Number:
		return t.IsNumber()
	case String:
		return t == ByteStringValue || t == TextStringValue
	case SequenceValue:
		return t == IndefiniteSequenceValue
	case DictionaryValue:
		return t == IndefiniteDictionaryValue
	case Tag:
		return t.IsTag()
	}

	return false
}

// IsNumber returns true for integers, big numbers, floats and timestamps.
func (t ValueType) IsNumber() bool {
	switch t {
	case UInt, NInt, UBigNum, NBigNum, HalfFloat, Float, Double, Timestamp:
		return true
	}
	return false
}

// IsFloat returns true for half, single and double precision floats.
func (t ValueType) IsFloat() bool {
	return t == HalfFloat || t == Float || t == Double
}

// IsTag returns true if the value type is carried by a semantic tag.
func (t ValueType) IsTag() bool {
	switch t {
	case Tag, DateTime, Timestamp, UBigNum, NBigNum, EncodedCBOR, URI:
		return true
	}
	return false
}

// IsIndefinite returns true for indefinite length containers.
func (t ValueType) IsIndefinite() bool {
	return t == IndefiniteSequenceValue || t == IndefiniteDictionaryValue
}

// TagValueType maps a tag identifier to its value type.
// Unregistered identifiers map to Tag.
func TagValueType(id uint64) ValueType {
	switch id {
	case TagDateTime:
		return DateTime
	case TagTimestamp:
		return Timestamp
	case TagUBigNum:
		return UBigNum
	case TagNBigNum:
		return NBigNum
	case TagEncodedCBOR:
		return EncodedCBOR
	case TagURI:
		return URI
	}
	return Tag
}
