package types

import (
	"fmt"

	"github.com/chaisql/borabora/internal/encoding"
	"github.com/cockroachdb/errors"
)

var (
	// ErrValueNotFound is returned by sequences and dictionaries
	// when the requested element doesn't exist.
	ErrValueNotFound = errors.New("value not found")
)

// TypeMismatchError is returned by value accessors called on a value
// of another type.
type TypeMismatchError struct {
	Expected encoding.ValueType
	Actual   encoding.ValueType
	Offset   int64
}

// Error returns the string representation of the error.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch at offset %d: expected %s, got %s", e.Offset, e.Expected, e.Actual)
}

// Simple is an unassigned CBOR simple value.
type Simple uint8

func (s Simple) String() string {
	return fmt.Sprintf("simple(%d)", uint8(s))
}

// A TagDecoder turns a semantic tag into a Go value.
type TagDecoder interface {
	// Handles reports whether the decoder can decode the tag at offset.
	Handles(in encoding.Input, offset int64) bool
	// Decode decodes the tag at offset. length is the length of the
	// whole tagged item. decoders is the registry the decoder belongs to,
	// for tags containing other tags.
	Decode(in encoding.Input, offset, length int64, decoders Decoders) (any, error)
}

// Decoders is an ordered registry of tag decoders.
// The first decoder handling a tag decodes it.
type Decoders []TagDecoder

// Decode decodes the tag at offset with the first decoder handling it.
// It returns nil if no decoder handles the tag.
func (d Decoders) Decode(in encoding.Input, offset, length int64) (any, error) {
	for _, dec := range d {
		if dec.Handles(in, offset) {
			return dec.Decode(in, offset, length, d)
		}
	}

	return nil, nil
}
