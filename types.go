package borabora

import (
	"github.com/chaisql/borabora/internal/builder"
	"github.com/chaisql/borabora/internal/encoding"
	"github.com/chaisql/borabora/internal/query"
	"github.com/chaisql/borabora/internal/tag"
	"github.com/chaisql/borabora/internal/types"
)

type (
	// Input is the random access source items are read from.
	Input = encoding.Input
	// Output is the destination items are written to.
	Output = encoding.Output
	// BufferOutput is an Output growing as needed.
	BufferOutput = encoding.BufferOutput

	// Value is a lazy handle on an encoded item.
	Value = types.Value
	// Sequence is a lazy view of an encoded sequence.
	Sequence = types.Sequence
	// Dictionary is a lazy view of an encoded dictionary.
	Dictionary = types.Dictionary
	// TypeMismatchError is returned by accessors called on a value of another type.
	TypeMismatchError = types.TypeMismatchError

	// Step is a navigation step of a query.
	Step = query.Step
	// Plan is a compiled query.
	Plan = query.Plan
	// KeyPredicate selects dictionary entries by their key.
	KeyPredicate = query.KeyPredicate

	// Half is a float32 written as a half precision float.
	Half = builder.Half
	// Timestamp is a number of seconds since the Unix epoch, written as tag 1.
	Timestamp = tag.Timestamp
	// EncodedCBOR is an encoded item, embedded as tag 24.
	EncodedCBOR = tag.EncodedCBOR
)

// Errors.
var (
	ErrValueNotFound    = types.ErrValueNotFound
	ErrMalformed        = encoding.ErrMalformed
	ErrNoSuchByte       = encoding.ErrNoSuchByte
	ErrOutputOverflow   = encoding.ErrOutputOverflow
	ErrTooManyElements  = builder.ErrTooManyElements
	ErrMissingElements  = builder.ErrMissingElements
	ErrEntryKeyNotSet   = builder.ErrEntryKeyNotSet
	ErrEntryValueNotSet = builder.ErrEntryValueNotSet
	ErrEntryComplete    = builder.ErrEntryComplete
	ErrUnsupportedValue = builder.ErrUnsupportedValue
	ErrNonASCII         = builder.ErrNonASCII
	ErrInvalidText      = builder.ErrInvalidText
	ErrChildOpen        = builder.ErrChildOpen
	ErrBuilderClosed    = builder.ErrBuilderClosed
)

// NewInput returns an input reading b.
func NewInput(b []byte) Input {
	return encoding.NewByteArrayInput(b)
}

// NewOutput returns an output growing as needed, with an initial capacity.
// Its Bytes method returns what was written.
func NewOutput(capacity int) *BufferOutput {
	return encoding.NewBufferOutput(capacity)
}

// Root moves to the first item of the input.
func Root() Step { return query.Root() }

// Self stays on the current item.
func Self() Step { return query.Self() }

// Index moves to the element n of a sequence.
func Index(n int64) Step { return query.Index(n) }

// Key moves to the value of the first dictionary entry whose key equals literal.
func Key(literal any) Step { return query.Key(literal) }

// KeyFunc moves to the value of the first dictionary entry
// whose decoded key satisfies fn.
func KeyFunc(name string, fn func(key any) bool) Step { return query.KeyFunc(name, fn) }

// KeyCEL moves to the value of the first dictionary entry whose key
// satisfies the CEL expression, in which the key is named key.
func KeyCEL(expr string) (Step, error) { return query.KeyCEL(expr) }

// Unwrap moves to the content of a semantic tag.
func Unwrap() Step { return query.Unwrap() }

// UnwrapTag moves to the content of the semantic tag id.
func UnwrapTag(id uint64) Step { return query.UnwrapTag(id) }

// Pipe chains steps.
func Pipe(steps ...Step) Step { return query.Pipe(steps...) }
