// Package builder writes CBOR items forward into an output.
//
// A Context owns the output and the append offset. Builders for sequences,
// dictionaries, dictionary entries and indefinite strings all share the
// context of the writer that created them and advance the same offset,
// so only one builder may be written to at a time. Nothing is locked:
// concurrent use of builders sharing a context is undefined.
package builder

import (
	"github.com/chaisql/borabora/internal/encoding"
	"github.com/cockroachdb/errors"
)

// A TagEncoder writes Go values as semantic tags.
type TagEncoder interface {
	// Handles reports whether the encoder can write v.
	Handles(v any) bool
	// Encode writes v at offset and returns the offset following it.
	Encode(out encoding.Output, offset int64, v any) (int64, error)
}

// Encoders is an ordered registry of tag encoders.
// The first encoder handling a value writes it.
type Encoders []TagEncoder

// Lookup returns the first encoder handling v, or nil.
func (e Encoders) Lookup(v any) TagEncoder {
	for _, enc := range e {
		if enc.Handles(v) {
			return enc
		}
	}

	return nil
}

// Context is the state of an encoding session.
type Context struct {
	out      encoding.Output
	offset   int64
	encoders Encoders
}

// NewContext returns a context appending to out from offset.
func NewContext(out encoding.Output, offset int64, encoders Encoders) *Context {
	return &Context{
		out:      out,
		offset:   offset,
		encoders: encoders,
	}
}

// Encode calls fn with the current offset and moves the offset
// to the one fn returns. On error, the offset is left untouched.
func (c *Context) Encode(fn func(offset int64) (int64, error)) error {
	offset, err := fn(c.offset)
	if err != nil {
		return err
	}

	c.offset = offset
	return nil
}

// EncodeNull writes null.
func (c *Context) EncodeNull() error {
	return c.Encode(func(offset int64) (int64, error) {
		return encoding.PutNull(c.out, offset)
	})
}

// EncodeTag writes v with the first encoder handling it.
func (c *Context) EncodeTag(v any) error {
	enc := c.encoders.Lookup(v)
	if enc == nil {
		return errors.Wrapf(ErrUnsupportedValue, "no tag encoder for %T", v)
	}

	return c.Encode(func(offset int64) (int64, error) {
		return enc.Encode(c.out, offset, v)
	})
}

// Offset returns the offset the next item will be written at.
func (c *Context) Offset() int64 { return c.offset }

// Output returns the output of the context.
func (c *Context) Output() encoding.Output { return c.out }

// Encoders returns the tag encoders of the context.
func (c *Context) Encoders() Encoders { return c.encoders }
