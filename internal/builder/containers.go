package builder

import (
	"github.com/chaisql/borabora/internal/encoding"
	"github.com/cockroachdb/errors"
)

// Encoder writes top level items. Any number of items may be written,
// one after the other.
type Encoder struct {
	ValueWriter
}

// NewEncoder returns an encoder writing to out from offset 0.
func NewEncoder(out encoding.Output, encoders Encoders) *Encoder {
	return &Encoder{ValueWriter{ec: NewContext(out, 0, encoders)}}
}

// Context returns the context shared by the encoder and its builders.
func (e *Encoder) Context() *Context { return e.ec }

// Offset returns the number of bytes written so far.
func (e *Encoder) Offset() int64 { return e.ec.offset }

// counter tracks the elements written into a container.
// A negative max means the container has no declared length.
type counter struct {
	max    int64
	count  int64
	closed bool
}

func (c *counter) take() error {
	if c.closed {
		return ErrBuilderClosed
	}
	if c.max >= 0 && c.count >= c.max {
		return errors.Wrapf(ErrTooManyElements, "%d declared", c.max)
	}

	c.count++
	return nil
}

func (c *counter) release() {
	c.count--
}

func (c *counter) end(ec *Context) error {
	if c.closed {
		return ErrBuilderClosed
	}

	if c.max >= 0 {
		if c.count != c.max {
			return errors.Wrapf(ErrMissingElements, "%d of %d written", c.count, c.max)
		}
	} else {
		err := ec.Encode(func(offset int64) (int64, error) {
			return encoding.PutBreak(ec.out, offset)
		})
		if err != nil {
			return err
		}
	}

	c.closed = true
	return nil
}

// SequenceBuilder writes the elements of a sequence.
type SequenceBuilder struct {
	ValueWriter
	elems counter
}

func newSequenceBuilder(ec *Context, n int64) *SequenceBuilder {
	b := SequenceBuilder{elems: counter{max: n}}
	b.ValueWriter = ValueWriter{ec: ec, slots: &b.elems}
	return &b
}

// Indefinite reports whether the sequence was opened without a length.
func (b *SequenceBuilder) Indefinite() bool { return b.elems.max < 0 }

// End closes the sequence. A sequence with a declared length must have
// received exactly that many elements; an indefinite one gets its break marker.
// The last nested builder must be closed first.
func (b *SequenceBuilder) End() error {
	if err := b.checkChild(); err != nil {
		return err
	}

	return b.elems.end(b.ec)
}

func (b *SequenceBuilder) isClosed() bool { return b.elems.closed }

// DictionaryBuilder writes the entries of a dictionary.
type DictionaryBuilder struct {
	ec    *Context
	elems counter
	entry *EntryBuilder
}

// Indefinite reports whether the dictionary was opened without a length.
func (b *DictionaryBuilder) Indefinite() bool { return b.elems.max < 0 }

// PutEntry opens the next entry. The previous entry must be complete.
func (b *DictionaryBuilder) PutEntry() (*EntryBuilder, error) {
	if err := b.checkEntry(); err != nil {
		return nil, err
	}
	if err := b.elems.take(); err != nil {
		return nil, err
	}

	e := EntryBuilder{}
	e.ValueWriter = ValueWriter{ec: b.ec, slots: &e}
	b.entry = &e
	return b.entry, nil
}

// Put writes an entry from a key and a value, with the same rules as PutValue.
func (b *DictionaryBuilder) Put(key, value any) error {
	e, err := b.PutEntry()
	if err != nil {
		return err
	}
	if err := e.PutValue(key); err != nil {
		return err
	}
	if err := e.PutValue(value); err != nil {
		return err
	}
	return e.End()
}

// End closes the dictionary. The last entry must be complete.
func (b *DictionaryBuilder) End() error {
	if err := b.checkEntry(); err != nil {
		return err
	}

	return b.elems.end(b.ec)
}

func (b *DictionaryBuilder) isClosed() bool { return b.elems.closed }

func (b *DictionaryBuilder) checkEntry() error {
	if b.entry == nil || b.entry.ended {
		return nil
	}

	return b.entry.check()
}

// EntryBuilder writes the key then the value of a dictionary entry.
type EntryBuilder struct {
	ValueWriter
	written int
	ended   bool
}

func (e *EntryBuilder) take() error {
	if e.ended {
		return ErrBuilderClosed
	}
	if e.written == 2 {
		return ErrEntryComplete
	}

	e.written++
	return nil
}

func (e *EntryBuilder) release() {
	e.written--
}

func (e *EntryBuilder) check() error {
	if err := e.checkChild(); err != nil {
		return err
	}

	switch e.written {
	case 0:
		return ErrEntryKeyNotSet
	case 1:
		return ErrEntryValueNotSet
	}
	return nil
}

// End closes the entry. Both the key and the value must have been
// written, and a nested builder opened for them closed.
func (e *EntryBuilder) End() error {
	if e.ended {
		return ErrBuilderClosed
	}
	if err := e.check(); err != nil {
		return err
	}

	e.ended = true
	return nil
}
