package types

import (
	"github.com/chaisql/borabora/internal/encoding"
	"github.com/chaisql/borabora/internal/query"
)

// A Sequence is a lazy view of an encoded sequence.
// Elements are located on each access by walking the encoded sequence,
// nothing is decoded ahead of time.
type Sequence struct {
	v *Value
}

// Len returns the number of elements.
// Indefinite length sequences are scanned to count them.
func (s *Sequence) Len() (int64, error) {
	return encoding.ElementCount(s.v.in, s.v.offset)
}

// Indefinite reports whether the sequence was encoded without a length.
func (s *Sequence) Indefinite() bool {
	return s.v.vt.IsIndefinite()
}

// Get returns the element at index i,
// or ErrValueNotFound if i is out of range.
func (s *Sequence) Get(i int64) (*Value, error) {
	return s.v.at(query.Index(i))
}

// Iterate calls fn for every element of the sequence.
// If fn returns an error, the iteration stops and returns it.
func (s *Sequence) Iterate(fn func(i int64, v *Value) error) error {
	return encoding.IterateSequence(s.v.in, s.v.offset, func(i, elem int64) error {
		v, err := NewValue(s.v.in, elem, s.v.decoders)
		if err != nil {
			return err
		}
		return fn(i, v)
	})
}

// A Dictionary is a lazy view of an encoded dictionary.
// Keys are compared against the encoded bytes on each lookup.
type Dictionary struct {
	v *Value
}

// Len returns the number of entries.
// Indefinite length dictionaries are scanned to count them.
func (d *Dictionary) Len() (int64, error) {
	return encoding.ElementCount(d.v.in, d.v.offset)
}

// Indefinite reports whether the dictionary was encoded without a length.
func (d *Dictionary) Indefinite() bool {
	return d.v.vt.IsIndefinite()
}

// Get returns the value of the first entry whose key equals the literal,
// or ErrValueNotFound.
func (d *Dictionary) Get(key any) (*Value, error) {
	return d.v.at(query.Key(key))
}

// Find returns the value of the first entry whose key matches p,
// or ErrValueNotFound.
func (d *Dictionary) Find(p query.KeyPredicate) (*Value, error) {
	return d.v.at(query.KeyMatching(p))
}

// Iterate calls fn for every entry of the dictionary.
// If fn returns an error, the iteration stops and returns it.
func (d *Dictionary) Iterate(fn func(key, value *Value) error) error {
	return encoding.IterateDictionary(d.v.in, d.v.offset, func(k, val int64) error {
		key, err := NewValue(d.v.in, k, d.v.decoders)
		if err != nil {
			return err
		}
		value, err := NewValue(d.v.in, val, d.v.decoders)
		if err != nil {
			return err
		}
		return fn(key, value)
	})
}

// Keys returns the keys of the dictionary in encoding order.
func (d *Dictionary) Keys() ([]*Value, error) {
	var keys []*Value
	err := d.Iterate(func(key, _ *Value) error {
		keys = append(keys, key)
		return nil
	})
	return keys, err
}

func (v *Value) at(step query.Step) (*Value, error) {
	off, err := step.Access(query.Offset(v.offset), query.NewContext(v.in))
	if err != nil {
		return nil, err
	}
	if !off.Found() {
		return nil, ErrValueNotFound
	}

	return NewValue(v.in, int64(off), v.decoders)
}
