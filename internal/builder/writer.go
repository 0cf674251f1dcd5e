package builder

import (
	"math/big"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/chaisql/borabora/internal/encoding"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// Half is a float32 that PutValue writes as a half precision float.
type Half float32

type writeFunc func(out encoding.Output, offset int64) (int64, error)

// A ValueWriter writes items into the slot of its builder.
// Every Put method takes one slot, including those opening a nested builder.
// While a nested builder is open, its parent refuses every write.
type ValueWriter struct {
	ec    *Context
	slots slotter
	child closer
}

// slotter hands out the slots of a builder.
// A slot taken for a write that fails is released.
type slotter interface {
	take() error
	release()
}

// closer is a nested builder.
type closer interface {
	isClosed() bool
}

func (w *ValueWriter) checkChild() error {
	if w.child != nil && !w.child.isClosed() {
		return ErrChildOpen
	}
	return nil
}

func (w *ValueWriter) put(fn writeFunc) error {
	if err := w.checkChild(); err != nil {
		return err
	}
	if w.slots != nil {
		if err := w.slots.take(); err != nil {
			return err
		}
	}

	err := w.ec.Encode(func(offset int64) (int64, error) {
		return fn(w.ec.out, offset)
	})
	if err != nil && w.slots != nil {
		w.slots.release()
	}
	return err
}

// PutNull writes null.
func (w *ValueWriter) PutNull() error {
	return w.put(encoding.PutNull)
}

// PutUndefined writes undefined.
func (w *ValueWriter) PutUndefined() error {
	return w.put(encoding.PutUndefined)
}

// PutBool writes a boolean.
func (w *ValueWriter) PutBool(x bool) error {
	return w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutBool(out, offset, x)
	})
}

// PutInt writes a signed integer in its shortest form.
func (w *ValueWriter) PutInt(x int64) error {
	return w.put(signed(x))
}

// PutUint writes an unsigned integer in its shortest form.
func (w *ValueWriter) PutUint(x uint64) error {
	return w.put(unsigned(x))
}

// PutBigInt writes a big number. A nil x writes null.
func (w *ValueWriter) PutBigInt(x *big.Int) error {
	if x == nil {
		return w.PutNull()
	}

	return w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutBigInt(out, offset, x)
	})
}

// PutHalf writes f as a half precision float.
func (w *ValueWriter) PutHalf(f float32) error {
	return w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutHalf(out, offset, f)
	})
}

// PutFloat32 writes a single precision float.
func (w *ValueWriter) PutFloat32(f float32) error {
	return w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutFloat32(out, offset, f)
	})
}

// PutFloat64 writes a double precision float.
func (w *ValueWriter) PutFloat64(f float64) error {
	return w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutFloat64(out, offset, f)
	})
}

// PutNumber writes any Go integer or float, Half or *big.Int.
// Arbitrary precision decimals are not supported.
func (w *ValueWriter) PutNumber(v any) error {
	fn, err := numberWriter(v)
	if err != nil {
		return err
	}

	return w.put(fn)
}

// PutText writes a text string. s must be valid UTF-8.
func (w *ValueWriter) PutText(s string) error {
	fn, err := textWriter(s)
	if err != nil {
		return err
	}
	return w.put(fn)
}

// PutByteString writes a byte string.
func (w *ValueWriter) PutByteString(b []byte) error {
	return w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutByteString(out, offset, b)
	})
}

// PutRaw copies an already encoded item.
// The bytes are not checked.
func (w *ValueWriter) PutRaw(item []byte) error {
	return w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutRaw(out, offset, item)
	})
}

// PutDateTime writes t as a date/time tag.
func (w *ValueWriter) PutDateTime(t time.Time) error {
	return w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutDateTime(out, offset, t)
	})
}

// PutTimestamp writes a timestamp tag.
func (w *ValueWriter) PutTimestamp(seconds int64) error {
	return w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutTimestamp(out, offset, seconds)
	})
}

// PutURI writes u as a URI tag. A nil u writes null.
func (w *ValueWriter) PutURI(u *url.URL) error {
	if u == nil {
		return w.PutNull()
	}

	return w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutURI(out, offset, u)
	})
}

// PutValue writes v according to its kind: nil as null, booleans, strings,
// byte slices and numbers natively, anything else through the tag encoders.
func (w *ValueWriter) PutValue(v any) error {
	var fn writeFunc
	var err error

	switch x := v.(type) {
	case nil:
		fn = encoding.PutNull
	case bool:
		fn = func(out encoding.Output, offset int64) (int64, error) {
			return encoding.PutBool(out, offset, x)
		}
	case string:
		fn, err = textWriter(x)
	case []byte:
		fn = func(out encoding.Output, offset int64) (int64, error) {
			return encoding.PutByteString(out, offset, x)
		}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, Half, *big.Int, *big.Float, *big.Rat:
		fn, err = numberWriter(v)
	default:
		fn, err = w.tagWriter(v)
	}
	if err != nil {
		return err
	}

	return w.put(fn)
}

// PutTag writes v with the first tag encoder handling it.
// A nil v writes null.
func (w *ValueWriter) PutTag(v any) error {
	if v == nil {
		return w.PutNull()
	}

	fn, err := w.tagWriter(v)
	if err != nil {
		return err
	}
	return w.put(fn)
}

// PutSequence opens a sequence of n elements.
// A negative n opens an indefinite length sequence.
func (w *ValueWriter) PutSequence(n int64) (*SequenceBuilder, error) {
	n = max(n, -1)
	err := w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.EncodeLengthAndValue(out, offset, encoding.Sequence, n)
	})
	if err != nil {
		return nil, err
	}

	b := newSequenceBuilder(w.ec, n)
	w.child = b
	return b, nil
}

// PutDictionary opens a dictionary of n entries.
// A negative n opens an indefinite length dictionary.
func (w *ValueWriter) PutDictionary(n int64) (*DictionaryBuilder, error) {
	n = max(n, -1)
	err := w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.EncodeLengthAndValue(out, offset, encoding.Dictionary, n)
	})
	if err != nil {
		return nil, err
	}

	b := &DictionaryBuilder{ec: w.ec, elems: counter{max: n}}
	w.child = b
	return b, nil
}

// PutIndefiniteText opens a text string written in chunks.
func (w *ValueWriter) PutIndefiniteText() (*StringBuilder, error) {
	return w.putIndefiniteString(encoding.TextString)
}

// PutIndefiniteByteString opens a byte string written in chunks.
func (w *ValueWriter) PutIndefiniteByteString() (*StringBuilder, error) {
	return w.putIndefiniteString(encoding.ByteString)
}

func (w *ValueWriter) putIndefiniteString(t encoding.MajorType) (*StringBuilder, error) {
	err := w.put(func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutIndefinite(out, offset, t)
	})
	if err != nil {
		return nil, err
	}

	b := &StringBuilder{ec: w.ec, major: t}
	w.child = b
	return b, nil
}

func (w *ValueWriter) tagWriter(v any) (writeFunc, error) {
	enc := w.ec.encoders.Lookup(v)
	if enc == nil {
		return nil, errors.Wrapf(ErrUnsupportedValue, "no tag encoder for %T", v)
	}

	return func(out encoding.Output, offset int64) (int64, error) {
		return enc.Encode(out, offset, v)
	}, nil
}

func textWriter(s string) (writeFunc, error) {
	if !utf8.ValidString(s) {
		return nil, errors.Wrapf(ErrInvalidText, "%q", s)
	}

	return func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutTextString(out, offset, s)
	}, nil
}

func numberWriter(v any) (writeFunc, error) {
	switch x := v.(type) {
	case int:
		return signed(x), nil
	case int8:
		return signed(x), nil
	case int16:
		return signed(x), nil
	case int32:
		return signed(x), nil
	case int64:
		return signed(x), nil
	case uint:
		return unsigned(x), nil
	case uint8:
		return unsigned(x), nil
	case uint16:
		return unsigned(x), nil
	case uint32:
		return unsigned(x), nil
	case uint64:
		return unsigned(x), nil
	case Half:
		return func(out encoding.Output, offset int64) (int64, error) {
			return encoding.PutHalf(out, offset, float32(x))
		}, nil
	case float32:
		return func(out encoding.Output, offset int64) (int64, error) {
			return encoding.PutFloat32(out, offset, x)
		}, nil
	case float64:
		return func(out encoding.Output, offset int64) (int64, error) {
			return encoding.PutFloat64(out, offset, x)
		}, nil
	case *big.Int:
		if x == nil {
			return encoding.PutNull, nil
		}
		return func(out encoding.Output, offset int64) (int64, error) {
			return encoding.PutBigInt(out, offset, x)
		}, nil
	case *big.Float, *big.Rat:
		return nil, errors.Wrapf(ErrUnsupportedValue, "arbitrary precision decimal %T", v)
	}

	return nil, errors.Wrapf(ErrUnsupportedValue, "%T is not a number", v)
}

func signed[T constraints.Signed](x T) writeFunc {
	return func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutSigned(out, offset, x)
	}
}

func unsigned[T constraints.Unsigned](x T) writeFunc {
	return func(out encoding.Output, offset int64) (int64, error) {
		return encoding.PutUnsigned(out, offset, x)
	}
}
