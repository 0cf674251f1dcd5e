package builder

import (
	"unicode/utf8"

	"github.com/chaisql/borabora/internal/encoding"
	"github.com/cockroachdb/errors"
)

// StringBuilder writes the chunks of an indefinite length string.
// Chunks have the type of the string: text chunks for text strings,
// byte chunks for byte strings.
type StringBuilder struct {
	ec     *Context
	major  encoding.MajorType
	closed bool
}

// PutString writes s as the next chunk.
// In a byte string, s must be ascii, in a text string valid UTF-8.
func (b *StringBuilder) PutString(s string) error {
	if b.closed {
		return ErrBuilderClosed
	}

	if b.major == encoding.TextString {
		if !utf8.ValidString(s) {
			return errors.Wrapf(ErrInvalidText, "%q", s)
		}
		return b.ec.Encode(func(offset int64) (int64, error) {
			return encoding.PutTextString(b.ec.out, offset, s)
		})
	}

	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return errors.Wrapf(ErrNonASCII, "%q", s)
		}
	}
	return b.ec.Encode(func(offset int64) (int64, error) {
		return encoding.PutByteString(b.ec.out, offset, []byte(s))
	})
}

// PutBytes writes p as the next chunk of a byte string.
func (b *StringBuilder) PutBytes(p []byte) error {
	if b.closed {
		return ErrBuilderClosed
	}
	if b.major != encoding.ByteString {
		return errors.Wrap(ErrUnsupportedValue, "byte chunk in a text string")
	}

	return b.ec.Encode(func(offset int64) (int64, error) {
		return encoding.PutByteString(b.ec.out, offset, p)
	})
}

func (b *StringBuilder) isClosed() bool { return b.closed }

// End writes the break marker closing the string.
func (b *StringBuilder) End() error {
	if b.closed {
		return ErrBuilderClosed
	}

	err := b.ec.Encode(func(offset int64) (int64, error) {
		return encoding.PutBreak(b.ec.out, offset)
	})
	if err != nil {
		return err
	}

	b.closed = true
	return nil
}
