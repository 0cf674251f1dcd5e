package builder_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/chaisql/borabora/internal/builder"
	"github.com/chaisql/borabora/internal/encoding"
	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

func newEncoder(encoders ...builder.TagEncoder) (*builder.Encoder, *encoding.BufferOutput) {
	out := encoding.NewBufferOutput(4)
	return builder.NewEncoder(out, encoders), out
}

func TestDictionary(t *testing.T) {
	e, out := newEncoder()

	dict, err := e.PutDictionary(2)
	require.NoError(t, err)

	entry, err := dict.PutEntry()
	require.NoError(t, err)
	require.NoError(t, entry.PutText("a"))
	require.NoError(t, entry.PutInt(1))
	require.NoError(t, entry.End())

	entry, err = dict.PutEntry()
	require.NoError(t, err)
	require.NoError(t, entry.PutText("b"))
	seq, err := entry.PutSequence(2)
	require.NoError(t, err)
	require.NoError(t, seq.PutInt(2))
	require.NoError(t, seq.PutInt(3))
	require.NoError(t, seq.End())
	require.NoError(t, entry.End())

	require.NoError(t, dict.End())
	require.Equal(t, "a2616101616282"+"0203", hex.EncodeToString(out.Bytes()))
	require.EqualValues(t, 9, e.Offset())
}

func TestIndefinite(t *testing.T) {
	e, out := newEncoder()

	s, err := e.PutIndefiniteText()
	require.NoError(t, err)
	require.NoError(t, s.PutString("ab"))
	require.NoError(t, s.PutString("cd"))
	require.NoError(t, s.End())

	seq, err := e.PutSequence(-1)
	require.NoError(t, err)
	require.True(t, seq.Indefinite())
	require.NoError(t, seq.PutInt(1))
	require.NoError(t, seq.PutBool(true))
	require.NoError(t, seq.End())

	dict, err := e.PutDictionary(-1)
	require.NoError(t, err)
	require.NoError(t, dict.Put("k", nil))
	require.NoError(t, dict.End())

	require.Equal(t, "7f626162626364ff"+"9f01f5ff"+"bf616bf6ff", hex.EncodeToString(out.Bytes()))

	var got string
	require.NoError(t, cbor.Unmarshal([]byte{0x7f, 0x62, 0x61, 0x62, 0x62, 0x63, 0x64, 0xff}, &got))
	require.Equal(t, "abcd", got)
}

func TestByteStringChunks(t *testing.T) {
	e, out := newEncoder()

	s, err := e.PutIndefiniteByteString()
	require.NoError(t, err)
	require.NoError(t, s.PutString("ab"))
	require.NoError(t, s.PutBytes([]byte{0xff}))
	require.True(t, errors.Is(s.PutString("é"), builder.ErrNonASCII))
	require.NoError(t, s.End())
	require.True(t, errors.Is(s.End(), builder.ErrBuilderClosed))
	require.Equal(t, "5f426162"+"41ff"+"ff", hex.EncodeToString(out.Bytes()))

	text, err := e.PutIndefiniteText()
	require.NoError(t, err)
	require.True(t, errors.Is(text.PutBytes([]byte{1}), builder.ErrUnsupportedValue))
	require.NoError(t, text.PutString("é"))
}

func TestSequenceBounds(t *testing.T) {
	e, _ := newEncoder()

	seq, err := e.PutSequence(3)
	require.NoError(t, err)
	require.NoError(t, seq.PutInt(1))
	require.NoError(t, seq.PutInt(2))
	require.True(t, errors.Is(seq.End(), builder.ErrMissingElements))

	require.NoError(t, seq.PutInt(3))
	require.True(t, errors.Is(seq.PutInt(4), builder.ErrTooManyElements))
	_, err = seq.PutSequence(0)
	require.True(t, errors.Is(err, builder.ErrTooManyElements))
	require.NoError(t, seq.End())
	require.True(t, errors.Is(seq.PutInt(5), builder.ErrBuilderClosed))
}

func TestEntryProtocol(t *testing.T) {
	e, _ := newEncoder()

	dict, err := e.PutDictionary(2)
	require.NoError(t, err)

	entry, err := dict.PutEntry()
	require.NoError(t, err)
	require.True(t, errors.Is(entry.End(), builder.ErrEntryKeyNotSet))
	require.NoError(t, entry.PutText("a"))
	require.True(t, errors.Is(entry.End(), builder.ErrEntryValueNotSet))

	// the dictionary refuses to move on with an incomplete entry
	_, err = dict.PutEntry()
	require.True(t, errors.Is(err, builder.ErrEntryValueNotSet))
	require.True(t, errors.Is(dict.End(), builder.ErrEntryValueNotSet))

	require.NoError(t, entry.PutInt(1))
	require.True(t, errors.Is(entry.PutInt(2), builder.ErrEntryComplete))
	require.NoError(t, entry.End())
	require.True(t, errors.Is(entry.PutInt(2), builder.ErrBuilderClosed))

	require.NoError(t, dict.Put("b", 2))
	_, err = dict.PutEntry()
	require.True(t, errors.Is(err, builder.ErrTooManyElements))
	require.NoError(t, dict.End())
}

func TestPutValue(t *testing.T) {
	huge, ok := new(big.Int).SetString("1180591620717411303424", 10) // 2^70
	require.True(t, ok)

	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"true", true},
		{"text", "hello"},
		{"bytes", []byte{1, 2, 3}},
		{"int", 1000},
		{"int8", int8(-100)},
		{"int64 min", int64(-9223372036854775808)},
		{"uint8", uint8(200)},
		{"uint64 max", uint64(18446744073709551615)},
		{"float32", float32(1.5)},
		{"float64", 3.25},
		{"big", huge},
		{"negative big", new(big.Int).Neg(huge)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e, out := newEncoder()
			require.NoError(t, e.PutValue(test.value))

			want, err := cbor.Marshal(test.value)
			require.NoError(t, err)
			require.Equal(t, hex.EncodeToString(want), hex.EncodeToString(out.Bytes()))
		})
	}
}

func TestPutNumber(t *testing.T) {
	e, out := newEncoder()
	require.NoError(t, e.PutNumber(builder.Half(1.5)))
	require.NoError(t, e.PutHalf(-2))
	require.NoError(t, e.PutNumber(uint16(500)))
	require.Equal(t, "f93e00"+"f9c000"+"1901f4", hex.EncodeToString(out.Bytes()))

	require.True(t, errors.Is(e.PutNumber("1"), builder.ErrUnsupportedValue))
}

func TestUnsupportedValue(t *testing.T) {
	e, out := newEncoder()

	seq, err := e.PutSequence(1)
	require.NoError(t, err)
	require.True(t, errors.Is(seq.PutValue(big.NewFloat(1.5)), builder.ErrUnsupportedValue))
	require.True(t, errors.Is(seq.PutValue(big.NewRat(1, 3)), builder.ErrUnsupportedValue))
	require.True(t, errors.Is(seq.PutValue(struct{}{}), builder.ErrUnsupportedValue))
	require.True(t, errors.Is(seq.PutTag(1), builder.ErrUnsupportedValue))

	// failed writes don't take the slot
	require.NoError(t, seq.PutValue(7))
	require.NoError(t, seq.End())
	require.Equal(t, "8107", hex.EncodeToString(out.Bytes()))
}

type point struct{ x, y int64 }

// pointEncoder writes points as a tag 1000 holding a pair.
type pointEncoder struct{}

func (pointEncoder) Handles(v any) bool {
	_, ok := v.(point)
	return ok
}

func (pointEncoder) Encode(out encoding.Output, offset int64, v any) (int64, error) {
	p := v.(point)
	offset, err := encoding.PutTagHead(out, offset, 1000)
	if err != nil {
		return 0, err
	}
	offset, err = encoding.EncodeLengthAndValue(out, offset, encoding.Sequence, 2)
	if err != nil {
		return 0, err
	}
	offset, err = encoding.PutInt(out, offset, p.x)
	if err != nil {
		return 0, err
	}
	return encoding.PutInt(out, offset, p.y)
}

func TestTagEncoders(t *testing.T) {
	e, out := newEncoder(pointEncoder{})

	require.NoError(t, e.PutValue(point{1, -2}))
	require.NoError(t, e.PutTag(nil))
	require.Equal(t, "d903e8820121"+"f6", hex.EncodeToString(out.Bytes()))

	require.NotNil(t, e.Context().Encoders().Lookup(point{}))
	require.Nil(t, e.Context().Encoders().Lookup(1))
}

func TestOutputOverflow(t *testing.T) {
	t.Run("top level", func(t *testing.T) {
		out := encoding.NewByteArrayOutput(make([]byte, 2))
		e := builder.NewEncoder(out, nil)

		require.NoError(t, e.PutInt(1))
		err := e.PutInt(1000)
		require.True(t, errors.Is(err, encoding.ErrOutputOverflow))
		require.EqualValues(t, 1, e.Offset())

		require.NoError(t, e.PutInt(2))
		require.Equal(t, []byte{0x01, 0x02}, out.Bytes())
	})

	t.Run("sequence element", func(t *testing.T) {
		out := encoding.NewByteArrayOutput(make([]byte, 3))
		e := builder.NewEncoder(out, nil)

		seq, err := e.PutSequence(1)
		require.NoError(t, err)
		require.True(t, errors.Is(seq.PutText("long"), encoding.ErrOutputOverflow))
		require.True(t, errors.Is(seq.End(), builder.ErrMissingElements))

		require.NoError(t, seq.PutInt(1))
		require.NoError(t, seq.End())
		require.Equal(t, "8101", hex.EncodeToString(out.Bytes()[:e.Offset()]))
	})

	t.Run("entry value", func(t *testing.T) {
		out := encoding.NewByteArrayOutput(make([]byte, 4))
		e := builder.NewEncoder(out, nil)

		dict, err := e.PutDictionary(1)
		require.NoError(t, err)
		entry, err := dict.PutEntry()
		require.NoError(t, err)
		require.NoError(t, entry.PutText("a"))
		require.True(t, errors.Is(entry.PutText("long"), encoding.ErrOutputOverflow))
		require.True(t, errors.Is(entry.End(), builder.ErrEntryValueNotSet))

		require.NoError(t, entry.PutInt(1))
		require.NoError(t, entry.End())
		require.NoError(t, dict.End())
		require.Equal(t, "a1616101", hex.EncodeToString(out.Bytes()))
	})
}

func TestNestedBuilders(t *testing.T) {
	t.Run("sequence", func(t *testing.T) {
		e, out := newEncoder()

		seq, err := e.PutSequence(1)
		require.NoError(t, err)
		require.True(t, errors.Is(e.PutInt(0), builder.ErrChildOpen))

		inner, err := seq.PutSequence(-1)
		require.NoError(t, err)
		require.NoError(t, inner.PutInt(1))
		require.True(t, errors.Is(seq.End(), builder.ErrChildOpen))
		require.True(t, errors.Is(seq.PutInt(2), builder.ErrChildOpen))

		require.NoError(t, inner.End())
		require.NoError(t, seq.End())
		require.NoError(t, e.PutInt(0))
		require.Equal(t, "819f01ff"+"00", hex.EncodeToString(out.Bytes()))

		n, err := encoding.ItemLength(encoding.NewByteArrayInput(out.Bytes()), 0)
		require.NoError(t, err)
		require.EqualValues(t, 4, n)
	})

	t.Run("entry value", func(t *testing.T) {
		e, out := newEncoder()

		dict, err := e.PutDictionary(1)
		require.NoError(t, err)
		entry, err := dict.PutEntry()
		require.NoError(t, err)
		require.NoError(t, entry.PutText("k"))

		s, err := entry.PutIndefiniteText()
		require.NoError(t, err)
		require.True(t, errors.Is(entry.End(), builder.ErrChildOpen))
		require.True(t, errors.Is(dict.End(), builder.ErrChildOpen))
		_, err = dict.PutEntry()
		require.True(t, errors.Is(err, builder.ErrChildOpen))

		require.NoError(t, s.PutString("v"))
		require.NoError(t, s.End())
		require.NoError(t, entry.End())
		require.NoError(t, dict.End())
		require.Equal(t, "a1616b7f6176ff", hex.EncodeToString(out.Bytes()))
	})

	t.Run("dictionary in sequence", func(t *testing.T) {
		e, out := newEncoder()

		seq, err := e.PutSequence(-1)
		require.NoError(t, err)
		dict, err := seq.PutDictionary(-1)
		require.NoError(t, err)
		require.True(t, errors.Is(seq.End(), builder.ErrChildOpen))

		require.NoError(t, dict.Put(1, 2))
		require.NoError(t, dict.End())
		require.NoError(t, seq.End())
		require.Equal(t, "9fbf0102ffff", hex.EncodeToString(out.Bytes()))
	})
}

func TestInvalidText(t *testing.T) {
	e, out := newEncoder()

	require.True(t, errors.Is(e.PutText("\xff"), builder.ErrInvalidText))
	require.True(t, errors.Is(e.PutValue("a\xc3"), builder.ErrInvalidText))
	require.EqualValues(t, 0, e.Offset())

	s, err := e.PutIndefiniteText()
	require.NoError(t, err)
	require.True(t, errors.Is(s.PutString("\xfe\xff"), builder.ErrInvalidText))
	require.NoError(t, s.PutString("é"))
	require.NoError(t, s.End())
	require.Equal(t, "7f62c3a9ff", hex.EncodeToString(out.Bytes()))
}
