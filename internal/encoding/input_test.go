package encoding_test

import (
	"testing"

	"github.com/chaisql/borabora/internal/encoding"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestByteArrayInput(t *testing.T) {
	in := encoding.NewByteArrayInput([]byte{0x01, 0x02, 0x03})

	t.Run("bounds", func(t *testing.T) {
		_, err := in.Read(-1)
		require.True(t, errors.Is(err, encoding.ErrNoSuchByte))

		_, err = in.Read(3)
		require.True(t, errors.Is(err, encoding.ErrNoSuchByte))

		b, err := in.Read(2)
		require.NoError(t, err)
		require.Equal(t, byte(0x03), b)
	})

	t.Run("offset valid", func(t *testing.T) {
		require.False(t, in.OffsetValid(-1))
		require.True(t, in.OffsetValid(0))
		require.True(t, in.OffsetValid(2))
		require.False(t, in.OffsetValid(3))
	})

	t.Run("read bytes", func(t *testing.T) {
		b, err := encoding.ReadBytes(in, 1, 2)
		require.NoError(t, err)
		require.Equal(t, []byte{0x02, 0x03}, b)

		_, err = encoding.ReadBytes(in, 2, 2)
		require.True(t, errors.Is(err, encoding.ErrNoSuchByte))
	})
}

func TestByteArrayOutput(t *testing.T) {
	out := encoding.NewByteArrayOutput(make([]byte, 2))

	off, err := encoding.PutUint(out, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, off)

	_, err = encoding.PutUint(out, off, 1000)
	require.True(t, errors.Is(err, encoding.ErrOutputOverflow))
	require.Equal(t, []byte{0x0a, 0x00}, out.Bytes())
}

func TestBufferOutput(t *testing.T) {
	out := encoding.NewBufferOutput(1)

	off, err := encoding.PutTextString(out, 0, "hello world")
	require.NoError(t, err)
	require.EqualValues(t, 12, off)
	require.Equal(t, append([]byte{0x6b}, "hello world"...), out.Bytes())
}
