package jsonconv_test

import (
	"encoding/hex"
	"testing"

	"github.com/chaisql/borabora/internal/builder"
	"github.com/chaisql/borabora/internal/encoding"
	"github.com/chaisql/borabora/internal/jsonconv"
	"github.com/chaisql/borabora/internal/testutil"
	"github.com/chaisql/borabora/internal/testutil/assert"
	"github.com/stretchr/testify/require"
)

func transcode(t testing.TB, data string) []byte {
	t.Helper()

	out := encoding.NewBufferOutput(16)
	e := builder.NewEncoder(out, nil)
	assert.NoError(t, jsonconv.Encode(&e.ValueWriter, []byte(data)))
	return out.Bytes()
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		json string
		diag string
	}{
		{"null", `null`, `null`},
		{"bool", `true`, `true`},
		{"int", `-42`, `-42`},
		{"uint64", `18446744073709551615`, `18446744073709551615`},
		{"float", `1.5`, `1.5`},
		{"string", `"ab"`, `"ab"`},
		{"empty array", `[]`, `[]`},
		{"empty object", `{}`, `{}`},
		{"nested", `{"a": [1, {"b": null}], "c": "d"}`, `{"a": [1, {"b": null}], "c": "d"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			testutil.RequireDiag(t, test.diag, transcode(t, test.json))
		})
	}
}

func TestEncodeDefiniteLengths(t *testing.T) {
	b := transcode(t, `{"a":1,"b":[2,3]}`)
	require.Equal(t, "a2616101616282"+"0203", hex.EncodeToString(b))

	// escapes are resolved and exponents make doubles
	b = transcode(t, `["a\nb", 1e3]`)
	require.Equal(t, "82"+"63610a62"+"fb408f400000000000", hex.EncodeToString(b))
}

func TestEncodeBigInteger(t *testing.T) {
	b := transcode(t, `-123456789012345678901234567890`)
	require.Equal(t, byte(0xc3), b[0])

	b = transcode(t, `123456789012345678901234567890`)
	require.Equal(t, byte(0xc2), b[0])
}

func TestEncodeInvalid(t *testing.T) {
	for _, data := range []string{``, `{"a": }`, `[1, 2`} {
		t.Run(data, func(t *testing.T) {
			out := encoding.NewBufferOutput(16)
			e := builder.NewEncoder(out, nil)
			assert.Error(t, jsonconv.Encode(&e.ValueWriter, []byte(data)))
		})
	}
}
