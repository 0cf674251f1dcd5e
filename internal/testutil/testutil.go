// Package testutil provides helpers shared by the package tests.
package testutil

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/chaisql/borabora/internal/encoding"
	"github.com/chaisql/borabora/internal/testutil/assert"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// Hex decodes h. Spaces are ignored.
func Hex(t testing.TB, h string) []byte {
	t.Helper()

	b, err := hex.DecodeString(strings.ReplaceAll(h, " ", ""))
	assert.NoError(t, err)
	return b
}

// Input returns an input reading the bytes h encodes.
func Input(t testing.TB, h string) *encoding.ByteArrayInput {
	t.Helper()

	return encoding.NewByteArrayInput(Hex(t, h))
}

// RequireDiag fails if the diagnostic notation of the item b holds
// is not want.
func RequireDiag(t testing.TB, want string, b []byte) {
	t.Helper()

	got, err := cbor.Diagnose(b)
	assert.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		require.Failf(t, "mismatched items, (-want, +got)", "%s", diff)
	}
}
