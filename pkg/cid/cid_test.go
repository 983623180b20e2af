package cid_test

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monas-project/crsl/pkg/cid"
)

func TestOf_Deterministic(t *testing.T) {
	a, err := cid.Of([]byte("hello"))
	require.NoError(t, err)
	b, err := cid.Of([]byte("hello"))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())
}

func TestOf_DifferentBytesDifferentCID(t *testing.T) {
	a := cid.MustOf([]byte("hello"))
	b := cid.MustOf([]byte("hello!"))

	assert.False(t, a.Equal(b))
}

func TestParseRoundTrip(t *testing.T) {
	original := cid.MustOf([]byte("round trip me"))

	parsed, err := cid.Parse(original.String())
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}

func TestCastRoundTrip(t *testing.T) {
	original := cid.MustOf([]byte("cast me"))

	cast, err := cid.Cast(original.Bytes())
	require.NoError(t, err)
	assert.True(t, original.Equal(cast))
}

func TestFromRaw_RoundTripsRawBytesUnhashed(t *testing.T) {
	raw := []byte{0xde, 0xad, 0xbe, 0xef}

	id, err := cid.FromRaw(raw)
	require.NoError(t, err)
	assert.NotEqual(t, cid.MustOf(raw).String(), id.String(), "FromRaw must not hash its input like Of does")

	cast, err := cid.Cast(id.Bytes())
	require.NoError(t, err)
	assert.True(t, id.Equal(cast))
}

func TestFromRaw_DifferentBytesDifferentCID(t *testing.T) {
	a, err := cid.FromRaw([]byte{0x01})
	require.NoError(t, err)
	b, err := cid.FromRaw([]byte{0x02})
	require.NoError(t, err)

	assert.False(t, a.Equal(b))
}

func TestZeroValue(t *testing.T) {
	var id cid.ID
	assert.True(t, id.IsZero())
	assert.Equal(t, "", id.String())
}

func TestSortByLexDeterministic(t *testing.T) {
	a := cid.MustOf([]byte("a"))
	b := cid.MustOf([]byte("b"))
	c := cid.MustOf([]byte("c"))

	sorted1 := cid.SortByLex([]cid.ID{c, a, b})
	sorted2 := cid.SortByLex([]cid.ID{b, c, a})

	require.Len(t, sorted1, 3)
	assert.Equal(t, sorted1[0].String(), sorted2[0].String())
	assert.Equal(t, sorted1[1].String(), sorted2[1].String())
	assert.Equal(t, sorted1[2].String(), sorted2[2].String())
}

func TestCBORMarshalRoundTrip(t *testing.T) {
	original := cid.MustOf([]byte("cbor me"))

	data, err := cbor.Marshal(original)
	require.NoError(t, err)

	var decoded cid.ID
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded))
}

func TestTextMarshalRoundTrip(t *testing.T) {
	original := cid.MustOf([]byte("marshal me"))

	text, err := original.MarshalText()
	require.NoError(t, err)

	var decoded cid.ID
	require.NoError(t, decoded.UnmarshalText(text))
	assert.True(t, original.Equal(decoded))
}
