package identity

import (
	"encoding/json"
	"strings"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddr(seed byte) Address {
	var a Address
	for i := range a {
		a[i] = seed
	}
	return a
}

func TestFromPublicKey_MatchesSDKHash(t *testing.T) {
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)

	addr, err := FromPublicKey(priv.PubKey())
	require.NoError(t, err)
	assert.Equal(t, priv.PubKey().Hash(), addr[:])
	assert.False(t, addr.IsZero())
}

func TestFromPublicKey_Nil(t *testing.T) {
	_, err := FromPublicKey(nil)
	assert.ErrorIs(t, err, ErrNilPublicKey)
}

func TestFromHash_WrongLength(t *testing.T) {
	_, err := FromHash([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidHashLength)
}

func TestParse_Hex(t *testing.T) {
	a := testAddr(0xAB)
	tests := []struct {
		name  string
		input string
	}{
		{"plain", a.String()},
		{"prefixed", "0x" + a.String()},
		{"upper", strings.ToUpper(a.String())},
		{"padded", "  " + a.String() + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, a, got)
		})
	}
}

func TestEncodeParse_RoundTrip(t *testing.T) {
	a := testAddr(0x42)
	for _, mainnet := range []bool{true, false} {
		encoded, err := a.Encode(mainnet)
		require.NoError(t, err)
		got, err := Parse(encoded)
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
}

func TestEncode_NetworksDiffer(t *testing.T) {
	a := testAddr(0x01)
	main, err := a.Encode(true)
	require.NoError(t, err)
	test, err := a.Encode(false)
	require.NoError(t, err)
	assert.NotEqual(t, main, test)
	assert.True(t, strings.HasPrefix(main, "1"))
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "not-an-address", "zz" + strings.Repeat("0", 38)} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAddress, "input %q", in)
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("bogus") })
}

func TestAddress_TextRoundTrip(t *testing.T) {
	type wrapper struct {
		Holder Address            `json:"holder"`
		Units  map[Address]uint64 `json:"units"`
	}
	in := wrapper{Holder: testAddr(0x07), Units: map[Address]uint64{testAddr(0x08): 3}}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), testAddr(0x07).String())

	var out wrapper
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestSort(t *testing.T) {
	addrs := []Address{testAddr(3), testAddr(1), testAddr(2)}
	Sort(addrs)
	assert.Equal(t, []Address{testAddr(1), testAddr(2), testAddr(3)}, addrs)
}
