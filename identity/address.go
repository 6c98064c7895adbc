// Package identity defines the account identities that hold bonds and
// carry roles. An identity is the HASH160 of a compressed secp256k1 public
// key, the same 20-byte value a P2PKH address encodes.
package identity

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/go-sdk/script"
)

// HashSize is the length of an identity in bytes.
const HashSize = 20

// Address is a 20-byte account identity.
type Address [HashSize]byte

// Zero is the unset identity.
var Zero Address

// FromPublicKey derives the identity of a public key: RIPEMD160(SHA256(compressed)).
func FromPublicKey(pub *ec.PublicKey) (Address, error) {
	if pub == nil {
		return Zero, ErrNilPublicKey
	}
	return FromHash(bsvhash.Hash160(pub.Compressed()))
}

// FromHash wraps a raw 20-byte public key hash.
func FromHash(pkh []byte) (Address, error) {
	var a Address
	if len(pkh) != HashSize {
		return Zero, fmt.Errorf("%w: got %d", ErrInvalidHashLength, len(pkh))
	}
	copy(a[:], pkh)
	return a, nil
}

// Parse accepts either a 40-character hex public key hash (optionally
// 0x-prefixed) or a base58check P2PKH address on any network.
func Parse(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	h := strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(h) == hex.EncodedLen(HashSize) {
		if raw, err := hex.DecodeString(h); err == nil {
			return FromHash(raw)
		}
	}
	addr, err := script.NewAddressFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, s, err)
	}
	return FromHash([]byte(addr.PublicKeyHash))
}

// MustParse is Parse for constants and tests. It panics on invalid input.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero reports whether a is the unset identity.
func (a Address) IsZero() bool { return a == Zero }

// String returns the lowercase hex encoding.
func (a Address) String() string { return hex.EncodeToString(a[:]) }

// Encode returns the base58check P2PKH address for the given network.
func (a Address) Encode(mainnet bool) (string, error) {
	addr, err := script.NewAddressFromPublicKeyHash(a[:], mainnet)
	if err != nil {
		return "", fmt.Errorf("identity: encode address: %w", err)
	}
	return addr.AddressString, nil
}

// MarshalText implements encoding.TextMarshaler (hex form).
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler; any form Parse accepts.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Sort orders addresses by their byte value, in place.
func Sort(addrs []Address) {
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
}
