package identity

import "errors"

var (
	// ErrInvalidAddress indicates the input is neither a 40-char hex hash nor a valid P2PKH address.
	ErrInvalidAddress = errors.New("identity: invalid address")

	// ErrInvalidHashLength indicates a public key hash is not 20 bytes.
	ErrInvalidHashLength = errors.New("identity: public key hash must be 20 bytes")

	// ErrNilPublicKey indicates a nil public key was supplied.
	ErrNilPublicKey = errors.New("identity: public key is nil")
)
