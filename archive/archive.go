// Package archive keeps the disclosure documents behind impact reports,
// addressed by the SHA3-256 digest recorded in each report.
package archive

import (
	"golang.org/x/crypto/sha3"
)

// DigestSize is the length of a document digest (SHA3-256 output).
const DigestSize = 32

// MaxDocumentSize bounds a single archived document (64 MiB), before and
// after decompression.
const MaxDocumentSize = 64 << 20

// Store is a content-addressed, append-only document store.
type Store interface {
	// Put archives doc and returns its digest. Storing the same document
	// twice is a no-op.
	Put(doc []byte) ([]byte, error)

	// Get returns the document with the given digest.
	Get(digest []byte) ([]byte, error)

	// Has reports whether a document with the given digest is archived.
	Has(digest []byte) (bool, error)

	// List returns the digests of every archived document.
	List() ([][]byte, error)
}

// Digest returns the SHA3-256 digest of doc.
func Digest(doc []byte) []byte {
	sum := sha3.Sum256(doc)
	return sum[:]
}
