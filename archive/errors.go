package archive

import "errors"

var (
	// ErrNotFound indicates no document exists for the given digest.
	ErrNotFound = errors.New("archive: document not found")

	// ErrInvalidDigest indicates the digest is not exactly 32 bytes.
	ErrInvalidDigest = errors.New("archive: digest must be 32 bytes")

	// ErrEmptyContent indicates an attempt to archive an empty document.
	ErrEmptyContent = errors.New("archive: document is empty")

	// ErrInvalidBaseDir indicates the base directory path is invalid.
	ErrInvalidBaseDir = errors.New("archive: invalid base directory")

	// ErrIOFailure indicates a file read/write error.
	ErrIOFailure = errors.New("archive: I/O failure")

	// ErrDigestMismatch indicates a stored document no longer hashes to its digest.
	ErrDigestMismatch = errors.New("archive: digest mismatch")

	// ErrDocumentTooLarge indicates a document above MaxDocumentSize.
	ErrDocumentTooLarge = errors.New("archive: document exceeds maximum size")
)
