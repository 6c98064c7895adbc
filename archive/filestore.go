package archive

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore implements Store on the local filesystem. Documents are kept
// gzip-compressed at {baseDir}/{hex(digest[:1])}/{hex(digest)}.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex
}

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed archive rooted at baseDir, creating
// the directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, ErrInvalidBaseDir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DigestToPath converts a digest to its filesystem path.
func DigestToPath(baseDir string, digest []byte) string {
	h := hex.EncodeToString(digest)
	return filepath.Join(baseDir, h[:2], h)
}

func validateDigest(digest []byte) error {
	if len(digest) != DigestSize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidDigest, len(digest))
	}
	return nil
}

// Put implements Store.
func (fs *FileStore) Put(doc []byte) ([]byte, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyContent
	}
	if len(doc) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(doc))
	}
	digest := Digest(doc)
	path := DigestToPath(fs.baseDir, digest)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := os.Stat(path); err == nil {
		return digest, nil
	}
	packed, err := compress(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: compress: %w", ErrIOFailure, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	// Write then rename so a crash never leaves a truncated document under its digest.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, packed, 0600); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return digest, nil
}

// Get implements Store. The document is re-hashed on read.
func (fs *FileStore) Get(digest []byte) ([]byte, error) {
	if err := validateDigest(digest); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	packed, err := os.ReadFile(DigestToPath(fs.baseDir, digest))
	fs.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	doc, err := decompress(packed)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %x: %w", ErrIOFailure, digest, err)
	}
	if !bytes.Equal(Digest(doc), digest) {
		return nil, fmt.Errorf("%w: %x", ErrDigestMismatch, digest)
	}
	return doc, nil
}

// Has implements Store.
func (fs *FileStore) Has(digest []byte) (bool, error) {
	if err := validateDigest(digest); err != nil {
		return false, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, err := os.Stat(DigestToPath(fs.baseDir, digest))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return true, nil
}

// List implements Store by scanning the shard directories.
func (fs *FileStore) List() ([][]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries, err := os.ReadDir(fs.baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	var result [][]byte
	for _, entry := range entries {
		// Shard directories are 2-character hex strings.
		if !entry.IsDir() || len(entry.Name()) != 2 {
			continue
		}
		files, err := os.ReadDir(filepath.Join(fs.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			digest, err := hex.DecodeString(f.Name())
			if err != nil || len(digest) != DigestSize {
				continue // temp files and foreign names
			}
			result = append(result, digest)
		}
	}
	return result, nil
}
