package state

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/greenbond-go/access"
	"github.com/bitfsorg/greenbond-go/identity"
)

var (
	bucketSeries         = []byte("series")
	bucketHoldings       = []byte("holdings")
	bucketReports        = []byte("reports")
	bucketCertifications = []byte("certifications")
	bucketRoles          = []byte("roles")

	keySeries = []byte("current")
)

// BoltStore persists the aggregate in a bbolt database. Each Update is a
// single bbolt read-write transaction, so a failed operation leaves the
// file untouched.
type BoltStore struct {
	db     *bbolt.DB
	writer writerSlot
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("state: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("state: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSeries, bucketHoldings, bucketReports, bucketCertifications, bucketRoles} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state: create buckets: %w", err)
	}

	return &BoltStore{db: db, writer: newWriterSlot()}, nil
}

// Path returns the database file path.
func (s *BoltStore) Path() string { return s.db.Path() }

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Update implements Store.
func (s *BoltStore) Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	if fn == nil {
		return fmt.Errorf("%w: update func", ErrNilParam)
	}
	txCtx, err := enter(ctx)
	if err != nil {
		return err
	}
	// bbolt's own writer lock cannot be abandoned, so callers queue here.
	if err := s.writer.acquire(ctx); err != nil {
		return err
	}
	defer s.writer.release()

	err = s.db.Update(func(btx *bbolt.Tx) error {
		return fn(txCtx, &boltTx{tx: btx})
	})
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrStoreClosed
	}
	return err
}

// View implements Store.
func (s *BoltStore) View(ctx context.Context, fn func(tx Tx) error) error {
	if fn == nil {
		return fmt.Errorf("%w: view func", ErrNilParam)
	}
	if _, err := enter(ctx); err != nil {
		return err
	}
	err := s.db.View(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrStoreClosed
	}
	return err
}

// indexKey encodes a sequence index as an 8-byte big-endian key for sorted storage.
func indexKey(i uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, i)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// boltTx implements Tx over a bbolt transaction.
type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) put(bucket, key []byte, v interface{}) error {
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	data, err := encodeGob(v)
	if err != nil {
		return fmt.Errorf("boltstore: encode %s: %w", bucket, err)
	}
	if err := t.tx.Bucket(bucket).Put(key, data); err != nil {
		return fmt.Errorf("boltstore: put %s: %w", bucket, err)
	}
	return nil
}

func (t *boltTx) Series() (Series, error) {
	var s Series
	data := t.tx.Bucket(bucketSeries).Get(keySeries)
	if data == nil {
		return s, ErrNotIssued
	}
	if err := decodeGob(data, &s); err != nil {
		return s, fmt.Errorf("boltstore: decode series: %w", err)
	}
	return s, nil
}

func (t *boltTx) PutSeries(s Series) error {
	return t.put(bucketSeries, keySeries, s)
}

func (t *boltTx) Holding(addr identity.Address) (Holding, error) {
	var h Holding
	data := t.tx.Bucket(bucketHoldings).Get(addr[:])
	if data == nil {
		return h, nil
	}
	if err := decodeGob(data, &h); err != nil {
		return h, fmt.Errorf("boltstore: decode holding %s: %w", addr, err)
	}
	return h, nil
}

func (t *boltTx) PutHolding(addr identity.Address, h Holding) error {
	if h.IsZero() {
		if !t.tx.Writable() {
			return ErrReadOnly
		}
		if err := t.tx.Bucket(bucketHoldings).Delete(addr[:]); err != nil {
			return fmt.Errorf("boltstore: delete holding: %w", err)
		}
		return nil
	}
	return t.put(bucketHoldings, addr[:], h)
}

func (t *boltTx) Holdings() (map[identity.Address]Holding, error) {
	out := make(map[identity.Address]Holding)
	err := t.tx.Bucket(bucketHoldings).ForEach(func(k, v []byte) error {
		addr, err := identity.FromHash(k)
		if err != nil {
			return fmt.Errorf("boltstore: holding key: %w", err)
		}
		var h Holding
		if err := decodeGob(v, &h); err != nil {
			return fmt.Errorf("boltstore: decode holding in list: %w", err)
		}
		out[addr] = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Sequence buckets allocate indexes with NextSequence, so the bucket
// sequence equals the number of records.

func (t *boltTx) ReportCount() (uint64, error) {
	return t.tx.Bucket(bucketReports).Sequence(), nil
}

func (t *boltTx) Report(index uint64) (Report, error) {
	var r Report
	data := t.tx.Bucket(bucketReports).Get(indexKey(index))
	if data == nil {
		return r, fmt.Errorf("%w: index %d", ErrReportNotFound, index)
	}
	if err := decodeGob(data, &r); err != nil {
		return r, fmt.Errorf("boltstore: decode report %d: %w", index, err)
	}
	return r, nil
}

func (t *boltTx) AppendReport(r Report) (uint64, error) {
	if !t.tx.Writable() {
		return 0, ErrReadOnly
	}
	seq, err := t.tx.Bucket(bucketReports).NextSequence()
	if err != nil {
		return 0, fmt.Errorf("boltstore: next report index: %w", err)
	}
	index := seq - 1
	if err := t.put(bucketReports, indexKey(index), r); err != nil {
		return 0, err
	}
	return index, nil
}

func (t *boltTx) PutReport(index uint64, r Report) error {
	if t.tx.Bucket(bucketReports).Get(indexKey(index)) == nil {
		return fmt.Errorf("%w: index %d", ErrReportNotFound, index)
	}
	return t.put(bucketReports, indexKey(index), r)
}

func (t *boltTx) Reports() ([]Report, error) {
	var out []Report
	err := t.tx.Bucket(bucketReports).ForEach(func(_, v []byte) error {
		var r Report
		if err := decodeGob(v, &r); err != nil {
			return fmt.Errorf("boltstore: decode report in list: %w", err)
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (t *boltTx) AppendCertification(c Certification) (uint64, error) {
	if !t.tx.Writable() {
		return 0, ErrReadOnly
	}
	seq, err := t.tx.Bucket(bucketCertifications).NextSequence()
	if err != nil {
		return 0, fmt.Errorf("boltstore: next certification index: %w", err)
	}
	index := seq - 1
	if err := t.put(bucketCertifications, indexKey(index), c); err != nil {
		return 0, err
	}
	return index, nil
}

func (t *boltTx) Certifications() ([]Certification, error) {
	var out []Certification
	err := t.tx.Bucket(bucketCertifications).ForEach(func(_, v []byte) error {
		var c Certification
		if err := decodeGob(v, &c); err != nil {
			return fmt.Errorf("boltstore: decode certification: %w", err)
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (t *boltTx) Roles(addr identity.Address) (access.Set, error) {
	v := t.tx.Bucket(bucketRoles).Get(addr[:])
	if len(v) == 0 {
		return 0, nil
	}
	return access.Set(v[0]), nil
}

func (t *boltTx) PutRoles(addr identity.Address, set access.Set) error {
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	b := t.tx.Bucket(bucketRoles)
	if set == 0 {
		if err := b.Delete(addr[:]); err != nil {
			return fmt.Errorf("boltstore: delete roles: %w", err)
		}
		return nil
	}
	if err := b.Put(addr[:], []byte{byte(set)}); err != nil {
		return fmt.Errorf("boltstore: put roles: %w", err)
	}
	return nil
}

func (t *boltTx) HasRole(addr identity.Address, role access.Role) bool {
	set, err := t.Roles(addr)
	if err != nil {
		return false
	}
	return set.Has(role)
}
