package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/bitfsorg/greenbond-go/access"
	"github.com/bitfsorg/greenbond-go/identity"
)

// snapshot is the full aggregate held by a MemStore.
type snapshot struct {
	series         *Series
	holdings       map[identity.Address]Holding
	reports        []Report
	certifications []Certification
	roles          map[identity.Address]access.Set
}

func newSnapshot() *snapshot {
	return &snapshot{
		holdings: make(map[identity.Address]Holding),
		roles:    make(map[identity.Address]access.Set),
	}
}

// clone returns a deep copy; every field is a value type or a container of values.
func (s *snapshot) clone() *snapshot {
	c := &snapshot{
		holdings:       make(map[identity.Address]Holding, len(s.holdings)),
		reports:        make([]Report, len(s.reports)),
		certifications: make([]Certification, len(s.certifications)),
		roles:          make(map[identity.Address]access.Set, len(s.roles)),
	}
	if s.series != nil {
		series := *s.series
		c.series = &series
	}
	for k, v := range s.holdings {
		c.holdings[k] = v
	}
	copy(c.reports, s.reports)
	copy(c.certifications, s.certifications)
	for k, v := range s.roles {
		c.roles[k] = v
	}
	return c
}

// MemStore is an in-memory Store. Update works on a private copy of the
// aggregate and swaps it in on commit; views read the last committed copy
// and never wait for a writer.
type MemStore struct {
	writer writerSlot
	mu     sync.RWMutex // guards snap and closed
	snap   *snapshot
	closed bool
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{writer: newWriterSlot(), snap: newSnapshot()}
}

// Update implements Store.
func (s *MemStore) Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	if fn == nil {
		return fmt.Errorf("%w: update func", ErrNilParam)
	}
	txCtx, err := enter(ctx)
	if err != nil {
		return err
	}

	if err := s.writer.acquire(ctx); err != nil {
		return err
	}
	defer s.writer.release()

	s.mu.RLock()
	base, closed := s.snap, s.closed
	s.mu.RUnlock()
	if closed {
		return ErrStoreClosed
	}

	work := base.clone()
	if err := fn(txCtx, &memTx{snap: work, writable: true}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.snap = work
	return nil
}

// View implements Store.
func (s *MemStore) View(ctx context.Context, fn func(tx Tx) error) error {
	if fn == nil {
		return fmt.Errorf("%w: view func", ErrNilParam)
	}
	if _, err := enter(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	snap, closed := s.snap, s.closed
	s.mu.RUnlock()
	if closed {
		return ErrStoreClosed
	}
	return fn(&memTx{snap: snap})
}

// Close implements Store.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// memTx implements Tx over a snapshot.
type memTx struct {
	snap     *snapshot
	writable bool
}

func (t *memTx) checkWritable() error {
	if !t.writable {
		return ErrReadOnly
	}
	return nil
}

func (t *memTx) Series() (Series, error) {
	if t.snap.series == nil {
		return Series{}, ErrNotIssued
	}
	return *t.snap.series, nil
}

func (t *memTx) PutSeries(s Series) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	t.snap.series = &s
	return nil
}

func (t *memTx) Holding(addr identity.Address) (Holding, error) {
	return t.snap.holdings[addr], nil
}

func (t *memTx) PutHolding(addr identity.Address, h Holding) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	if h.IsZero() {
		delete(t.snap.holdings, addr)
		return nil
	}
	t.snap.holdings[addr] = h
	return nil
}

func (t *memTx) Holdings() (map[identity.Address]Holding, error) {
	out := make(map[identity.Address]Holding, len(t.snap.holdings))
	for k, v := range t.snap.holdings {
		out[k] = v
	}
	return out, nil
}

func (t *memTx) ReportCount() (uint64, error) {
	return uint64(len(t.snap.reports)), nil
}

func (t *memTx) Report(index uint64) (Report, error) {
	if index >= uint64(len(t.snap.reports)) {
		return Report{}, fmt.Errorf("%w: index %d", ErrReportNotFound, index)
	}
	return t.snap.reports[index], nil
}

func (t *memTx) AppendReport(r Report) (uint64, error) {
	if err := t.checkWritable(); err != nil {
		return 0, err
	}
	t.snap.reports = append(t.snap.reports, r)
	return uint64(len(t.snap.reports) - 1), nil
}

func (t *memTx) PutReport(index uint64, r Report) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	if index >= uint64(len(t.snap.reports)) {
		return fmt.Errorf("%w: index %d", ErrReportNotFound, index)
	}
	t.snap.reports[index] = r
	return nil
}

func (t *memTx) Reports() ([]Report, error) {
	out := make([]Report, len(t.snap.reports))
	copy(out, t.snap.reports)
	return out, nil
}

func (t *memTx) AppendCertification(c Certification) (uint64, error) {
	if err := t.checkWritable(); err != nil {
		return 0, err
	}
	t.snap.certifications = append(t.snap.certifications, c)
	return uint64(len(t.snap.certifications) - 1), nil
}

func (t *memTx) Certifications() ([]Certification, error) {
	out := make([]Certification, len(t.snap.certifications))
	copy(out, t.snap.certifications)
	return out, nil
}

func (t *memTx) Roles(addr identity.Address) (access.Set, error) {
	return t.snap.roles[addr], nil
}

func (t *memTx) PutRoles(addr identity.Address, set access.Set) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	if set == 0 {
		delete(t.snap.roles, addr)
		return nil
	}
	t.snap.roles[addr] = set
	return nil
}

func (t *memTx) HasRole(addr identity.Address, role access.Role) bool {
	return t.snap.roles[addr].Has(role)
}
