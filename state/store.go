package state

import (
	"context"

	"github.com/bitfsorg/greenbond-go/access"
	"github.com/bitfsorg/greenbond-go/identity"
)

// Tx is a view of the aggregate inside one store transaction. Writes made
// through a Tx are visible to later reads in the same transaction and are
// discarded unless the transaction commits.
type Tx interface {
	// Series returns the issued series, or ErrNotIssued.
	Series() (Series, error)
	// PutSeries replaces the series.
	PutSeries(s Series) error

	// Holding returns the holder's position; the zero Holding if none.
	Holding(addr identity.Address) (Holding, error)
	// PutHolding replaces the holder's position. A zero Holding deletes it.
	PutHolding(addr identity.Address, h Holding) error
	// Holdings returns every non-zero position.
	Holdings() (map[identity.Address]Holding, error)

	// ReportCount returns the length of the report sequence.
	ReportCount() (uint64, error)
	// Report returns the report at index, or ErrReportNotFound.
	Report(index uint64) (Report, error)
	// AppendReport adds a report at the end and returns its index.
	AppendReport(r Report) (uint64, error)
	// PutReport replaces an existing report.
	PutReport(index uint64, r Report) error
	// Reports returns the full sequence in index order.
	Reports() ([]Report, error)

	// AppendCertification adds a certification and returns its index.
	AppendCertification(c Certification) (uint64, error)
	// Certifications returns every certification in insertion order.
	Certifications() ([]Certification, error)

	// Roles returns the role set held by addr.
	Roles(addr identity.Address) (access.Set, error)
	// PutRoles replaces the role set held by addr.
	PutRoles(addr identity.Address, set access.Set) error
	// HasRole implements access.Checker. Read failures deny.
	HasRole(addr identity.Address, role access.Role) bool
}

// Store persists the aggregate and serializes writers.
type Store interface {
	// Update runs fn in a read-write transaction. The transaction commits
	// only when fn returns nil. Calls from inside another Update or View
	// (detected through ctx) fail with ErrReentrantCall. While another
	// Update runs, the call waits until ctx is done and then fails with
	// ErrWriterBusy.
	Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the store.
	Close() error
}

// txKey marks a context that is already inside a store transaction.
type txKey struct{}

// enter fails when ctx already carries a transaction marker and
// otherwise returns ctx marked.
func enter(ctx context.Context) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilParam
	}
	if InTransaction(ctx) {
		return nil, ErrReentrantCall
	}
	return context.WithValue(ctx, txKey{}, true), nil
}

// InTransaction reports whether ctx was handed out by a running transaction.
func InTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}
