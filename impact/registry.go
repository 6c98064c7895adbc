// Package impact implements the registry of environmental-impact
// disclosures: an append-only sequence of reports that the issuer adds and
// a verifier marks verified exactly once, plus the issuer's record of
// third-party green certifications.
package impact

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bitfsorg/greenbond-go/access"
	"github.com/bitfsorg/greenbond-go/archive"
	"github.com/bitfsorg/greenbond-go/clock"
	"github.com/bitfsorg/greenbond-go/identity"
	"github.com/bitfsorg/greenbond-go/metrics"
	"github.com/bitfsorg/greenbond-go/notify"
	"github.com/bitfsorg/greenbond-go/state"
)

// Registry manages reports and certifications in a store.
type Registry struct {
	store   state.Store
	clock   clock.Clock
	pub     notify.Publisher
	logger  *slog.Logger
	archive archive.Store
}

// Option configures a Registry.
type Option func(*Registry)

// WithPublisher sets the notification sink. nil means discard.
func WithPublisher(p notify.Publisher) Option {
	return func(r *Registry) {
		if p == nil {
			p = notify.Discard
		}
		r.pub = p
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithArchive keeps report documents in store so they can be checked
// against the recorded content hash later.
func WithArchive(store archive.Store) Option {
	return func(r *Registry) { r.archive = store }
}

// NewRegistry creates a registry over store.
func NewRegistry(store state.Store, clk clock.Clock, opts ...Option) (*Registry, error) {
	if store == nil || clk == nil {
		return nil, ErrNilParam
	}
	r := &Registry{
		store:  store,
		clock:  clk,
		pub:    notify.Discard,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// AddReport appends an unverified report and returns its index.
func (r *Registry) AddReport(ctx context.Context, issuer identity.Address, uri, contentHash, summaryMetrics string) (uint64, error) {
	var (
		index uint64
		now   uint64
	)
	err := r.store.Update(ctx, func(_ context.Context, tx state.Tx) error {
		if err := access.Require(tx, issuer, access.Issuer); err != nil {
			return err
		}
		if strings.TrimSpace(uri) == "" {
			return ErrEmptyURI
		}
		now = clock.Unix(r.clock)
		var err error
		index, err = tx.AppendReport(state.Report{
			URI:            uri,
			ContentHash:    contentHash,
			SummaryMetrics: summaryMetrics,
			CreatedAt:      now,
			SubmittedBy:    issuer,
		})
		return err
	})
	metrics.Observe("add_report", err)
	if err != nil {
		return 0, err
	}

	metrics.ImpactReports.WithLabelValues("added").Inc()
	r.logger.Info("impact report added", "index", index, "uri", uri)
	e := notify.NewEvent(notify.KindReportAdded, issuer, now)
	e.Index = index
	r.pub.Publish(e)
	return index, nil
}

// VerifyReport marks the report at index verified. A report is verified
// at most once.
func (r *Registry) VerifyReport(ctx context.Context, verifier identity.Address, index uint64) error {
	var now uint64
	err := r.store.Update(ctx, func(_ context.Context, tx state.Tx) error {
		if err := access.Require(tx, verifier, access.Verifier); err != nil {
			return err
		}
		rep, err := reportAt(tx, index)
		if err != nil {
			return err
		}
		if rep.Verified {
			return fmt.Errorf("%w: index %d", ErrReportAlreadyVerified, index)
		}
		now = clock.Unix(r.clock)
		rep.Verified = true
		rep.VerifiedBy = verifier
		rep.VerifiedAt = now
		return tx.PutReport(index, rep)
	})
	metrics.Observe("verify_report", err)
	if err != nil {
		return err
	}

	metrics.ImpactReports.WithLabelValues("verified").Inc()
	r.logger.Info("impact report verified", "index", index, "verifier", verifier)
	e := notify.NewEvent(notify.KindReportVerified, verifier, now)
	e.Index = index
	r.pub.Publish(e)
	return nil
}

// AddReportDocument archives doc and adds a report whose content hash is
// the document's digest.
func (r *Registry) AddReportDocument(ctx context.Context, issuer identity.Address, uri string, doc []byte, summaryMetrics string) (uint64, error) {
	if r.archive == nil {
		return 0, ErrNoArchive
	}
	// Archiving is content addressed, so a document left behind by a
	// rejected report is harmless.
	digest, err := r.archive.Put(doc)
	if err != nil {
		return 0, err
	}
	return r.AddReport(ctx, issuer, uri, hex.EncodeToString(digest), summaryMetrics)
}

// CheckReportDocument loads the archived document for the report at index
// and reports whether it still matches the recorded content hash.
func (r *Registry) CheckReportDocument(ctx context.Context, index uint64) (bool, error) {
	if r.archive == nil {
		return false, ErrNoArchive
	}
	rep, err := r.Report(ctx, index)
	if err != nil {
		return false, err
	}
	digest, err := hex.DecodeString(normalizeHash(rep.ContentHash))
	if err != nil || len(digest) != archive.DigestSize {
		return false, nil
	}
	doc, err := r.archive.Get(digest)
	if errors.Is(err, archive.ErrDigestMismatch) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return MatchesContent(rep, doc), nil
}

// Report returns the report at index.
func (r *Registry) Report(ctx context.Context, index uint64) (state.Report, error) {
	var rep state.Report
	err := r.store.View(ctx, func(tx state.Tx) error {
		var err error
		rep, err = reportAt(tx, index)
		return err
	})
	return rep, err
}

// ReportCount returns the number of reports.
func (r *Registry) ReportCount(ctx context.Context) (uint64, error) {
	var n uint64
	err := r.store.View(ctx, func(tx state.Tx) error {
		var err error
		n, err = tx.ReportCount()
		return err
	})
	return n, err
}

// Reports returns every report in index order.
func (r *Registry) Reports(ctx context.Context) ([]state.Report, error) {
	var out []state.Report
	err := r.store.View(ctx, func(tx state.Tx) error {
		var err error
		out, err = tx.Reports()
		return err
	})
	return out, err
}

// AddCertification records a certification for the series and returns its
// index. AddedAt and AddedBy are filled in.
func (r *Registry) AddCertification(ctx context.Context, issuer identity.Address, cert state.Certification) (uint64, error) {
	var index uint64
	err := r.store.Update(ctx, func(_ context.Context, tx state.Tx) error {
		if err := access.Require(tx, issuer, access.Issuer); err != nil {
			return err
		}
		if strings.TrimSpace(cert.Standard) == "" {
			return ErrEmptyStandard
		}
		cert.AddedAt = clock.Unix(r.clock)
		cert.AddedBy = issuer
		var err error
		index, err = tx.AppendCertification(cert)
		return err
	})
	metrics.Observe("add_certification", err)
	if err != nil {
		return 0, err
	}

	r.logger.Info("certification added", "index", index, "standard", cert.Standard, "certifier", cert.Certifier)
	e := notify.NewEvent(notify.KindCertificationAdded, issuer, cert.AddedAt)
	e.Index = index
	r.pub.Publish(e)
	return index, nil
}

// Certifications returns every recorded certification.
func (r *Registry) Certifications(ctx context.Context) ([]state.Certification, error) {
	var out []state.Certification
	err := r.store.View(ctx, func(tx state.Tx) error {
		var err error
		out, err = tx.Certifications()
		return err
	})
	return out, err
}

func reportAt(tx state.Tx, index uint64) (state.Report, error) {
	rep, err := tx.Report(index)
	if errors.Is(err, state.ErrReportNotFound) {
		return state.Report{}, fmt.Errorf("%w: index %d", ErrReportDoesNotExist, index)
	}
	return rep, err
}
