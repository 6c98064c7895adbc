// Package service wires a green bond deployment from its configuration:
// logger, store, settlement backend, ledger, impact registry with its
// document archive, and the notification feed.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/greenbond-go/access"
	"github.com/bitfsorg/greenbond-go/archive"
	"github.com/bitfsorg/greenbond-go/bond"
	"github.com/bitfsorg/greenbond-go/clock"
	"github.com/bitfsorg/greenbond-go/config"
	"github.com/bitfsorg/greenbond-go/identity"
	"github.com/bitfsorg/greenbond-go/impact"
	"github.com/bitfsorg/greenbond-go/notify"
	"github.com/bitfsorg/greenbond-go/settlement"
	"github.com/bitfsorg/greenbond-go/state"
)

// Service is an opened deployment.
type Service struct {
	Config     config.Config
	Logger     *slog.Logger
	Store      state.Store
	Custody    identity.Address
	Settlement *settlement.Adapter
	Ledger     *bond.Ledger
	Registry   *impact.Registry
	Archive    archive.Store
	Feed       *notify.Feed

	// Memory is the in-process token ledger when the memory backend is
	// configured, nil otherwise.
	Memory *settlement.MemLedger

	logCloser io.Closer
}

type options struct {
	clock     clock.Clock
	store     state.Store
	token     settlement.TokenLedger
	publisher notify.Publisher
	logger    *slog.Logger
	archive   archive.Store
}

// Option customizes Open.
type Option func(*options)

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option { return func(o *options) { o.clock = c } }

// WithStore uses store instead of opening the bbolt database in the data directory.
func WithStore(s state.Store) Option { return func(o *options) { o.store = s } }

// WithTokenLedger uses token instead of the configured settlement backend.
func WithTokenLedger(t settlement.TokenLedger) Option { return func(o *options) { o.token = t } }

// WithPublisher adds a notification sink alongside the feed and the event log.
func WithPublisher(p notify.Publisher) Option { return func(o *options) { o.publisher = p } }

// WithArchive replaces the document archive in the data directory.
func WithArchive(a archive.Store) Option { return func(o *options) { o.archive = a } }

// WithLogger replaces the logger built from the configuration.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Open validates cfg and wires the deployment. Close releases it.
func Open(cfg config.Config, opts ...Option) (*Service, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	o := options{clock: clock.System{}}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Service{Config: cfg, logCloser: nopCloser{}}
	if o.logger != nil {
		s.Logger = o.logger
	} else {
		logger, closer, err := NewLogger(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return nil, err
		}
		s.Logger, s.logCloser = logger, closer
	}

	if err := s.wire(cfg, o); err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Logger.Info("service opened",
		"network", cfg.Network,
		"backend", cfg.Settlement.Backend,
		"custody", s.Custody)
	return s, nil
}

func (s *Service) wire(cfg config.Config, o options) error {
	s.Store = o.store
	if s.Store == nil {
		store, err := state.OpenBoltStore(cfg.DBPath())
		if err != nil {
			return err
		}
		s.Store = store
	}

	custody, err := custodyAccount(cfg.Settlement)
	if err != nil {
		return err
	}
	s.Custody = custody

	token := o.token
	if token == nil {
		token, err = s.tokenLedger(cfg)
		if err != nil {
			return err
		}
	}
	s.Settlement, err = settlement.NewAdapter(token, custody)
	if err != nil {
		return err
	}

	s.Feed = notify.NewFeed()
	pub := notify.Multi(s.Feed, notify.LogPublisher{Logger: s.Logger.With("component", "events")}, o.publisher)

	s.Ledger, err = bond.NewLedger(s.Store, s.Settlement, o.clock,
		bond.WithPublisher(pub),
		bond.WithLogger(s.Logger.With("component", "bond")),
		bond.WithWithdrawalDelaySeconds(cfg.Series.WithdrawalDelaySeconds))
	if err != nil {
		return err
	}
	s.Archive = o.archive
	if s.Archive == nil {
		s.Archive, err = archive.NewFileStore(cfg.ArchiveDir())
		if err != nil {
			return err
		}
	}
	s.Registry, err = impact.NewRegistry(s.Store, o.clock,
		impact.WithPublisher(pub),
		impact.WithLogger(s.Logger.With("component", "impact")),
		impact.WithArchive(s.Archive))
	return err
}

func (s *Service) tokenLedger(cfg config.Config) (settlement.TokenLedger, error) {
	switch cfg.Settlement.Backend {
	case config.BackendRPC:
		explicit := &settlement.RPCConfig{
			URL:      cfg.Settlement.RPCURL,
			User:     cfg.Settlement.RPCUser,
			Password: cfg.Settlement.RPCPassword,
			Timeout:  time.Duration(cfg.Settlement.TimeoutSeconds) * time.Second,
		}
		rc, err := settlement.ResolveConfig(explicit, environ(), cfg.Network)
		if err != nil {
			return nil, err
		}
		return settlement.NewRPCLedger(*rc), nil
	default:
		s.Memory = settlement.NewMemLedger()
		return s.Memory.As(s.Custody), nil
	}
}

// custodyAccount parses the configured custody account. The memory backend
// falls back to a fixed identity derived from a well-known label.
func custodyAccount(cfg config.SettlementConfig) (identity.Address, error) {
	if cfg.Custody != "" {
		a, err := identity.Parse(cfg.Custody)
		if err != nil {
			return identity.Zero, fmt.Errorf("%w: custody: %w", config.ErrInvalidSettlement, err)
		}
		return a, nil
	}
	return identity.FromHash(bsvhash.Hash160([]byte("greenbond/custody")))
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// Terms converts the configured series to issuance terms.
func Terms(c config.SeriesConfig) bond.Terms {
	return bond.Terms{
		Name:                  c.Name,
		FaceValue:             c.FaceValue,
		TotalSupply:           c.TotalSupply,
		CouponRateBps:         c.CouponRateBps,
		CouponPeriodSeconds:   c.CouponPeriodSeconds,
		MaturityPeriodSeconds: c.MaturityPeriodSeconds,
	}
}

// Bootstrap issues the configured series if the store holds none, then
// grants Verifier to every configured verifier. It is safe to run on an
// already bootstrapped store.
func (s *Service) Bootstrap(ctx context.Context) (state.Series, error) {
	roles := s.Config.Roles
	if roles.Admin == "" || roles.Issuer == "" {
		return state.Series{}, ErrMissingRole
	}
	admin, err := identity.Parse(roles.Admin)
	if err != nil {
		return state.Series{}, fmt.Errorf("%w: admin: %w", config.ErrInvalidRole, err)
	}
	issuer, err := identity.Parse(roles.Issuer)
	if err != nil {
		return state.Series{}, fmt.Errorf("%w: issuer: %w", config.ErrInvalidRole, err)
	}

	series, err := s.Ledger.Series(ctx)
	switch {
	case errors.Is(err, state.ErrNotIssued):
		series, err = s.Ledger.Issue(ctx, Terms(s.Config.Series), admin, issuer)
		if err != nil {
			return state.Series{}, err
		}
	case err != nil:
		return state.Series{}, err
	default:
		s.Logger.Debug("series already issued", "name", series.Name)
	}

	for _, v := range roles.Verifiers {
		verifier, err := identity.Parse(v)
		if err != nil {
			return state.Series{}, fmt.Errorf("%w: verifier: %w", config.ErrInvalidRole, err)
		}
		if _, err := s.Ledger.GrantRole(ctx, admin, access.Verifier, verifier); err != nil {
			return state.Series{}, err
		}
	}
	return series, nil
}

// Close closes the feed, the store (including one passed with WithStore),
// and the log file.
func (s *Service) Close() error {
	var errs []error
	if s.Feed != nil {
		s.Feed.Close()
	}
	if s.Store != nil {
		errs = append(errs, s.Store.Close())
	}
	if s.logCloser != nil {
		errs = append(errs, s.logCloser.Close())
	}
	return errors.Join(errs...)
}
