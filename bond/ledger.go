// Package bond implements the green bond ledger: issuance, purchase,
// coupon accrual and claims, redemption at maturity, the issuer's
// emergency withdrawal, and role grants.
//
// Every mutating operation runs inside one state.Store transaction. Checks
// and bookkeeping are written to the transaction first and the settlement
// call comes last, so a failed transfer discards the whole operation and a
// reentrant call made during the transfer is rejected by the store.
package bond

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bitfsorg/greenbond-go/access"
	"github.com/bitfsorg/greenbond-go/clock"
	"github.com/bitfsorg/greenbond-go/identity"
	"github.com/bitfsorg/greenbond-go/metrics"
	"github.com/bitfsorg/greenbond-go/notify"
	"github.com/bitfsorg/greenbond-go/settlement"
	"github.com/bitfsorg/greenbond-go/state"
)

// Settlement moves the settlement asset in and out of the ledger's custody.
// settlement.Adapter implements it.
type Settlement interface {
	// Pull moves amount from an account into custody.
	Pull(ctx context.Context, from identity.Address, amount uint64) error
	// Push moves amount from custody to an account.
	Push(ctx context.Context, to identity.Address, amount uint64) error
	// Balance returns the custodied balance.
	Balance(ctx context.Context) (uint64, error)
}

// Receipt describes a committed value-moving operation.
type Receipt struct {
	Units  uint64 // bond units bought or redeemed
	Amount uint64 // settlement units paid or received
	At     uint64 // Unix seconds
}

// Ledger is the bond state machine over a store.
type Ledger struct {
	store           state.Store
	settle          Settlement
	clock           clock.Clock
	pub             notify.Publisher
	logger          *slog.Logger
	withdrawalDelay uint64
}

// NewLedger creates a ledger over store, moving value through settle.
func NewLedger(store state.Store, settle Settlement, clk clock.Clock, opts ...Option) (*Ledger, error) {
	if store == nil || settle == nil || clk == nil {
		return nil, ErrNilParam
	}
	l := &Ledger{
		store:           store,
		settle:          settle,
		clock:           clk,
		pub:             notify.Discard,
		logger:          slog.New(slog.DiscardHandler),
		withdrawalDelay: uint64(DefaultWithdrawalDelay.Seconds()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Issue creates the series and grants the bootstrap roles.
func (l *Ledger) Issue(ctx context.Context, terms Terms, admin, issuer identity.Address) (state.Series, error) {
	var series state.Series
	err := l.store.Update(ctx, func(_ context.Context, tx state.Tx) error {
		if _, err := tx.Series(); err == nil {
			return ErrAlreadyIssued
		} else if !errors.Is(err, state.ErrNotIssued) {
			return err
		}
		if err := terms.Validate(); err != nil {
			return err
		}
		if admin.IsZero() || issuer.IsZero() {
			return fmt.Errorf("%w: bootstrap role holder", access.ErrZeroAccount)
		}

		now := clock.Unix(l.clock)
		if now == 0 {
			return ErrClockBeforeEpoch
		}
		maturity, err := add(now, terms.MaturityPeriodSeconds)
		if err != nil {
			return fmt.Errorf("%w: maturity timestamp", err)
		}
		series = state.Series{
			Name:                terms.Name,
			FaceValue:           terms.FaceValue,
			TotalSupply:         terms.TotalSupply,
			AvailableSupply:     terms.TotalSupply,
			CouponRateBps:       terms.CouponRateBps,
			CouponPeriodSeconds: terms.CouponPeriodSeconds,
			IssuanceTimestamp:   now,
			MaturityTimestamp:   maturity,
		}
		if err := tx.PutSeries(series); err != nil {
			return err
		}
		if err := grantInTx(tx, admin, access.Admin); err != nil {
			return err
		}
		return grantInTx(tx, issuer, access.Issuer)
	})
	metrics.Observe("issue", err)
	if err != nil {
		return state.Series{}, err
	}

	metrics.AvailableSupply.Set(float64(series.AvailableSupply))
	l.logger.Info("series issued",
		"name", series.Name,
		"supply", series.TotalSupply,
		"maturity", series.MaturityTimestamp)
	e := notify.NewEvent(notify.KindSeriesIssued, issuer, series.IssuanceTimestamp)
	e.Units = series.TotalSupply
	l.pub.Publish(e)
	return series, nil
}

func grantInTx(tx state.Tx, account identity.Address, role access.Role) error {
	set, err := tx.Roles(account)
	if err != nil {
		return err
	}
	return tx.PutRoles(account, set.With(role))
}

// Purchase buys units for buyer at face value. The buyer's accrual
// timestamp is reset to now, so coupon accrued on an earlier position and
// not yet claimed is forfeited.
func (l *Ledger) Purchase(ctx context.Context, buyer identity.Address, units uint64) (Receipt, error) {
	var (
		rcpt      Receipt
		available uint64
	)
	err := l.store.Update(ctx, func(ctx context.Context, tx state.Tx) error {
		s, err := tx.Series()
		if err != nil {
			return err
		}
		now := clock.Unix(l.clock)
		if now == 0 {
			return ErrClockBeforeEpoch
		}
		if now >= s.MaturityTimestamp {
			return ErrBondMatured
		}
		if units == 0 {
			return ErrInvalidBondAmount
		}
		if units > s.AvailableSupply {
			return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientBondsAvailable, units, s.AvailableSupply)
		}
		cost, err := mul(units, s.FaceValue)
		if err != nil {
			return fmt.Errorf("%w: cost", err)
		}
		h, err := tx.Holding(buyer)
		if err != nil {
			return err
		}
		held, err := add(h.Units, units)
		if err != nil {
			return fmt.Errorf("%w: holding", err)
		}

		s.AvailableSupply -= units
		if err := tx.PutSeries(s); err != nil {
			return err
		}
		if err := tx.PutHolding(buyer, state.Holding{Units: held, LastAccrualTimestamp: now}); err != nil {
			return err
		}

		if err := l.settle.Pull(ctx, buyer, cost); err != nil {
			return paymentError(err)
		}
		rcpt = Receipt{Units: units, Amount: cost, At: now}
		available = s.AvailableSupply
		return nil
	})
	l.observe("purchase", buyer, err)
	if err != nil {
		return Receipt{}, err
	}

	metrics.AvailableSupply.Set(float64(available))
	metrics.SettlementVolume.WithLabelValues(metrics.DirectionIn).Add(float64(rcpt.Amount))
	l.logger.Info("bonds purchased", "buyer", buyer, "units", rcpt.Units, "cost", rcpt.Amount)
	e := notify.NewEvent(notify.KindPurchased, buyer, rcpt.At)
	e.Units = rcpt.Units
	e.Amount = rcpt.Amount
	l.pub.Publish(e)
	return rcpt, nil
}

// ClaimableCoupon returns the coupon holder could claim now.
func (l *Ledger) ClaimableCoupon(ctx context.Context, holder identity.Address) (uint64, error) {
	var amount uint64
	err := l.store.View(ctx, func(tx state.Tx) error {
		s, err := tx.Series()
		if err != nil {
			return err
		}
		h, err := tx.Holding(holder)
		if err != nil {
			return err
		}
		amount, err = AccruedCoupon(s, h, clock.Unix(l.clock))
		return err
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// ClaimCoupon pays holder the accrued coupon and restarts accrual at now.
func (l *Ledger) ClaimCoupon(ctx context.Context, holder identity.Address) (Receipt, error) {
	var rcpt Receipt
	err := l.store.Update(ctx, func(ctx context.Context, tx state.Tx) error {
		s, err := tx.Series()
		if err != nil {
			return err
		}
		h, err := tx.Holding(holder)
		if err != nil {
			return err
		}
		now := clock.Unix(l.clock)
		amount, err := AccruedCoupon(s, h, now)
		if err != nil {
			return err
		}
		if amount == 0 {
			return ErrNoCouponAvailable
		}

		h.LastAccrualTimestamp = now
		if err := tx.PutHolding(holder, h); err != nil {
			return err
		}

		if err := l.settle.Push(ctx, holder, amount); err != nil {
			return paymentError(err)
		}
		rcpt = Receipt{Units: h.Units, Amount: amount, At: now}
		return nil
	})
	l.observe("claim", holder, err)
	if err != nil {
		return Receipt{}, err
	}

	metrics.SettlementVolume.WithLabelValues(metrics.DirectionOut).Add(float64(rcpt.Amount))
	l.logger.Info("coupon claimed", "holder", holder, "amount", rcpt.Amount)
	e := notify.NewEvent(notify.KindCouponClaimed, holder, rcpt.At)
	e.Amount = rcpt.Amount
	l.pub.Publish(e)
	return rcpt, nil
}

// Redeem pays holder principal plus accrued coupon and closes the position.
func (l *Ledger) Redeem(ctx context.Context, holder identity.Address) (Receipt, error) {
	var rcpt Receipt
	err := l.store.Update(ctx, func(ctx context.Context, tx state.Tx) error {
		s, err := tx.Series()
		if err != nil {
			return err
		}
		now := clock.Unix(l.clock)
		if now < s.MaturityTimestamp {
			return ErrBondNotMatured
		}
		h, err := tx.Holding(holder)
		if err != nil {
			return err
		}
		if h.Units == 0 {
			return ErrNoBondsToRedeem
		}
		principal, err := mul(h.Units, s.FaceValue)
		if err != nil {
			return fmt.Errorf("%w: principal", err)
		}
		coupon, err := AccruedCoupon(s, h, now)
		if err != nil {
			return err
		}
		total, err := add(principal, coupon)
		if err != nil {
			return fmt.Errorf("%w: redemption total", err)
		}

		if err := tx.PutHolding(holder, state.Holding{}); err != nil {
			return err
		}

		if err := l.settle.Push(ctx, holder, total); err != nil {
			return paymentError(err)
		}
		rcpt = Receipt{Units: h.Units, Amount: total, At: now}
		return nil
	})
	l.observe("redeem", holder, err)
	if err != nil {
		return Receipt{}, err
	}

	metrics.SettlementVolume.WithLabelValues(metrics.DirectionOut).Add(float64(rcpt.Amount))
	l.logger.Info("bonds redeemed", "holder", holder, "units", rcpt.Units, "amount", rcpt.Amount)
	e := notify.NewEvent(notify.KindRedeemed, holder, rcpt.At)
	e.Units = rcpt.Units
	e.Amount = rcpt.Amount
	l.pub.Publish(e)
	return rcpt, nil
}

// EmergencyWithdraw lets the issuer move amount out of custody once the
// withdrawal delay has passed since issuance. Series supply and holdings
// are not touched.
func (l *Ledger) EmergencyWithdraw(ctx context.Context, caller identity.Address, amount uint64) error {
	var at uint64
	err := l.store.Update(ctx, func(ctx context.Context, tx state.Tx) error {
		if err := access.Require(tx, caller, access.Issuer); err != nil {
			return err
		}
		s, err := tx.Series()
		if err != nil {
			return err
		}
		now := clock.Unix(l.clock)
		unlock, err := add(s.IssuanceTimestamp, l.withdrawalDelay)
		if err != nil {
			return fmt.Errorf("%w: lock period does not end", ErrTooEarlyForWithdrawal)
		}
		if now < unlock {
			return fmt.Errorf("%w: unlocks at %d", ErrTooEarlyForWithdrawal, unlock)
		}
		balance, err := l.settle.Balance(ctx)
		if err != nil {
			return err
		}
		if amount > balance {
			return fmt.Errorf("%w: requested %d, custody holds %d", ErrInsufficientFunds, amount, balance)
		}

		if err := l.settle.Push(ctx, caller, amount); err != nil {
			return paymentError(err)
		}
		at = now
		return nil
	})
	l.observe("withdraw", caller, err)
	if err != nil {
		return err
	}

	metrics.SettlementVolume.WithLabelValues(metrics.DirectionOut).Add(float64(amount))
	l.logger.Warn("emergency withdrawal", "issuer", caller, "amount", amount)
	e := notify.NewEvent(notify.KindFundsWithdrawn, caller, at)
	e.Amount = amount
	l.pub.Publish(e)
	return nil
}

// GrantRole gives account role. Only an Admin may grant. It reports
// whether the membership is new; granting a held role is a no-op.
func (l *Ledger) GrantRole(ctx context.Context, admin identity.Address, role access.Role, account identity.Address) (bool, error) {
	var (
		granted bool
		at      uint64
	)
	err := l.store.Update(ctx, func(_ context.Context, tx state.Tx) error {
		current, err := tx.Roles(account)
		if err != nil {
			return err
		}
		next, changed, err := access.Grant(tx, admin, current, role, account)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		if err := tx.PutRoles(account, next); err != nil {
			return err
		}
		granted = true
		at = clock.Unix(l.clock)
		return nil
	})
	l.observe("grant", admin, err)
	if err != nil || !granted {
		return false, err
	}

	l.logger.Info("role granted", "admin", admin, "role", role, "account", account)
	e := notify.NewEvent(notify.KindRoleGranted, account, at)
	e.Role = role.String()
	l.pub.Publish(e)
	return true, nil
}

// Series returns the issued series.
func (l *Ledger) Series(ctx context.Context) (state.Series, error) {
	var s state.Series
	err := l.store.View(ctx, func(tx state.Tx) error {
		var err error
		s, err = tx.Series()
		return err
	})
	return s, err
}

// Holding returns holder's position; the zero Holding if none.
func (l *Ledger) Holding(ctx context.Context, holder identity.Address) (state.Holding, error) {
	var h state.Holding
	err := l.store.View(ctx, func(tx state.Tx) error {
		var err error
		h, err = tx.Holding(holder)
		return err
	})
	return h, err
}

// Position is one holder's entry in Holders.
type Position struct {
	Holder identity.Address
	state.Holding
}

// Holders returns every open position, ordered by holder address.
func (l *Ledger) Holders(ctx context.Context) ([]Position, error) {
	var held map[identity.Address]state.Holding
	err := l.store.View(ctx, func(tx state.Tx) error {
		var err error
		held, err = tx.Holdings()
		return err
	})
	if err != nil {
		return nil, err
	}
	addrs := make([]identity.Address, 0, len(held))
	for a := range held {
		addrs = append(addrs, a)
	}
	identity.Sort(addrs)
	out := make([]Position, len(addrs))
	for i, a := range addrs {
		out[i] = Position{Holder: a, Holding: held[a]}
	}
	return out, nil
}

// Outstanding returns the number of units sold since issuance. Redemption
// does not return units to supply, so the figure never decreases.
func (l *Ledger) Outstanding(ctx context.Context) (uint64, error) {
	s, err := l.Series(ctx)
	if err != nil {
		return 0, err
	}
	return s.Outstanding(), nil
}

// HasRole reports whether account holds role.
func (l *Ledger) HasRole(ctx context.Context, account identity.Address, role access.Role) (bool, error) {
	var ok bool
	err := l.store.View(ctx, func(tx state.Tx) error {
		ok = tx.HasRole(account, role)
		return nil
	})
	return ok, err
}

// CustodyBalance returns the settlement asset held in custody.
func (l *Ledger) CustodyBalance(ctx context.Context) (uint64, error) {
	return l.settle.Balance(ctx)
}

// observe records the outcome of an operation. Settlement failures log at
// Warn, rejected preconditions at Debug.
func (l *Ledger) observe(op string, account identity.Address, err error) {
	metrics.Observe(op, err)
	switch {
	case err == nil:
	case errors.Is(err, settlement.ErrPaymentFailed):
		l.logger.Warn("settlement failed", "op", op, "account", account, "err", err)
	default:
		l.logger.Debug("operation rejected", "op", op, "account", account, "err", err)
	}
}

// paymentError makes sure a settlement failure carries ErrPaymentFailed.
func paymentError(err error) error {
	if errors.Is(err, settlement.ErrPaymentFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", settlement.ErrPaymentFailed, err)
}
