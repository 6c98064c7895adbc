// Package settlement is the bond ledger's only path to the settlement
// asset. The asset's balances live in an external fungible-token ledger;
// this package calls through to it and turns every non-success into an
// error.
package settlement

import (
	"context"
	"fmt"

	"github.com/bitfsorg/greenbond-go/identity"
)

// TokenLedger is the external fungible-token ledger as seen by the custody
// account: Transfer moves custody funds out, TransferFrom spends an
// allowance the owner granted to custody. A false result with a nil error
// is a rejected transfer.
//
// Calls are made from inside a store transaction. Implementations that run
// callbacks into the bond ledger must hand those callbacks the ctx they
// received, so the nested call fails with state.ErrReentrantCall. A
// callback started with an unrelated context instead waits for the
// transaction and fails with state.ErrWriterBusy once its own context ends.
type TokenLedger interface {
	Transfer(ctx context.Context, to identity.Address, amount uint64) (bool, error)
	TransferFrom(ctx context.Context, from, to identity.Address, amount uint64) (bool, error)
	BalanceOf(ctx context.Context, owner identity.Address) (uint64, error)
}

// Adapter moves settlement-asset value between investors and custody.
type Adapter struct {
	token   TokenLedger
	custody identity.Address
}

// NewAdapter binds a token ledger to the custody account that holds bond proceeds.
func NewAdapter(token TokenLedger, custody identity.Address) (*Adapter, error) {
	if token == nil {
		return nil, ErrNilLedger
	}
	return &Adapter{token: token, custody: custody}, nil
}

// Custody returns the account that holds bond proceeds.
func (a *Adapter) Custody() identity.Address { return a.custody }

// Pull moves amount from an investor into custody.
func (a *Adapter) Pull(ctx context.Context, from identity.Address, amount uint64) error {
	ok, err := a.token.TransferFrom(ctx, from, a.custody, amount)
	if err != nil {
		return fmt.Errorf("%w: pull %d from %s: %w", ErrPaymentFailed, amount, from, err)
	}
	if !ok {
		return fmt.Errorf("%w: pull %d from %s rejected", ErrPaymentFailed, amount, from)
	}
	return nil
}

// Push moves amount out of custody to an account.
func (a *Adapter) Push(ctx context.Context, to identity.Address, amount uint64) error {
	ok, err := a.token.Transfer(ctx, to, amount)
	if err != nil {
		return fmt.Errorf("%w: push %d to %s: %w", ErrPaymentFailed, amount, to, err)
	}
	if !ok {
		return fmt.Errorf("%w: push %d to %s rejected", ErrPaymentFailed, amount, to)
	}
	return nil
}

// Balance returns the custody account's settlement-asset balance.
func (a *Adapter) Balance(ctx context.Context) (uint64, error) {
	bal, err := a.token.BalanceOf(ctx, a.custody)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBalanceUnavailable, err)
	}
	return bal, nil
}
