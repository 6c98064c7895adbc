package settlement

import (
	"context"
	"math"
	"sync"

	"github.com/bitfsorg/greenbond-go/identity"
)

// Movement records one successful token transfer on a MemLedger.
type Movement struct {
	From    identity.Address
	To      identity.Address
	Spender identity.Address // zero for a direct Transfer
	Amount  uint64
}

// MemLedger is an in-memory fungible token with balances and allowances.
// Transfers signal rejection with false, never with an error.
type MemLedger struct {
	mu         sync.Mutex
	balances   map[identity.Address]uint64
	allowances map[identity.Address]map[identity.Address]uint64
	movements  []Movement
	onTransfer func(ctx context.Context, m Movement)
}

// NewMemLedger creates an empty token ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{
		balances:   make(map[identity.Address]uint64),
		allowances: make(map[identity.Address]map[identity.Address]uint64),
	}
}

// As returns the TokenLedger view an account uses to move its own funds.
func (l *MemLedger) As(caller identity.Address) TokenLedger {
	return &memSession{ledger: l, caller: caller}
}

// Mint credits amount to an account. It reports false on overflow.
func (l *MemLedger) Mint(to identity.Address, amount uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[to] > math.MaxUint64-amount {
		return false
	}
	l.balances[to] += amount
	return true
}

// Approve sets the amount spender may move out of owner's balance.
func (l *MemLedger) Approve(owner, spender identity.Address, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[identity.Address]uint64)
	}
	l.allowances[owner][spender] = amount
}

// Allowance returns what spender may still move out of owner's balance.
func (l *MemLedger) Allowance(owner, spender identity.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowances[owner][spender]
}

// Balance returns an account's balance.
func (l *MemLedger) Balance(owner identity.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[owner]
}

// Movements returns a copy of every successful transfer so far.
func (l *MemLedger) Movements() []Movement {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Movement, len(l.movements))
	copy(out, l.movements)
	return out
}

// OnTransfer installs a hook run after every successful transfer, outside
// the ledger lock and with the caller's context. A hook may call back into
// whatever initiated the transfer.
func (l *MemLedger) OnTransfer(fn func(ctx context.Context, m Movement)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onTransfer = fn
}

// move debits from and credits to under the lock. Caller must hold l.mu.
func (l *MemLedger) move(from, to identity.Address, amount uint64) bool {
	if l.balances[from] < amount {
		return false
	}
	if from != to && l.balances[to] > math.MaxUint64-amount {
		return false
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return true
}

func (l *MemLedger) transfer(ctx context.Context, spender, from, to identity.Address, amount uint64, useAllowance bool) bool {
	l.mu.Lock()
	if useAllowance && l.allowances[from][spender] < amount {
		l.mu.Unlock()
		return false
	}
	if !l.move(from, to, amount) {
		l.mu.Unlock()
		return false
	}
	m := Movement{From: from, To: to, Amount: amount}
	if useAllowance {
		l.allowances[from][spender] -= amount
		m.Spender = spender
	}
	l.movements = append(l.movements, m)
	hook := l.onTransfer
	l.mu.Unlock()

	if hook != nil {
		hook(ctx, m)
	}
	return true
}

// memSession is a MemLedger bound to the calling account.
type memSession struct {
	ledger *MemLedger
	caller identity.Address
}

func (s *memSession) Transfer(ctx context.Context, to identity.Address, amount uint64) (bool, error) {
	return s.ledger.transfer(ctx, s.caller, s.caller, to, amount, false), nil
}

func (s *memSession) TransferFrom(ctx context.Context, from, to identity.Address, amount uint64) (bool, error) {
	return s.ledger.transfer(ctx, s.caller, from, to, amount, true), nil
}

func (s *memSession) BalanceOf(_ context.Context, owner identity.Address) (uint64, error) {
	return s.ledger.Balance(owner), nil
}
