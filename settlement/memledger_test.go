package settlement

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemLedger_Transfer(t *testing.T) {
	l := NewMemLedger()
	alice, bob := addr(1), addr(2)
	require.True(t, l.Mint(alice, 100))

	ok, err := l.As(alice).Transfer(context.Background(), bob, 60)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(40), l.Balance(alice))
	assert.Equal(t, uint64(60), l.Balance(bob))

	ok, err = l.As(alice).Transfer(context.Background(), bob, 41)
	require.NoError(t, err)
	assert.False(t, ok, "overdraft must be rejected")
	assert.Equal(t, uint64(40), l.Balance(alice))
}

func TestMemLedger_TransferFromNeedsAllowance(t *testing.T) {
	l := NewMemLedger()
	owner, spender := addr(1), addr(0xCC)
	require.True(t, l.Mint(owner, 1000))

	ok, _ := l.As(spender).TransferFrom(context.Background(), owner, spender, 10)
	assert.False(t, ok)

	l.Approve(owner, spender, 300)
	ok, _ = l.As(spender).TransferFrom(context.Background(), owner, spender, 200)
	assert.True(t, ok)
	assert.Equal(t, uint64(100), l.Allowance(owner, spender))
	assert.Equal(t, uint64(800), l.Balance(owner))
	assert.Equal(t, uint64(200), l.Balance(spender))

	ok, _ = l.As(spender).TransferFrom(context.Background(), owner, spender, 101)
	assert.False(t, ok)

	moves := l.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, Movement{From: owner, To: spender, Spender: spender, Amount: 200}, moves[0])
}

func TestMemLedger_MintOverflow(t *testing.T) {
	l := NewMemLedger()
	require.True(t, l.Mint(addr(1), math.MaxUint64))
	assert.False(t, l.Mint(addr(1), 1))
}

func TestMemLedger_OnTransferRunsOutsideLock(t *testing.T) {
	l := NewMemLedger()
	require.True(t, l.Mint(addr(1), 10))

	var seen []Movement
	l.OnTransfer(func(ctx context.Context, m Movement) {
		seen = append(seen, m)
		// Reading the ledger from the hook must not deadlock.
		bal, err := l.As(addr(1)).BalanceOf(ctx, addr(1))
		require.NoError(t, err)
		assert.Equal(t, uint64(7), bal)
	})

	ok, err := l.As(addr(1)).Transfer(context.Background(), addr(2), 3)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, seen, 1)
	assert.Equal(t, uint64(3), seen[0].Amount)
}

func TestMemLedger_RejectedTransferSkipsHook(t *testing.T) {
	l := NewMemLedger()
	called := false
	l.OnTransfer(func(context.Context, Movement) { called = true })

	ok, _ := l.As(addr(1)).Transfer(context.Background(), addr(2), 1)
	assert.False(t, ok)
	assert.False(t, called)
	assert.Empty(t, l.Movements())
}
