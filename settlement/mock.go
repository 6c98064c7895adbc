package settlement

import (
	"context"

	"github.com/bitfsorg/greenbond-go/identity"
)

// MockTokenLedger is a test double for TokenLedger.
// All function fields must be set before the corresponding method is called.
type MockTokenLedger struct {
	TransferFn     func(ctx context.Context, to identity.Address, amount uint64) (bool, error)
	TransferFromFn func(ctx context.Context, from, to identity.Address, amount uint64) (bool, error)
	BalanceOfFn    func(ctx context.Context, owner identity.Address) (uint64, error)
}

func (m *MockTokenLedger) Transfer(ctx context.Context, to identity.Address, amount uint64) (bool, error) {
	return m.TransferFn(ctx, to, amount)
}
func (m *MockTokenLedger) TransferFrom(ctx context.Context, from, to identity.Address, amount uint64) (bool, error) {
	return m.TransferFromFn(ctx, from, to, amount)
}
func (m *MockTokenLedger) BalanceOf(ctx context.Context, owner identity.Address) (uint64, error) {
	return m.BalanceOfFn(ctx, owner)
}
