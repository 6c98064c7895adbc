package settlement

import "errors"

var (
	// ErrPaymentFailed indicates the token ledger rejected or failed a transfer.
	ErrPaymentFailed = errors.New("settlement: payment failed")

	// ErrBalanceUnavailable indicates the custody balance could not be read.
	ErrBalanceUnavailable = errors.New("settlement: balance unavailable")

	// ErrNilLedger indicates an adapter was built without a token ledger.
	ErrNilLedger = errors.New("settlement: token ledger is nil")

	// ErrConnectionFailed indicates the client could not reach the token ledger node.
	ErrConnectionFailed = errors.New("settlement: connection failed")

	// ErrInvalidResponse indicates the node returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("settlement: invalid response")
)
