// Package notify carries the notifications produced by ledger and registry
// state transitions. Events are immutable values published after the
// transition commits; delivery is fire and forget.
package notify

import (
	"github.com/google/uuid"

	"github.com/bitfsorg/greenbond-go/identity"
)

// Kind names a state transition.
type Kind string

const (
	KindSeriesIssued       Kind = "series.issued"
	KindPurchased          Kind = "bond.purchased"
	KindCouponClaimed      Kind = "coupon.claimed"
	KindRedeemed           Kind = "bond.redeemed"
	KindFundsWithdrawn     Kind = "funds.withdrawn"
	KindRoleGranted        Kind = "role.granted"
	KindReportAdded        Kind = "report.added"
	KindReportVerified     Kind = "report.verified"
	KindCertificationAdded Kind = "certification.added"
)

// Event is one committed state transition. Fields that do not apply to a
// kind are left zero.
type Event struct {
	ID      uuid.UUID
	Kind    Kind
	Account identity.Address // buyer, holder, caller, or role grantee
	Units   uint64
	Amount  uint64 // settlement-asset units moved
	Index   uint64 // report or certification index
	Role    string
	At      uint64 // Unix seconds of the transition
}

// NewEvent returns an event of kind for account at the given time with a fresh ID.
func NewEvent(kind Kind, account identity.Address, at uint64) Event {
	return Event{
		ID:      uuid.New(),
		Kind:    kind,
		Account: account,
		At:      at,
	}
}
