// Package state owns the bond deployment aggregate: the series terms, the
// per-holder positions, the impact-report sequence, certifications, and
// role memberships. Every mutation runs inside an all-or-nothing store
// transaction.
package state

import (
	"github.com/bitfsorg/greenbond-go/identity"
)

// Series is the singleton bond series of a deployment.
type Series struct {
	Name                string
	FaceValue           uint64 // settlement units owed per bond unit at redemption
	TotalSupply         uint64
	AvailableSupply     uint64 // never exceeds TotalSupply; only decreases
	CouponRateBps       uint64 // annual rate, 1bp = 0.01%
	CouponPeriodSeconds uint64 // accrual granularity, > 0
	IssuanceTimestamp   uint64 // Unix seconds
	MaturityTimestamp   uint64 // IssuanceTimestamp + maturity period
}

// Outstanding returns the number of units sold.
func (s Series) Outstanding() uint64 {
	return s.TotalSupply - s.AvailableSupply
}

// Holding is one holder's position. The zero Holding means no position.
type Holding struct {
	Units                uint64
	LastAccrualTimestamp uint64 // 0 until first purchase and after redemption
}

// IsZero reports whether the holding carries no position.
func (h Holding) IsZero() bool {
	return h.Units == 0 && h.LastAccrualTimestamp == 0
}

// Report is an environmental-impact disclosure record.
type Report struct {
	URI            string
	ContentHash    string
	SummaryMetrics string
	CreatedAt      uint64
	SubmittedBy    identity.Address
	Verified       bool
	VerifiedBy     identity.Address
	VerifiedAt     uint64
}

// Certification is a third-party green-bond certification recorded by the issuer.
type Certification struct {
	Standard  string // e.g. the certification scheme name
	Certifier string // certifying body
	URI       string
	AddedAt   uint64
	AddedBy   identity.Address
}
