package bond

import (
	"fmt"
)

// Terms are the parameters a series is issued with.
type Terms struct {
	Name                  string
	FaceValue             uint64 // settlement units per bond unit
	TotalSupply           uint64
	CouponRateBps         uint64
	CouponPeriodSeconds   uint64
	MaturityPeriodSeconds uint64 // maturity = issuance + this
}

// Validate checks the terms before issuance.
func (t Terms) Validate() error {
	if t.CouponPeriodSeconds == 0 {
		return ErrInvalidCouponPeriod
	}
	if t.TotalSupply == 0 {
		return fmt.Errorf("%w: total supply is zero", ErrInvalidTerms)
	}
	if t.FaceValue == 0 {
		return fmt.Errorf("%w: face value is zero", ErrInvalidTerms)
	}
	if t.MaturityPeriodSeconds == 0 {
		return fmt.Errorf("%w: maturity period is zero", ErrInvalidTerms)
	}
	// Full redemption of the series must be payable.
	if _, err := mul(t.TotalSupply, t.FaceValue); err != nil {
		return fmt.Errorf("%w: total principal: %w", ErrInvalidTerms, err)
	}
	return nil
}
