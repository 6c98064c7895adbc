package bond

import "errors"

var (
	// ErrBondMatured indicates a purchase at or after maturity.
	ErrBondMatured = errors.New("bond: bond has matured")

	// ErrBondNotMatured indicates a redemption before maturity.
	ErrBondNotMatured = errors.New("bond: bond has not matured")

	// ErrTooEarlyForWithdrawal indicates an emergency withdrawal inside the lock period.
	ErrTooEarlyForWithdrawal = errors.New("bond: too early for emergency withdrawal")

	// ErrInvalidBondAmount indicates a purchase of zero units.
	ErrInvalidBondAmount = errors.New("bond: invalid bond amount")

	// ErrInsufficientBondsAvailable indicates a purchase larger than the available supply.
	ErrInsufficientBondsAvailable = errors.New("bond: insufficient bonds available")

	// ErrNoCouponAvailable indicates a claim with nothing accrued.
	ErrNoCouponAvailable = errors.New("bond: no coupon available")

	// ErrNoBondsToRedeem indicates a redemption by a holder with no units.
	ErrNoBondsToRedeem = errors.New("bond: no bonds to redeem")

	// ErrInsufficientFunds indicates a withdrawal above the custodied balance.
	ErrInsufficientFunds = errors.New("bond: insufficient funds")

	// ErrInvalidTerms indicates unusable series terms.
	ErrInvalidTerms = errors.New("bond: invalid terms")

	// ErrInvalidCouponPeriod indicates a zero coupon period.
	ErrInvalidCouponPeriod = errors.New("bond: coupon period must be positive")

	// ErrArithmeticOverflow indicates a result that does not fit in 64 bits.
	ErrArithmeticOverflow = errors.New("bond: arithmetic overflow")

	// ErrAlreadyIssued indicates a second Issue on the same store.
	ErrAlreadyIssued = errors.New("bond: series already issued")

	// ErrClockBeforeEpoch indicates a clock reading at or before the Unix
	// epoch, which cannot serve as an accrual timestamp.
	ErrClockBeforeEpoch = errors.New("bond: clock reads at or before the Unix epoch")

	// ErrNilParam indicates a required dependency was nil.
	ErrNilParam = errors.New("bond: required parameter is nil")
)
