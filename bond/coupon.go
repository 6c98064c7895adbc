package bond

import (
	"fmt"
	"math/bits"

	"github.com/bitfsorg/greenbond-go/state"
)

const (
	// SecondsPerYear is the 365-day year used to prorate the annual coupon.
	SecondsPerYear = 365 * 24 * 60 * 60

	// BasisPoints is the rate denominator (1bp = 0.01%).
	BasisPoints = 10000
)

// AccruedCoupon returns the coupon owed on h at now. Accrual is counted in
// whole coupon periods since the holder's last accrual timestamp:
//
//	bondValue = units * faceValue
//	annual    = bondValue * rateBps / 10000
//	perPeriod = annual * periodSeconds / 31536000
//	coupon    = perPeriod * periods
//
// evaluated in that order with floor division at each step. Products are
// formed in 128 bits so the only overflow is a quotient or final result
// that does not fit in uint64.
func AccruedCoupon(s state.Series, h state.Holding, now uint64) (uint64, error) {
	if h.Units == 0 || h.LastAccrualTimestamp == 0 {
		return 0, nil
	}
	if s.CouponPeriodSeconds == 0 {
		return 0, ErrInvalidCouponPeriod
	}
	if now <= h.LastAccrualTimestamp {
		return 0, nil
	}
	periods := (now - h.LastAccrualTimestamp) / s.CouponPeriodSeconds
	if periods == 0 {
		return 0, nil
	}

	bondValue, err := mul(h.Units, s.FaceValue)
	if err != nil {
		return 0, fmt.Errorf("%w: bond value", err)
	}
	annual, err := mulDiv(bondValue, s.CouponRateBps, BasisPoints)
	if err != nil {
		return 0, fmt.Errorf("%w: annual coupon", err)
	}
	perPeriod, err := mulDiv(annual, s.CouponPeriodSeconds, SecondsPerYear)
	if err != nil {
		return 0, fmt.Errorf("%w: period coupon", err)
	}
	total, err := mul(perPeriod, periods)
	if err != nil {
		return 0, fmt.Errorf("%w: coupon total", err)
	}
	return total, nil
}

func mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrArithmeticOverflow
	}
	return lo, nil
}

func add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

// mulDiv returns floor(a*b/d) with a 128-bit intermediate product. d > 0.
func mulDiv(a, b, d uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, ErrArithmeticOverflow
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}
