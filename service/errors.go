package service

import (
	"errors"

	"github.com/bitfsorg/greenbond-go/access"
	"github.com/bitfsorg/greenbond-go/bond"
	"github.com/bitfsorg/greenbond-go/impact"
	"github.com/bitfsorg/greenbond-go/settlement"
	"github.com/bitfsorg/greenbond-go/state"
)

// ErrMissingRole indicates bootstrap without an admin or issuer configured.
var ErrMissingRole = errors.New("service: admin and issuer must be configured")

// Kind groups operation errors by cause.
type Kind string

const (
	KindNone          Kind = ""
	KindTemporal      Kind = "temporal"
	KindValidation    Kind = "validation"
	KindEconomic      Kind = "economic"
	KindSettlement    Kind = "settlement"
	KindAuthorization Kind = "authorization"
	KindState         Kind = "state"
	KindUnknown       Kind = "unknown"
)

var (
	temporalErrs = []error{
		bond.ErrBondMatured,
		bond.ErrBondNotMatured,
		bond.ErrTooEarlyForWithdrawal,
		bond.ErrClockBeforeEpoch,
	}
	validationErrs = []error{
		bond.ErrInvalidBondAmount,
		bond.ErrInsufficientBondsAvailable,
		bond.ErrInvalidTerms,
		bond.ErrInvalidCouponPeriod,
		bond.ErrArithmeticOverflow,
		impact.ErrReportDoesNotExist,
		impact.ErrReportAlreadyVerified,
		impact.ErrEmptyURI,
		impact.ErrEmptyStandard,
		access.ErrUnknownRole,
		access.ErrZeroAccount,
	}
	economicErrs = []error{
		bond.ErrNoCouponAvailable,
		bond.ErrNoBondsToRedeem,
		bond.ErrInsufficientFunds,
	}
	settlementErrs = []error{
		settlement.ErrPaymentFailed,
		settlement.ErrBalanceUnavailable,
	}
	stateErrs = []error{
		state.ErrNotIssued,
		state.ErrReentrantCall,
		state.ErrWriterBusy,
		state.ErrStoreClosed,
		bond.ErrAlreadyIssued,
	}
)

// Classify returns the kind of an error returned by a ledger or registry
// operation. Every kind is final for the invocation; nothing is retried.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	// Settlement first: a payment failure may wrap the cause of the rejection.
	switch {
	case isAny(err, settlementErrs):
		return KindSettlement
	case isAny(err, temporalErrs):
		return KindTemporal
	case isAny(err, validationErrs):
		return KindValidation
	case isAny(err, economicErrs):
		return KindEconomic
	case errors.Is(err, access.ErrUnauthorized):
		return KindAuthorization
	case isAny(err, stateErrs):
		return KindState
	}
	return KindUnknown
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
