package bond

import (
	"log/slog"
	"time"

	"github.com/bitfsorg/greenbond-go/notify"
)

// DefaultWithdrawalDelay is the lock period before the issuer may use
// EmergencyWithdraw, counted from issuance.
const DefaultWithdrawalDelay = 30 * 24 * time.Hour

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher sets the notification sink. nil means discard.
func WithPublisher(p notify.Publisher) Option {
	return func(l *Ledger) {
		if p == nil {
			p = notify.Discard
		}
		l.pub = p
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithWithdrawalDelay overrides DefaultWithdrawalDelay. Sub-second
// precision is dropped; negative values count as zero. Delays beyond the
// range of time.Duration need WithWithdrawalDelaySeconds.
func WithWithdrawalDelay(d time.Duration) Option {
	return func(l *Ledger) {
		if d < 0 {
			d = 0
		}
		l.withdrawalDelay = uint64(d / time.Second)
	}
}

// WithWithdrawalDelaySeconds overrides DefaultWithdrawalDelay in whole
// seconds. A delay that runs past the end of uint64 time, such as
// math.MaxUint64, never unlocks.
func WithWithdrawalDelaySeconds(seconds uint64) Option {
	return func(l *Ledger) { l.withdrawalDelay = seconds }
}
