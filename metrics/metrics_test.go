package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_AllVariablesNonNil(t *testing.T) {
	vars := []struct {
		name string
		val  any
	}{
		{"LedgerOperations", LedgerOperations},
		{"AvailableSupply", AvailableSupply},
		{"SettlementVolume", SettlementVolume},
		{"ImpactReports", ImpactReports},
	}
	for _, v := range vars {
		assert.NotNilf(t, v.val, "%s should not be nil", v.name)
	}
}

func TestObserve(t *testing.T) {
	okBefore := testutil.ToFloat64(LedgerOperations.WithLabelValues("test_op", ResultOK))
	errBefore := testutil.ToFloat64(LedgerOperations.WithLabelValues("test_op", ResultError))

	Observe("test_op", nil)
	Observe("test_op", nil)
	Observe("test_op", errors.New("x"))

	assert.Equal(t, okBefore+2, testutil.ToFloat64(LedgerOperations.WithLabelValues("test_op", ResultOK)))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(LedgerOperations.WithLabelValues("test_op", ResultError)))
}

func TestGaugeAndCounters_NoPanic(t *testing.T) {
	assert.NotPanics(t, func() { AvailableSupply.Set(10) })
	assert.NotPanics(t, func() { SettlementVolume.WithLabelValues(DirectionIn).Add(5) })
	assert.NotPanics(t, func() { ImpactReports.WithLabelValues("added").Inc() })
	assert.Equal(t, float64(10), testutil.ToFloat64(AvailableSupply))
}
