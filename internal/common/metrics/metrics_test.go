package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCalculation(t *testing.T) {
	before := testutil.ToFloat64(SavingsCalculations.WithLabelValues("agency", OutcomeComputed))
	beforeUnknown := testutil.ToFloat64(SavingsCalculations.WithLabelValues("_unknown", OutcomeUnknown))

	RecordCalculation("agency", true)
	RecordCalculation("whatever-the-user-typed", false)

	assert.Equal(t, before+1, testutil.ToFloat64(SavingsCalculations.WithLabelValues("agency", OutcomeComputed)))
	assert.Equal(t, beforeUnknown+1, testutil.ToFloat64(SavingsCalculations.WithLabelValues("_unknown", OutcomeUnknown)))
}
