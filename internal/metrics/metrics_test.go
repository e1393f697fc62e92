package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordLoad(t *testing.T) {
	before := testutil.ToFloat64(LoadsTotal.WithLabelValues("file", ResultOK))
	RecordLoad("file", ResultOK, 10*time.Millisecond, 42)

	assert.Equal(t, before+1, testutil.ToFloat64(LoadsTotal.WithLabelValues("file", ResultOK)))
	assert.Equal(t, 42.0, testutil.ToFloat64(RowsAnalyzed))

	RecordLoad("file", ResultEmptyData, time.Millisecond, 0)
	assert.Equal(t, 42.0, testutil.ToFloat64(RowsAnalyzed), "failed loads keep the gauge")
}

func TestRecordWarning(t *testing.T) {
	before := testutil.ToFloat64(DataWarnings.WithLabelValues("unknown_event"))
	RecordWarning("unknown_event", 3)
	RecordWarning("unknown_event", 0)
	assert.Equal(t, before+3, testutil.ToFloat64(DataWarnings.WithLabelValues("unknown_event")))
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequests.WithLabelValues("GET", "/healthz", "200"))
	RecordAPIRequest("GET", "/healthz", 200, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(APIRequests.WithLabelValues("GET", "/healthz", "200")))
}
