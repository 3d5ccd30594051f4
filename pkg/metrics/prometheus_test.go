package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordCacheResult("prediction", true)
	r.RecordCacheResult("prediction", true)
	r.RecordCacheResult("prediction", false)
	r.RecordAlert("critical")
	r.RecordIngested("news")
	r.RecordError("clickhouse")
	r.RecordComputation("risk", "monte_carlo", 0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.cache.WithLabelValues("prediction", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cache.WithLabelValues("prediction", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.alerts.WithLabelValues("critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ingested.WithLabelValues("news")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("clickhouse")))

	n, err := testutil.GatherAndCount(reg, "finsight_computation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
