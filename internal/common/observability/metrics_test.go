package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordJob(t *testing.T) {
	reader := metric.NewManualReader()
	obs, err := NewWithReader("kisan-test", reader)
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	obs.RecordJob(context.Background(), "analyze-scheme-eligibility", 25*time.Millisecond)
	obs.RecordJob(context.Background(), "analyze-scheme-eligibility", 5*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	found := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		found[m.Name] = true
		if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
			require.Len(t, sum.DataPoints, 1)
			assert.Equal(t, int64(2), sum.DataPoints[0].Value)
		}
	}
	assert.True(t, found["jobs.processed"])
	assert.True(t, found["jobs.duration"])
}

func TestRecordJob_NilReceiver(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		obs.RecordJob(context.Background(), "search-schemes", time.Second)
	})
	assert.NoError(t, obs.Shutdown(context.Background()))
}
