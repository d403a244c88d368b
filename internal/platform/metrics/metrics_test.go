package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/talent-tagger/internal/core/tagging"
)

func TestManager_RecordsPipelineMetrics(t *testing.T) {
	m := NewManager()

	m.RecordOutcome(tagging.OutcomeMatched)
	m.RecordOutcome(tagging.OutcomeMatched)
	m.RecordOutcome(tagging.OutcomeGenerated)
	m.RecordPersist(true, nil)
	m.RecordPersist(false, nil)
	m.RecordPersist(false, errors.New("db down"))
	m.ObserveStage(tagging.StageEmbed, 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.outcomes.WithLabelValues(tagging.OutcomeMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues(tagging.OutcomeGenerated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persists.WithLabelValues("inserted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persists.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persists.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration))
}

func TestManager_HandlerExposesMetrics(t *testing.T) {
	m := NewManager()
	m.ObserveHTTP("/api/talent", http.StatusOK, 50*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `talent_tagger_http_requests_total{code="200",route="/api/talent"} 1`)
}
