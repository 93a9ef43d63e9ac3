package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Mutation("create_task", nil)
	m.Notification("comment")
	m.PersistError()
	m.Sweep()
	m.SetUnread(3)
	m.SetTaskCounts(map[string]int{"todo": 1})
}

func TestMutationOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Mutation("create_task", nil)
	m.Mutation("create_task", nil)
	m.Mutation("delete_task", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MutationsTotal.WithLabelValues("create_task", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MutationsTotal.WithLabelValues("delete_task", "error")))
}

func TestGauges(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetUnread(4)
	m.SetTaskCounts(map[string]int{"todo": 2, "done": 5})

	assert.Equal(t, 4.0, testutil.ToFloat64(m.UnreadGauge))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.TasksGauge.WithLabelValues("done")))
}

func TestHandlerServesMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Notification("assignment")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `taskdash_notifications_generated_total{type="assignment"} 1`))
}
