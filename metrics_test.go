package avlmap

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	return testutil.ToFloat64(c)
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	m := New[int, int](&Config{Metrics: metrics})
	m.Insert(1, 1)
	m.Insert(2, 2)
	m.Insert(3, 3)
	m.Find(2)
	m.Remove(3)
	m.Balance()

	require.Equal(t, 3.0, counterValue(t, metrics.operations.WithLabelValues("insert")))
	require.Equal(t, 1.0, counterValue(t, metrics.operations.WithLabelValues("find")))
	require.Equal(t, 1.0, counterValue(t, metrics.operations.WithLabelValues("remove")))
	require.Equal(t, 1.0, counterValue(t, metrics.rotations.WithLabelValues(string(rightRight))))
	require.Equal(t, 0.0, counterValue(t, metrics.rotations.WithLabelValues(string(leftLeft))))
	require.Equal(t, 1.0, counterValue(t, metrics.rebuilds))

	count, err := testutil.GatherAndCount(registry,
		"avlmap_operations_total", "avlmap_rotations_total", "avlmap_rebuilds_total")
	require.NoError(t, err)
	require.Greater(t, count, 0)
}

func TestMetricsShared(t *testing.T) {
	t.Parallel()
	metrics := NewMetrics(nil)
	a := New[int, int](&Config{Metrics: metrics})
	b := New[string, int](&Config{Metrics: metrics})
	a.Insert(1, 1)
	b.Insert("x", 1)
	a.Clone().Insert(2, 2)
	require.Equal(t, 3.0, counterValue(t, metrics.operations.WithLabelValues("insert")))
}

func TestMetricsNil(t *testing.T) {
	t.Parallel()
	var metrics *Metrics
	metrics.op("insert")
	metrics.rotated(leftLeft)
	metrics.rebuilt()
	m := newTestMap()
	m.Insert(1, 1)
	m.Balance()
	require.Equal(t, 1, m.Size())
}
