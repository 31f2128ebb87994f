package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector_RegistersAllMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector("kgraph", registry)

	collector.GraphsBuilt.Inc()
	collector.NodesCreated.Add(3)
	collector.GraphsMerged.WithLabelValues("UNION").Inc()
	collector.BuildDuration.Observe(0.25)

	assert.InDelta(t, 1.0, testutil.ToFloat64(collector.GraphsBuilt), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(collector.NodesCreated), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(collector.GraphsMerged.WithLabelValues("UNION")), 1e-9)

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewCollector_NilRegistererSkipsRegistration(t *testing.T) {
	collector := NewCollector("kgraph", nil)

	// Metrics still work unregistered
	collector.SimilarityComparisons.Inc()
	assert.InDelta(t, 1.0, testutil.ToFloat64(collector.SimilarityComparisons), 1e-9)
}

func TestNewCollector_FreshRegistryPerCollector(t *testing.T) {
	// Two collectors must not collide as long as each gets its own registry
	a := NewCollector("kgraph", prometheus.NewRegistry())
	b := NewCollector("kgraph", prometheus.NewRegistry())

	a.GraphsBuilt.Inc()
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.GraphsBuilt), 1e-9)
}
