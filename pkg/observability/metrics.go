package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the graph core
type Collector struct {
	// Build metrics
	GraphsBuilt   prometheus.Counter
	BuildDuration prometheus.Histogram
	NodesCreated  prometheus.Counter
	ExplicitEdges prometheus.Counter
	ImplicitEdges prometheus.Counter

	// Merge metrics
	GraphsMerged    *prometheus.CounterVec
	MergeDuration   prometheus.Histogram
	MergeConflicts  prometheus.Counter
	CrossGraphEdges prometheus.Counter

	// Similarity metrics
	SimilarityComparisons prometheus.Counter
}

// NewCollector creates a metrics collector and registers its metrics with
// the given registerer. Callers own the registry; tests pass a fresh one
// to avoid duplicate-registration panics.
func NewCollector(namespace string, registerer prometheus.Registerer) *Collector {
	c := &Collector{
		GraphsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_built_total",
			Help:      "Total number of knowledge graphs built",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_build_duration_seconds",
			Help:      "Graph build duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		NodesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Total number of graph nodes created",
		}),
		ExplicitEdges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explicit_relationships_total",
			Help:      "Total number of explicitly declared relationships added",
		}),
		ImplicitEdges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "implicit_relationships_total",
			Help:      "Total number of similarity-inferred relationships added",
		}),
		GraphsMerged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_merged_total",
			Help:      "Total number of graph merges by strategy",
		}, []string{"strategy"}),
		MergeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_merge_duration_seconds",
			Help:      "Graph merge duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		MergeConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_conflicts_total",
			Help:      "Total number of ID collisions resolved during priority merges",
		}),
		CrossGraphEdges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cross_graph_relationships_total",
			Help:      "Total number of cross-graph relationships discovered during merges",
		}),
		SimilarityComparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "similarity_comparisons_total",
			Help:      "Total number of pairwise node similarity comparisons",
		}),
	}

	if registerer != nil {
		registerer.MustRegister(
			c.GraphsBuilt, c.BuildDuration, c.NodesCreated,
			c.ExplicitEdges, c.ImplicitEdges,
			c.GraphsMerged, c.MergeDuration, c.MergeConflicts, c.CrossGraphEdges,
			c.SimilarityComparisons,
		)
	}

	return c
}
