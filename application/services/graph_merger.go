package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"kgraph-backend/domain/core/aggregates"
	"kgraph-backend/domain/core/entities"
	domainservices "kgraph-backend/domain/services"
	pkgerrors "kgraph-backend/pkg/errors"
	"kgraph-backend/pkg/observability"
)

const mergerCreatedBy = "graph-merger"

// MergeStrategy selects how two graphs are combined
type MergeStrategy string

const (
	// StrategyUnion keeps every node and relationship from both graphs
	StrategyUnion MergeStrategy = "UNION"

	// StrategyIntersection keeps only IDs present in both graphs
	StrategyIntersection MergeStrategy = "INTERSECTION"

	// StrategyFirstPriority keeps graph A verbatim and adds only new IDs from B
	StrategyFirstPriority MergeStrategy = "FIRST_PRIORITY"

	// StrategySecondPriority keeps graph B verbatim and adds only new IDs from A
	StrategySecondPriority MergeStrategy = "SECOND_PRIORITY"

	// StrategyCustom delegates the merge to a caller-supplied function
	StrategyCustom MergeStrategy = "CUSTOM"
)

// IsValid checks if the strategy is a recognized value
func (s MergeStrategy) IsValid() bool {
	switch s {
	case StrategyUnion, StrategyIntersection, StrategyFirstPriority,
		StrategySecondPriority, StrategyCustom:
		return true
	default:
		return false
	}
}

// String returns the string representation of the strategy
func (s MergeStrategy) String() string {
	return string(s)
}

// CustomMergeFunc combines two graphs under caller-defined rules.
// The function must not mutate its inputs.
type CustomMergeFunc func(graphA, graphB *aggregates.Graph) (*aggregates.Graph, error)

// MergeOptions control how two graphs are combined
type MergeOptions struct {
	// Strategy selects the merge policy
	Strategy MergeStrategy `validate:"required"`

	// Custom is the merge function for StrategyCustom; ignored otherwise
	Custom CustomMergeFunc

	// MergeNodeMetadata reconciles node metadata on ID collisions instead
	// of keeping the surviving copy untouched
	MergeNodeMetadata bool

	// MergeRelationshipMetadata reconciles relationship metadata on ID
	// collisions instead of keeping the surviving copy untouched
	MergeRelationshipMetadata bool

	// MinRelationshipStrength drops copied relationships weaker than this
	MinRelationshipStrength float64 `validate:"gte=0,lte=1"`

	// CreateCrossGraphRelationships runs similarity discovery between
	// nodes from different source projects after the strategy completes
	CreateCrossGraphRelationships bool

	// MinCrossGraphSimilarity is the threshold for discovered edges
	MinCrossGraphSimilarity float64 `validate:"gte=0,lte=1"`

	// MaxCrossGraphRelationships caps discovered edges; 0 means no cap
	MaxCrossGraphRelationships int `validate:"gte=0"`

	// MaxComparisons bounds the cross-graph scan's work; 0 means no budget.
	// Pairs are visited in sorted node-ID order, so truncation is
	// deterministic.
	MaxComparisons int `validate:"gte=0"`
}

// DefaultMergeOptions returns sensible merge defaults
func DefaultMergeOptions() *MergeOptions {
	return &MergeOptions{
		Strategy:                   StrategyUnion,
		MergeNodeMetadata:          true,
		MergeRelationshipMetadata:  true,
		MinCrossGraphSimilarity:    0.6,
		MaxCrossGraphRelationships: 50,
	}
}

// MergeStats records what a merge did
type MergeStats struct {
	// NodesFromA counts result nodes whose ID was present in graph A
	NodesFromA int
	// NodesFromB counts result nodes whose ID was present in graph B
	NodesFromB int
	// RelationshipsFromA counts result relationships whose ID was present in graph A
	RelationshipsFromA int
	// RelationshipsFromB counts result relationships whose ID was present in graph B
	RelationshipsFromB int
	// TotalNodes is the node count of the merged graph
	TotalNodes int
	// TotalRelationships is the relationship count of the merged graph
	TotalRelationships int
	// NewCrossGraphRelationships counts edges discovered after the strategy ran
	NewCrossGraphRelationships int
	// Conflicts counts ID collisions under the priority strategies
	Conflicts int
	// ConflictResolution describes how collisions were resolved
	ConflictResolution string
}

// GraphMerger combines two graphs under a selectable strategy, with
// metadata reconciliation and optional cross-graph relationship discovery.
// Inputs are read-only: every merge allocates a fresh graph and the
// originals can be reused in further merges.
type GraphMerger struct {
	similarity *domainservices.SimilarityCalculator
	reconciler *domainservices.MetadataReconciler
	validate   *validator.Validate
	logger     *zap.Logger
	metrics    *observability.Collector
}

// NewGraphMerger creates a graph merger
func NewGraphMerger(
	similarity *domainservices.SimilarityCalculator,
	logger *zap.Logger,
	metrics *observability.Collector,
) *GraphMerger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if similarity == nil {
		similarity = domainservices.NewSimilarityCalculator(nil, nil)
	}

	return &GraphMerger{
		similarity: similarity,
		reconciler: domainservices.NewMetadataReconciler(),
		validate:   validator.New(),
		logger:     logger,
		metrics:    metrics,
	}
}

// MergeGraphs combines graphA and graphB into a brand-new graph.
// An unrecognized strategy is rejected before any work begins; a custom
// merge function's failure propagates unchanged. All built-in strategies
// are total: relationships whose endpoints did not survive node selection
// are pruned silently, never raised as errors.
func (m *GraphMerger) MergeGraphs(
	ctx context.Context,
	graphA, graphB *aggregates.Graph,
	opts *MergeOptions,
) (*aggregates.Graph, *MergeStats, []string, error) {
	if graphA == nil || graphB == nil {
		return nil, nil, nil, pkgerrors.NewValidationError("both graphs are required")
	}
	if opts == nil {
		opts = DefaultMergeOptions()
	}

	if err := m.validate.Struct(opts); err != nil {
		return nil, nil, nil, pkgerrors.NewValidationError("invalid merge options: " + err.Error())
	}
	if !opts.Strategy.IsValid() {
		return nil, nil, nil, pkgerrors.NewValidationError("unknown merge strategy: " + opts.Strategy.String())
	}
	if opts.Strategy == StrategyCustom && opts.Custom == nil {
		return nil, nil, nil, pkgerrors.NewValidationError("custom strategy requires a merge function")
	}

	_, span := observability.StartSpan(ctx, "graph.merge")
	defer span.End()

	started := time.Now()

	var (
		merged *aggregates.Graph
		stats  = &MergeStats{}
		notes  []string
	)

	switch opts.Strategy {
	case StrategyUnion:
		merged, notes = m.mergeUnion(graphA, graphB, opts)
		stats.ConflictResolution = "union: colliding IDs keep graph A's copy" + reconciliationSuffix(opts)
	case StrategyIntersection:
		merged, notes = m.mergeIntersection(graphA, graphB, opts)
		stats.ConflictResolution = "intersection: IDs present in both inputs keep graph A's copy" + reconciliationSuffix(opts)
	case StrategyFirstPriority:
		merged, notes, stats.Conflicts = m.mergePriority(graphA, graphB, opts)
		stats.ConflictResolution = "first priority: colliding IDs keep graph A's payload" + reconciliationSuffix(opts)
	case StrategySecondPriority:
		merged, notes, stats.Conflicts = m.mergePriority(graphB, graphA, opts)
		stats.ConflictResolution = "second priority: colliding IDs keep graph B's payload" + reconciliationSuffix(opts)
	case StrategyCustom:
		result, err := opts.Custom(graphA, graphB)
		if err != nil {
			// Custom merge failures propagate unchanged
			return nil, nil, nil, err
		}
		if result == nil {
			return nil, nil, nil, pkgerrors.NewInternal("custom merge function returned no graph", nil)
		}
		// Clone so cross-graph discovery never mutates a graph the caller
		// may still hold (the function could have returned an input)
		merged = result.Clone()
		stats.ConflictResolution = "custom merge function"
	}

	if opts.CreateCrossGraphRelationships {
		stats.NewCrossGraphRelationships = m.discoverCrossGraphRelationships(merged, opts)
	}

	m.fillContributions(merged, graphA, graphB, stats)

	if m.metrics != nil {
		m.metrics.GraphsMerged.WithLabelValues(opts.Strategy.String()).Inc()
		m.metrics.MergeDuration.Observe(time.Since(started).Seconds())
		m.metrics.MergeConflicts.Add(float64(stats.Conflicts))
		m.metrics.CrossGraphEdges.Add(float64(stats.NewCrossGraphRelationships))
	}

	span.SetAttributes(
		attribute.String("merge.strategy", opts.Strategy.String()),
		attribute.Int("merge.nodes", stats.TotalNodes),
		attribute.Int("merge.conflicts", stats.Conflicts),
	)

	m.logger.Info("Graph merge complete",
		zap.String("strategy", opts.Strategy.String()),
		zap.String("graphA", graphA.ID().String()),
		zap.String("graphB", graphB.ID().String()),
		zap.Int("totalNodes", stats.TotalNodes),
		zap.Int("totalRelationships", stats.TotalRelationships),
		zap.Int("conflicts", stats.Conflicts),
		zap.Int("crossGraphRelationships", stats.NewCrossGraphRelationships),
		zap.Duration("elapsed", time.Since(started)),
	)

	return merged, stats, notes, nil
}

// mergeUnion keeps every node from both graphs. On a node ID collision
// graph A's copy survives, optionally absorbing B's metadata.
func (m *GraphMerger) mergeUnion(graphA, graphB *aggregates.Graph, opts *MergeOptions) (*aggregates.Graph, []string) {
	merged := newMergedGraph(graphA, graphB)
	var notes []string

	for _, id := range graphA.SortedNodeIDs() {
		node, _ := graphA.GetNode(id)
		_ = merged.AddNode(node.Clone())
	}

	for _, id := range graphB.SortedNodeIDs() {
		node, _ := graphB.GetNode(id)
		if !merged.HasNode(id) {
			_ = merged.AddNode(node.Clone())
			continue
		}
		if opts.MergeNodeMetadata {
			survivor, _ := merged.GetNode(id)
			notes = append(notes, m.reconciler.ReconcileNode(survivor, node)...)
		}
	}

	for _, relID := range graphA.SortedRelationshipIDs() {
		rel, _ := graphA.GetRelationship(relID)
		m.copyRelationship(merged, rel, opts)
	}

	for _, relID := range graphB.SortedRelationshipIDs() {
		rel, _ := graphB.GetRelationship(relID)
		if merged.HasRelationship(relID) {
			if opts.MergeRelationshipMetadata {
				survivor, _ := merged.GetRelationship(relID)
				notes = append(notes, m.reconciler.ReconcileRelationship(survivor, rel)...)
			}
			continue
		}
		m.copyRelationship(merged, rel, opts)
	}

	return merged, notes
}

// mergeIntersection keeps only IDs present in both inputs, for nodes and
// relationships alike. Graph A's copy survives on every kept ID.
func (m *GraphMerger) mergeIntersection(graphA, graphB *aggregates.Graph, opts *MergeOptions) (*aggregates.Graph, []string) {
	merged := newMergedGraph(graphA, graphB)
	var notes []string

	for _, id := range graphA.SortedNodeIDs() {
		if !graphB.HasNode(id) {
			continue
		}
		nodeA, _ := graphA.GetNode(id)
		survivor := nodeA.Clone()
		if opts.MergeNodeMetadata {
			nodeB, _ := graphB.GetNode(id)
			notes = append(notes, m.reconciler.ReconcileNode(survivor, nodeB)...)
		}
		_ = merged.AddNode(survivor)
	}

	for _, relID := range graphA.SortedRelationshipIDs() {
		if !graphB.HasRelationship(relID) {
			continue
		}
		relA, _ := graphA.GetRelationship(relID)
		survivor := relA.Clone()
		if opts.MergeRelationshipMetadata {
			relB, _ := graphB.GetRelationship(relID)
			notes = append(notes, m.reconciler.ReconcileRelationship(survivor, relB)...)
		}
		m.addCopiedRelationship(merged, survivor, opts)
	}

	return merged, notes
}

// mergePriority keeps the priority graph verbatim. Elements of the other
// graph are added only under new IDs; a collision is tallied as a conflict
// and at most reconciles metadata into the surviving element.
func (m *GraphMerger) mergePriority(priority, other *aggregates.Graph, opts *MergeOptions) (*aggregates.Graph, []string, int) {
	merged := newMergedGraph(priority, other)
	var notes []string
	conflicts := 0

	for _, id := range priority.SortedNodeIDs() {
		node, _ := priority.GetNode(id)
		_ = merged.AddNode(node.Clone())
	}

	for _, id := range other.SortedNodeIDs() {
		node, _ := other.GetNode(id)
		if !merged.HasNode(id) {
			_ = merged.AddNode(node.Clone())
			continue
		}
		conflicts++
		if opts.MergeNodeMetadata {
			survivor, _ := merged.GetNode(id)
			notes = append(notes, m.reconciler.ReconcileNode(survivor, node)...)
		}
	}

	for _, relID := range priority.SortedRelationshipIDs() {
		rel, _ := priority.GetRelationship(relID)
		m.copyRelationship(merged, rel, opts)
	}

	for _, relID := range other.SortedRelationshipIDs() {
		rel, _ := other.GetRelationship(relID)
		if merged.HasRelationship(relID) {
			conflicts++
			if opts.MergeRelationshipMetadata {
				survivor, _ := merged.GetRelationship(relID)
				notes = append(notes, m.reconciler.ReconcileRelationship(survivor, rel)...)
			}
			continue
		}
		m.copyRelationship(merged, rel, opts)
	}

	return merged, notes, conflicts
}

// copyRelationship clones a relationship into the merged graph when it
// passes the strength threshold and both endpoints survived
func (m *GraphMerger) copyRelationship(merged *aggregates.Graph, rel *aggregates.Relationship, opts *MergeOptions) {
	m.addCopiedRelationship(merged, rel.Clone(), opts)
}

func (m *GraphMerger) addCopiedRelationship(merged *aggregates.Graph, rel *aggregates.Relationship, opts *MergeOptions) {
	if rel.Strength < opts.MinRelationshipStrength {
		return
	}
	if !merged.HasNode(rel.SourceID) || !merged.HasNode(rel.TargetID) {
		// Endpoint did not survive node selection; prune silently
		return
	}
	_ = merged.AddRelationship(rel)
}

// discoverCrossGraphRelationships scans node pairs from different source
// projects for similarity and links the ones above the threshold
func (m *GraphMerger) discoverCrossGraphRelationships(merged *aggregates.Graph, opts *MergeOptions) int {
	ids := merged.SortedNodeIDs()
	connected := connectedPairs(merged)

	added := 0
	comparisons := 0

scan:
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if opts.MaxCrossGraphRelationships > 0 && added >= opts.MaxCrossGraphRelationships {
				break scan
			}
			if opts.MaxComparisons > 0 && comparisons >= opts.MaxComparisons {
				m.logger.Debug("Cross-graph relationship scan hit comparison budget",
					zap.Int("comparisons", comparisons),
				)
				break scan
			}

			nodeA, errA := merged.GetNode(ids[i])
			nodeB, errB := merged.GetNode(ids[j])
			if errA != nil || errB != nil {
				continue
			}

			if nodeA.ProjectID() == nodeB.ProjectID() {
				continue
			}
			if connected[pairKey(ids[i], ids[j])] {
				continue
			}

			similarity := m.similarity.NodeSimilarity(nodeA, nodeB)
			comparisons++
			if m.metrics != nil {
				m.metrics.SimilarityComparisons.Inc()
			}

			if similarity < opts.MinCrossGraphSimilarity {
				continue
			}

			rel := aggregates.NewRelationship(
				ids[i], ids[j],
				entities.RelationshipTypeSimilarTo,
				similarity,
				entities.DirectionBi,
				mergerCreatedBy,
				similarity,
			)
			if merged.AddRelationship(rel) == nil {
				connected[pairKey(ids[i], ids[j])] = true
				added++
			}
		}
	}

	return added
}

// fillContributions computes the per-input contribution counts by post-hoc
// comparison of the result against the two inputs. This works uniformly
// for the built-in strategies and for custom merge functions.
func (m *GraphMerger) fillContributions(merged, graphA, graphB *aggregates.Graph, stats *MergeStats) {
	for id := range merged.Nodes() {
		if graphA.HasNode(id) {
			stats.NodesFromA++
		}
		if graphB.HasNode(id) {
			stats.NodesFromB++
		}
	}

	for id := range merged.Relationships() {
		if graphA.HasRelationship(id) {
			stats.RelationshipsFromA++
		}
		if graphB.HasRelationship(id) {
			stats.RelationshipsFromB++
		}
	}

	stats.TotalNodes = merged.NodeCount()
	stats.TotalRelationships = merged.RelationshipCount()
}

func newMergedGraph(graphA, graphB *aggregates.Graph) *aggregates.Graph {
	name := fmt.Sprintf("Merge of %s and %s", graphA.Name(), graphB.Name())
	return aggregates.NewGraph(name, "")
}

func reconciliationSuffix(opts *MergeOptions) string {
	if opts.MergeNodeMetadata || opts.MergeRelationshipMetadata {
		return " with metadata reconciliation"
	}
	return ""
}
