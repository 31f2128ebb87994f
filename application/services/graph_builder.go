package services

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"kgraph-backend/application/ports"
	"kgraph-backend/domain/core/aggregates"
	"kgraph-backend/domain/core/entities"
	"kgraph-backend/domain/core/valueobjects"
	domainservices "kgraph-backend/domain/services"
	pkgerrors "kgraph-backend/pkg/errors"
	"kgraph-backend/pkg/observability"
)

const builderCreatedBy = "graph-builder"

// BuildOptions control graph construction
type BuildOptions struct {
	// Name of the resulting graph
	Name string

	// Description of the resulting graph
	Description string

	// ProjectIDs restricts the knowledge query to these source projects
	ProjectIDs []string

	// Types restricts the knowledge query to these knowledge types
	Types []entities.KnowledgeType

	// IncludeRelationships adds the explicitly declared related/dependency
	// edges between nodes of this graph
	IncludeRelationships bool

	// MinRelationshipStrength drops declared relationships weaker than this
	MinRelationshipStrength float64 `validate:"gte=0,lte=1"`

	// DetectImplicitRelationships runs the pairwise similarity scan
	DetectImplicitRelationships bool

	// MinImplicitSimilarity is the threshold for inferred SIMILAR_TO edges
	MinImplicitSimilarity float64 `validate:"gte=0,lte=1"`

	// MaxImplicitRelationships caps how many inferred edges are added;
	// 0 means no cap
	MaxImplicitRelationships int `validate:"gte=0"`

	// MaxComparisons bounds the similarity scan's work, independent of how
	// many edges it yields; 0 means no budget. Pairs are visited in sorted
	// node-ID order, so truncation is deterministic.
	MaxComparisons int `validate:"gte=0"`
}

// DefaultBuildOptions returns sensible build defaults
func DefaultBuildOptions() *BuildOptions {
	return &BuildOptions{
		Name:                        "Knowledge Graph",
		IncludeRelationships:        true,
		DetectImplicitRelationships: false,
		MinImplicitSimilarity:       0.5,
		MaxImplicitRelationships:    100,
	}
}

// GraphBuilder constructs a knowledge graph from a point-in-time store
// query plus explicit and inferred relationship discovery
type GraphBuilder struct {
	store      ports.KnowledgeStore
	similarity *domainservices.SimilarityCalculator
	validate   *validator.Validate
	logger     *zap.Logger
	metrics    *observability.Collector
}

// NewGraphBuilder creates a graph builder
func NewGraphBuilder(
	store ports.KnowledgeStore,
	similarity *domainservices.SimilarityCalculator,
	logger *zap.Logger,
	metrics *observability.Collector,
) *GraphBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if similarity == nil {
		similarity = domainservices.NewSimilarityCalculator(nil, nil)
	}

	return &GraphBuilder{
		store:      store,
		similarity: similarity,
		validate:   validator.New(),
		logger:     logger,
		metrics:    metrics,
	}
}

// BuildGraph queries the knowledge store and assembles a graph.
// Store failures propagate unchanged; an empty result set yields a valid
// empty graph. The returned graph is a snapshot and is never mutated by
// later operations.
func (b *GraphBuilder) BuildGraph(ctx context.Context, opts *BuildOptions) (*aggregates.Graph, error) {
	if opts == nil {
		opts = DefaultBuildOptions()
	}

	if err := b.validate.Struct(opts); err != nil {
		return nil, pkgerrors.NewValidationError("invalid build options: " + err.Error())
	}

	ctx, span := observability.StartSpan(ctx, "graph.build")
	defer span.End()

	started := time.Now()

	items, err := b.store.Query(ctx, ports.KnowledgeQuery{
		ProjectIDs: opts.ProjectIDs,
		Types:      opts.Types,
	})
	if err != nil {
		// Store failures propagate unchanged
		return nil, err
	}

	graph := aggregates.NewGraph(opts.Name, opts.Description)

	for _, item := range items {
		node, err := entities.NewNode(item, computeImportance(item))
		if err != nil {
			b.logger.Warn("Skipping knowledge item without usable ID",
				zap.String("title", item.Title),
				zap.Error(err),
			)
			continue
		}

		if err := graph.AddNode(node); err != nil {
			b.logger.Warn("Skipping duplicate knowledge item",
				zap.String("knowledgeID", item.ID),
				zap.Error(err),
			)
		}
	}

	explicitAdded := 0
	if opts.IncludeRelationships {
		explicitAdded = b.addDeclaredRelationships(graph, opts)
	}

	implicitAdded := 0
	if opts.DetectImplicitRelationships {
		implicitAdded = b.detectImplicitRelationships(graph, opts)
	}

	if b.metrics != nil {
		b.metrics.GraphsBuilt.Inc()
		b.metrics.BuildDuration.Observe(time.Since(started).Seconds())
		b.metrics.NodesCreated.Add(float64(graph.NodeCount()))
		b.metrics.ExplicitEdges.Add(float64(explicitAdded))
		b.metrics.ImplicitEdges.Add(float64(implicitAdded))
	}

	span.SetAttributes(
		attribute.Int("graph.nodes", graph.NodeCount()),
		attribute.Int("graph.relationships", graph.RelationshipCount()),
	)

	b.logger.Info("Graph build complete",
		zap.String("graphID", graph.ID().String()),
		zap.Int("nodes", graph.NodeCount()),
		zap.Int("explicitRelationships", explicitAdded),
		zap.Int("implicitRelationships", implicitAdded),
		zap.Duration("elapsed", time.Since(started)),
	)

	return graph, nil
}

// addDeclaredRelationships turns each node's declared related/dependency
// references into edges. References to IDs outside this graph are dropped:
// the builder never fetches outside its query scope.
func (b *GraphBuilder) addDeclaredRelationships(graph *aggregates.Graph, opts *BuildOptions) int {
	added := 0

	for _, nodeID := range graph.SortedNodeIDs() {
		node, err := graph.GetNode(nodeID)
		if err != nil {
			continue
		}
		knowledge := node.Knowledge()

		for _, relatedID := range knowledge.RelatedIDs() {
			if rel := b.declaredRelationship(graph, nodeID, relatedID,
				entities.RelationshipTypeRelated, 0.8, entities.DirectionBi, opts); rel != nil {
				if graph.AddRelationship(rel) == nil {
					added++
				}
			}
		}

		for _, dependencyID := range knowledge.DependencyIDs() {
			if rel := b.declaredRelationship(graph, nodeID, dependencyID,
				entities.RelationshipTypeDependsOn, 0.9, entities.DirectionUni, opts); rel != nil {
				if graph.AddRelationship(rel) == nil {
					added++
				}
			}
		}
	}

	return added
}

func (b *GraphBuilder) declaredRelationship(
	graph *aggregates.Graph,
	sourceID valueobjects.NodeID,
	targetRef string,
	relType entities.RelationshipType,
	strength float64,
	direction entities.Direction,
	opts *BuildOptions,
) *aggregates.Relationship {
	if strength < opts.MinRelationshipStrength {
		return nil
	}

	targetID, err := valueobjects.NewNodeIDFromString(targetRef)
	if err != nil || !graph.HasNode(targetID) || sourceID.Equals(targetID) {
		return nil
	}

	// Declared references carry full confidence
	return aggregates.NewRelationship(sourceID, targetID, relType, strength, direction, builderCreatedBy, 1.0)
}

// detectImplicitRelationships scans unconnected node pairs for content
// similarity. The scan is O(n²); the edge cap bounds result size and the
// comparison budget bounds the work itself.
func (b *GraphBuilder) detectImplicitRelationships(graph *aggregates.Graph, opts *BuildOptions) int {
	ids := graph.SortedNodeIDs()
	connected := connectedPairs(graph)

	added := 0
	comparisons := 0

scan:
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if opts.MaxImplicitRelationships > 0 && added >= opts.MaxImplicitRelationships {
				break scan
			}
			if opts.MaxComparisons > 0 && comparisons >= opts.MaxComparisons {
				b.logger.Debug("Implicit relationship scan hit comparison budget",
					zap.Int("comparisons", comparisons),
				)
				break scan
			}

			if connected[pairKey(ids[i], ids[j])] {
				continue
			}

			nodeA, errA := graph.GetNode(ids[i])
			nodeB, errB := graph.GetNode(ids[j])
			if errA != nil || errB != nil {
				continue
			}

			similarity := b.similarity.NodeSimilarity(nodeA, nodeB)
			comparisons++
			if b.metrics != nil {
				b.metrics.SimilarityComparisons.Inc()
			}

			if similarity < opts.MinImplicitSimilarity {
				continue
			}

			rel := aggregates.NewRelationship(
				ids[i], ids[j],
				entities.RelationshipTypeSimilarTo,
				similarity,
				entities.DirectionBi,
				builderCreatedBy,
				similarity,
			)
			if graph.AddRelationship(rel) == nil {
				connected[pairKey(ids[i], ids[j])] = true
				added++
			}
		}
	}

	return added
}

// computeImportance derives a node's importance from its usage counters.
// Each component saturates so no single counter dominates.
func computeImportance(k entities.Knowledge) float64 {
	importance := 0.5
	importance += minFloat(0.3, float64(k.AccessCount)/20.0)
	importance += minFloat(0.3, float64(k.ApplicationCount)/10.0)
	importance += minFloat(0.2, float64(k.AppliedProjectCount())/5.0)

	if importance > 1 {
		return 1
	}
	if importance < 0 {
		return 0
	}
	return importance
}

// connectedPairs indexes the unordered node pairs that already have a
// relationship, so pair scans can check existence in O(1)
func connectedPairs(graph *aggregates.Graph) map[string]bool {
	pairs := make(map[string]bool, graph.RelationshipCount())
	for _, rel := range graph.Relationships() {
		pairs[pairKey(rel.SourceID, rel.TargetID)] = true
	}
	return pairs
}

func pairKey(a, b valueobjects.NodeID) string {
	if a.String() < b.String() {
		return a.String() + "|" + b.String()
	}
	return b.String() + "|" + a.String()
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
