package aggregates

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"kgraph-backend/domain/core/entities"
	"kgraph-backend/domain/core/valueobjects"
	pkgerrors "kgraph-backend/pkg/errors"
)

// GraphID represents a unique graph identifier
type GraphID string

// NewGraphID creates a new random GraphID
func NewGraphID() GraphID {
	return GraphID(uuid.New().String())
}

// String returns the string representation
func (id GraphID) String() string {
	return string(id)
}

// Graph is the aggregate root for a knowledge graph. It enforces the
// structural invariants: every relationship endpoint keys an existing node,
// relationship IDs are unique, and strength/confidence stay in [0,1].
//
// A graph returned by the builder or merger is a point-in-time snapshot:
// merge operations clone elements into a fresh graph and never touch
// their inputs.
type Graph struct {
	id            GraphID
	name          string
	description   string
	nodes         map[valueobjects.NodeID]*entities.Node
	relationships map[valueobjects.RelationshipID]*Relationship
	metadata      GraphMetadata
}

// NewGraph creates an empty graph. An empty graph is valid; a query that
// matches no knowledge items still produces one.
func NewGraph(name, description string) *Graph {
	now := time.Now()
	return &Graph{
		id:            NewGraphID(),
		name:          name,
		description:   description,
		nodes:         make(map[valueobjects.NodeID]*entities.Node),
		relationships: make(map[valueobjects.RelationshipID]*Relationship),
		metadata: GraphMetadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// ID returns the graph's unique identifier
func (g *Graph) ID() GraphID {
	return g.id
}

// Name returns the graph's name
func (g *Graph) Name() string {
	return g.name
}

// Description returns the graph's description
func (g *Graph) Description() string {
	return g.description
}

// Metadata returns the graph's metadata
func (g *Graph) Metadata() GraphMetadata {
	meta := g.metadata
	meta.SourceProjects = append([]string(nil), g.metadata.SourceProjects...)
	meta.KnowledgeTypes = append([]entities.KnowledgeType(nil), g.metadata.KnowledgeTypes...)
	return meta
}

// NodeCount returns the number of nodes in the graph
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// RelationshipCount returns the number of relationships in the graph
func (g *Graph) RelationshipCount() int {
	return len(g.relationships)
}

// AddNode adds a node to the graph
func (g *Graph) AddNode(node *entities.Node) error {
	if node == nil {
		return pkgerrors.NewValidationError("node cannot be nil")
	}

	nodeID := node.ID()
	if _, exists := g.nodes[nodeID]; exists {
		return pkgerrors.NewConflictError("node already exists in graph")
	}

	g.nodes[nodeID] = node
	g.metadata.recordNode(node)
	g.metadata.UpdatedAt = time.Now()

	return nil
}

// AddRelationship adds a relationship to the graph. Both endpoints must
// already be nodes of this graph.
func (g *Graph) AddRelationship(rel *Relationship) error {
	if rel == nil {
		return pkgerrors.NewValidationError("relationship cannot be nil")
	}

	if err := rel.Validate(); err != nil {
		return err
	}

	if _, exists := g.nodes[rel.SourceID]; !exists {
		return pkgerrors.NewValidationError("relationship source node does not exist in graph")
	}
	if _, exists := g.nodes[rel.TargetID]; !exists {
		return pkgerrors.NewValidationError("relationship target node does not exist in graph")
	}

	if _, exists := g.relationships[rel.ID]; exists {
		return pkgerrors.NewConflictError("relationship already exists in graph")
	}

	g.relationships[rel.ID] = rel
	g.metadata.UpdatedAt = time.Now()

	return nil
}

// HasNode checks if a node exists in the graph
func (g *Graph) HasNode(nodeID valueobjects.NodeID) bool {
	_, exists := g.nodes[nodeID]
	return exists
}

// GetNode retrieves a node by ID
func (g *Graph) GetNode(nodeID valueobjects.NodeID) (*entities.Node, error) {
	node, exists := g.nodes[nodeID]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return node, nil
}

// HasRelationship checks if a relationship ID exists in the graph
func (g *Graph) HasRelationship(relID valueobjects.RelationshipID) bool {
	_, exists := g.relationships[relID]
	return exists
}

// GetRelationship retrieves a relationship by ID
func (g *Graph) GetRelationship(relID valueobjects.RelationshipID) (*Relationship, error) {
	rel, exists := g.relationships[relID]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("relationship")
	}
	return rel, nil
}

// HasRelationshipBetween checks whether any relationship joins the two
// nodes, in either orientation
func (g *Graph) HasRelationshipBetween(a, b valueobjects.NodeID) bool {
	for _, rel := range g.relationships {
		if rel.Connects(a, b) {
			return true
		}
	}
	return false
}

// Nodes returns all nodes keyed by ID
func (g *Graph) Nodes() map[valueobjects.NodeID]*entities.Node {
	// Return a copy to maintain encapsulation
	nodes := make(map[valueobjects.NodeID]*entities.Node, len(g.nodes))
	for k, v := range g.nodes {
		nodes[k] = v
	}
	return nodes
}

// Relationships returns all relationships keyed by ID
func (g *Graph) Relationships() map[valueobjects.RelationshipID]*Relationship {
	// Return a copy to maintain encapsulation
	relationships := make(map[valueobjects.RelationshipID]*Relationship, len(g.relationships))
	for k, v := range g.relationships {
		relationships[k] = v
	}
	return relationships
}

// SortedNodeIDs returns all node IDs in lexicographic order. Pair scans
// iterate in this order so result truncation is deterministic.
func (g *Graph) SortedNodeIDs() []valueobjects.NodeID {
	ids := make([]valueobjects.NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// SortedRelationshipIDs returns all relationship IDs in lexicographic order
func (g *Graph) SortedRelationshipIDs() []valueobjects.RelationshipID {
	ids := make([]valueobjects.RelationshipID, 0, len(g.relationships))
	for id := range g.relationships {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Clone returns a deep copy of the graph with the same ID and content
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		id:            g.id,
		name:          g.name,
		description:   g.description,
		nodes:         make(map[valueobjects.NodeID]*entities.Node, len(g.nodes)),
		relationships: make(map[valueobjects.RelationshipID]*Relationship, len(g.relationships)),
		metadata:      g.Metadata(),
	}

	for id, node := range g.nodes {
		clone.nodes[id] = node.Clone()
	}
	for id, rel := range g.relationships {
		clone.relationships[id] = rel.Clone()
	}

	return clone
}

// Validate ensures graph invariants
func (g *Graph) Validate() error {
	for _, rel := range g.relationships {
		if _, sourceExists := g.nodes[rel.SourceID]; !sourceExists {
			return pkgerrors.NewValidationError("relationship references non-existent source node")
		}
		if _, targetExists := g.nodes[rel.TargetID]; !targetExists {
			return pkgerrors.NewValidationError("relationship references non-existent target node")
		}
		if err := rel.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FindPath finds a path between two nodes using BFS
func (g *Graph) FindPath(startID, endID valueobjects.NodeID) ([]valueobjects.NodeID, error) {
	if _, exists := g.nodes[startID]; !exists {
		return nil, pkgerrors.NewNotFoundError("start node")
	}
	if _, exists := g.nodes[endID]; !exists {
		return nil, pkgerrors.NewNotFoundError("end node")
	}

	if startID.Equals(endID) {
		return []valueobjects.NodeID{startID}, nil
	}

	// BFS implementation
	visited := make(map[valueobjects.NodeID]bool)
	parent := make(map[valueobjects.NodeID]valueobjects.NodeID)
	queue := []valueobjects.NodeID{startID}
	visited[startID] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g.neighbors(current) {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current
			queue = append(queue, next)

			if next.Equals(endID) {
				// Reconstruct path
				path := []valueobjects.NodeID{}
				for n := endID; !n.IsZero(); n = parent[n] {
					path = append([]valueobjects.NodeID{n}, path...)
					if n.Equals(startID) {
						break
					}
				}
				return path, nil
			}
		}
	}

	return nil, pkgerrors.NewNotFoundError("path between nodes")
}

// GetClusters identifies clusters of connected nodes
func (g *Graph) GetClusters() [][]valueobjects.NodeID {
	visited := make(map[valueobjects.NodeID]bool)
	var clusters [][]valueobjects.NodeID

	for _, nodeID := range g.SortedNodeIDs() {
		if !visited[nodeID] {
			cluster := g.collectCluster(nodeID, visited)
			clusters = append(clusters, cluster)
		}
	}

	return clusters
}

// GraphStats summarizes a graph for downstream consumers
type GraphStats struct {
	NodeCount         int
	RelationshipCount int
	TypeCounts        map[entities.KnowledgeType]int
	AverageStrength   float64
}

// Stats computes summary statistics for the graph
func (g *Graph) Stats() GraphStats {
	stats := GraphStats{
		NodeCount:         len(g.nodes),
		RelationshipCount: len(g.relationships),
		TypeCounts:        make(map[entities.KnowledgeType]int),
	}

	for _, node := range g.nodes {
		stats.TypeCounts[node.Type()]++
	}

	if len(g.relationships) > 0 {
		total := 0.0
		for _, rel := range g.relationships {
			total += rel.Strength
		}
		stats.AverageStrength = total / float64(len(g.relationships))
	}

	return stats
}

// Private helper methods

// neighbors returns nodes reachable from the given node in one hop,
// honoring relationship direction
func (g *Graph) neighbors(nodeID valueobjects.NodeID) []valueobjects.NodeID {
	var result []valueobjects.NodeID

	for _, relID := range g.SortedRelationshipIDs() {
		rel := g.relationships[relID]
		if rel.SourceID.Equals(nodeID) {
			result = append(result, rel.TargetID)
		} else if rel.Direction == entities.DirectionBi && rel.TargetID.Equals(nodeID) {
			result = append(result, rel.SourceID)
		}
	}

	return result
}

func (g *Graph) collectCluster(nodeID valueobjects.NodeID, visited map[valueobjects.NodeID]bool) []valueobjects.NodeID {
	cluster := []valueobjects.NodeID{nodeID}
	visited[nodeID] = true

	for _, next := range g.neighbors(nodeID) {
		if !visited[next] {
			cluster = append(cluster, g.collectCluster(next, visited)...)
		}
	}

	return cluster
}
