package entities

import (
	"kgraph-backend/domain/core/valueobjects"
	pkgerrors "kgraph-backend/pkg/errors"
)

// Node is a graph vertex wrapping exactly one knowledge item plus derived
// scoring metadata. The wrapped knowledge is read-only input from the
// external store; the derived metadata is owned by this core.
type Node struct {
	// Private fields ensure encapsulation
	id         valueobjects.NodeID
	knowledge  Knowledge
	importance float64
	centrality *float64
	community  string
	extras     map[string]interface{}
}

// NewNode creates a node wrapping the given knowledge item.
// The node ID is the knowledge item's ID; importance is clamped to [0,1].
func NewNode(knowledge Knowledge, importance float64) (*Node, error) {
	id, err := valueobjects.NewNodeIDFromString(knowledge.ID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("knowledge item must have an ID")
	}

	return &Node{
		id:         id,
		knowledge:  knowledge,
		importance: clampUnit(importance),
		extras:     make(map[string]interface{}),
	}, nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Knowledge returns the wrapped knowledge item
func (n *Node) Knowledge() Knowledge {
	return n.knowledge
}

// ProjectID returns the source project of the wrapped knowledge item
func (n *Node) ProjectID() string {
	return n.knowledge.ProjectID
}

// Type returns the knowledge type of the wrapped item
func (n *Node) Type() KnowledgeType {
	return n.knowledge.Type
}

// Importance returns the derived importance score in [0,1]
func (n *Node) Importance() float64 {
	return n.importance
}

// SetImportance sets the importance score, clamped to [0,1]
func (n *Node) SetImportance(importance float64) {
	n.importance = clampUnit(importance)
}

// Centrality returns the centrality score and whether one has been computed
func (n *Node) Centrality() (float64, bool) {
	if n.centrality == nil {
		return 0, false
	}
	return *n.centrality, true
}

// SetCentrality sets the centrality score, clamped to [0,1]
func (n *Node) SetCentrality(centrality float64) {
	value := clampUnit(centrality)
	n.centrality = &value
}

// Community returns the community label, empty if unassigned
func (n *Node) Community() string {
	return n.community
}

// SetCommunity assigns the community label
func (n *Node) SetCommunity(community string) {
	n.community = community
}

// Extras returns a copy of the open derived-metadata bag
func (n *Node) Extras() map[string]interface{} {
	extras := make(map[string]interface{}, len(n.extras))
	for k, v := range n.extras {
		extras[k] = v
	}
	return extras
}

// Extra retrieves a single derived-metadata value
func (n *Node) Extra(key string) (interface{}, bool) {
	value, ok := n.extras[key]
	return value, ok
}

// SetExtra sets a single derived-metadata value
func (n *Node) SetExtra(key string, value interface{}) {
	if n.extras == nil {
		n.extras = make(map[string]interface{})
	}
	n.extras[key] = value
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	clone := &Node{
		id:         n.id,
		knowledge:  n.knowledge.Clone(),
		importance: n.importance,
		community:  n.community,
		extras:     make(map[string]interface{}, len(n.extras)),
	}

	if n.centrality != nil {
		value := *n.centrality
		clone.centrality = &value
	}

	for k, v := range n.extras {
		clone.extras[k] = v
	}

	return clone
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
