package valueobjects

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NodeID identifies a node in a knowledge graph. A node wraps exactly one
// knowledge item, so the node ID is the knowledge item's ID. Knowledge IDs
// are issued by the external store and are treated as opaque strings.
type NodeID struct {
	value string
}

// NewNodeIDFromString creates a NodeID from an externally issued knowledge ID
func NewNodeIDFromString(value string) (NodeID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return NodeID{}, fmt.Errorf("node ID cannot be empty")
	}
	return NodeID{value: trimmed}, nil
}

// String returns the string representation
func (id NodeID) String() string {
	return id.value
}

// Equals checks equality with another NodeID
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero reports whether the ID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// RelationshipID identifies a relationship within a graph. Relationships
// discovered by this core are assigned fresh UUIDs; relationships declared
// upstream keep the ID they arrived with.
type RelationshipID struct {
	value string
}

// NewRelationshipID creates a new random RelationshipID
func NewRelationshipID() RelationshipID {
	return RelationshipID{value: uuid.New().String()}
}

// NewRelationshipIDFromString creates a RelationshipID from an existing ID
func NewRelationshipIDFromString(value string) (RelationshipID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return RelationshipID{}, fmt.Errorf("relationship ID cannot be empty")
	}
	return RelationshipID{value: trimmed}, nil
}

// String returns the string representation
func (id RelationshipID) String() string {
	return id.value
}

// Equals checks equality with another RelationshipID
func (id RelationshipID) Equals(other RelationshipID) bool {
	return id.value == other.value
}

// IsZero reports whether the ID is the zero value
func (id RelationshipID) IsZero() bool {
	return id.value == ""
}
