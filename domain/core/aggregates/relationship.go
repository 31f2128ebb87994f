package aggregates

import (
	"time"

	"kgraph-backend/domain/core/entities"
	"kgraph-backend/domain/core/valueobjects"
	pkgerrors "kgraph-backend/pkg/errors"
)

// Relationship is a typed, weighted connection between two nodes
type Relationship struct {
	ID        valueobjects.RelationshipID
	SourceID  valueobjects.NodeID
	TargetID  valueobjects.NodeID
	Type      entities.RelationshipType
	Strength  float64
	Direction entities.Direction
	Metadata  RelationshipMetadata
}

// RelationshipMetadata carries provenance and inference metadata for an edge
type RelationshipMetadata struct {
	CreatedAt  time.Time
	CreatedBy  string
	Confidence float64
	Extras     map[string]interface{}
}

// NewRelationship creates a relationship with a fresh ID
func NewRelationship(
	sourceID, targetID valueobjects.NodeID,
	relType entities.RelationshipType,
	strength float64,
	direction entities.Direction,
	createdBy string,
	confidence float64,
) *Relationship {
	return &Relationship{
		ID:        valueobjects.NewRelationshipID(),
		SourceID:  sourceID,
		TargetID:  targetID,
		Type:      relType,
		Strength:  strength,
		Direction: direction,
		Metadata: RelationshipMetadata{
			CreatedAt:  time.Now(),
			CreatedBy:  createdBy,
			Confidence: confidence,
			Extras:     make(map[string]interface{}),
		},
	}
}

// Validate checks the relationship's own invariants
func (r *Relationship) Validate() error {
	if r.ID.IsZero() {
		return pkgerrors.NewValidationError("relationship ID cannot be empty")
	}
	if r.SourceID.IsZero() || r.TargetID.IsZero() {
		return pkgerrors.NewValidationError("relationship endpoints cannot be empty")
	}
	if !r.Type.IsValid() {
		return pkgerrors.NewValidationError("unknown relationship type: " + r.Type.String())
	}
	if !r.Direction.IsValid() {
		return pkgerrors.NewValidationError("unknown relationship direction: " + r.Direction.String())
	}
	if r.Strength < 0 || r.Strength > 1 {
		return pkgerrors.NewValidationError("relationship strength must be in [0,1]")
	}
	if r.Metadata.Confidence < 0 || r.Metadata.Confidence > 1 {
		return pkgerrors.NewValidationError("relationship confidence must be in [0,1]")
	}
	return nil
}

// Connects checks whether the relationship joins the two given nodes,
// in either orientation
func (r *Relationship) Connects(a, b valueobjects.NodeID) bool {
	return (r.SourceID.Equals(a) && r.TargetID.Equals(b)) ||
		(r.SourceID.Equals(b) && r.TargetID.Equals(a))
}

// Clone returns a deep copy of the relationship
func (r *Relationship) Clone() *Relationship {
	clone := *r
	clone.Metadata.Extras = make(map[string]interface{}, len(r.Metadata.Extras))
	for k, v := range r.Metadata.Extras {
		clone.Metadata.Extras[k] = v
	}
	return &clone
}
