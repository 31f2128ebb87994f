package entities

// RelationshipType represents the type of relationship between nodes
type RelationshipType string

const (
	// RelationshipTypeRelated represents an explicitly declared association
	RelationshipTypeRelated RelationshipType = "RELATED"

	// RelationshipTypeDependsOn represents a dependency on another item
	RelationshipTypeDependsOn RelationshipType = "DEPENDS_ON"

	// RelationshipTypeExtends represents an extension of another item
	RelationshipTypeExtends RelationshipType = "EXTENDS"

	// RelationshipTypeImplements represents an implementation of another item
	RelationshipTypeImplements RelationshipType = "IMPLEMENTS"

	// RelationshipTypeSimilarTo represents an inferred content similarity
	RelationshipTypeSimilarTo RelationshipType = "SIMILAR_TO"

	// RelationshipTypeContradicts represents conflicting guidance
	RelationshipTypeContradicts RelationshipType = "CONTRADICTS"

	// RelationshipTypeReplaces represents a superseding item
	RelationshipTypeReplaces RelationshipType = "REPLACES"

	// RelationshipTypeCustom represents a caller-defined relationship
	RelationshipTypeCustom RelationshipType = "CUSTOM"
)

// IsValid checks if the relationship type is valid
func (t RelationshipType) IsValid() bool {
	switch t {
	case RelationshipTypeRelated, RelationshipTypeDependsOn, RelationshipTypeExtends,
		RelationshipTypeImplements, RelationshipTypeSimilarTo, RelationshipTypeContradicts,
		RelationshipTypeReplaces, RelationshipTypeCustom:
		return true
	default:
		return false
	}
}

// String returns the string representation of the relationship type
func (t RelationshipType) String() string {
	return string(t)
}

// Direction describes whether a relationship reads one way or both ways
type Direction string

const (
	// DirectionUni represents a one-way relationship from source to target
	DirectionUni Direction = "uni"

	// DirectionBi represents a relationship that reads in both directions
	DirectionBi Direction = "bi"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionUni || d == DirectionBi
}

// String returns the string representation of the direction
func (d Direction) String() string {
	return string(d)
}
