package services

import (
	"fmt"

	"kgraph-backend/domain/core/aggregates"
	"kgraph-backend/domain/core/entities"
)

// metaKind classifies an open-metadata value into the closed set of shapes
// the reconciler knows how to merge. Anything unmodeled is opaque and
// merges first-wins.
type metaKind int

const (
	kindScalar metaKind = iota
	kindList
	kindMapping
	kindOpaque
)

// classifyMeta maps a runtime value onto its metaKind
func classifyMeta(value interface{}) metaKind {
	switch value.(type) {
	case nil:
		return kindOpaque
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return kindScalar
	case []interface{}, []string:
		return kindList
	case map[string]interface{}:
		return kindMapping
	default:
		return kindOpaque
	}
}

// MetadataReconciler merges the derived metadata of a "second" element into
// a "first" survivor. The survivor must be a clone owned by the caller: the
// reconciler mutates it in place and never touches the second element.
//
// Rules, applied uniformly to nodes and relationships:
//   - known numeric quality fields take the max of the two values
//   - the community label concatenates as "first+second" when both are set
//   - open keys merge by kind: lists concatenate, mappings shallow-merge
//     with the second's keys overriding, everything else is first-wins
type MetadataReconciler struct{}

// NewMetadataReconciler creates a metadata reconciler
func NewMetadataReconciler() *MetadataReconciler {
	return &MetadataReconciler{}
}

// ReconcileNode merges second's metadata into first. Returns human-readable
// notes describing each change made.
func (mr *MetadataReconciler) ReconcileNode(first, second *entities.Node) []string {
	if first == nil || second == nil {
		return nil
	}

	var notes []string
	id := first.ID().String()

	if second.Importance() > first.Importance() {
		notes = append(notes, fmt.Sprintf("node %s: importance raised %.3f -> %.3f",
			id, first.Importance(), second.Importance()))
		first.SetImportance(second.Importance())
	}

	if secondCentrality, ok := second.Centrality(); ok {
		firstCentrality, hasFirst := first.Centrality()
		if !hasFirst || secondCentrality > firstCentrality {
			notes = append(notes, fmt.Sprintf("node %s: centrality raised to %.3f", id, secondCentrality))
			first.SetCentrality(secondCentrality)
		}
	}

	if community := second.Community(); community != "" {
		switch existing := first.Community(); existing {
		case "":
			first.SetCommunity(community)
			notes = append(notes, fmt.Sprintf("node %s: community set to %q", id, community))
		case community:
			// identical labels, nothing to record
		default:
			merged := existing + "+" + community
			first.SetCommunity(merged)
			notes = append(notes, fmt.Sprintf("node %s: community merged to %q", id, merged))
		}
	}

	for key, secondValue := range second.Extras() {
		firstValue, present := first.Extra(key)
		if !present {
			first.SetExtra(key, secondValue)
			notes = append(notes, fmt.Sprintf("node %s: adopted metadata key %q", id, key))
			continue
		}

		if merged, changed := mergeByKind(firstValue, secondValue); changed {
			first.SetExtra(key, merged)
			notes = append(notes, fmt.Sprintf("node %s: merged metadata key %q", id, key))
		}
	}

	return notes
}

// ReconcileRelationship merges second's metadata into first. The first
// relationship's core payload (type, direction, endpoints) is untouched;
// only quality scores and the open metadata bag change.
func (mr *MetadataReconciler) ReconcileRelationship(first, second *aggregates.Relationship) []string {
	if first == nil || second == nil {
		return nil
	}

	var notes []string
	id := first.ID.String()

	if second.Strength > first.Strength {
		notes = append(notes, fmt.Sprintf("relationship %s: strength raised %.3f -> %.3f",
			id, first.Strength, second.Strength))
		first.Strength = second.Strength
	}

	if second.Metadata.Confidence > first.Metadata.Confidence {
		notes = append(notes, fmt.Sprintf("relationship %s: confidence raised %.3f -> %.3f",
			id, first.Metadata.Confidence, second.Metadata.Confidence))
		first.Metadata.Confidence = second.Metadata.Confidence
	}

	for key, secondValue := range second.Metadata.Extras {
		firstValue, present := first.Metadata.Extras[key]
		if !present {
			if first.Metadata.Extras == nil {
				first.Metadata.Extras = make(map[string]interface{})
			}
			first.Metadata.Extras[key] = secondValue
			notes = append(notes, fmt.Sprintf("relationship %s: adopted metadata key %q", id, key))
			continue
		}

		if merged, changed := mergeByKind(firstValue, secondValue); changed {
			first.Metadata.Extras[key] = merged
			notes = append(notes, fmt.Sprintf("relationship %s: merged metadata key %q", id, key))
		}
	}

	return notes
}

// mergeByKind merges two present values of an open metadata key.
// Returns the merged value and whether the first value was replaced.
func mergeByKind(first, second interface{}) (interface{}, bool) {
	firstKind := classifyMeta(first)
	secondKind := classifyMeta(second)

	switch {
	case firstKind == kindList && secondKind == kindList:
		return mergeLists(first, second), true
	case firstKind == kindMapping && secondKind == kindMapping:
		return mergeMappings(first.(map[string]interface{}), second.(map[string]interface{})), true
	default:
		// Scalars, opaque values, and mismatched kinds are first-wins
		return first, false
	}
}

// mergeLists concatenates two list values, normalizing to []interface{}
// unless both sides are []string
func mergeLists(first, second interface{}) interface{} {
	firstStrings, firstIsStrings := first.([]string)
	secondStrings, secondIsStrings := second.([]string)
	if firstIsStrings && secondIsStrings {
		merged := make([]string, 0, len(firstStrings)+len(secondStrings))
		merged = append(merged, firstStrings...)
		merged = append(merged, secondStrings...)
		return merged
	}

	merged := make([]interface{}, 0)
	merged = append(merged, toAnyList(first)...)
	merged = append(merged, toAnyList(second)...)
	return merged
}

// mergeMappings shallow-merges two mappings with the second's keys
// overriding on overlap
func mergeMappings(first, second map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(first)+len(second))
	for k, v := range first {
		merged[k] = v
	}
	for k, v := range second {
		merged[k] = v
	}
	return merged
}

func toAnyList(value interface{}) []interface{} {
	switch list := value.(type) {
	case []interface{}:
		return list
	case []string:
		result := make([]interface{}, len(list))
		for i, s := range list {
			result[i] = s
		}
		return result
	default:
		return nil
	}
}
