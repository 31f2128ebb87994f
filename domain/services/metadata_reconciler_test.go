package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgraph-backend/domain/core/aggregates"
	"kgraph-backend/domain/core/entities"
	"kgraph-backend/domain/core/valueobjects"
)

func reconcilerNode(t *testing.T, id string, importance float64) *entities.Node {
	t.Helper()
	node, err := entities.NewNode(entities.Knowledge{ID: id, Type: entities.KnowledgeTypePattern}, importance)
	require.NoError(t, err)
	return node
}

func TestReconcileNode_ImportanceTakesMax(t *testing.T) {
	mr := NewMetadataReconciler()

	tests := []struct {
		name     string
		first    float64
		second   float64
		expected float64
		changed  bool
	}{
		{name: "second higher", first: 0.4, second: 0.7, expected: 0.7, changed: true},
		{name: "first higher", first: 0.9, second: 0.2, expected: 0.9, changed: false},
		{name: "equal", first: 0.5, second: 0.5, expected: 0.5, changed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := reconcilerNode(t, "n1", tt.first)
			second := reconcilerNode(t, "n1", tt.second)

			notes := mr.ReconcileNode(first, second)

			assert.InDelta(t, tt.expected, first.Importance(), 1e-9)
			assert.InDelta(t, tt.second, second.Importance(), 1e-9)
			if tt.changed {
				assert.Len(t, notes, 1)
			} else {
				assert.Empty(t, notes)
			}
		})
	}
}

func TestReconcileNode_Centrality(t *testing.T) {
	mr := NewMetadataReconciler()

	t.Run("adopted when first has none", func(t *testing.T) {
		first := reconcilerNode(t, "n1", 0.5)
		second := reconcilerNode(t, "n1", 0.5)
		second.SetCentrality(0.6)

		mr.ReconcileNode(first, second)

		centrality, ok := first.Centrality()
		require.True(t, ok)
		assert.InDelta(t, 0.6, centrality, 1e-9)
	})

	t.Run("max wins when both set", func(t *testing.T) {
		first := reconcilerNode(t, "n1", 0.5)
		first.SetCentrality(0.8)
		second := reconcilerNode(t, "n1", 0.5)
		second.SetCentrality(0.3)

		notes := mr.ReconcileNode(first, second)

		centrality, ok := first.Centrality()
		require.True(t, ok)
		assert.InDelta(t, 0.8, centrality, 1e-9)
		assert.Empty(t, notes)
	})
}

func TestReconcileNode_Community(t *testing.T) {
	mr := NewMetadataReconciler()

	tests := []struct {
		name     string
		first    string
		second   string
		expected string
	}{
		{name: "adopted when first empty", first: "", second: "storage", expected: "storage"},
		{name: "kept when second empty", first: "storage", second: "", expected: "storage"},
		{name: "identical labels untouched", first: "storage", second: "storage", expected: "storage"},
		{name: "differing labels concatenate", first: "storage", second: "caching", expected: "storage+caching"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := reconcilerNode(t, "n1", 0.5)
			first.SetCommunity(tt.first)
			second := reconcilerNode(t, "n1", 0.5)
			second.SetCommunity(tt.second)

			mr.ReconcileNode(first, second)

			assert.Equal(t, tt.expected, first.Community())
			assert.Equal(t, tt.second, second.Community())
		})
	}
}

func TestReconcileNode_ExtrasMergeByKind(t *testing.T) {
	mr := NewMetadataReconciler()

	first := reconcilerNode(t, "n1", 0.5)
	first.SetExtra("sources", []string{"review"})
	first.SetExtra("scores", map[string]interface{}{"lint": 1, "vet": 2})
	first.SetExtra("origin", "manual")
	first.SetExtra("mixed", "scalar")

	second := reconcilerNode(t, "n1", 0.5)
	second.SetExtra("sources", []string{"import"})
	second.SetExtra("scores", map[string]interface{}{"vet": 9, "sec": 3})
	second.SetExtra("origin", "automated")
	second.SetExtra("mixed", []string{"list"})
	second.SetExtra("fresh", 42)

	mr.ReconcileNode(first, second)

	sources, _ := first.Extra("sources")
	assert.Equal(t, []string{"review", "import"}, sources)

	scores, _ := first.Extra("scores")
	assert.Equal(t, map[string]interface{}{"lint": 1, "vet": 9, "sec": 3}, scores)

	origin, _ := first.Extra("origin")
	assert.Equal(t, "manual", origin, "scalars are first-wins")

	mixed, _ := first.Extra("mixed")
	assert.Equal(t, "scalar", mixed, "mismatched kinds are first-wins")

	fresh, ok := first.Extra("fresh")
	require.True(t, ok)
	assert.Equal(t, 42, fresh, "absent keys are adopted")
}

func TestReconcileNode_NeverMutatesSecond(t *testing.T) {
	mr := NewMetadataReconciler()

	first := reconcilerNode(t, "n1", 0.3)
	second := reconcilerNode(t, "n1", 0.9)
	second.SetCommunity("caching")
	second.SetExtra("sources", []string{"import"})

	mr.ReconcileNode(first, second)

	assert.InDelta(t, 0.9, second.Importance(), 1e-9)
	assert.Equal(t, "caching", second.Community())
	sources, _ := second.Extra("sources")
	assert.Equal(t, []string{"import"}, sources)
}

func TestReconcileNode_NilInputs(t *testing.T) {
	mr := NewMetadataReconciler()
	node := reconcilerNode(t, "n1", 0.5)

	assert.Nil(t, mr.ReconcileNode(nil, node))
	assert.Nil(t, mr.ReconcileNode(node, nil))
}

func reconcilerRelationship(t *testing.T, id string, strength, confidence float64) *aggregates.Relationship {
	t.Helper()
	relID, err := valueobjects.NewRelationshipIDFromString(id)
	require.NoError(t, err)
	sourceID, err := valueobjects.NewNodeIDFromString("n1")
	require.NoError(t, err)
	targetID, err := valueobjects.NewNodeIDFromString("n2")
	require.NoError(t, err)

	return &aggregates.Relationship{
		ID:        relID,
		SourceID:  sourceID,
		TargetID:  targetID,
		Type:      entities.RelationshipTypeRelated,
		Strength:  strength,
		Direction: entities.DirectionBi,
		Metadata: aggregates.RelationshipMetadata{
			CreatedAt:  time.Now(),
			CreatedBy:  "test",
			Confidence: confidence,
		},
	}
}

func TestReconcileRelationship_QualityScoresTakeMax(t *testing.T) {
	mr := NewMetadataReconciler()

	first := reconcilerRelationship(t, "r1", 0.5, 0.9)
	second := reconcilerRelationship(t, "r1", 0.8, 0.4)

	notes := mr.ReconcileRelationship(first, second)

	assert.InDelta(t, 0.8, first.Strength, 1e-9)
	assert.InDelta(t, 0.9, first.Metadata.Confidence, 1e-9)
	assert.Len(t, notes, 1)

	// Core payload untouched
	assert.Equal(t, entities.RelationshipTypeRelated, first.Type)
	assert.Equal(t, entities.DirectionBi, first.Direction)
}

func TestReconcileRelationship_ExtrasMerge(t *testing.T) {
	mr := NewMetadataReconciler()

	first := reconcilerRelationship(t, "r1", 0.5, 0.5)
	second := reconcilerRelationship(t, "r1", 0.5, 0.5)
	second.Metadata.Extras = map[string]interface{}{"detector": "implicit"}

	mr.ReconcileRelationship(first, second)

	assert.Equal(t, "implicit", first.Metadata.Extras["detector"])
}
