package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode(t *testing.T) {
	t.Run("derives its ID from the knowledge item", func(t *testing.T) {
		node, err := NewNode(Knowledge{ID: "k1", Type: KnowledgeTypePattern, ProjectID: "p1"}, 0.7)

		require.NoError(t, err)
		assert.Equal(t, "k1", node.ID().String())
		assert.Equal(t, KnowledgeTypePattern, node.Type())
		assert.Equal(t, "p1", node.ProjectID())
		assert.InDelta(t, 0.7, node.Importance(), 1e-9)
	})

	t.Run("rejects knowledge without an ID", func(t *testing.T) {
		_, err := NewNode(Knowledge{Title: "nameless"}, 0.5)
		require.Error(t, err)
	})

	t.Run("clamps importance", func(t *testing.T) {
		tests := []struct {
			name     string
			input    float64
			expected float64
		}{
			{name: "below zero", input: -0.5, expected: 0.0},
			{name: "above one", input: 1.3, expected: 1.0},
			{name: "in range", input: 0.42, expected: 0.42},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				node, err := NewNode(Knowledge{ID: "k1"}, tt.input)
				require.NoError(t, err)
				assert.InDelta(t, tt.expected, node.Importance(), 1e-9)
			})
		}
	})
}

func TestNode_Centrality(t *testing.T) {
	node, err := NewNode(Knowledge{ID: "k1"}, 0.5)
	require.NoError(t, err)

	_, ok := node.Centrality()
	assert.False(t, ok, "centrality starts unset")

	node.SetCentrality(1.7)
	centrality, ok := node.Centrality()
	require.True(t, ok)
	assert.InDelta(t, 1.0, centrality, 1e-9, "centrality is clamped")
}

func TestNode_ExtrasReturnsCopy(t *testing.T) {
	node, err := NewNode(Knowledge{ID: "k1"}, 0.5)
	require.NoError(t, err)
	node.SetExtra("source", "builder")

	extras := node.Extras()
	extras["source"] = "tampered"

	value, ok := node.Extra("source")
	require.True(t, ok)
	assert.Equal(t, "builder", value)
}

func TestNode_Clone(t *testing.T) {
	node, err := NewNode(Knowledge{ID: "k1", Tags: []string{"go"}}, 0.5)
	require.NoError(t, err)
	node.SetCentrality(0.4)
	node.SetCommunity("storage")
	node.SetExtra("source", "builder")

	clone := node.Clone()
	clone.SetImportance(0.9)
	clone.SetCentrality(0.8)
	clone.SetCommunity("caching")
	clone.SetExtra("source", "merger")

	assert.InDelta(t, 0.5, node.Importance(), 1e-9)
	centrality, _ := node.Centrality()
	assert.InDelta(t, 0.4, centrality, 1e-9)
	assert.Equal(t, "storage", node.Community())
	value, _ := node.Extra("source")
	assert.Equal(t, "builder", value)
}

func TestRelationshipType_IsValid(t *testing.T) {
	valid := []RelationshipType{
		RelationshipTypeRelated,
		RelationshipTypeDependsOn,
		RelationshipTypeExtends,
		RelationshipTypeImplements,
		RelationshipTypeSimilarTo,
		RelationshipTypeContradicts,
		RelationshipTypeReplaces,
		RelationshipTypeCustom,
	}
	for _, rt := range valid {
		assert.True(t, rt.IsValid(), rt.String())
	}

	assert.False(t, RelationshipType("").IsValid())
	assert.False(t, RelationshipType("FRIENDS_WITH").IsValid())
}

func TestDirection_IsValid(t *testing.T) {
	assert.True(t, DirectionUni.IsValid())
	assert.True(t, DirectionBi.IsValid())
	assert.False(t, Direction("").IsValid())
	assert.False(t, Direction("circular").IsValid())
}

func TestProject_SharesLanguageWith(t *testing.T) {
	tests := []struct {
		name     string
		a        Project
		b        Project
		expected bool
	}{
		{
			name:     "shared language",
			a:        Project{ID: "p1", Languages: []string{"Go", "SQL"}},
			b:        Project{ID: "p2", Languages: []string{"go"}},
			expected: true,
		},
		{
			name:     "no shared language",
			a:        Project{ID: "p1", Languages: []string{"go"}},
			b:        Project{ID: "p2", Languages: []string{"python"}},
			expected: false,
		},
		{
			name:     "empty language lists",
			a:        Project{ID: "p1"},
			b:        Project{ID: "p2"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.SharesLanguageWith(tt.b))
			assert.Equal(t, tt.expected, tt.b.SharesLanguageWith(tt.a))
		})
	}
}
