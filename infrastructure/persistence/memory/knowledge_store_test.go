package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgraph-backend/application/ports"
	"kgraph-backend/domain/core/entities"
)

func seededStore() *KnowledgeStore {
	store := NewKnowledgeStore()
	store.PutAll(
		entities.Knowledge{ID: "k1", Type: entities.KnowledgeTypePattern, ProjectID: "p1", Tags: []string{"go"}},
		entities.Knowledge{ID: "k2", Type: entities.KnowledgeTypeSolution, ProjectID: "p1", Tags: []string{"sql"}},
		entities.Knowledge{ID: "k3", Type: entities.KnowledgeTypePattern, ProjectID: "p2", Tags: []string{"go", "web"}},
	)
	return store
}

func TestKnowledgeStore_Query(t *testing.T) {
	tests := []struct {
		name     string
		query    ports.KnowledgeQuery
		expected []string
	}{
		{
			name:     "no filter returns everything sorted by ID",
			query:    ports.KnowledgeQuery{},
			expected: []string{"k1", "k2", "k3"},
		},
		{
			name:     "filter by project",
			query:    ports.KnowledgeQuery{ProjectIDs: []string{"p1"}},
			expected: []string{"k1", "k2"},
		},
		{
			name:     "filter by type",
			query:    ports.KnowledgeQuery{Types: []entities.KnowledgeType{entities.KnowledgeTypePattern}},
			expected: []string{"k1", "k3"},
		},
		{
			name:     "filter by tag",
			query:    ports.KnowledgeQuery{Tags: []string{"go"}},
			expected: []string{"k1", "k3"},
		},
		{
			name: "filters combine",
			query: ports.KnowledgeQuery{
				ProjectIDs: []string{"p1"},
				Types:      []entities.KnowledgeType{entities.KnowledgeTypePattern},
			},
			expected: []string{"k1"},
		},
		{
			name:     "limit truncates deterministically",
			query:    ports.KnowledgeQuery{Limit: 2},
			expected: []string{"k1", "k2"},
		},
		{
			name:     "no match yields empty",
			query:    ports.KnowledgeQuery{ProjectIDs: []string{"p9"}},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			items, err := store.Query(context.Background(), tt.query)
			require.NoError(t, err)

			ids := make([]string, 0, len(items))
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			if tt.expected == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.expected, ids)
			}
		})
	}
}

func TestKnowledgeStore_QueryHonorsContext(t *testing.T) {
	store := seededStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Query(ctx, ports.KnowledgeQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKnowledgeStore_PutReplacesAndIsolates(t *testing.T) {
	store := NewKnowledgeStore()
	item := entities.Knowledge{ID: "k1", Title: "first", Tags: []string{"go"}}
	store.Put(item)

	// Mutating the caller's copy must not reach the store
	item.Tags[0] = "tampered"
	item.Title = "changed"

	results, err := store.Query(context.Background(), ports.KnowledgeQuery{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "first", results[0].Title)
	assert.Equal(t, []string{"go"}, results[0].Tags)

	// Mutating a query result must not reach the store either
	results[0].Tags[0] = "tampered"
	again, err := store.Query(context.Background(), ports.KnowledgeQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, again[0].Tags)

	// Same ID replaces
	store.Put(entities.Knowledge{ID: "k1", Title: "second"})
	assert.Equal(t, 1, store.Len())
}

func TestProjectDirectory(t *testing.T) {
	directory := NewProjectDirectory()
	directory.Put(entities.Project{ID: "p1", Name: "backend", Languages: []string{"go"}})

	project, ok := directory.GetProject("p1")
	require.True(t, ok)
	assert.Equal(t, "backend", project.Name)

	_, ok = directory.GetProject("p9")
	assert.False(t, ok)
}
