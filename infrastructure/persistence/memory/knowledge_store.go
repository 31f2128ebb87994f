package memory

import (
	"context"
	"sort"
	"sync"

	"kgraph-backend/application/ports"
	"kgraph-backend/domain/core/entities"
)

// KnowledgeStore is an in-memory implementation of the knowledge store
// port. It backs tests and local fixtures; production deployments plug in
// their own store behind the same port.
type KnowledgeStore struct {
	mu    sync.RWMutex
	items map[string]entities.Knowledge
}

// NewKnowledgeStore creates an empty in-memory knowledge store
func NewKnowledgeStore() *KnowledgeStore {
	return &KnowledgeStore{
		items: make(map[string]entities.Knowledge),
	}
}

// Put stores a knowledge item, replacing any existing item with the same ID
func (s *KnowledgeStore) Put(item entities.Knowledge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item.Clone()
}

// PutAll stores multiple knowledge items
func (s *KnowledgeStore) PutAll(items ...entities.Knowledge) {
	for _, item := range items {
		s.Put(item)
	}
}

// Len returns the number of stored items
func (s *KnowledgeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Query returns items matching the filter, sorted by ID for deterministic
// results
func (s *KnowledgeStore) Query(ctx context.Context, query ports.KnowledgeQuery) ([]entities.Knowledge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []entities.Knowledge
	for _, item := range s.items {
		if matches(item, query) {
			results = append(results, item.Clone())
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}

	return results, nil
}

func matches(item entities.Knowledge, query ports.KnowledgeQuery) bool {
	if len(query.ProjectIDs) > 0 && !containsString(query.ProjectIDs, item.ProjectID) {
		return false
	}

	if len(query.Types) > 0 {
		found := false
		for _, t := range query.Types {
			if item.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(query.Tags) > 0 {
		found := false
		for _, tag := range query.Tags {
			if item.HasTag(tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
