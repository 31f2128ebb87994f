package ports

import (
	"context"

	"kgraph-backend/domain/core/entities"
)

// KnowledgeQuery filters the knowledge items a store query returns.
// Zero-valued fields do not filter.
type KnowledgeQuery struct {
	// ProjectIDs restricts results to items harvested from these projects
	ProjectIDs []string

	// Types restricts results to these knowledge types
	Types []entities.KnowledgeType

	// Tags restricts results to items carrying at least one of these tags
	Tags []string

	// Limit caps the number of returned items; 0 means no cap
	Limit int
}

// KnowledgeStore is the port to the external knowledge persistence layer.
// This is the graph builder's only upstream dependency and its only
// suspension point; retry and backoff policy belong to implementations,
// not to the graph core.
type KnowledgeStore interface {
	// Query returns the knowledge items matching the filter. An empty
	// result is valid, not an error.
	Query(ctx context.Context, query KnowledgeQuery) ([]entities.Knowledge, error)
}
