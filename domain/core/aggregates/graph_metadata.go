package aggregates

import (
	"sort"
	"time"

	"kgraph-backend/domain/core/entities"
)

// GraphMetadata contains graph-level information derived from the
// nodes the graph holds
type GraphMetadata struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SourceProjects []string
	KnowledgeTypes []entities.KnowledgeType
}

// recordNode folds a node's provenance into the metadata
func (m *GraphMetadata) recordNode(node *entities.Node) {
	if projectID := node.ProjectID(); projectID != "" {
		m.SourceProjects = appendUniqueString(m.SourceProjects, projectID)
	}
	if knowledgeType := node.Type(); knowledgeType != "" {
		m.KnowledgeTypes = appendUniqueType(m.KnowledgeTypes, knowledgeType)
	}
}

func appendUniqueString(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	list = append(list, value)
	sort.Strings(list)
	return list
}

func appendUniqueType(list []entities.KnowledgeType, value entities.KnowledgeType) []entities.KnowledgeType {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	list = append(list, value)
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}
