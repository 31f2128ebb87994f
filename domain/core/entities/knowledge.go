package entities

// KnowledgeType categorizes a knowledge item
type KnowledgeType string

const (
	KnowledgeTypePattern  KnowledgeType = "pattern"
	KnowledgeTypePractice KnowledgeType = "practice"
	KnowledgeTypeSolution KnowledgeType = "solution"
	KnowledgeTypeSnippet  KnowledgeType = "snippet"
	KnowledgeTypeInsight  KnowledgeType = "insight"
)

// String returns the string representation of the knowledge type
func (t KnowledgeType) String() string {
	return string(t)
}

// Well-known keys in the open metadata bag. The external store owns the bag;
// this core only reads these keys.
const (
	MetaKeyRelated         = "related"
	MetaKeyDependencies    = "dependencies"
	MetaKeyAppliedProjects = "appliedProjects"
)

// Knowledge is a reusable engineering item harvested from a project.
// It is owned by the external knowledge store; the graph core treats
// it as read-only input and never mutates it.
type Knowledge struct {
	ID               string
	Type             KnowledgeType
	Title            string
	Description      string
	Content          string
	Tags             []string
	ProjectID        string
	AccessCount      int
	ApplicationCount int
	Metadata         map[string]interface{}
}

// RelatedIDs returns the IDs of knowledge items this item declares as related
func (k Knowledge) RelatedIDs() []string {
	return k.metadataStringList(MetaKeyRelated)
}

// DependencyIDs returns the IDs of knowledge items this item depends on
func (k Knowledge) DependencyIDs() []string {
	return k.metadataStringList(MetaKeyDependencies)
}

// AppliedProjectCount returns how many distinct projects this item has been applied to
func (k Knowledge) AppliedProjectCount() int {
	return len(k.metadataStringList(MetaKeyAppliedProjects))
}

// HasTag checks if the item carries a specific tag
func (k Knowledge) HasTag(tag string) bool {
	for _, t := range k.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the knowledge item
func (k Knowledge) Clone() Knowledge {
	clone := k

	if k.Tags != nil {
		clone.Tags = make([]string, len(k.Tags))
		copy(clone.Tags, k.Tags)
	}

	if k.Metadata != nil {
		clone.Metadata = make(map[string]interface{}, len(k.Metadata))
		for key, value := range k.Metadata {
			clone.Metadata[key] = value
		}
	}

	return clone
}

// metadataStringList reads a metadata key as a list of strings.
// The bag arrives from arbitrary serialization, so both []string and
// []interface{} encodings are accepted; anything else reads as empty.
func (k Knowledge) metadataStringList(key string) []string {
	raw, ok := k.Metadata[key]
	if !ok {
		return nil
	}

	switch values := raw.(type) {
	case []string:
		result := make([]string, 0, len(values))
		for _, v := range values {
			if v != "" {
				result = append(result, v)
			}
		}
		return result
	case []interface{}:
		result := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.(string); ok && s != "" {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}
