package services

import (
	"regexp"
	"strings"

	"kgraph-backend/domain/core/entities"
)

// ProjectDirectory resolves project information for similarity scoring.
// Implementations must be safe for concurrent reads and must not block:
// the similarity engine is pure computation, so any I/O belongs in the
// collaborator that populates the directory.
type ProjectDirectory interface {
	// GetProject returns the project for the given ID, or false if the
	// project cannot be resolved
	GetProject(id string) (entities.Project, bool)
}

// SimilarityConfig tunes the node similarity factors
type SimilarityConfig struct {
	TypeMatchScore      float64 // Score when both nodes share a knowledge type
	TypeMismatchScore   float64 // Score when the types differ
	SameProjectScore    float64 // Affinity when both items come from one project
	SharedLanguageScore float64 // Affinity when the projects share a language
	BaseProjectScore    float64 // Affinity floor for unrelated projects
	MinTokenLength      int     // Tokens of this length or shorter are discarded
}

// DefaultSimilarityConfig returns a balanced default configuration
func DefaultSimilarityConfig() *SimilarityConfig {
	return &SimilarityConfig{
		TypeMatchScore:      1.0,
		TypeMismatchScore:   0.2,
		SameProjectScore:    0.8,
		SharedLanguageScore: 0.5,
		BaseProjectScore:    0.1,
		MinTokenLength:      3,
	}
}

// nonWord matches runs of characters that are not word characters;
// they are treated as token separators
var nonWord = regexp.MustCompile(`\W+`)

// SimilarityCalculator computes text and node similarity scores.
// All methods are deterministic and side-effect free, so results can be
// cached or property-tested independently.
type SimilarityCalculator struct {
	config   *SimilarityConfig
	projects ProjectDirectory
}

// NewSimilarityCalculator creates a similarity calculator. The project
// directory is optional; without one the project-affinity factor never
// applies.
func NewSimilarityCalculator(config *SimilarityConfig, projects ProjectDirectory) *SimilarityCalculator {
	if config == nil {
		config = DefaultSimilarityConfig()
	}
	return &SimilarityCalculator{
		config:   config,
		projects: projects,
	}
}

// TextSimilarity computes the Jaccard similarity of the significant token
// sets of two strings. Returns 0 when neither string has a qualifying token.
func (sc *SimilarityCalculator) TextSimilarity(a, b string) float64 {
	tokensA := sc.tokenize(a)
	tokensB := sc.tokenize(b)

	intersection := 0
	union := make(map[string]bool, len(tokensA)+len(tokensB))

	for token := range tokensA {
		union[token] = true
		if tokensB[token] {
			intersection++
		}
	}
	for token := range tokensB {
		union[token] = true
	}

	if len(union) == 0 {
		return 0.0
	}

	return float64(intersection) / float64(len(union))
}

// NodeSimilarity scores how similar two nodes are, averaging the factors
// that actually apply:
//   - knowledge type match (always applies)
//   - tag overlap (only when both nodes carry tags)
//   - content similarity (always applies)
//   - project affinity (only when the IDs match or both projects resolve)
//
// Returns a score in [0,1]; 0 if no factor applied.
func (sc *SimilarityCalculator) NodeSimilarity(a, b *entities.Node) float64 {
	if a == nil || b == nil {
		return 0.0
	}

	total := 0.0
	factors := 0

	// Type match
	if a.Type() == b.Type() {
		total += sc.config.TypeMatchScore
	} else {
		total += sc.config.TypeMismatchScore
	}
	factors++

	// Tag overlap
	tagsA := normalizeTags(a.Knowledge().Tags)
	tagsB := normalizeTags(b.Knowledge().Tags)
	if len(tagsA) > 0 && len(tagsB) > 0 {
		common := 0
		for tag := range tagsA {
			if tagsB[tag] {
				common++
			}
		}
		larger := len(tagsA)
		if len(tagsB) > larger {
			larger = len(tagsB)
		}
		total += float64(common) / float64(larger)
		factors++
	}

	// Content similarity
	total += sc.TextSimilarity(a.Knowledge().Content, b.Knowledge().Content)
	factors++

	// Project affinity
	if affinity, ok := sc.projectAffinity(a.ProjectID(), b.ProjectID()); ok {
		total += affinity
		factors++
	}

	if factors == 0 {
		return 0.0
	}

	return total / float64(factors)
}

// projectAffinity scores the relatedness of two source projects. Matching
// IDs mean the same project regardless of directory contents; differing IDs
// need both projects to resolve before the factor applies.
func (sc *SimilarityCalculator) projectAffinity(projectA, projectB string) (float64, bool) {
	if sc.projects == nil || projectA == "" || projectB == "" {
		return 0, false
	}

	if projectA == projectB {
		return sc.config.SameProjectScore, true
	}

	a, okA := sc.projects.GetProject(projectA)
	b, okB := sc.projects.GetProject(projectB)
	if !okA || !okB {
		return 0, false
	}

	if a.SharesLanguageWith(b) {
		return sc.config.SharedLanguageScore, true
	}

	return sc.config.BaseProjectScore, true
}

// tokenize lowercases the text, strips non-word characters, and keeps
// tokens longer than the configured minimum length
func (sc *SimilarityCalculator) tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)

	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	for _, token := range strings.Fields(cleaned) {
		if len(token) > sc.config.MinTokenLength {
			tokens[token] = true
		}
	}

	return tokens
}

func normalizeTags(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized != "" {
			set[normalized] = true
		}
	}
	return set
}
