package entities

import "strings"

// Project describes the source project a knowledge item was harvested from.
// Project data is owned by an external context collaborator; only the parts
// relevant to similarity scoring are modeled here.
type Project struct {
	ID         string
	Name       string
	Languages  []string
	Frameworks []string
}

// SharesLanguageWith checks whether two projects declare a common language.
// Comparison is case-insensitive.
func (p Project) SharesLanguageWith(other Project) bool {
	if len(p.Languages) == 0 || len(other.Languages) == 0 {
		return false
	}

	langs := make(map[string]bool, len(p.Languages))
	for _, lang := range p.Languages {
		langs[strings.ToLower(strings.TrimSpace(lang))] = true
	}

	for _, lang := range other.Languages {
		if langs[strings.ToLower(strings.TrimSpace(lang))] {
			return true
		}
	}
	return false
}
