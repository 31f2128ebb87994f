package memory

import (
	"sync"

	"kgraph-backend/domain/core/entities"
)

// ProjectDirectory is an in-memory implementation of the project context
// collaborator used by the similarity engine's project-affinity factor
type ProjectDirectory struct {
	mu       sync.RWMutex
	projects map[string]entities.Project
}

// NewProjectDirectory creates an empty in-memory project directory
func NewProjectDirectory() *ProjectDirectory {
	return &ProjectDirectory{
		projects: make(map[string]entities.Project),
	}
}

// Put stores a project, replacing any existing project with the same ID
func (d *ProjectDirectory) Put(project entities.Project) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.projects[project.ID] = project
}

// GetProject returns the project for the given ID, or false if unknown
func (d *ProjectDirectory) GetProject(id string) (entities.Project, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	project, ok := d.projects[id]
	return project, ok
}
