package module

import projects "datapulse/internal/services/projects/domain"

// Ports are what the insights module consumes from sibling modules
type Ports struct {
	Projects projects.LookupPort
}
