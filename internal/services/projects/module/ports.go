package module

import "datapulse/internal/services/projects/domain"

// Ports holds the ports exposed by the projects module
type Ports struct {
	Lookup domain.LookupPort
}
