package module

import dom "datapulse/internal/services/intel/domain"

// Ports holds the ports exposed by the intel module
type Ports struct {
	Processor dom.ProcessPort
}
