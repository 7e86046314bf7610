package module

import dom "datapulse/internal/services/tasks/domain"

// Ports holds the ports exposed by the tasks module
type Ports struct {
	Runner dom.RunnerPort
}
