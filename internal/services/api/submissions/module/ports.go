package module

import (
	intel "datapulse/internal/services/intel/domain"
	notify "datapulse/internal/services/notify/domain"
	projects "datapulse/internal/services/projects/domain"
	tasks "datapulse/internal/services/tasks/domain"
	webhook "datapulse/internal/services/webhook/domain"
)

// Ports are what the submissions module consumes from sibling modules
// Projects and Runner are required; the rest turn their fan out task off when nil
type Ports struct {
	Projects projects.LookupPort
	Runner   tasks.RunnerPort
	Webhooks webhook.DispatchPort
	Notifier notify.NotifyPort
	Intel    intel.ProcessPort
}
