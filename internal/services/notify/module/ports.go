package module

import dom "datapulse/internal/services/notify/domain"

// Ports holds the ports exposed by the notify module
type Ports struct {
	Notifier dom.NotifyPort
}
