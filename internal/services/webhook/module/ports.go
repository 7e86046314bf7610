package module

import dom "datapulse/internal/services/webhook/domain"

// Ports holds the ports exposed by the webhook module
type Ports struct {
	Dispatcher dom.DispatchPort
}
