package messaging

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FrameLink/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FrameLink/backend/internal/transport"
)

// dispatch is the single entry point for inbound transport events. It
// mutates no routing state: validation, proxy forwarding, local emission,
// nothing else.
func (m *Messenger) dispatch(ev transport.Event) {
	if !m.origins.Allowed(ev.Origin, m.fabric.SelfOrigin()) {
		m.drop(monitoring.DropOrigin)
		return
	}

	env, err := DecodeEnvelope(ev.Data)
	if err != nil {
		m.logger.Warn("Dropping malformed payload",
			zap.String("origin", ev.Origin),
			zap.Error(err),
		)
		m.drop(monitoring.DropMalformed)
		return
	}

	if !m.namespaces.Matches(env.Type) {
		m.drop(monitoring.DropNamespace)
		return
	}

	namespace := TypeNamespace(env.Type)

	for _, dest := range m.proxies.destinations(namespace) {
		if err := m.Post(dest, env.Type, env.Data, env.Options); err != nil {
			m.logger.Warn("Proxy forward failed",
				zap.String("type", env.Type),
				zap.String("destination", dest.ID()),
				zap.Error(err),
			)
			if m.metrics != nil {
				m.metrics.RecordDeliveryError("proxy")
			}
			continue
		}
		if m.metrics != nil {
			m.metrics.RecordForward(namespace)
		}
	}

	m.events.emit(env.Type, env.Data, ev.Source)
	if m.metrics != nil {
		m.metrics.RecordDispatch(namespace)
	}
}

func (m *Messenger) drop(reason string) {
	if m.metrics != nil {
		m.metrics.RecordDrop(reason)
	}
}
