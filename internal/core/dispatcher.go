package core

import (
	"github.com/rs/zerolog/log"

	"chatrelay/internal/domain"
)

// DeliveryReport tells the caller how a fan-out went. Send failures are
// recorded here and logged, never raised.
type DeliveryReport struct {
	Delivered int
	Failed    []Token
}

// Dispatcher fans events out to every connection registered in a room.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Broadcast delivers an event to every member of the room except
// exclude (pass "" to exclude nobody). The membership snapshot is taken
// and released before any send, so a slow peer never stalls registry
// operations. Delivery to each handle is independent; a failure on one
// does not abort the others.
func (d *Dispatcher) Broadcast(id domain.RoomID, ev domain.Event, exclude Token) DeliveryReport {
	var rep DeliveryReport

	frame, err := domain.EncodeEvent(ev)
	if err != nil {
		log.Error().Str("module", "core.dispatcher").Str("room", string(id)).Err(err).Msg("encode event")
		return rep
	}

	for _, m := range d.registry.MembersOf(id) {
		if exclude != "" && m.Token == exclude {
			continue
		}
		if err := m.Conn.TrySend(frame); err != nil {
			rep.Failed = append(rep.Failed, m.Token)
			log.Warn().Str("module", "core.dispatcher").Str("room", string(id)).Str("token", string(m.Token)).Err(err).Msg("delivery failed")
			continue
		}
		rep.Delivered++
	}

	log.Debug().Str("module", "core.dispatcher").Str("room", string(id)).Int("delivered", rep.Delivered).Int("failed", len(rep.Failed)).Msg("broadcast result")
	return rep
}
