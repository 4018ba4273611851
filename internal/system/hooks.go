package system

import (
	"github.com/dcbact/engine/internal/core/event"
	"github.com/dcbact/engine/internal/world"
	"go.uber.org/zap"
)

// RoomHooks is told when a character enters a location.
type RoomHooks interface {
	OnEnterLocation(charID, from, to, box int)
}

// Handlers reacts to the events the locomotion layer emits.
type Handlers struct {
	World *world.State
	Scene *Scene
	Hooks RoomHooks // may be nil
	Log   *zap.Logger
}

// Subscribe registers the handlers on bus.
func (h *Handlers) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, h.locationChanged)
	event.Subscribe(bus, h.housingOverflow)
	event.Subscribe(bus, h.actorUnloaded)
}

func (h *Handlers) locationChanged(e event.LocationChanged) {
	h.Log.Debug("location changed",
		zap.Int("char", e.CharID), zap.Int("from", e.From), zap.Int("to", e.To), zap.Int("box", e.Box))
	h.entered(e.CharID, e.From, e.To, e.Box)
}

func (h *Handlers) housingOverflow(e event.HousingOverflow) {
	h.entered(e.CharID, e.Location, e.DestLoc, e.DestBox)
}

func (h *Handlers) actorUnloaded(e event.ActorUnloaded) {
	h.Log.Debug("actor released", zap.Uint32("slot", e.Handle.Index()), zap.String("sheet", e.Sheet))
}

func (h *Handlers) entered(charID, from, to, box int) {
	if h.Hooks != nil {
		h.Hooks.OnEnterLocation(charID, from, to, box)
	}
	ch := h.World.Get(charID)
	if ch == nil || !h.World.IsLead(ch) || h.Scene == nil || ch.Location != to {
		return
	}
	h.Scene.Follow(to)
}
